package tour

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/apitour/handler"
	"github.com/dmitrymomot/apitour/pkg/file"
	"github.com/dmitrymomot/apitour/pkg/logger"
	"github.com/dmitrymomot/apitour/svc/catalog"
)

func (m *Module) root(handler.Context, emptyRequest) handler.Response {
	return handler.JSON(map[string]string{"message": "Hello World"})
}

func (m *Module) listItems(_ handler.Context, req listItemsRequest) handler.Response {
	start := min(req.Skip, len(fakeItemsDB))
	end := min(start+req.Limit, len(fakeItemsDB))
	return handler.JSON(fakeItemsDB[start:end])
}

func (m *Module) searchItems(_ handler.Context, req searchItemsRequest) handler.Response {
	result := map[string]any{
		"items": []map[string]string{{"item_id": "Foo"}, {"item_id": "Bar"}},
	}
	if req.Q != nil && *req.Q != "" {
		result["q"] = *req.Q
	}
	return handler.JSON(result)
}

func (m *Module) itemTags(_ handler.Context, req itemTagsRequest) handler.Response {
	return handler.JSON(map[string]any{"q": req.Q})
}

func (m *Module) readItem(_ handler.Context, req readItemRequest) handler.Response {
	result := map[string]any{"item_id": req.ItemID}
	if req.Q != nil && *req.Q != "" {
		result["q"] = *req.Q
	}
	return handler.JSON(result)
}

func (m *Module) catalogItem(ctx handler.Context, req catalogItemRequest) handler.Response {
	item, err := m.catalog.Get(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return handler.JSONError(handler.ErrNotFound.WithMessage("Item not found"))
		}
		return handler.Error(err)
	}
	return handler.JSON(item)
}

func (m *Module) createItem(_ handler.Context, req createItemRequest) handler.Response {
	out := ItemOut{Item: req.Item.withDefaults()}
	if req.Item.Tax != nil && *req.Item.Tax != 0 {
		priceWithTax := req.Item.Price + *req.Item.Tax
		out.PriceWithTax = &priceWithTax
	}
	if req.Q != nil && *req.Q != "" {
		out.Q = req.Q
	}
	return handler.JSON(out)
}

func (m *Module) updateItem(_ handler.Context, req updateItemRequest) handler.Response {
	return handler.JSON(map[string]any{
		"item_id": req.ItemID,
		"item":    req.Item.withDefaults(),
		"user":    req.User,
	})
}

func (m *Module) readUserMe(handler.Context, emptyRequest) handler.Response {
	return handler.JSON(map[string]string{"user_id": "the current user"})
}

func (m *Module) readUser(_ handler.Context, req readUserRequest) handler.Response {
	return handler.JSON(map[string]string{"user_id": req.UserID})
}

func (m *Module) readUserItem(_ handler.Context, req readUserItemRequest) handler.Response {
	item := map[string]any{"item_id": req.ItemID, "owner_id": req.UserID}
	if req.Q != nil && *req.Q != "" {
		item["q"] = *req.Q
	}
	if !req.Short {
		item["description"] = longDescription
	}
	return handler.JSON(item)
}

func (m *Module) readModel(_ handler.Context, req modelRequest) handler.Response {
	return handler.JSON(map[string]any{
		"model_name": req.ModelName,
		"message":    req.ModelName.Message(),
	})
}

func (m *Module) readFile(_ handler.Context, req filePathRequest) handler.Response {
	return handler.JSON(map[string]string{"file_path": req.FilePath})
}

func (m *Module) readCookies(_ handler.Context, req cookieRequest) handler.Response {
	return handler.JSON(map[string]*string{"ads_id": req.AdsID})
}

func (m *Module) readHeaders(_ handler.Context, req headerRequest) handler.Response {
	return handler.JSON(map[string]*string{"User-Agent": req.UserAgent})
}

func (m *Module) createUser(ctx handler.Context, req createUserRequest) handler.Response {
	saved, err := m.users.Save(ctx, req.User)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(saved)
}

func (m *Module) login(_ handler.Context, req loginRequest) handler.Response {
	return handler.JSON(map[string]string{"username": req.Username})
}

func (m *Module) createFile(_ handler.Context, req fileBytesRequest) handler.Response {
	return handler.JSON(map[string]int{"file_size": len(req.File)})
}

func (m *Module) uploadFile(ctx handler.Context, req uploadFileRequest) handler.Response {
	result := map[string]string{"filename": req.File.Filename}
	if m.uploads == nil {
		return handler.JSON(result)
	}

	obj, err := m.uploads.Save(ctx, req.File, file.ObjectKey("uploads", req.File.Filename))
	if err != nil {
		return handler.Error(err)
	}
	m.log.InfoContext(ctx, "file uploaded",
		logger.Event("file.uploaded"),
		slog.String("key", obj.Key),
		slog.Int64("size", obj.Size),
		slog.String("mime_type", obj.MIMEType),
	)

	result["url"] = obj.URL
	return handler.JSON(result)
}

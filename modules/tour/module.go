// Package tour serves the request and response binding demo endpoints.
package tour

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/apitour/handler"
	"github.com/dmitrymomot/apitour/pkg/binder"
	"github.com/dmitrymomot/apitour/pkg/file"
	"github.com/dmitrymomot/apitour/pkg/logger"
	"github.com/dmitrymomot/apitour/pkg/projection"
	"github.com/dmitrymomot/apitour/svc/catalog"
	"github.com/dmitrymomot/apitour/svc/user"
)

// Options configures the module. Catalog and Users are required;
// Uploads is optional and enables persisting POST /uploadfile/ uploads.
type Options struct {
	Catalog      catalog.Store
	Users        *user.Service
	Uploads      file.Storage
	ErrorHandler handler.ErrorHandler[handler.Context]
	Logger       *slog.Logger
}

type Module struct {
	catalog      catalog.Store
	users        *user.Service
	uploads      file.Storage
	errorHandler handler.ErrorHandler[handler.Context]
	log          *slog.Logger
}

func New(opts Options) *Module {
	if opts.Catalog == nil {
		panic("tour: catalog store is required")
	}
	if opts.Users == nil {
		opts.Users = user.NewService(nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = handler.NewErrorHandler(opts.Logger)
	}

	return &Module{
		catalog:      opts.Catalog,
		users:        opts.Users,
		uploads:      opts.Uploads,
		errorHandler: opts.ErrorHandler,
		log:          opts.Logger.With(logger.Component("tour")),
	}
}

var (
	catalogItemModel = projection.OneOf("type",
		projection.Variant{Tag: "plane", Model: projection.Of[PlaneItem]()},
		projection.Variant{Tag: "car", Model: projection.Of[CarItem]()},
	)
	itemOutModel = projection.Of[ItemOut]()
	userOutModel = projection.Of[user.Out]()
)

// Handle returns the module router.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Get("/", wrap(m, m.root))

	r.Get("/items", wrap(m, m.listItems,
		handler.WithBinders[handler.Context, listItemsRequest](binder.Query()),
	))
	r.Get("/items/", wrap(m, m.searchItems,
		handler.WithBinders[handler.Context, searchItemsRequest](binder.Query()),
	))
	r.Get("/items/tags", wrap(m, m.itemTags,
		handler.WithBinders[handler.Context, itemTagsRequest](binder.Query()),
	))
	// Numeric ids match the regexp segment first; anything else is a catalogue lookup.
	r.Get("/items/{item_id:-?[0-9]+}", wrap(m, m.readItem,
		handler.WithBinders[handler.Context, readItemRequest](path, binder.Query()),
	))
	r.Get("/items/{item_id}", wrap(m, m.catalogItem,
		handler.WithBinders[handler.Context, catalogItemRequest](path),
		handler.WithResponseModel[handler.Context, catalogItemRequest](catalogItemModel),
	))
	r.Post("/items/", wrap(m, m.createItem,
		handler.WithBinders[handler.Context, createItemRequest](binder.JSON(), binder.Query()),
		handler.WithResponseModel[handler.Context, createItemRequest](itemOutModel),
	))
	r.Put("/items/{item_id}", wrap(m, m.updateItem,
		handler.WithBinders[handler.Context, updateItemRequest](path, binder.JSON()),
	))

	r.Get("/users/me", wrap(m, m.readUserMe))
	r.Get("/users/{user_id}", wrap(m, m.readUser,
		handler.WithBinders[handler.Context, readUserRequest](path),
	))
	r.Get("/users/{user_id}/items/{item_id}", wrap(m, m.readUserItem,
		handler.WithBinders[handler.Context, readUserItemRequest](path, binder.Query()),
	))

	r.Get("/models/{model_name}", wrap(m, m.readModel,
		handler.WithBinders[handler.Context, modelRequest](path),
	))
	r.Get("/files/*", wrap(m, m.readFile,
		handler.WithBinders[handler.Context, filePathRequest](path),
	))
	r.Get("/cookies/", wrap(m, m.readCookies,
		handler.WithBinders[handler.Context, cookieRequest](binder.Cookie()),
	))
	r.Get("/headers/", wrap(m, m.readHeaders,
		handler.WithBinders[handler.Context, headerRequest](binder.Header()),
	))

	r.Post("/user/", wrap(m, m.createUser,
		handler.WithBinders[handler.Context, createUserRequest](binder.JSON()),
		handler.WithResponseModel[handler.Context, createUserRequest](userOutModel),
	))
	r.Post("/login/", wrap(m, m.login,
		handler.WithBinders[handler.Context, loginRequest](binder.Form()),
	))
	r.Post("/files/", wrap(m, m.createFile,
		handler.WithBinders[handler.Context, fileBytesRequest](binder.Form()),
	))
	r.Post("/uploadfile/", wrap(m, m.uploadFile,
		handler.WithBinders[handler.Context, uploadFileRequest](binder.Form()),
	))

	return r
}

// wrap applies the module error handler ahead of route specific options.
func wrap[R any](m *Module, fn handler.HandlerFunc[handler.Context, R], opts ...handler.WrapOption[handler.Context, R]) http.HandlerFunc {
	opts = append([]handler.WrapOption[handler.Context, R]{
		handler.WithErrorHandler[handler.Context, R](m.errorHandler),
	}, opts...)
	return handler.Wrap(fn, opts...)
}

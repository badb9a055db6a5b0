package tour

import (
	"mime/multipart"
	"regexp"

	"github.com/dmitrymomot/apitour/pkg/validator"
	"github.com/dmitrymomot/apitour/svc/user"
)

type emptyRequest struct{}

type listItemsRequest struct {
	Skip  int `query:"skip" default:"0"`
	Limit int `query:"limit" default:"10"`
}

func (r listItemsRequest) Validate() error {
	return validator.Apply(
		validator.Min("query.skip", r.Skip, 0),
		validator.Min("query.limit", r.Limit, 0),
	)
}

var fixedQuery = regexp.MustCompile(`^fixedquery$`)

type searchItemsRequest struct {
	Q *string `query:"q"`
}

func (r searchItemsRequest) Validate() error {
	if r.Q == nil {
		return nil
	}
	return validator.Apply(
		validator.LenBetween("query.q", *r.Q, 3, 50),
		validator.Matches("query.q", *r.Q, fixedQuery),
	)
}

type itemTagsRequest struct {
	Q []string `query:"q" default:"foo,bar"`
}

type readItemRequest struct {
	ItemID int     `path:"item_id"`
	Q      *string `query:"item-query"`
}

type catalogItemRequest struct {
	ItemID string `path:"item_id"`
}

type createItemRequest struct {
	Item Item    `body:"item"`
	Q    *string `query:"q"`
}

func (r createItemRequest) Validate() error {
	return validator.Apply(r.Item.rules("body")...)
}

type updateItemRequest struct {
	ItemID     int  `path:"item_id"`
	Item       Item `body:"item"`
	User       User `body:"user"`
	Importance int  `body:"importance"`
}

func (r updateItemRequest) Validate() error {
	rules := append(r.Item.rules("body.item"), validator.Min("body.importance", r.Importance, 1))
	return validator.Apply(rules...)
}

type readUserRequest struct {
	UserID string `path:"user_id"`
}

type readUserItemRequest struct {
	UserID int     `path:"user_id"`
	ItemID string  `path:"item_id"`
	Q      *string `query:"q"`
	Short  bool    `query:"short" default:"false"`
}

type modelRequest struct {
	ModelName ModelName `path:"model_name"`
}

type filePathRequest struct {
	FilePath string `path:"*"`
}

type cookieRequest struct {
	AdsID *string `cookie:"ads_id"`
}

type headerRequest struct {
	UserAgent *string `header:"User-Agent"`
}

type createUserRequest struct {
	User user.In `body:"user"`
}

func (r createUserRequest) Validate() error {
	return r.User.Validate("body")
}

type loginRequest struct {
	Username string `form:"username,required"`
	Password string `form:"password,required"`
}

type fileBytesRequest struct {
	File []byte `file:"file,required"`
}

type uploadFileRequest struct {
	File *multipart.FileHeader `file:"file,required"`
}

package tour

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/apitour/pkg/validator"
)

// Item is the item payload accepted by POST /items/ and PUT /items/{item_id}.
type Item struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
	Tags        []string `json:"tags"`
}

func (i Item) rules(prefix string) []validator.Rule {
	rules := []validator.Rule{
		validator.GreaterThan(validator.Path(prefix, "price"), i.Price, 0),
	}
	if i.Description != nil {
		rules = append(rules, validator.MaxLen(validator.Path(prefix, "description"), *i.Description, 300))
	}
	return rules
}

// withDefaults returns a copy with an empty tag list instead of nil.
func (i Item) withDefaults() Item {
	if i.Tags == nil {
		i.Tags = []string{}
	}
	return i
}

// ItemOut is the response shape of POST /items/.
type ItemOut struct {
	Item
	PriceWithTax *float64 `json:"price_with_tax,omitempty"`
	Q            *string  `json:"q,omitempty"`
}

// User is the owner payload of PUT /items/{item_id}.
type User struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
}

// BaseItem holds the fields shared by catalogue variants.
type BaseItem struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

// CarItem is the "car" catalogue variant.
type CarItem struct {
	BaseItem
}

// PlaneItem is the "plane" catalogue variant.
type PlaneItem struct {
	BaseItem
	Size int `json:"size"`
}

// ModelName is a path enum for GET /models/{model_name}.
type ModelName string

const (
	ModelAlexNet ModelName = "alexnet"
	ModelResNet  ModelName = "resnet"
	ModelLeNet   ModelName = "lenet"
)

var modelNames = []ModelName{ModelAlexNet, ModelResNet, ModelLeNet}

// UnmarshalText rejects names outside the enum.
func (m *ModelName) UnmarshalText(text []byte) error {
	name := ModelName(text)
	if !slices.Contains(modelNames, name) {
		return fmt.Errorf("must be one of: %v", modelNames)
	}
	*m = name
	return nil
}

// Message returns the blurb shown for the model.
func (m ModelName) Message() string {
	switch m {
	case ModelAlexNet:
		return "Deep Learning FTW!"
	case ModelLeNet:
		return "LeCNN all the images"
	default:
		return "Have some residuals"
	}
}

// fakeItemsDB backs the GET /items paging demo.
var fakeItemsDB = []map[string]string{
	{"item_name": "Foo"},
	{"item_name": "Bar"},
	{"item_name": "Baz"},
}

const longDescription = "This is an amazing item that has a long description"

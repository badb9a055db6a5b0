// Package projection converts handler results into declared response shapes.
//
// A projection keeps only the fields the model declares and fails when a field the
// model requires is missing. Tagged unions pick their variant by a discriminator field.
package projection

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrMissingField   = errors.New("projection: missing required field")
	ErrUnknownVariant = errors.New("projection: unknown variant")
	ErrNotAnObject    = errors.New("projection: value is not an object")
)

// Model projects an arbitrary value into a declared response shape.
type Model interface {
	Project(v any) (any, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(v any) (any, error)

func (f ModelFunc) Project(v any) (any, error) { return f(v) }

// Of returns a model projecting values into T.
//
// The value (struct, map or pointer to either) is normalized through JSON. Keys of T
// that are required (non-pointer, non-slice, non-map, no omitempty) must be present.
// Unknown keys are dropped. The result is a T.
func Of[T any]() Model {
	return ModelFunc(func(v any) (any, error) {
		obj, err := toObject(v)
		if err != nil {
			return nil, err
		}

		var zero T
		if missing := missingKeys(obj, reflect.TypeOf(zero)); len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
		}

		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("projection: encode: %w", err)
		}

		var out T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("projection: decode into %T: %w", out, err)
		}
		return out, nil
	})
}

// Variant is one member of a tagged union.
type Variant struct {
	Tag   string
	Model Model
}

// OneOf returns a model that selects a variant by the string value of the
// discriminator field. A missing or unknown tag is an error.
//
//	projection.OneOf("type",
//		projection.Variant{Tag: "plane", Model: projection.Of[PlaneItem]()},
//		projection.Variant{Tag: "car", Model: projection.Of[CarItem]()},
//	)
func OneOf(discriminator string, variants ...Variant) Model {
	byTag := make(map[string]Model, len(variants))
	for _, variant := range variants {
		byTag[variant.Tag] = variant.Model
	}

	return ModelFunc(func(v any) (any, error) {
		obj, err := toObject(v)
		if err != nil {
			return nil, err
		}

		tag, ok := obj[discriminator].(string)
		if !ok {
			return nil, fmt.Errorf("%w: discriminator %q", ErrMissingField, discriminator)
		}

		model, ok := byTag[tag]
		if !ok {
			return nil, fmt.Errorf("%w: %s=%q", ErrUnknownVariant, discriminator, tag)
		}
		return model.Project(obj)
	})
}

// toObject normalizes v to a JSON object.
func toObject(v any) (map[string]any, error) {
	if obj, ok := v.(map[string]any); ok {
		return obj, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("projection: encode: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotAnObject, v)
	}
	return obj, nil
}

func missingKeys(obj map[string]any, t reflect.Type) []string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var missing []string
	for i := range t.NumField() {
		sf := t.Field(i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if _, tagged := sf.Tag.Lookup("json"); !tagged {
				missing = append(missing, missingKeys(obj, sf.Type)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		if strings.Contains(opts, "omitempty") || strings.Contains(opts, "omitzero") {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			continue
		}

		if value, ok := obj[name]; !ok || value == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

package binder

import (
	"encoding"
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrymomot/apitour/pkg/validator"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	fileHeaderType      = reflect.TypeFor[*multipart.FileHeader]()
	bytesType           = reflect.TypeFor[[]byte]()
)

// fieldSpec is a parsed binding tag: `query:"name,required"` plus an optional `default:"..."`.
type fieldSpec struct {
	name       string
	required   bool
	embed      bool
	def        string
	hasDefault bool
}

// parseFieldTag returns ok=false when the field has no tag for this source or is skipped with "-".
func parseFieldTag(field reflect.StructField, tagName string) (fieldSpec, bool) {
	tag, exists := field.Tag.Lookup(tagName)
	if !exists || tag == "-" {
		return fieldSpec{}, false
	}

	parts := strings.Split(tag, ",")
	spec := fieldSpec{name: strings.TrimSpace(parts[0])}
	if spec.name == "" {
		return fieldSpec{}, false
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "required":
			spec.required = true
		case "embed":
			spec.embed = true
		}
	}
	spec.def, spec.hasDefault = field.Tag.Lookup("default")
	return spec, true
}

// structTarget dereferences v and ensures it points to a struct.
func structTarget(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: target must be a non-nil pointer", ErrInvalidTarget)
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: target must be a pointer to struct", ErrInvalidTarget)
	}
	return rv, nil
}

// lookupFunc returns the raw values for an external parameter name.
type lookupFunc func(name string) ([]string, bool)

// bindValues walks the struct fields tagged with tagName and populates them from lookup.
// Every failing field is reported; the returned error is validator.ValidationErrors.
func bindValues(v any, tagName string, lookup lookupFunc, alwaysRequired bool) error {
	rv, err := structTarget(v)
	if err != nil {
		return err
	}
	rt := rv.Type()

	var errs validator.ValidationErrors
	for i := range rv.NumField() {
		field := rv.Field(i)
		fieldType := rt.Field(i)

		if !field.CanSet() {
			continue
		}

		spec, ok := parseFieldTag(fieldType, tagName)
		if !ok {
			continue
		}
		key := validator.Path(tagName, spec.name)

		values, exists := lookup(spec.name)
		if !exists || len(values) == 0 {
			switch {
			case spec.hasDefault:
				values = []string{spec.def}
			case spec.required || alwaysRequired:
				errs.Add(requiredError(key))
				continue
			default:
				continue
			}
		}

		if err := setFieldValue(field, fieldType.Type, values); err != nil {
			errs.AddField(key, err.Error(), strings.Join(values, ","))
		}
	}

	return errs.OrNil()
}

func requiredError(field string) validator.ValidationError {
	return validator.ValidationError{
		Field:          field,
		Message:        "field is required",
		TranslationKey: "validation.required",
		TranslationValues: map[string]any{
			"field": field,
		},
	}
}

// setFieldValue sets the field value from string values.
func setFieldValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	if fieldType.Kind() == reflect.Ptr {
		elem := reflect.New(fieldType.Elem())
		if err := setFieldValue(elem.Elem(), fieldType.Elem(), values); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if len(values) == 0 {
		return nil
	}

	// Enum-like types validate their own value set.
	if reflect.PointerTo(fieldType).Implements(textUnmarshalerType) {
		u := field.Addr().Interface().(encoding.TextUnmarshaler)
		return u.UnmarshalText([]byte(values[0]))
	}

	if fieldType.Kind() == reflect.Slice && fieldType != bytesType {
		return setSliceValue(field, fieldType, values)
	}

	value := values[0]

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	default:
		if fieldType == bytesType {
			field.SetBytes([]byte(value))
			return nil
		}
		return fmt.Errorf("unsupported type %s", fieldType)
	}

	return nil
}

// parseBool is lenient with the usual checkbox and query flag spellings.
func parseBool(value string) (bool, error) {
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", value)
}

// setSliceValue sets slice field values from repeated and comma-separated values.
func setSliceValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	elemType := fieldType.Elem()

	var all []string
	for _, v := range values {
		all = append(all, strings.Split(v, ",")...)
	}

	slice := reflect.MakeSlice(fieldType, len(all), len(all))
	for i, value := range all {
		if err := setFieldValue(slice.Index(i), elemType, []string{strings.TrimSpace(value)}); err != nil {
			return err
		}
	}

	field.Set(slice)
	return nil
}

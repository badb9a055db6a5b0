package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrymomot/apitour/pkg/validator"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (1MB).
const DefaultMaxJSONSize = 1 << 20 // 1 MB

// JSON creates a JSON body binder. GET and HEAD requests are skipped with ErrBinderNotApplicable.
//
// Without `body` tags the payload is decoded straight into the target in strict mode
// (unknown fields rejected).
//
// With `body` tags each tagged field is a body parameter:
//   - a single struct-typed parameter (or a single scalar) reads the whole payload:
//     {"name": "Foo", "price": 10}
//   - several parameters, or one marked `,embed`, read an object keyed by parameter name:
//     {"item": {...}, "user": {...}, "importance": 5}
//
// Non-pointer parameters are required. Inside structs, a key is required when its
// field is not a pointer, slice, map or interface and its json tag has no omitempty.
// Missing keys and type mismatches are reported per field as validator.ValidationErrors.
//
// Example:
//
//	type UpdateItemRequest struct {
//		ItemID     int  `path:"item_id"`
//		Item       Item `body:"item"`
//		User       User `body:"user"`
//		Importance int  `body:"importance"`
//	}
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			return ErrBinderNotApplicable
		}

		select {
		case <-r.Context().Done():
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, r.Context().Err())
		default:
		}

		body, err := readJSONBody(r)
		if err != nil {
			return err
		}

		params, err := bodyParams(v)
		if err != nil {
			return err
		}

		if len(params) == 0 {
			return decodeStrict(body, v)
		}

		return bindBodyParams(body, params)
	}
}

func readJSONBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	limited := io.LimitReader(r.Body, DefaultMaxJSONSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
	}
	if len(body) > DefaultMaxJSONSize {
		return nil, fmt.Errorf("%w: max %d bytes", ErrRequestTooLarge, DefaultMaxJSONSize)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil, fmt.Errorf("%w: expected application/json", ErrMissingContentType)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return nil, fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, contentType)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrFailedToParseJSON)
	}

	return body, nil
}

// decodeStrict decodes the whole payload into v, rejecting unknown fields.
func decodeStrict(body []byte, v any) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}
	return nil
}

type bodyParam struct {
	spec  fieldSpec
	field reflect.Value
	typ   reflect.Type
}

func bodyParams(v any) ([]bodyParam, error) {
	rv, err := structTarget(v)
	if err != nil {
		return nil, err
	}
	rt := rv.Type()

	var params []bodyParam
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		spec, ok := parseFieldTag(rt.Field(i), "body")
		if !ok {
			continue
		}
		params = append(params, bodyParam{spec: spec, field: field, typ: rt.Field(i).Type})
	}
	return params, nil
}

func bindBodyParams(body []byte, params []bodyParam) error {
	var errs validator.ValidationErrors

	if len(params) == 1 && !params[0].spec.embed {
		p := params[0]
		if body == nil {
			if isRequiredParam(p) {
				errs.Add(requiredError("body"))
			}
			return errs.OrNil()
		}
		decodeParam(body, p, "body", &errs)
		return errs.OrNil()
	}

	var payload map[string]json.RawMessage
	if body != nil {
		if err := json.Unmarshal(body, &payload); err != nil {
			errs.AddField("body", "must be a JSON object", nil)
			return errs
		}
	}

	for _, p := range params {
		key := validator.Path("body", p.spec.name)
		raw, ok := payload[p.spec.name]
		if !ok || isNull(raw) {
			if isRequiredParam(p) {
				errs.Add(requiredError(key))
			}
			continue
		}
		decodeParam(raw, p, key, &errs)
	}

	return errs.OrNil()
}

func isRequiredParam(p bodyParam) bool {
	return p.spec.required || p.typ.Kind() != reflect.Ptr
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

var jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// decodeParam decodes raw into the parameter field key by key. Every missing
// required key and every mistyped value is reported, and whatever decoded is
// kept so later validation sees the values the client sent.
func decodeParam(raw json.RawMessage, p bodyParam, key string, errs *validator.ValidationErrors) {
	target := reflect.New(p.typ).Elem()
	decodeValue(raw, target, key, errs)
	p.field.Set(target)
}

func decodeValue(raw json.RawMessage, dst reflect.Value, key string, errs *validator.ValidationErrors) {
	switch {
	case dst.Kind() == reflect.Ptr:
		if isNull(raw) {
			return
		}
		before := len(*errs)
		elem := reflect.New(dst.Type().Elem())
		decodeValue(raw, elem.Elem(), key, errs)
		// A struct keeps its partial value; a mistyped scalar stays nil.
		if len(*errs) == before || isObjectStruct(elem.Elem().Type()) {
			dst.Set(elem)
		}

	case isObjectStruct(dst.Type()):
		if isNull(raw) {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			errs.AddField(key, "must be a JSON object", nil)
			return
		}
		decodeStruct(obj, dst, key, errs)

	default:
		target := reflect.New(dst.Type())
		if err := json.Unmarshal(raw, target.Interface()); err != nil {
			addDecodeError(err, key, errs)
			return
		}
		dst.Set(target.Elem())
	}
}

// decodeStruct fills the fields of dst from obj, one key at a time.
// Untagged embedded structs read their fields from the same object.
func decodeStruct(obj map[string]json.RawMessage, dst reflect.Value, prefix string, errs *validator.ValidationErrors) {
	t := dst.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		field := dst.Field(i)

		if sf.Anonymous && isObjectStruct(sf.Type) {
			if _, tagged := sf.Tag.Lookup("json"); !tagged {
				decodeStruct(obj, field, prefix, errs)
				continue
			}
		}
		if !sf.IsExported() || !field.CanSet() {
			continue
		}

		name, omitempty, skip := jsonFieldName(sf)
		if skip {
			continue
		}
		key := validator.Path(prefix, name)

		value, present := obj[name]
		if !present || isNull(value) {
			if !omitempty && isRequiredKind(sf.Type) {
				errs.Add(requiredError(key))
			}
			continue
		}

		decodeValue(value, field, key, errs)
	}
}

func addDecodeError(err error, key string, errs *validator.ValidationErrors) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := key
		if typeErr.Field != "" {
			field = validator.Path(key, typeErr.Field)
		}
		errs.AddField(field, fmt.Sprintf("invalid %s value", typeErr.Type), typeErr.Value)
		return
	}
	errs.AddField(key, err.Error(), nil)
}

// isObjectStruct reports whether t is a struct decoded field by field from a JSON object.
func isObjectStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	pt := reflect.PointerTo(t)
	return !pt.Implements(textUnmarshalerType) && !pt.Implements(jsonUnmarshalerType)
}

func jsonFieldName(sf reflect.StructField) (name string, omitempty, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			omitempty = true
		}
	}
	return name, omitempty, false
}

func isRequiredKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return false
	}
	return true
}

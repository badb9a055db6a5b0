package binder

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrymomot/apitour/pkg/validator"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20 // 10 MB

// Form creates a unified binder for form fields and file uploads.
// It handles application/x-www-form-urlencoded and multipart/form-data content types.
// GET and HEAD requests are skipped with ErrBinderNotApplicable.
//
// Supported struct tags:
//   - `form:"name"`          - binds to form field "name"
//   - `form:"name,required"` - missing field is a validation error
//
// An empty form value is treated as missing.
//   - `file:"name"`          - binds to uploaded file "name"
//   - `file:"name,required"` - missing upload is a validation error
//
// Supported types for file fields:
//   - []byte                  - whole file content, size via len()
//   - *multipart.FileHeader   - stream handle: Filename, Size, Open()
//   - []*multipart.FileHeader - multiple files
//
// Example:
//
//	type LoginRequest struct {
//		Username string `form:"username,required"`
//		Password string `form:"password,required"`
//	}
//
//	type UploadRequest struct {
//		File *multipart.FileHeader `file:"file,required"`
//	}
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			return ErrBinderNotApplicable
		}

		var values map[string][]string
		var files map[string][]*multipart.FileHeader

		contentType := r.Header.Get("Content-Type")
		mediaType, params, err := mime.ParseMediaType(contentType)

		switch {
		case contentType == "":
			// Nothing submitted; required fields are reported below.

		case err != nil:
			return fmt.Errorf("%w: malformed content type", ErrFailedToParseForm)

		case mediaType == "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values = r.PostForm

		case mediaType == "multipart/form-data":
			boundary, ok := params["boundary"]
			if !ok || boundary == "" {
				return fmt.Errorf("%w: missing boundary in content type", ErrFailedToParseForm)
			}
			if !validateBoundary(boundary) {
				return fmt.Errorf("%w: invalid boundary parameter", ErrFailedToParseForm)
			}

			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			if r.MultipartForm != nil {
				values = r.MultipartForm.Value
				files = r.MultipartForm.File
			}

		default:
			return fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded or multipart/form-data", ErrUnsupportedMediaType, mediaType)
		}

		formErr := bindValues(v, "form", func(name string) ([]string, bool) {
			vals := slices.DeleteFunc(slices.Clone(values[name]), func(s string) bool { return s == "" })
			return vals, len(vals) > 0
		}, false)

		return validator.Merge(formErr, bindFiles(v, files))
	}
}

// bindFiles binds uploaded files to fields tagged with `file`.
func bindFiles(v any, files map[string][]*multipart.FileHeader) error {
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

		spec, ok := parseFieldTag(fieldType, "file")
		if !ok {
			continue
		}
		key := validator.Path("file", spec.name)

		headers := files[spec.name]
		if len(headers) == 0 {
			if spec.required {
				errs.Add(requiredError(key))
			}
			continue
		}

		if err := setFileField(field, fieldType.Type, headers); err != nil {
			errs.AddField(key, err.Error(), headers[0].Filename)
		}
	}

	return errs.OrNil()
}

// setFileField sets file values to struct fields.
func setFileField(field reflect.Value, fieldType reflect.Type, headers []*multipart.FileHeader) error {
	for _, fh := range headers {
		fh.Filename = sanitizeFilename(fh.Filename)
	}

	switch fieldType {
	case fileHeaderType:
		field.Set(reflect.ValueOf(headers[0]))
		return nil

	case reflect.SliceOf(fileHeaderType):
		slice := reflect.MakeSlice(fieldType, len(headers), len(headers))
		for i, fh := range headers {
			slice.Index(i).Set(reflect.ValueOf(fh))
		}
		field.Set(slice)
		return nil

	case bytesType:
		content, err := readFileHeader(headers[0])
		if err != nil {
			return err
		}
		field.SetBytes(content)
		return nil
	}

	return fmt.Errorf("unsupported type for file field: %v (expected []byte, *multipart.FileHeader or []*multipart.FileHeader)", fieldType)
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %v", err)
	}
	return content, nil
}

// sanitizeFilename removes any path components and dangerous characters from a filename
// to prevent path traversal attacks.
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}

// validateBoundary checks the multipart boundary against RFC 2046:
// 1 to 70 characters from the bchars set, not ending with a space.
func validateBoundary(boundary string) bool {
	if len(boundary) == 0 || len(boundary) > 70 || strings.HasSuffix(boundary, " ") {
		return false
	}
	for _, c := range boundary {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("'()+_,-./:=? ", c):
		default:
			return false
		}
	}
	return true
}

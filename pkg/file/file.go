// Package file stores uploaded files on local disk or S3-compatible object storage.
//
// Both backends implement Storage. Keys are slash-separated relative paths; use
// ObjectKey to build a collision-free key for an upload:
//
//	key := file.ObjectKey("uploads", fh.Filename) // uploads/<uuid>/<sanitized name>
//	obj, err := storage.Save(ctx, fh, key)
//	if err != nil {
//		return err
//	}
//	log.Info("stored", slog.String("url", obj.URL))
package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Object describes a stored file.
type Object struct {
	Key      string
	Filename string
	Size     int64
	MIMEType string
	URL      string
}

// Storage is implemented by the upload backends.
type Storage interface {
	// Save stores the uploaded file under key.
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Object, error)
	// URL returns the public URL for key.
	URL(key string) string
}

// ObjectKey returns "<prefix>/<uuid>/<sanitized filename>".
func ObjectKey(prefix, filename string) string {
	return path.Join(strings.Trim(prefix, "/"), uuid.NewString(), SanitizeFilename(filename))
}

// SanitizeFilename strips path components and NUL bytes.
// Returns "unnamed" for empty names and directory references.
//
//	file.SanitizeFilename("../../../etc/passwd")   // "passwd"
//	file.SanitizeFilename("C:\\Windows\\file.txt") // "file.txt"
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}

// cleanKey normalizes key and rejects traversal.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.ReplaceAll(key, "\\", "/"), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidPath)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
		}
	}
	return path.Clean(key), nil
}

// DetectMIMEType sniffs the first 512 bytes of the upload.
func DetectMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	buffer := make([]byte, 512)
	n, err := io.ReadFull(f, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	return http.DetectContentType(buffer[:n]), nil
}

func joinURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}

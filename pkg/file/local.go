package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// LocalStorage stores files under a base directory.
// All operations are confined to baseDir.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage resolves baseDir to an absolute path and creates it.
// baseURL prefixes public URLs (e.g. "/static" or "https://cdn.example.com").
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory is required", ErrInvalidConfig)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	return &LocalStorage{baseDir: abs, baseURL: baseURL}, nil
}

// Save copies the upload to baseDir/key. A partially written file is removed on failure.
func (s *LocalStorage) Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Object, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	dst := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	mimeType, err := DetectMIMEType(fh)
	if err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	size, copyErr := io.Copy(out, &ctxReader{ctx: ctx, r: src})
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return &Object{
		Key:      key,
		Filename: SanitizeFilename(fh.Filename),
		Size:     size,
		MIMEType: mimeType,
		URL:      s.URL(key),
	}, nil
}

// URL returns baseURL/key.
func (s *LocalStorage) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// Ping reports whether the base directory is still usable.
func (s *LocalStorage) Ping(context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidConfig, s.baseDir)
	}
	return nil
}

// ctxReader stops a copy when the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

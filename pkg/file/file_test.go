package file_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apitour/pkg/file"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../../etc/passwd", "passwd"},
		{"C:\\Windows\\file.txt", "file.txt"},
		{"nul\x00byte.txt", "nulbyte.txt"},
		{"", "unnamed"},
		{"..", "unnamed"},
		{"/", "unnamed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, file.SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	key := file.ObjectKey("/uploads/", "../photo.png")
	parts := strings.Split(key, "/")
	require.Len(t, parts, 3)
	assert.Equal(t, "uploads", parts[0])
	assert.Len(t, parts[1], 36)
	assert.Equal(t, "photo.png", parts[2])

	assert.NotEqual(t, key, file.ObjectKey("uploads", "photo.png"))
}

func TestDetectMIMEType(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		fh := createFileHeader(t, "notes.txt", []byte("plain text content"))
		mimeType, err := file.DetectMIMEType(fh)
		require.NoError(t, err)
		assert.Equal(t, "text/plain; charset=utf-8", mimeType)
	})

	t.Run("png", func(t *testing.T) {
		t.Parallel()
		fh := createFileHeader(t, "img.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
		mimeType, err := file.DetectMIMEType(fh)
		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
	})

	t.Run("nil header", func(t *testing.T) {
		t.Parallel()
		_, err := file.DetectMIMEType(nil)
		assert.ErrorIs(t, err, file.ErrNilFileHeader)
	})
}

package profile

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-profile/pkg/errors"
)

// 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestNew(t *testing.T) {
	t.Run("sniffs content type", func(t *testing.T) {
		pic, err := New("avatar", "", pngBytes)
		require.NoError(t, err)
		assert.Equal(t, "image/png", pic.ContentType)
		assert.True(t, pic.IsImage())
	})

	t.Run("keeps declared content type", func(t *testing.T) {
		pic, err := New("/tmp/notes.bin", "application/pdf", []byte("%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, "notes.bin", pic.Name)
		assert.Equal(t, "application/pdf", pic.ContentType)
		assert.False(t, pic.IsImage())
	})

	t.Run("rejects empty data", func(t *testing.T) {
		_, err := New("empty.png", "image/png", nil)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))

	pic, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "me.png", pic.Name)
	assert.Equal(t, "image/png", pic.ContentType)
	assert.Equal(t, len(pngBytes), pic.Size())

	_, err = Load(path, 10)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileTooLarge))

	_, err = Load(filepath.Join(dir, "missing.png"), 0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	_, err = Load(dir, 0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestFromMultipart(t *testing.T) {
	header := uploadHeader(t, "face.png", pngBytes)

	pic, err := FromMultipart(header, 1024)
	require.NoError(t, err)
	assert.Equal(t, "face.png", pic.Name)
	assert.Equal(t, pngBytes, pic.Data)
	assert.True(t, pic.IsImage())

	_, err = FromMultipart(header, 8)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileTooLarge))

	_, err = FromMultipart(nil, 1024)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestClone(t *testing.T) {
	pic, err := New("a.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)

	clone := pic.Clone()
	clone.Data[0] = 9
	assert.Equal(t, byte(1), pic.Data[0])

	var nilPic *Picture
	assert.Nil(t, nilPic.Clone())
	assert.False(t, nilPic.IsImage())
	assert.Zero(t, nilPic.Size())
}

func uploadHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("profilePicture", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	_, header, err := req.FormFile("profilePicture")
	require.NoError(t, err)
	return header
}

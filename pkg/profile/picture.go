package profile

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-profile/pkg/errors"
)

// DefaultMaxBytes is the largest profile picture accepted when no limit is configured (10 MiB).
const DefaultMaxBytes int64 = 10 << 20

// Picture is a profile picture selected by the user but not yet uploaded.
type Picture struct {
	Name        string
	ContentType string
	Data        []byte
}

// New builds a Picture from raw bytes. An empty contentType is sniffed from the data.
func New(name, contentType string, data []byte) (*Picture, error) {
	if len(data) == 0 {
		return nil, errors.InvalidInput("profilePicture", "file is empty")
	}
	return &Picture{
		Name:        filepath.Base(name),
		ContentType: resolveContentType(name, contentType, data),
		Data:        data,
	}, nil
}

// FromMultipart reads an uploaded file part, enforcing maxBytes.
func FromMultipart(header *multipart.FileHeader, maxBytes int64) (*Picture, error) {
	if header == nil {
		return nil, errors.InvalidInput("profilePicture", "no file")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if header.Size > maxBytes {
		return nil, tooLarge(header.Filename, header.Size, maxBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to open uploaded file")
	}
	defer f.Close()

	data, err := readLimited(f, maxBytes)
	if err != nil {
		return nil, err
	}
	return New(header.Filename, header.Header.Get("Content-Type"), data)
}

// Load reads a picture from disk, enforcing maxBytes.
func Load(path string, maxBytes int64) (*Picture, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeNotFound, "profile picture %s", path)
	}
	if info.IsDir() {
		return nil, errors.InvalidInput("profilePicture", fmt.Sprintf("%s is a directory", path))
	}
	if info.Size() > maxBytes {
		return nil, tooLarge(path, info.Size(), maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeNotFound, "profile picture %s", path)
	}
	defer f.Close()

	data, err := readLimited(f, maxBytes)
	if err != nil {
		return nil, err
	}
	return New(path, "", data)
}

// IsImage reports whether the picture can be previewed inline.
func (p *Picture) IsImage() bool {
	return p != nil && strings.HasPrefix(p.ContentType, "image/")
}

// Size returns the picture size in bytes.
func (p *Picture) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// Clone returns a deep copy.
func (p *Picture) Clone() *Picture {
	if p == nil {
		return nil
	}
	data := make([]byte, len(p.Data))
	copy(data, p.Data)
	return &Picture{Name: p.Name, ContentType: p.ContentType, Data: data}
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read profile picture")
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge("", int64(len(data)), maxBytes)
	}
	return data, nil
}

func resolveContentType(name, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}

func tooLarge(name string, size, maxBytes int64) *errors.Error {
	return errors.Newf(errors.ErrCodeFileTooLarge, "profile picture exceeds %d bytes", maxBytes).
		WithDetail("file", name).
		WithDetail("size", size).
		WithDetail("max_bytes", maxBytes)
}

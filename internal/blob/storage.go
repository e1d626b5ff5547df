package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrBadDataURI = errors.New("expected a base64 data URI payload")

// Storage persists decoded image payloads and returns a retrievable reference.
type Storage interface {
	// Save writes the payload and returns its public reference.
	Save(ctx context.Context, data []byte, ext string) (string, error)
	// Delete removes a previously saved payload. Unknown references are not
	// an error.
	Delete(ctx context.Context, ref string) error
}

// FileStorage keeps payloads on the local filesystem under dir and serves
// them under urlPrefix.
type FileStorage struct {
	dir       string
	urlPrefix string
}

func NewFileStorage(dir, urlPrefix string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

var _ Storage = (*FileStorage)(nil)

func (s *FileStorage) Save(ctx context.Context, data []byte, ext string) (string, error) {
	name := uuid.New().String() + "." + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.urlPrefix + "/" + name, nil
}

func (s *FileStorage) Delete(ctx context.Context, ref string) error {
	name := filepath.Base(ref)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DecodeDataURI splits a "data:image/<ext>;base64,<payload>" value into the
// decoded payload and its extension.
func DecodeDataURI(value string) ([]byte, string, error) {
	head, payload, found := strings.Cut(value, ";base64,")
	if !found {
		return nil, "", ErrBadDataURI
	}

	ext := head[strings.LastIndex(head, "/")+1:]
	if ext == "" {
		return nil, "", ErrBadDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrBadDataURI
	}

	return data, ext, nil
}

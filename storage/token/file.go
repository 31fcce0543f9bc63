package tokenstore

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/session"
)

// FileStore persists the bearer token as a single string under a well-known
// path. It is the process-wide token slot: only the session Manager writes
// it.
type FileStore struct {
	path string
}

var _ session.TokenStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read returns the persisted token, or "" when none exists.
func (fs *FileStore) Read() (string, error) {
	data, err := ioutil.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading token file")
	}
	return strings.TrimSpace(string(data)), nil
}

func (fs *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	if err := ioutil.WriteFile(fs.path, []byte(token), 0600); err != nil {
		return errors.Wrap(err, "writing token file")
	}
	return nil
}

func (fs *FileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token file")
	}
	return nil
}

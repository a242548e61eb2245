package kvstore

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileStore keeps each key in its own file under a namespace directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the namespace directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "kvstore: create namespace dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "kvstore: read %q", key)
	}
	return b, nil
}

// Set writes through a temp file and renames, so a crash mid-write never
// leaves a truncated value behind.
func (s *FileStore) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "kvstore: write %q", key)
	}

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "kvstore: write %q", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "kvstore: write %q", key)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "kvstore: write %q", key)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "kvstore: delete %q", key)
	}
	return nil
}

// path maps a key to a file name, hex-escaping anything unsafe.
func (s *FileStore) path(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteString(hex.EncodeToString([]byte{c}))
		}
	}
	return filepath.Join(s.dir, b.String()+".json")
}

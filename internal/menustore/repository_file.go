package menustore

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Ux1ew1/Kassa-Android/internal/menu"
)

// FileRepository keeps the document in a single JSON file, the data/menu.json
// layout the register has always used.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load(_ context.Context) (menu.Snapshot, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return menu.Normalize(nil), nil
	}
	if err != nil {
		return menu.Snapshot{}, errors.Wrap(err, "menustore: read menu file")
	}

	var payload any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return menu.Snapshot{}, errors.Wrap(err, "menustore: parse menu file")
	}
	return menu.Normalize(payload), nil
}

func (r *FileRepository) Store(_ context.Context, snap menu.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "menustore: encode menu")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "menustore: create data dir")
	}

	tmp, err := os.CreateTemp(dir, ".menu-*")
	if err != nil {
		return errors.Wrap(err, "menustore: write menu file")
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "menustore: write menu file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "menustore: write menu file")
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "menustore: write menu file")
	}
	return nil
}

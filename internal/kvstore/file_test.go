package kvstore

import (
	"errors"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Set("checks", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get("checks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `[{"id":1}]` {
		t.Fatalf("got %s", got)
	}
}

func TestFileStoreMissingKeyIsNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get("activeCheckId"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreDeleteIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Set("menu", []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete("menu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete("menu"); err != nil {
		t.Fatalf("delete of a missing key failed: %v", err)
	}
	if _, err := store.Get("menu"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStoreEscapesAwkwardKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := "kassa.menu.cache/v1"
	if err := store.Set(key, []byte("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(key)
	if err != nil || string(got) != "x" {
		t.Fatalf("got %s, %v", got, err)
	}
}

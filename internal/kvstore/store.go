// Package kvstore is the persistent key-value backing for the client core:
// one namespace caches the menu snapshot, another holds the check ledger.
// Reads and writes are fallible and best-effort; a missing key is a normal
// empty state, not an error.
package kvstore

import "github.com/pkg/errors"

// ErrNotFound reports an absent key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a flat fallible key-value namespace.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

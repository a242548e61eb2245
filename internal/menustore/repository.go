// Package menustore persists the shared menu document on the server side
// of the register: one document, replaced wholesale on every save.
package menustore

import (
	"context"

	"github.com/Ux1ew1/Kassa-Android/internal/menu"
)

// Repository stores the menu document. Load returns an empty snapshot when
// nothing was stored yet.
type Repository interface {
	Load(ctx context.Context) (menu.Snapshot, error)
	Store(ctx context.Context, snap menu.Snapshot) error
}

// Package session composes the client core for an embedding UI: the two
// persistent namespaces, the check ledger, the menu fetch pipeline, and the
// catalog manager, with explicit open and start boundaries instead of
// scattered globals.
package session

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/Ux1ew1/Kassa-Android/internal/check"
	"github.com/Ux1ew1/Kassa-Android/internal/kvstore"
	"github.com/Ux1ew1/Kassa-Android/internal/menuadmin"
	"github.com/Ux1ew1/Kassa-Android/internal/menuclient"
)

// Options locate the remote store and the local data directory.
type Options struct {
	// BaseURL is the remote store API prefix, e.g. "http://host:3000/api".
	BaseURL string
	// StaticURL is the same-origin fallback document.
	StaticURL string
	// DataDir holds the two persistence namespaces.
	DataDir string
	// Timeout bounds remote requests; the pipeline default when zero.
	Timeout time.Duration
}

// Session is one operator's register state.
type Session struct {
	Checks *check.Ledger
	Client *menuclient.Client
	Menu   *menuadmin.Manager
}

// Open loads persisted state and wires the core together. The menu cache
// and the check ledger live in independent namespaces, so a corrupt cache
// can never take the receipts down with it.
func Open(opts Options) (*Session, error) {
	menuCache, err := kvstore.NewFileStore(filepath.Join(opts.DataDir, "menu-cache"))
	if err != nil {
		return nil, errors.Wrap(err, "session: open menu cache")
	}
	checkStore, err := kvstore.NewFileStore(filepath.Join(opts.DataDir, "checks"))
	if err != nil {
		return nil, errors.Wrap(err, "session: open check store")
	}

	client := menuclient.New(menuclient.Config{
		BaseURL:   opts.BaseURL,
		StaticURL: opts.StaticURL,
		Timeout:   opts.Timeout,
	}, menuCache)

	return &Session{
		Checks: check.NewLedger(checkStore),
		Client: client,
		Menu:   menuadmin.NewManager(client),
	}, nil
}

// Start runs the initial menu load, the on-mount fetch through the tier
// chain. Safe to call again to reload.
func (s *Session) Start(ctx context.Context) {
	s.Menu.Load(ctx)
}

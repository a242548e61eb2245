// Package menuadmin is the catalog-management collaborator: it owns the
// admin's working copy of the menu and pushes every edit through the
// normalizer's reconciliation before persisting via the fetch pipeline.
package menuadmin

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Ux1ew1/Kassa-Android/internal/menu"
	"github.com/Ux1ew1/Kassa-Android/internal/menuclient"
	"github.com/Ux1ew1/Kassa-Android/internal/revision"
)

// ErrItemNotFound reports an edit addressed at an id the catalog does not have.
var ErrItemNotFound = errors.New("menuadmin: item not found")

// ItemPatch carries the fields an edit wants to change; nil fields keep
// their current value.
type ItemPatch struct {
	Name     *string
	Price    *float64
	Category *string
	Show     *bool
}

// Manager serializes catalog edits over one working copy. Every persisted
// change invalidates in-flight loads, so a slow fetch can never overwrite a
// newer edit.
type Manager struct {
	mu     sync.Mutex
	client *menuclient.Client
	guard  revision.Guard

	items  []menu.Item
	order  []menu.ID
	source menuclient.Source
}

func NewManager(client *menuclient.Client) *Manager {
	return &Manager{client: client, source: menuclient.SourceBundled}
}

// Load fetches the catalog through the tier chain and applies it unless a
// newer load or edit superseded this one while the request was in flight.
func (m *Manager) Load(ctx context.Context) {
	token := m.guard.Begin()
	snap, source := m.client.Fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !token.Live() {
		return
	}
	m.items = snap.Items
	m.order = snap.ActiveOrder
	m.source = source
}

// Snapshot returns the current working copy.
func (m *Manager) Snapshot() menu.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]menu.Item, len(m.items))
	copy(items, m.items)
	order := make([]menu.ID, len(m.order))
	copy(order, m.order)
	return menu.Snapshot{Items: items, ActiveOrder: order}
}

// Offline reports whether the last load bypassed the remote store.
func (m *Manager) Offline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source.Offline()
}

// --------------------------------------------------
// Edits
// --------------------------------------------------

// AddItem validates the draft, assigns the next id, and persists. Visible
// items take the last slot of the display order.
func (m *Manager) AddItem(ctx context.Context, draft menu.Item) (menu.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft.ID = nextItemID(m.items)
	if err := menu.ValidateItem(draft); err != nil {
		return "", err
	}

	newItems := append(copyItems(m.items), draft)
	newOrder := m.order
	if draft.Show {
		newOrder = append(withoutID(m.order, draft.ID), draft.ID)
	}

	m.persist(ctx, newItems, newOrder)
	return draft.ID, nil
}

// UpdateItem applies the patch to an existing item and persists. A visible
// item moves to the end of the display order; a hidden one leaves it.
func (m *Manager) UpdateItem(ctx context.Context, id menu.ID, patch ItemPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.updateLocked(ctx, id, patch)
}

func (m *Manager) updateLocked(ctx context.Context, id menu.ID, patch ItemPatch) error {
	at := indexOf(m.items, id)
	if at < 0 {
		return ErrItemNotFound
	}

	updated := m.items[at]
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Show != nil {
		updated.Show = *patch.Show
	}

	if err := menu.ValidateItem(updated); err != nil {
		return err
	}

	newItems := copyItems(m.items)
	newItems[at] = updated

	newOrder := withoutID(m.order, id)
	if updated.Show {
		newOrder = append(newOrder, id)
	}

	m.persist(ctx, newItems, newOrder)
	return nil
}

// DeleteItem removes the item and its display slot, then persists.
func (m *Manager) DeleteItem(ctx context.Context, id menu.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if indexOf(m.items, id) < 0 {
		return ErrItemNotFound
	}

	newItems := make([]menu.Item, 0, len(m.items)-1)
	for _, item := range m.items {
		if item.ID != id {
			newItems = append(newItems, item)
		}
	}

	m.persist(ctx, newItems, withoutID(m.order, id))
	return nil
}

// ToggleItem flips an item's visibility.
func (m *Manager) ToggleItem(ctx context.Context, id menu.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	at := indexOf(m.items, id)
	if at < 0 {
		return ErrItemNotFound
	}
	show := !m.items[at].Show
	return m.updateLocked(ctx, id, ItemPatch{Show: &show})
}

// persist reconciles the order, supersedes pending loads, and saves through
// the pipeline. Called with the lock held; Save degrades to a local-only
// confirmation instead of failing.
func (m *Manager) persist(ctx context.Context, items []menu.Item, order []menu.ID) {
	consistent := menu.EnsureActiveOrderConsistency(items, order)
	m.guard.Invalidate()

	result := m.client.Save(ctx, items, consistent)
	m.items = result.Menu
	m.order = result.ActiveOrder
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

// nextItemID picks max numeric id + 1; catalogs with only string ids get a
// unix-millisecond id, which stays unique enough for a single admin.
func nextItemID(items []menu.Item) menu.ID {
	maxID := int64(-1)
	for _, item := range items {
		if n, err := strconv.ParseInt(string(item.ID), 10, 64); err == nil && n >= 0 && n > maxID {
			maxID = n
		}
	}
	if maxID < 0 {
		return menu.ID(strconv.FormatInt(time.Now().UnixMilli(), 10))
	}
	return menu.ID(strconv.FormatInt(maxID+1, 10))
}

func indexOf(items []menu.Item, id menu.ID) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func copyItems(items []menu.Item) []menu.Item {
	out := make([]menu.Item, len(items))
	copy(out, items)
	return out
}

func withoutID(order []menu.ID, id menu.ID) []menu.ID {
	out := make([]menu.ID, 0, len(order))
	for _, existing := range order {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

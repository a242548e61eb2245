package menuadmin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Ux1ew1/Kassa-Android/internal/kvstore"
	"github.com/Ux1ew1/Kassa-Android/internal/menu"
	"github.com/Ux1ew1/Kassa-Android/internal/menuclient"
)

// --------------------------------------------------
// Fake menu store
// --------------------------------------------------

type fakeStore struct {
	mu       sync.Mutex
	doc      menu.Snapshot
	puts     int
	blockGet chan struct{}
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if f.blockGet != nil {
			<-f.blockGet
		}
		f.mu.Lock()
		doc := f.doc
		f.mu.Unlock()

		resp, _ := json.Marshal(map[string]any{
			"menu":        doc.Items,
			"activeOrder": doc.ActiveOrder,
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)

	case http.MethodPut:
		var payload map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			http.Error(w, `{"message": "Некорректный JSON"}`, http.StatusBadRequest)
			return
		}

		normalized := menu.Normalize(payload)
		f.mu.Lock()
		f.doc = normalized
		f.puts++
		f.mu.Unlock()

		resp, _ := json.Marshal(map[string]any{
			"message":     "Меню обновлено",
			"menu":        normalized.Items,
			"activeOrder": normalized.ActiveOrder,
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	}
}

func (f *fakeStore) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

func newTestManager(t *testing.T, store *fakeStore) *Manager {
	t.Helper()

	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	client := menuclient.New(menuclient.Config{
		BaseURL:    srv.URL + "/api",
		StaticURL:  srv.URL + "/menu.json",
		Timeout:    300 * time.Millisecond,
		HTTPClient: srv.Client(),
	}, kvstore.NewMemStore())

	return NewManager(client)
}

func seededStore() *fakeStore {
	return &fakeStore{doc: menu.Snapshot{
		Items: []menu.Item{
			{ID: "1", Name: "Эспрессо", Price: 120, Category: "Кофе", Show: true},
			{ID: "3", Name: "Латте", Price: 200, Category: "Кофе", Show: true},
		},
		ActiveOrder: []menu.ID{"1", "3"},
	}}
}

// --------------------------------------------------
// Loading and editing
// --------------------------------------------------

func TestLoadPopulatesWorkingCopy(t *testing.T) {
	m := newTestManager(t, seededStore())

	m.Load(context.Background())

	snap := m.Snapshot()
	if len(snap.Items) != 2 || snap.ActiveOrder[1] != "3" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if m.Offline() {
		t.Fatalf("manager reports offline after a primary load")
	}
}

func TestAddItemAssignsNextNumericID(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	m.Load(context.Background())

	id, err := m.AddItem(context.Background(), menu.Item{Name: "Раф", Price: 220, Show: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "4" {
		t.Fatalf("assigned id = %q, want 4", id)
	}

	snap := m.Snapshot()
	if len(snap.Items) != 3 {
		t.Fatalf("items = %+v", snap.Items)
	}
	if last := snap.ActiveOrder[len(snap.ActiveOrder)-1]; last != "4" {
		t.Fatalf("new visible item not at end of order: %v", snap.ActiveOrder)
	}
	if store.putCount() != 1 {
		t.Fatalf("puts = %d", store.putCount())
	}
}

func TestAddItemFallsBackToTimestampID(t *testing.T) {
	store := &fakeStore{doc: menu.Snapshot{
		Items:       []menu.Item{{ID: "espresso", Name: "Эспрессо", Price: 120, Show: true}},
		ActiveOrder: []menu.ID{"espresso"},
	}}
	m := newTestManager(t, store)
	m.Load(context.Background())

	before := time.Now().UnixMilli()
	id, err := m.AddItem(context.Background(), menu.Item{Name: "Раф", Price: 220})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n < before {
		t.Fatalf("fallback id = %q", id)
	}
}

func TestAddItemRejectsInvalidDraft(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	m.Load(context.Background())

	_, err := m.AddItem(context.Background(), menu.Item{Name: "   ", Price: 100})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if _, isValidation := err.(*menu.ItemValidationError); !isValidation {
		t.Fatalf("expected ItemValidationError, got %T", err)
	}

	// The rejected edit must not touch state or the store.
	if len(m.Snapshot().Items) != 2 {
		t.Fatalf("state changed: %+v", m.Snapshot())
	}
	if store.putCount() != 0 {
		t.Fatalf("puts = %d", store.putCount())
	}
}

func TestUpdateItemReordersVisibility(t *testing.T) {
	m := newTestManager(t, seededStore())
	m.Load(context.Background())

	// A visible edit moves the item to the end of the order.
	price := 130.0
	if err := m.UpdateItem(context.Background(), "1", ItemPatch{Price: &price}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := m.Snapshot()
	if snap.Items[0].Price != 130 {
		t.Fatalf("items = %+v", snap.Items)
	}
	if snap.ActiveOrder[len(snap.ActiveOrder)-1] != "1" {
		t.Fatalf("order = %v, want 1 last", snap.ActiveOrder)
	}

	// Hiding removes the item from the order entirely.
	hide := false
	if err := m.UpdateItem(context.Background(), "1", ItemPatch{Show: &hide}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range m.Snapshot().ActiveOrder {
		if id == "1" {
			t.Fatalf("hidden item still ordered: %v", m.Snapshot().ActiveOrder)
		}
	}

	if err := m.UpdateItem(context.Background(), "99", ItemPatch{Price: &price}); err != ErrItemNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	m := newTestManager(t, seededStore())
	m.Load(context.Background())

	if err := m.DeleteItem(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := m.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "3" {
		t.Fatalf("items = %+v", snap.Items)
	}
	if len(snap.ActiveOrder) != 1 || snap.ActiveOrder[0] != "3" {
		t.Fatalf("order = %v", snap.ActiveOrder)
	}

	if err := m.DeleteItem(context.Background(), "1"); err != ErrItemNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestToggleItem(t *testing.T) {
	m := newTestManager(t, seededStore())
	m.Load(context.Background())

	if err := m.ToggleItem(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := m.Snapshot()
	if snap.Items[0].Show {
		t.Fatalf("item still visible: %+v", snap.Items[0])
	}

	if err := m.ToggleItem(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Snapshot().Items[0].Show {
		t.Fatalf("item still hidden")
	}
}

// --------------------------------------------------
// Revision guard
// --------------------------------------------------

func TestStaleLoadCannotOverwriteEdit(t *testing.T) {
	store := seededStore()
	store.blockGet = make(chan struct{})
	m := newTestManager(t, store)

	// A load hangs on the wire while an edit lands.
	done := make(chan struct{})
	go func() {
		m.Load(context.Background())
		close(done)
	}()

	// Give the load time to reach the blocked GET.
	time.Sleep(50 * time.Millisecond)

	if _, err := m.AddItem(context.Background(), menu.Item{Name: "Раф", Price: 220, Show: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	close(store.blockGet)
	<-done

	// The stale load result must be discarded.
	snap := m.Snapshot()
	found := false
	for _, item := range snap.Items {
		if item.Name == "Раф" {
			found = true
		}
	}
	if !found {
		t.Fatalf("stale load overwrote the edit: %+v", snap.Items)
	}
}

func TestEditsDegradeToLocalWhenStoreIsDown(t *testing.T) {
	client := menuclient.New(menuclient.Config{
		BaseURL:   "http://127.0.0.1:1/api",
		StaticURL: "http://127.0.0.1:1/menu.json",
		Timeout:   100 * time.Millisecond,
	}, kvstore.NewMemStore())
	m := NewManager(client)

	m.Load(context.Background())
	if !m.Offline() {
		t.Fatalf("manager not offline with unreachable store")
	}

	// Bundled fallback is loaded; edits still apply locally.
	id, err := m.AddItem(context.Background(), menu.Item{Name: "Пряник", Price: 90, Show: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := m.Snapshot()
	if indexOf(snap.Items, id) < 0 {
		t.Fatalf("local edit lost: %+v", snap.Items)
	}
}

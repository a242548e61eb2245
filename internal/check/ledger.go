package check

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Ux1ew1/Kassa-Android/internal/kvstore"
	"github.com/Ux1ew1/Kassa-Android/internal/menu"
)

const (
	keyChecks   = "checks"
	keyActiveID = "activeCheckId"
)

// Ledger owns the check collection and the active check id. All mutations
// are serialized, applied in issue order, and written through to the store
// before the call returns. Persistence failures are logged and swallowed:
// the in-memory state stays authoritative for the session.
type Ledger struct {
	mu       sync.Mutex
	store    kvstore.Store
	checks   []Check
	activeID int
}

// NewLedger loads the persisted collection. Corrupt or missing data falls
// back to a single fresh check with id 1.
func NewLedger(store kvstore.Store) *Ledger {
	l := &Ledger{store: store}
	l.load()
	return l
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

// Checks returns a copy of the collection in storage order.
func (l *Ledger) Checks() []Check {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Check, len(l.checks))
	for i, c := range l.checks {
		out[i] = c.clone()
	}
	return out
}

func (l *Ledger) ActiveID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeID
}

// ActiveCheck returns the check the active id points at.
func (l *Ledger) ActiveCheck() (Check, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.index(l.activeID); i >= 0 {
		return l.checks[i].clone(), true
	}
	return Check{}, false
}

// --------------------------------------------------
// Mutations
// --------------------------------------------------

// CreateCheck appends an empty check with the next free id and makes it
// active. Ids are reused after completion: next id = max existing + 1.
func (l *Ledger) CreateCheck() Check {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := 1
	for _, c := range l.checks {
		if c.ID >= id {
			id = c.ID + 1
		}
	}

	l.checks = append(l.checks, newCheck(id))
	l.activeID = id
	l.persist()
	return l.checks[len(l.checks)-1].clone()
}

// SetActiveCheck switches the active check. Unknown ids are ignored so the
// active id always resolves.
func (l *Ledger) SetActiveCheck(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index(id) < 0 {
		return
	}
	l.activeID = id
	l.persist()
}

// AddLine appends a cart line built from the catalog item and bumps the
// check price by the item price. No-op when the id does not resolve.
func (l *Ledger) AddLine(checkID int, item menu.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(checkID)
	if i < 0 {
		return
	}

	l.checks[i].Items = append(l.checks[i].Items, Line{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
	})
	l.checks[i].Price += item.Price
	l.persist()
}

// RemoveLine drops the line at index, preserving the order of the rest, and
// lowers the check price by the removed line's price. Out-of-range indices
// are ignored.
func (l *Ledger) RemoveLine(checkID, index int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(checkID)
	if i < 0 || index < 0 || index >= len(l.checks[i].Items) {
		return
	}

	removed := l.checks[i].Items[index]
	l.checks[i].Items = append(l.checks[i].Items[:index], l.checks[i].Items[index+1:]...)
	l.checks[i].Price -= removed.Price
	l.persist()
}

// SetFulfilled flips the fulfilled flag on exactly the lines at the given
// positions. The target may be any check, not just the active one, so a
// barista can tick off positions on a parked receipt.
func (l *Ledger) SetFulfilled(checkID int, indices []int, fulfilled bool) {
	if len(indices) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(checkID)
	if i < 0 {
		return
	}

	for _, idx := range indices {
		if idx >= 0 && idx < len(l.checks[i].Items) {
			l.checks[i].Items[idx].Fulfilled = fulfilled
		}
	}
	l.persist()
}

// SetChange records the change for the cash amount handed over. Change is
// clamped at zero: the customer may underpay, the check never owes them.
func (l *Ledger) SetChange(checkID int, given float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(checkID)
	if i < 0 {
		return
	}

	change := given - l.checks[i].Price
	if change < 0 {
		change = 0
	}
	l.checks[i].Change = change
	l.persist()
}

// CompleteCheck removes the check from the collection. The collection is
// never left empty: completing the last check reinstates a fresh check with
// id 1. The active id moves to the last remaining check.
func (l *Ledger) CompleteCheck(checkID int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(checkID)
	if i < 0 {
		return
	}

	l.checks = append(l.checks[:i], l.checks[i+1:]...)
	if len(l.checks) == 0 {
		l.checks = []Check{newCheck(1)}
	}
	l.activeID = l.checks[len(l.checks)-1].ID
	l.persist()
}

// --------------------------------------------------
// Persistence
// --------------------------------------------------

func (l *Ledger) index(id int) int {
	for i, c := range l.checks {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) load() {
	l.checks = []Check{newCheck(1)}
	l.activeID = 1

	raw, err := l.store.Get(keyChecks)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			logrus.WithError(err).Warn("ledger: reading persisted checks failed, starting fresh")
		}
		return
	}

	var checks []Check
	if err := json.Unmarshal(raw, &checks); err != nil || len(checks) == 0 {
		logrus.WithError(err).Warn("ledger: persisted checks are corrupt, starting fresh")
		return
	}

	for i := range checks {
		if checks[i].Items == nil {
			checks[i].Items = []Line{}
		}
		// Do not trust a stored running total.
		checks[i].Price = checks[i].lineSum()
		if checks[i].Change < 0 {
			checks[i].Change = 0
		}
	}
	l.checks = checks

	if raw, err := l.store.Get(keyActiveID); err == nil {
		if id, err := strconv.Atoi(string(raw)); err == nil {
			l.activeID = id
		}
	}
	if l.index(l.activeID) < 0 {
		l.activeID = l.checks[len(l.checks)-1].ID
	}
}

// persist writes the full collection and the active id. Called with the
// lock held, after every mutation.
func (l *Ledger) persist() {
	raw, err := json.Marshal(l.checks)
	if err != nil {
		logrus.WithError(err).Error("ledger: encoding checks failed")
		return
	}
	if err := l.store.Set(keyChecks, raw); err != nil {
		logrus.WithError(err).Warn("ledger: persisting checks failed")
	}
	if err := l.store.Set(keyActiveID, []byte(strconv.Itoa(l.activeID))); err != nil {
		logrus.WithError(err).Warn("ledger: persisting active check id failed")
	}
}

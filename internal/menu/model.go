package menu

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ID identifies a menu item. Catalog payloads in the wild carry both JSON
// numbers and strings; numeric ids keep their numeric form when re-encoded.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
		return nil
	}

	return errors.New("menu: item id must be a string or a number")
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// numeric reports whether the id round-trips as a JSON number literal.
func (id ID) numeric() bool {
	if id == "" {
		return false
	}
	if _, err := strconv.ParseFloat(string(id), 64); err != nil {
		return false
	}
	return json.Valid([]byte(id))
}

// Item is a single catalog entry. Items are created and edited only through
// the admin collaborator; everything else filters and orders them.
type Item struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Show     bool    `json:"show"`
}

// Snapshot is the canonical, validated catalog plus its display ordering.
// Snapshots are rebuilt wholesale on every fetch or save and never mutated
// in place.
type Snapshot struct {
	Items       []Item `json:"items"`
	ActiveOrder []ID   `json:"activeOrder"`
}

// Empty reports whether the snapshot carries no items.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

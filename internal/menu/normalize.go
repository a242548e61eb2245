package menu

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize canonicalizes an arbitrary catalog payload into a valid Snapshot.
// Accepted shapes: a bare item array, {items: [...]}, {menu: [...]}, each
// optionally with an activeOrder array, or an already-built Snapshot.
// It never fails: the worst case is an empty snapshot. Applying Normalize to
// its own output returns an identical snapshot.
func Normalize(payload any) Snapshot {
	rawItems, rawOrder := splitPayload(payload)

	items := make([]Item, 0, len(rawItems))
	seen := make(map[ID]bool, len(rawItems))
	for _, raw := range rawItems {
		item, ok := itemFromAny(raw)
		if !ok || seen[item.ID] {
			continue
		}
		items = append(items, item)
		seen[item.ID] = true
	}

	order := make([]ID, 0, len(rawOrder))
	for _, raw := range rawOrder {
		if id, ok := idFromAny(raw); ok {
			order = append(order, id)
		}
	}

	return Snapshot{
		Items:       items,
		ActiveOrder: EnsureActiveOrderConsistency(items, order),
	}
}

// EnsureActiveOrderConsistency rebuilds the display order: ids of visible
// items keep their first-occurrence position, duplicates and ids of hidden
// or unknown items are dropped, and every visible item missing from the
// order is appended in catalog order.
func EnsureActiveOrderConsistency(items []Item, order []ID) []ID {
	valid := make(map[ID]bool, len(items))
	for _, item := range items {
		if item.Show {
			valid[item.ID] = true
		}
	}

	seen := make(map[ID]bool, len(order))
	ordered := make([]ID, 0, len(items))

	for _, id := range order {
		if valid[id] && !seen[id] {
			ordered = append(ordered, id)
			seen[id] = true
		}
	}

	for _, item := range items {
		if item.Show && !seen[item.ID] {
			ordered = append(ordered, item.ID)
			seen[item.ID] = true
		}
	}

	return ordered
}

// splitPayload locates the item array and the optional activeOrder array
// inside whatever shape the payload has.
func splitPayload(payload any) (items []any, order []any) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case Snapshot:
		return itemsToAny(v.Items), idsToAny(v.ActiveOrder)
	case *Snapshot:
		if v == nil {
			return nil, nil
		}
		return itemsToAny(v.Items), idsToAny(v.ActiveOrder)
	case []Item:
		return itemsToAny(v), nil
	case []any:
		return v, nil
	case map[string]any:
		if arr, ok := v["items"].([]any); ok {
			items = arr
		} else if arr, ok := v["menu"].([]any); ok {
			items = arr
		}
		if arr, ok := v["activeOrder"].([]any); ok {
			order = arr
		}
		return items, order
	default:
		return nil, nil
	}
}

func itemsToAny(items []Item) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func idsToAny(ids []ID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// itemFromAny validates one raw catalog entry. Entries failing shape
// validation are dropped by the caller.
func itemFromAny(v any) (Item, bool) {
	switch t := v.(type) {
	case Item:
		return t, ValidateItem(t) == nil
	case map[string]any:
		id, ok := idFromAny(t["id"])
		if !ok {
			return Item{}, false
		}

		name, ok := t["name"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return Item{}, false
		}

		price, ok := floatFromAny(t["price"])
		if !ok || price < 0 {
			return Item{}, false
		}

		category, _ := t["category"].(string)
		show, _ := t["show"].(bool)

		return Item{ID: id, Name: name, Price: price, Category: category, Show: show}, true
	default:
		return Item{}, false
	}
}

func idFromAny(v any) (ID, bool) {
	switch t := v.(type) {
	case ID:
		return t, t != ""
	case string:
		return ID(t), t != ""
	case json.Number:
		return ID(t.String()), true
	case float64:
		return ID(strconv.FormatFloat(t, 'f', -1, 64)), true
	case int:
		return ID(strconv.Itoa(t)), true
	case int64:
		return ID(strconv.FormatInt(t, 10)), true
	default:
		return "", false
	}
}

func floatFromAny(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

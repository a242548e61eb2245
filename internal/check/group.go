package check

import "github.com/Ux1ew1/Kassa-Android/internal/menu"

// LineGroup is the display projection of all lines sharing one catalog id.
// TotalPrice is the literal sum of the grouped line prices rather than
// Quantity × Price: lines with the same id may carry different prices after
// a catalog edit.
type LineGroup struct {
	ID             menu.ID `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	TotalPrice     float64 `json:"totalPrice"`
	Indices        []int   `json:"indices"`
	FulfilledCount int     `json:"fulfilledCount"`
}

// Fulfilled reports whether every line in the group was prepared.
func (g LineGroup) Fulfilled() bool {
	return g.Quantity > 0 && g.FulfilledCount == g.Quantity
}

// GroupLines folds a check's lines into display groups. Groups appear in
// first-occurrence order of their id; Indices keeps the original line
// positions so fulfillment toggles can address them.
func GroupLines(lines []Line) []LineGroup {
	groups := make([]LineGroup, 0, len(lines))
	byID := make(map[menu.ID]int, len(lines))

	for i, line := range lines {
		at, ok := byID[line.ID]
		if !ok {
			at = len(groups)
			byID[line.ID] = at
			groups = append(groups, LineGroup{
				ID:    line.ID,
				Name:  line.Name,
				Price: line.Price,
			})
		}

		groups[at].Quantity++
		groups[at].TotalPrice += line.Price
		groups[at].Indices = append(groups[at].Indices, i)
		if line.Fulfilled {
			groups[at].FulfilledCount++
		}
	}

	return groups
}

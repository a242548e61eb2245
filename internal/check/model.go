// Package check holds the operator-facing draft receipts: the persisted
// check collection, its mutation state machine, and the read-only cart
// grouping used for display.
package check

import "github.com/Ux1ew1/Kassa-Android/internal/menu"

// Line is one ordered position inside a check. Fulfilled tracks whether the
// position was physically prepared, independent of payment.
type Line struct {
	ID        menu.ID `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Fulfilled bool    `json:"fulfilled"`
}

// Check is a single draft receipt. Price is maintained incrementally by the
// ledger and always equals the sum of line prices; Change is the cash change
// recorded for the customer, never negative.
type Check struct {
	ID     int     `json:"id"`
	Items  []Line  `json:"items"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

func newCheck(id int) Check {
	return Check{ID: id, Items: []Line{}}
}

func (c Check) clone() Check {
	items := make([]Line, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

// lineSum recomputes the price from scratch. Used when loading persisted
// data that may have been written by an older or corrupted session.
func (c Check) lineSum() float64 {
	var sum float64
	for _, line := range c.Items {
		sum += line.Price
	}
	return sum
}

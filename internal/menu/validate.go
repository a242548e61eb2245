package menu

import (
	"math"
	"strings"
)

// ItemValidationError reports a catalog entry the admin collaborator must
// reject. It is the only menu failure surfaced to callers.
type ItemValidationError struct {
	Reason string
}

func (e *ItemValidationError) Error() string {
	return "invalid menu item: " + e.Reason
}

// ValidateItem checks a single catalog entry: id present, name non-empty
// after trimming, price a real number ≥ 0.
func ValidateItem(item Item) error {
	if item.ID == "" {
		return &ItemValidationError{Reason: "id is missing"}
	}
	if strings.TrimSpace(item.Name) == "" {
		return &ItemValidationError{Reason: "name is empty"}
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		return &ItemValidationError{Reason: "price is not a number"}
	}
	if item.Price < 0 {
		return &ItemValidationError{Reason: "price is negative"}
	}
	return nil
}

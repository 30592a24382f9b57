package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that was rejected before touching the database
	ErrValidation = errors.New("validation error")

	// ErrAntibioticNotFound is returned when the referenced antibiotic does not exist
	ErrAntibioticNotFound = errors.New("antibiotic not found")

	// ErrNoAssociations is returned when an antibiogram has no antibiotics assigned
	ErrNoAssociations = errors.New("no antibiotics assigned to this antibiogram")
)

// StockShortfall describes one antibiotic that cannot cover a requested decrement
type StockShortfall struct {
	Code      string `json:"codigo"`
	Name      string `json:"nombre"`
	Available int    `json:"cantidad"`
	Requested int    `json:"solicitado"`
}

// InsufficientStockError is returned when a decrement would drive one or more
// antibiotics below zero. The operation it aborted had no effect.
type InsufficientStockError struct {
	Items []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	if len(e.Items) == 1 {
		it := e.Items[0]
		return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
			it.Code, it.Available, it.Requested)
	}
	return fmt.Sprintf("insufficient stock for %d antibiotics", len(e.Items))
}

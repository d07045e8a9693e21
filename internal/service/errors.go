package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// ValidationError reports malformed input. Fields maps a json field path to
// the reason it was rejected.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{
		Message: "Invalid input",
		Fields:  map[string]string{field: reason},
	}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func MedicationNotInInventory(medicationID uint) *NotFoundError {
	return &NotFoundError{
		Message: fmt.Sprintf("Medication with ID %d not found in store inventory", medicationID),
	}
}

type InsufficientStockError struct {
	MedicationID uint
	Available    int32
	Requested    int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Medication with ID %d is out of stock or has insufficient quantity (available %d, requested %d)",
		e.MedicationID, e.Available, e.Requested)
}

// PriceMismatchError is returned under the reject price policy when the
// client's price for a line, or its order total (MedicationID 0), differs from
// the ledger.
type PriceMismatchError struct {
	MedicationID uint
	Expected     decimal.Decimal
	Got          decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	if e.MedicationID == 0 {
		return fmt.Sprintf("Order total %s does not match current prices (expected %s)", e.Got, e.Expected)
	}
	return fmt.Sprintf("Price %s for medication with ID %d does not match current price %s", e.Got, e.MedicationID, e.Expected)
}

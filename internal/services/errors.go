package services

import (
	"errors"
	"fmt"
)

// Not-found conditions. Distinct from validation errors: the input was
// well-formed but the referenced record does not exist.
var (
	ErrBillNotFound     = errors.New("bill not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUserNotFound     = errors.New("user not found")
)

// ValidationError rejects malformed input before any transaction is opened.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SparePartNotFoundError aborts a bill creation that references a part that
// does not exist.
type SparePartNotFoundError struct {
	ID int
}

func (e *SparePartNotFoundError) Error() string {
	return fmt.Sprintf("spare part with ID %d not found", e.ID)
}

// InsufficientStockError aborts a bill creation. The message carries the
// available and requested quantities so the counter screen can prompt a
// correction.
type InsufficientStockError struct {
	Category  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Requested: %d",
		e.Category, e.Available, e.Requested)
}

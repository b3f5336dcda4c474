package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrAlreadyVerified = errors.New("payment already verified or rejected")
	ErrPaymentPending  = errors.New("payment verification still pending")
	// ErrConflict is returned by repositories when an optimistic update lost
	// a race; callers retry once before surfacing it.
	ErrConflict = errors.New("order was modified concurrently")
)

// ValidationError covers bad request shape: missing lines, customer details
// or payment method.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order request: %s %s", e.Field, e.Msg)
}

type ProductUnavailableError struct {
	ProductID uint64
	Name      string
	State     PublicationState
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %q is not available for purchase (state: %s)", e.Name, e.State)
}

type InsufficientStockError struct {
	ProductID uint64
	Name      string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

type NotCancellableError struct {
	Status OrderStatus
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("order cannot be cancelled in status %q", e.Status)
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCatalogLoad        = errors.New("catalog load failed")
	ErrCatalogUnavailable = errors.New("no items available")
	ErrUnknownItem        = errors.New("item not found")
	ErrInvalidOrderType   = errors.New("invalid order type")
	ErrInvalidQuantity    = errors.New("quantity change out of range")

	ErrStoreClosed = errors.New("store closed")

	ErrOfferLocked         = errors.New("add any one regular menu item to unlock today's offer")
	ErrOfferAlreadyApplied = errors.New("today's offer already applied")
	ErrOfferLimitExceeded  = errors.New("today's offer is limited to 1 item per order")

	ErrPersistence = errors.New("cart persistence failed")

	ErrEmptyCart    = errors.New("cart is empty")
	ErrMissingField = errors.New("missing required field")
)

// StoreClosedError carries the message shown to the customer while the kitchen is closed.
type StoreClosedError struct {
	NextOpenMessage string
}

func (e *StoreClosedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStoreClosed, e.NextOpenMessage)
}

func (e *StoreClosedError) Unwrap() error { return ErrStoreClosed }

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

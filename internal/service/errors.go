package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRating      = fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart empty")
	ErrOrderFailed        = errors.New("order failed")
	ErrStorage            = errors.New("storage error")
	ErrConflict           = errors.New("conflict")
	ErrProductInUse       = fmt.Errorf("%w: product is referenced by orders", ErrConflict)
)

// StockError reports the cart line that could not be served; it matches ErrInsufficientStock.
type StockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.Name)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

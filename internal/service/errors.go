package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrPersonNotFound     = errors.New("person not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBrandNotFound      = errors.New("brand not found")
	ErrBrandInUse         = errors.New("brand has products")
	ErrProductNotFound    = errors.New("product not found")
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartNotActive      = errors.New("cart is not active")
	ErrCartEmpty          = errors.New("cart has no items")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrInvalidStatus      = errors.New("invalid sale status")
	ErrQueueUnavailable   = errors.New("task queue unavailable")
	ErrPaymentGateway     = errors.New("payment gateway error")
)

// StockInsufficientError carries the quantity still available so handlers
// can tell the storefront how far the cart can go.
type StockInsufficientError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// AsStockInsufficient unwraps err into a StockInsufficientError if it is one.
func AsStockInsufficient(err error) (*StockInsufficientError, bool) {
	var stockErr *StockInsufficientError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}

package service

import "errors"

// Domain errors. All are recoverable and reported to the caller; handlers map
// them to HTTP status codes.
var (
	ErrInsufficientStock = errors.New("insufficient stock for this transaction")
	ErrInvalidTransition = errors.New("order is not pending")
	ErrSupplierMismatch  = errors.New("this supplier does not supply this product")
	ErrDuplicateSKU      = errors.New("SKU already exists")

	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrOrderNotFound    = errors.New("order not found")

	ErrForbidden = errors.New("you do not have access to this resource")
)

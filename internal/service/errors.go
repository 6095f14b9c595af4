package service

import "errors"

// Named failure conditions for ledger and query operations. Callers select on
// these with errors.Is; duplicate catalog adds are reported as a boolean
// instead because they are an expected soft failure.
var (
	ErrUnknownProduct    = errors.New("unknown product code")
	ErrUnknownWarehouse  = errors.New("unknown warehouse code")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
)

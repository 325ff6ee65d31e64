package domain

import "errors"

var (
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrNegativeStock    = errors.New("countInStock cannot be negative")
	ErrPriceTooPrecise  = errors.New("price has too many digits or is out of range")
	ErrPasswordTooLong  = errors.New("password cannot be longer than 72 bytes")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrAlreadyDelivered = errors.New("order is already delivered")
)

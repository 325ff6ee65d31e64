package domain

import "github.com/shopspring/decimal"

type ID string

func ValidateID(id string) bool {
	return len(id) == 24
}

// RoundPrice rounds a monetary value to cents.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

type Event interface {
	GetName() string
	GetEntityName() string
}

// Caller is the identity resolved by the gateway for the current request.
type Caller struct {
	ID      ID
	Name    string
	Email   string
	IsAdmin bool
}

func (c *Caller) CanAccess(owner ID) bool {
	return c != nil && (c.IsAdmin || c.ID == owner)
}

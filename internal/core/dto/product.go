package dto

import "github.com/shopspring/decimal"

// UpdateProductRequest replaces every editable field; omitted fields are cleared.
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	CountInStock int             `json:"countInStock"`
}

// PatchProductRequest only touches the fields present in the body.
type PatchProductRequest struct {
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Description  *string          `json:"description"`
	Image        *string          `json:"image"`
	Brand        *string          `json:"brand"`
	Category     *string          `json:"category"`
	CountInStock *int             `json:"countInStock"`
}

package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           ID
	User         ID
	Name         string
	Price        decimal.Decimal
	Image        string
	Description  string
	Brand        string
	Category     string
	CountInStock int
	NumReviews   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductDetails are the fields an admin may edit on a product.
type ProductDetails struct {
	Name         string
	Price        decimal.Decimal
	Description  string
	Image        string
	Brand        string
	Category     string
	CountInStock int
}

// Prices are stored as IEEE 754 decimal128: 34 significant digits and an
// exponent in [-6176, 6111].
const (
	maxPriceDigits   = 34
	minPriceExponent = -6176
	maxPriceExponent = 6111
)

// ValidatePrice reports whether d can be stored without losing digits.
func ValidatePrice(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegativePrice
	}
	if d.IsZero() {
		return nil
	}
	coefficient := new(big.Int).Abs(d.Coefficient())
	exp := int(d.Exponent())
	// trailing zeros in the coefficient can move into the exponent
	ten := big.NewInt(10)
	for exp < maxPriceExponent && new(big.Int).Mod(coefficient, ten).Sign() == 0 {
		coefficient.Quo(coefficient, ten)
		exp++
	}
	digits := len(coefficient.String())
	if digits > maxPriceDigits || exp < minPriceExponent || exp > maxPriceExponent {
		return ErrPriceTooPrecise
	}
	return nil
}

func (d ProductDetails) Validate() error {
	if err := ValidatePrice(d.Price); err != nil {
		return err
	}
	if d.CountInStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

func NewProduct(owner ID, details ProductDetails) *Product {
	now := time.Now()
	p := &Product{
		User:      owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Replace(details)
	return p
}

// NewSampleProduct builds the placeholder product an admin creates before editing it.
func NewSampleProduct(owner ID) *Product {
	return NewProduct(owner, ProductDetails{
		Name:         "Sample name",
		Price:        decimal.Zero,
		Image:        "/images/sample.jpg",
		Brand:        "Sample brand",
		Category:     "Sample category",
		CountInStock: 0,
		Description:  "Sample description",
	})
}

// Replace overwrites every editable field, including with zero values.
func (p *Product) Replace(details ProductDetails) {
	p.Name = details.Name
	p.Price = details.Price
	p.Description = details.Description
	p.Image = details.Image
	p.Brand = details.Brand
	p.Category = details.Category
	p.CountInStock = details.CountInStock
	p.UpdatedAt = time.Now()
}

func (p *Product) Details() ProductDetails {
	return ProductDetails{
		Name:         p.Name,
		Price:        p.Price,
		Description:  p.Description,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		CountInStock: p.CountInStock,
	}
}

// DemoProducts returns the fixed showcase catalog served when the store is empty.
func DemoProducts() []*Product {
	return []*Product{
		{
			ID:           "dummy1",
			Name:         "Hoodlum T-Shirt",
			Price:        decimal.RequireFromString("19.99"),
			Image:        "/images/1.png",
			Description:  "A stylish T-shirt with the Hoodlum Mentality logo.",
			Brand:        "Hoodlum",
			Category:     "Apparel",
			CountInStock: 15,
			NumReviews:   0,
		},
		{
			ID:           "dummy2",
			Name:         "Hoodlum Hoodie",
			Price:        decimal.RequireFromString("39.99"),
			Image:        "/images/2.png",
			Description:  "A cozy hoodie with a bold design.",
			Brand:        "Hoodlum",
			Category:     "Apparel",
			CountInStock: 10,
			NumReviews:   0,
		},
		{
			ID:           "dummy3",
			Name:         "Hoodlum Cap",
			Price:        decimal.RequireFromString("14.99"),
			Image:        "/images/3.png",
			Description:  "A cool cap to complete your look.",
			Brand:        "Hoodlum",
			Category:     "Accessories",
			CountInStock: 20,
			NumReviews:   0,
		},
	}
}

type ProductCreatedEvent struct {
	ProductID ID        `json:"product_id"`
	User      ID        `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ProductCreatedEvent) GetName() string {
	return "product.created"
}

func (e *ProductCreatedEvent) GetEntityName() string {
	return "product"
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{ProductID: p.ID, User: p.User, CreatedAt: p.CreatedAt}
}

type ProductUpdatedEvent struct {
	ProductID    ID              `json:"product_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"count_in_stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (e *ProductUpdatedEvent) GetName() string {
	return "product.updated"
}

func (e *ProductUpdatedEvent) GetEntityName() string {
	return "product"
}

func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		ProductID:    p.ID,
		Name:         p.Name,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		UpdatedAt:    p.UpdatedAt,
	}
}

package document

import (
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	User         primitive.ObjectID   `bson:"user,omitempty"`
	Name         string               `bson:"name"`
	Price        primitive.Decimal128 `bson:"price"`
	Image        string               `bson:"image"`
	Description  string               `bson:"description"`
	Brand        string               `bson:"brand"`
	Category     string               `bson:"category"`
	CountInStock int                  `bson:"count_in_stock"`
	NumReviews   int                  `bson:"num_reviews"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (doc ProductDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *ProductDocument) ToDomain() *domain.Product {
	return &domain.Product{
		ID:           domainID(doc.ID),
		User:         domainID(doc.User),
		Name:         doc.Name,
		Price:        fromDecimal128(doc.Price),
		Image:        doc.Image,
		Description:  doc.Description,
		Brand:        doc.Brand,
		Category:     doc.Category,
		CountInStock: doc.CountInStock,
		NumReviews:   doc.NumReviews,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func ToProductDocument(p *domain.Product) (*ProductDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return nil, err
	}
	return &ProductDocument{
		ID:           objectID(p.ID),
		User:         objectID(p.User),
		Name:         p.Name,
		Price:        price,
		Image:        p.Image,
		Description:  p.Description,
		Brand:        p.Brand,
		Category:     p.Category,
		CountInStock: p.CountInStock,
		NumReviews:   p.NumReviews,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}

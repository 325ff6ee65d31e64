package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/mongo/document"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, "products", "product"),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	doc, err := document.ToProductDocument(product)
	if err != nil {
		return err
	}
	doc.ID = primitive.NilObjectID

	objectID, err := r.Insert(ctx, doc)
	if err != nil {
		return err
	}

	product.ID = domain.ID(objectID.Hex())
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	doc, err := r.FindByID(ctx, string(id))
	if err != nil {
		return nil, err
	}

	return doc.ToDomain(), nil
}

// GetAll lists the catalog in insertion order.
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAs(ctx, r.BaseRepository, bson.M{}, (*document.ProductDocument).ToDomain, opts)
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.BaseRepository.Count(ctx, bson.M{})
}

// Update writes the editable fields of the product as they are, zero values included.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	doc, err := document.ToProductDocument(product)
	if err != nil {
		return err
	}
	return r.BaseRepository.Update(ctx, string(product.ID), bson.M{
		"name":           doc.Name,
		"price":          doc.Price,
		"image":          doc.Image,
		"description":    doc.Description,
		"brand":          doc.Brand,
		"category":       doc.Category,
		"count_in_stock": doc.CountInStock,
		"updated_at":     doc.UpdatedAt,
	})
}

func (r *ProductRepository) DeductStock(ctx context.Context, id domain.ID, quantity int) error {
	oid, err := r.objectID(string(id))
	if err != nil {
		return err
	}

	result := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "count_in_stock": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"count_in_stock": -quantity},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return serviceerrors.NewUnprocessableEntityError(fmt.Sprintf("insufficient stock for product %s", id))
		}
		return r.parseError(err)
	}

	return nil
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/mongo/document"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	pkgerrors "github.com/pkg/errors"
)

type OrderRepository struct {
	*BaseRepository[document.OrderDocument]
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	repo := &OrderRepository{
		BaseRepository: NewBaseRepository[document.OrderDocument](db, "orders", "order"),
	}
	repo.ensureIndexes(
		// my orders
		mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
		// admin fulfilment views
		mongo.IndexModel{Keys: bson.D{{Key: "is_paid", Value: 1}, {Key: "is_delivered", Value: 1}}},
	)
	return repo
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID != "" {
		return pkgerrors.Errorf("order %s already has an id", order.ID)
	}

	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	doc, err := document.ToOrderDocument(order)
	if err != nil {
		return err
	}
	oid, err := r.Insert(ctx, doc)
	if err != nil {
		return err
	}
	order.ID = domain.ID(oid.Hex())
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Order, error) {
	doc, err := r.FindByID(ctx, string(id))
	if err != nil {
		return nil, err
	}

	return doc.ToDomain(), nil
}

func (r *OrderRepository) GetByUser(ctx context.Context, user domain.ID) ([]*domain.Order, error) {
	oid, err := r.objectID(string(user))
	if err != nil {
		return nil, err
	}
	return findAs(ctx, r.BaseRepository, bson.M{"user": oid}, (*document.OrderDocument).ToDomain, newestFirst)
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return findAs(ctx, r.BaseRepository, bson.M{}, (*document.OrderDocument).ToDomain, newestFirst)
}

// UpdateStatus persists the payment and delivery state of the order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	doc, err := document.ToOrderDocument(order)
	if err != nil {
		return err
	}
	return r.Update(ctx, string(order.ID), bson.M{
		"is_paid":        doc.IsPaid,
		"paid_at":        doc.PaidAt,
		"payment_result": doc.PaymentResult,
		"is_delivered":   doc.IsDelivered,
		"delivered_at":   doc.DeliveredAt,
		"updated_at":     doc.UpdatedAt,
	})
}

package port

import (
	"context"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type ProductPort interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, product *domain.Product) error
	DeductStock(ctx context.Context, id domain.ID, quantity int) error
}

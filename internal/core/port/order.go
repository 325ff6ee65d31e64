package port

import (
	"context"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type OrderPort interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Order, error)
	GetByUser(ctx context.Context, user domain.ID) ([]*domain.Order, error)
	GetAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
}

package port

import (
	"context"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// OutboxPort stores an event for later delivery, in the same transaction as the write that caused it.
type OutboxPort interface {
	Enqueue(ctx context.Context, event domain.Event) error
}

package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
)

// Entry is a domain event waiting to be published. Entries are written in the
// same transaction as the change that raised them.
type Entry struct {
	ID         string
	EventName  string
	EntityName string
	EventData  []byte
	CreatedAt  time.Time
}

func NewEntry(event domain.Event) (Entry, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Entry{}, fmt.Errorf("outbox: encode %s: %w", event.GetName(), err)
	}
	return Entry{
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		EventData:  data,
		CreatedAt:  time.Now(),
	}, nil
}

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	FetchPending(ctx context.Context, limit int) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}

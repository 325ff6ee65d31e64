package repository

import (
	"context"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/mongo/document"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/outbox"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OutboxRepository stores pending events. It is both the write side used by
// services inside their transactions and the read side drained by the relay.
type OutboxRepository struct {
	base *BaseRepository[document.OutboxDocument]
}

func NewOutboxRepository(db *mongo.Database) *OutboxRepository {
	base := NewBaseRepository[document.OutboxDocument](db, "outbox", "outbox entry")
	base.ensureIndexes(mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: 1}}})
	return &OutboxRepository{base: base}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, event domain.Event) error {
	entry, err := outbox.NewEntry(event)
	if err != nil {
		return err
	}
	return r.Insert(ctx, entry)
}

func (r *OutboxRepository) Insert(ctx context.Context, entry outbox.Entry) error {
	doc, err := document.ToOutboxDocument(entry)
	if err != nil {
		return err
	}
	_, err = r.base.Insert(ctx, doc)
	return err
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	docs, err := r.base.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]outbox.Entry, 0, len(docs))
	for _, doc := range docs {
		entry, err := doc.ToEntry()
		if err != nil {
			logger.Error(ctx, "outbox: skipping unreadable entry", err, map[string]any{
				"outbox_id": doc.ID.Hex(),
				"event":     doc.Event,
			})
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *OutboxRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return pkgerrors.Wrapf(err, "outbox: invalid entry id %q", id)
	}

	_, err = r.base.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return pkgerrors.WithStack(err)
}

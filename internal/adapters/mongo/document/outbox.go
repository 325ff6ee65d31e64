package document

import (
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/outbox"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OutboxDocument embeds the event payload as a document, so pending events can
// be looked up by their fields (payload.order_id, payload.product_id).
type OutboxDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Event     string             `bson:"event"`
	Entity    string             `bson:"entity"`
	Payload   bson.D             `bson:"payload"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (doc OutboxDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func ToOutboxDocument(entry outbox.Entry) (*OutboxDocument, error) {
	var payload bson.D
	if err := bson.UnmarshalExtJSON(entry.EventData, false, &payload); err != nil {
		return nil, pkgerrors.Wrapf(err, "outbox: payload of %s is not a json object", entry.EventName)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &OutboxDocument{
		Event:     entry.EventName,
		Entity:    entry.EntityName,
		Payload:   payload,
		CreatedAt: createdAt,
	}, nil
}

func (doc *OutboxDocument) ToEntry() (outbox.Entry, error) {
	data, err := bson.MarshalExtJSON(doc.Payload, false, false)
	if err != nil {
		return outbox.Entry{}, pkgerrors.Wrapf(err, "outbox: encode payload of %s", doc.ID.Hex())
	}

	return outbox.Entry{
		ID:         doc.ID.Hex(),
		EventName:  doc.Event,
		EntityName: doc.Entity,
		EventData:  data,
		CreatedAt:  doc.CreatedAt,
	}, nil
}

package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/mongo/document"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const indexTimeout = 10 * time.Second

// BaseRepository holds the collection plumbing shared by the entity
// repositories. entity names the record in not found and conflict messages.
type BaseRepository[T document.Document] struct {
	collection *mongo.Collection
	entity     string
}

func NewBaseRepository[T document.Document](db *mongo.Database, collectionName, entity string) *BaseRepository[T] {
	return &BaseRepository[T]{
		collection: db.Collection(collectionName),
		entity:     entity,
	}
}

// ensureIndexes is best effort: a failure is logged and the repository
// keeps working without the index.
func (r *BaseRepository[T]) ensureIndexes(models ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		logger.Error(ctx, "failed to create indexes", err, map[string]any{
			"collection": r.collection.Name(),
		})
	}
}

func (r *BaseRepository[T]) objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, r.parseError(err)
	}
	return oid, nil
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := r.objectID(id)
	if err != nil {
		return nil, err
	}
	return r.FindOne(ctx, bson.M{"_id": oid})
}

func (r *BaseRepository[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, r.parseError(err)
	}
	return &doc, nil
}

// Find never returns a nil slice.
func (r *BaseRepository[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, r.parseError(err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, r.parseError(err)
	}
	return docs, nil
}

func (r *BaseRepository[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, r.parseError(err)
	}
	return n, nil
}

// Insert stores the document and returns the identifier the store assigned.
func (r *BaseRepository[T]) Insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, r.parseError(err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, pkgerrors.Errorf("%s: unexpected inserted id %v", r.entity, result.InsertedID)
	}
	return oid, nil
}

// Update applies set to the document with the given id.
func (r *BaseRepository[T]) Update(ctx context.Context, id string, set bson.M) error {
	oid, err := r.objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return r.parseError(err)
	}
	if result.MatchedCount == 0 {
		return r.notFound()
	}
	return nil
}

func (r *BaseRepository[T]) notFound() error {
	return serviceerrors.NewNotFoundError(r.entity + " not found")
}

// parseError translates driver errors into service errors. Anything else is
// returned with a stack trace attached.
func (r *BaseRepository[T]) parseError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return r.notFound()
	case mongo.IsDuplicateKeyError(err):
		return serviceerrors.NewConflictError(r.entity + " already exists")
	case isInvalidObjectIDError(err):
		return serviceerrors.NewInvalidRequestError("invalid " + r.entity + " id")
	}
	return pkgerrors.WithStack(err)
}

func isInvalidObjectIDError(err error) bool {
	return errors.Is(err, primitive.ErrInvalidHex) ||
		(err != nil && strings.Contains(err.Error(), "not a valid ObjectID"))
}

// findAs runs Find and converts every document with toDomain.
func findAs[T document.Document, E any](ctx context.Context, r *BaseRepository[T], filter bson.M, toDomain func(*T) *E, opts ...*options.FindOptions) ([]*E, error) {
	docs, err := r.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]*E, len(docs))
	for i := range docs {
		out[i] = toDomain(&docs[i])
	}
	return out, nil
}

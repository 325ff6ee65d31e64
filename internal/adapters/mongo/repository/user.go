package repository

import (
	"context"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/mongo/document"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	*BaseRepository[document.UserDocument]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	repo := &UserRepository{
		BaseRepository: NewBaseRepository[document.UserDocument](db, "users", "user"),
	}
	// emails are stored normalized, so the unique index is case insensitive
	repo.ensureIndexes(mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return repo
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc := document.ToUserDocument(user)
	doc.ID = primitive.NilObjectID
	doc.Email = domain.NormalizeEmail(doc.Email)

	objectID, err := r.Insert(ctx, doc)
	if err != nil {
		return err
	}

	user.ID = domain.ID(objectID.Hex())
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	doc, err := r.FindByID(ctx, string(id))
	if err != nil {
		return nil, err
	}
	return doc.ToDomain(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	doc, err := r.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
	if err != nil {
		return nil, err
	}
	return doc.ToDomain(), nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, id domain.ID, isAdmin bool) error {
	return r.Update(ctx, string(id), bson.M{
		"is_admin":   isAdmin,
		"updated_at": time.Now(),
	})
}

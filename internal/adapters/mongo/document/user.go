package document

import (
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	IsAdmin   bool               `bson:"is_admin"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (doc UserDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *UserDocument) ToDomain() *domain.User {
	return &domain.User{
		ID:           domainID(doc.ID),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		IsAdmin:      doc.IsAdmin,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func ToUserDocument(u *domain.User) *UserDocument {
	return &UserDocument{
		ID:        objectID(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

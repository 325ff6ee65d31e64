package port

import "github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type TokenPort interface {
	Issue(userID domain.ID) (string, error)
	Verify(token string) (domain.ID, error)
}

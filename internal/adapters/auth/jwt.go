package auth

import (
	"fmt"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/config"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/dgrijalva/jwt-go"
)

type claims struct {
	ID string `json:"id"`
	jwt.StandardClaims
}

// JWTIssuer signs HS256 tokens carrying the user id in the "id" claim.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(cfg config.AuthConfig) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

func (j *JWTIssuer) Issue(userID domain.ID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: string(userID),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.ttl).Unix(),
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWTIssuer) Verify(tokenString string) (domain.ID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.ID == "" {
		return "", fmt.Errorf("invalid token")
	}
	return domain.ID(c.ID), nil
}

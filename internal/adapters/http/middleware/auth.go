package middleware

import (
	"context"
	"strings"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/handlers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Caller, error)
}

// Authenticate resolves the bearer token into a caller stored on the context.
func Authenticate(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			handlers.HandleError(c, serviceerrors.NewUnauthorizedError("Not authorized, no token"))
			return
		}

		caller, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			handlers.HandleError(c, err)
			return
		}

		c.Set(callerKey, caller)
		c.Request = c.Request.WithContext(logger.WithFields(c.Request.Context(), map[string]any{
			"user_id": string(caller.ID),
		}))
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil || !caller.IsAdmin {
			handlers.HandleError(c, serviceerrors.NewUnauthorizedError("Not authorized as an admin"))
			return
		}
		c.Next()
	}
}

func CallerFrom(c *gin.Context) *domain.Caller {
	value, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := value.(*domain.Caller)
	return caller
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

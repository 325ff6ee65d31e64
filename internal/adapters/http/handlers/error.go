package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
)

type ErrorResponse struct {
	Message string  `json:"message"`
	Stack   *string `json:"stack"`
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// HandleError records err on the request and stops the handler chain.
// The response itself is written by ErrorMiddleware.
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Recovery turns a panic into a 500 rendered by ErrorMiddleware. It must be
// registered after ErrorMiddleware.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := pkgerrors.Errorf("panic: %v", recovered)
		logger.Error(c.Request.Context(), "Recovered from panic", err, map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		HandleError(c, err)
	})
}

// ErrorMiddleware renders the last error recorded on the context as
// {"message", "stack"}. The stack is null unless exposeStack is set.
func ErrorMiddleware(exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := statusFor(err)

		response := ErrorResponse{Message: err.Error()}
		if exposeStack {
			stack := stackOf(err)
			response.Stack = &stack
		}

		c.JSON(status, response)
	}
}

func statusFor(err error) int {
	var svcErr *serviceerrors.ServiceError
	if errors.As(err, &svcErr) {
		return mapKindToHTTP(svcErr.Kind)
	}
	return http.StatusInternalServerError
}

func stackOf(err error) string {
	var tracer stackTracer
	if errors.As(err, &tracer) {
		return fmt.Sprintf("%+v", tracer)
	}
	return err.Error()
}

func mapKindToHTTP(kind serviceerrors.ErrorKind) int {
	switch kind {
	case serviceerrors.KindNotFound:
		return http.StatusNotFound
	case serviceerrors.KindConflict:
		return http.StatusConflict
	case serviceerrors.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case serviceerrors.KindInvalidRequest:
		return http.StatusBadRequest
	case serviceerrors.KindUnauthorized:
		return http.StatusUnauthorized
	case serviceerrors.KindForbidden:
		return http.StatusForbidden
	case serviceerrors.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

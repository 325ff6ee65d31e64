package serviceerrors

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindConflict
	KindUnprocessableEntity
	KindInvalidRequest
	KindUnauthorized
	KindForbidden
	KindTooManyRequests
)

func IsOfKind(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind == kind
	}
	return false
}

// ServiceError is a classified failure that maps onto a client-visible status.
// The wrapped cause carries the stack captured where the error was built.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

func newServiceError(kind ErrorKind, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, cause: pkgerrors.New(message)}
}

func NewNotFoundError(message string) *ServiceError {
	return newServiceError(KindNotFound, message)
}

func NewConflictError(message string) *ServiceError {
	return newServiceError(KindConflict, message)
}

func NewUnprocessableEntityError(message string) *ServiceError {
	return newServiceError(KindUnprocessableEntity, message)
}

func NewInvalidRequestError(message string) *ServiceError {
	return newServiceError(KindInvalidRequest, message)
}

func NewUnauthorizedError(message string) *ServiceError {
	return newServiceError(KindUnauthorized, message)
}

func NewForbiddenError(message string) *ServiceError {
	return newServiceError(KindForbidden, message)
}

func NewTooManyRequestsError(message string) *ServiceError {
	return newServiceError(KindTooManyRequests, message)
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zabuzara/project-milestone-dashboard-backend/repositories"
)

// Error kinds. Every error returned by this package either wraps one of these or is an
// unexpected store failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrDuplicate        = errors.New("duplicate")
	ErrMalformedID      = errors.New("malformed identifier")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error carries a kind and the message shown to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Message
	}
	return err.Error()
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, newError(ErrMalformedID, "'%s' is not a valid 24-digit hex string", id)
	}
	return objectID, nil
}

// storeError translates repository sentinels into service kinds for the named entity and
// passes anything else through untouched.
func storeError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return newError(ErrNotFound, "%s not exists", entity)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return duplicate(entity)
	case errors.Is(err, repositories.ErrUnavailable):
		return newError(ErrStoreUnavailable, "Database temporarily unavailable")
	default:
		return err
	}
}

func missingProperty(entity string) error {
	return newError(ErrValidation, "%s property is missing", entity)
}

func duplicate(entity string) error {
	return newError(ErrDuplicate, "%s-Duplicate not allowed", entity)
}

// invalidProperties describes struct tag violations reported by the validator.
func invalidProperties(entity string, err error) error {
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return newError(ErrValidation, "%s property is invalid: %v", entity, err)
	}
	fields := make([]string, 0, len(violations))
	for _, violation := range violations {
		rule := violation.Tag()
		if violation.Param() != "" {
			rule += "=" + violation.Param()
		}
		fields = append(fields, fmt.Sprintf("%s (%s)", violation.Namespace(), rule))
	}
	return newError(ErrValidation, "%s property is invalid: %s", entity, strings.Join(fields, ", "))
}

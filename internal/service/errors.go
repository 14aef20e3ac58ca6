package service

import (
	"errors"
	"fmt"

	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

// ValidationError reports a request that cannot be accepted as given.
// Message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// fromStoreError converts a write rejected by the store's model validation
// into a ValidationError carrying the model's message.
func fromStoreError(err error) error {
	if !errors.Is(err, storage.ErrInvalidRecord) {
		return err
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !errors.Is(e, storage.ErrInvalidRecord) {
				return &ValidationError{Message: e.Error()}
			}
		}
	}
	return &ValidationError{Message: err.Error()}
}

// NotFoundError reports that no record of the named kind has the
// requested ID. It matches storage.ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return storage.ErrNotFound
}

// notFound replaces storage.ErrNotFound with a NotFoundError for resource.
// Other errors are returned unchanged.
func notFound(err error, resource, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

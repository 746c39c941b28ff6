package homework

import (
	"fmt"

	"github.com/pkg/errors"

	"homework-telegram-bot/internal/types"
)

var (
	// ErrInvalidResponse is matched by every *ValidationError.
	ErrInvalidResponse = errors.New("invalid api response")
	// ErrMalformedHomework means a record lacks homework_name or status.
	ErrMalformedHomework = errors.New("malformed homework in api response")
	// ErrUnknownVerdict means a record carries a status outside the verdict table.
	ErrUnknownVerdict = errors.New("unknown homework verdict")
)

// ValidationError describes the first field of an API answer that does not
// have the documented shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid api response: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidResponse
}

// RecordError is returned by ParseStatus for a record it cannot turn into a
// message.
type RecordError struct {
	Kind   error
	Record types.Homework
	Status string
}

func (e *RecordError) Error() string {
	if e.Kind == ErrUnknownVerdict {
		return fmt.Sprintf("%s: %q", e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Kind, map[string]interface{}(e.Record))
}

func (e *RecordError) Unwrap() error {
	return e.Kind
}

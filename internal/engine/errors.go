package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperengineering/attire/internal/validation"
)

// ErrInvalidRequest identifies a recommendation request rejected at the boundary.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// RequestError lists every field that failed validation.
type RequestError struct {
	Errors []validation.ValidationError
}

func (e *RequestError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(parts, "; "))
}

// Is lets callers match any RequestError with errors.Is(err, ErrInvalidRequest).
func (e *RequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

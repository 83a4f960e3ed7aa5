package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller errors: bad counts, unknown catalog ids,
// meal names outside the plan and the like.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

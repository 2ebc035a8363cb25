package contract

import (
	"errors"
	"fmt"
)

var (
	ErrModelInvoke        = errors.New("model invoke failed")
	ErrToolRoundsExceeded = errors.New("tool call rounds exceeded")
	ErrUnknownTool        = errors.New("unknown tool")
	ErrValidation         = errors.New("validation failed")
	ErrConfiguration      = errors.New("invalid configuration")

	ErrEmptyMessage = fmt.Errorf("%w: message cannot be empty", ErrValidation)
)

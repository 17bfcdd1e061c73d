package ecs

import (
	"errors"
	"fmt"
)

// Fail-fast conditions. They are raised with panic(error) because they mean
// the caller holds a stale handle or skipped a Has check; recover and match
// with errors.Is.
var (
	ErrInvalidEntity    = errors.New("ecs: entity not alive")
	ErrMissingComponent = errors.New("ecs: missing component")
	ErrMissingKey       = errors.New("ecs: missing key")
	ErrDuplicateKey     = errors.New("ecs: duplicate key")
	ErrNegativeKey      = errors.New("ecs: negative key")
)

func failf(sentinel error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

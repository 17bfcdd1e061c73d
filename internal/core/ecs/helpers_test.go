package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type position struct{ X, Y int }
type velocity struct{ DX, DY int }
type tag struct{}
type health struct{ HP int }

// requirePanicIs runs fn and requires it to panic with an error matching target.
func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic matching %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "got %v, want %v", err, target)
	}()
	fn()
}

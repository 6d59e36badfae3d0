package httperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindBadCredentials, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.Status(), tt.kind.String())
	}
}

func TestError_Entries_HidesInternalCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("pq: connection refused")
	e := Internal(cause)

	entries := e.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "InternalError", entries[0].Type)
	assert.NotContains(t, entries[0].Msg, "pq:")
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	e := Wrap(KindConflict, "email already exists", cause)

	assert.ErrorIs(t, e, cause)
	assert.Equal(t, http.StatusBadRequest, e.Status())
}

func TestAs(t *testing.T) {
	t.Parallel()

	orig := BadCredentials()
	wrapped := fmt.Errorf("login: %w", orig)
	assert.Same(t, orig, As(wrapped))

	plain := errors.New("boom")
	assert.Equal(t, KindInternal, As(plain).Kind)
}

func TestValidation_EntriesPassThrough(t *testing.T) {
	t.Parallel()

	fields := []FieldError{
		{Type: "field", Msg: "Email is required", Path: "email", Location: "body"},
		{Type: "field", Msg: "Password should be at least 8 characters", Path: "password", Location: "body"},
	}
	e := Validation(fields)

	assert.Equal(t, http.StatusBadRequest, e.Status())
	assert.Equal(t, fields, e.Entries())
}

// apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindInvalidCredentials, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindStore, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusOf(New(tt.kind, "boom")))
	}
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindStore, KindOf(errors.New("disk on fire")))
}

func TestKindOfWrappedError(t *testing.T) {
	inner := New(KindNotFound, "missing")
	wrapped := fmt.Errorf("lookup: %w", inner)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "missing", MessageOf(wrapped))
}

func TestMessageOfHidesInternalDetails(t *testing.T) {
	err := errors.New("connection string with credentials")
	assert.Equal(t, "Internal server error", MessageOf(err))
}

func TestNewf(t *testing.T) {
	err := Newf(KindConflict, "account %s exists", "254712345678")
	assert.Equal(t, "account 254712345678 exists", err.Error())
	assert.Equal(t, KindConflict, err.Kind)
}

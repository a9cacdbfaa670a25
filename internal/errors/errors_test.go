package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("title is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate", ErrDuplicateUser, http.StatusBadRequest, "USER_ALREADY_EXISTS"},
		{"wrapped duplicate", fmt.Errorf("register: %w", ErrDuplicateUser), http.StatusBadRequest, "USER_ALREADY_EXISTS"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"session", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"not found", ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
		{"store failure", errors.New("dial tcp 127.0.0.1:3306: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_StoreFailureIsOpaque(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("Error 1062: secret table detail"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Message)
}

func TestValidation(t *testing.T) {
	err := Validation("title is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: title is required", err.Error())
}

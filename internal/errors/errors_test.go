package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainErrorMatchingByCode(t *testing.T) {
	wrapped := WrapError(ErrInvalidToken, fmt.Errorf("signature mismatch"))

	if !errors.Is(wrapped, ErrInvalidToken) {
		t.Error("wrapped error does not match its sentinel")
	}
	if errors.Is(wrapped, ErrTokenRevoked) {
		t.Error("wrapped error matches a different sentinel")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := WrapError(ErrInternal, cause)

	if !errors.Is(wrapped, cause) {
		t.Error("cause lost by wrapping")
	}
	if GetErrorMessage(wrapped) != ErrInternal.Message {
		t.Errorf("client message = %q, leaked cause?", GetErrorMessage(wrapped))
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrTokenRevoked, http.StatusUnauthorized},
		{ErrSessionExpired, http.StatusUnauthorized},
		{ErrInsufficientRole, http.StatusForbidden},
		{ErrProtectedAccount, http.StatusForbidden},
		{ErrAccountInactive, http.StatusForbidden},
		{ErrEmailExists, http.StatusConflict},
		{ErrWeakPassword, http.StatusBadRequest},
		{ErrIncorrectPassword, http.StatusBadRequest},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrServiceUnavailable, http.StatusServiceUnavailable},
		{ErrInternal, http.StatusInternalServerError},
		{fmt.Errorf("plain error"), http.StatusInternalServerError},
		{nil, http.StatusOK},
	}

	for _, tt := range tests {
		if got := ToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGetErrorMessageNeverLeaks(t *testing.T) {
	internal := fmt.Errorf("pq: password authentication failed for user")
	if msg := GetErrorMessage(internal); msg != ErrInternal.Message {
		t.Errorf("GetErrorMessage leaked %q", msg)
	}
}

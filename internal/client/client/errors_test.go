package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError_Matching(t *testing.T) {
	tests := []struct {
		status int
		want   error
		not    []error
	}{
		{status: http.StatusNotFound, want: ErrNotFound, not: []error{ErrAuthentication, ErrNetwork}},
		{status: http.StatusUnauthorized, want: ErrAuthentication, not: []error{ErrNotFound}},
		{status: http.StatusForbidden, want: ErrAuthentication},
		{status: http.StatusServiceUnavailable, want: ErrNetwork},
		{status: http.StatusConflict, not: []error{ErrNotFound, ErrAuthentication, ErrNetwork}},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("op: %w", &ServiceError{StatusCode: tt.status, Message: "m"})

			assert.ErrorIs(t, err, ErrService)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			for _, n := range tt.not {
				assert.NotErrorIs(t, err, n)
			}

			var se *ServiceError
			assert.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestServiceError_Message(t *testing.T) {
	e := &ServiceError{StatusCode: 409, Code: "already_exists", Message: "bucket name taken"}
	assert.Equal(t, "bridge error 409 (already_exists): bucket name taken", e.Error())

	e = &ServiceError{StatusCode: 500, Message: "boom"}
	assert.Equal(t, "bridge error 500: boom", e.Error())
}

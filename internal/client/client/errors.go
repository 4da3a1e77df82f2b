package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/bridgekeeper/internal/netx"
)

// Error taxonomy. Callers match with errors.Is.
var (
	// ErrAuthentication reports bad or missing credentials.
	ErrAuthentication = errors.New("authentication error")
	// ErrValidation reports malformed caller input, detected before any network call.
	ErrValidation = errors.New("validation error")
	// ErrNetwork reports a transport-level failure that may be transient.
	ErrNetwork = errors.New("network error")
	// ErrService reports that the bridge rejected the request.
	ErrService = errors.New("service error")
	// ErrNotFound reports that a referenced entity does not exist on the bridge.
	ErrNotFound = errors.New("not found")
	// ErrEmptyResult reports a valid, empty listing. It is not a failure.
	ErrEmptyResult = errors.New("empty result")
	// ErrIO reports a local file read or write failure.
	ErrIO = errors.New("io error")
)

// ServiceError is an error payload returned by the bridge.
//
// It always matches ErrService. Depending on the status it also matches
// ErrNotFound (404), ErrAuthentication (401, 403) or ErrNetwork (502, 503,
// 504).
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("bridge error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("bridge error %d: %s", e.StatusCode, e.Message)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

func (e *ServiceError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrAuthentication
	case netx.IsTemporaryStatus(e.StatusCode):
		return ErrNetwork
	default:
		return nil
	}
}

// validationError wraps ErrValidation with a reason.
func validationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/zeebo/errs"
)

// Error is the error class of this package.
var Error = errs.Class("httpapi")

// Error codes sent in the body of failed responses.
const (
	CodeValidation    = "validation_error"
	CodeUnauthorized  = "unauthorized"
	CodeInvalidToken  = "invalid_token"
	CodeNotFound      = "not_found"
	CodeAlreadyExists = "already_exists"
	CodeQuotaExceeded = "quota_exceeded"
	CodeInternal      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusOf maps a service error to an HTTP status and code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, CodeInvalidToken
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrReplayed):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, common.ErrQuotaExceeded):
		return http.StatusRequestEntityTooLarge, CodeQuotaExceeded
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// writeError sends err as a JSON error body. Internal errors are logged and
// replaced with a generic message.
func writeError(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error) {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error(ctx, "request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(ctx, w, log, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, log logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ctx, "failed to write json response", "error", err)
	}
}

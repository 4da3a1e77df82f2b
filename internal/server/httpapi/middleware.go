package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/google/uuid"
)

// MaxJSONBody bounds the body of JSON requests.
const MaxJSONBody = 1 << 20

type ctxKey string

const userKey ctxKey = "user"

func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// withAuth requires Basic or key pair credentials and stores the user in
// the request context.
func (h *Handler) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.authenticate(r)
		if err != nil {
			h.logger.Info(r.Context(), "authentication failed", "method", r.Method, "path", r.URL.Path, "error", err)
			writeError(r.Context(), w, h.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (h *Handler) authenticate(r *http.Request) (*models.User, error) {
	if pub := r.Header.Get(common.PubKeyHeaderName); pub != "" {
		return h.authenticateSignature(r, pub)
	}
	if email, password, ok := r.BasicAuth(); ok {
		return h.users.Authenticate(r.Context(), email, password)
	}
	return nil, fmt.Errorf("%w: credentials required", common.ErrUnauthorized)
}

func (h *Handler) authenticateSignature(r *http.Request, pub string) (*models.User, error) {
	sig := r.Header.Get(common.SignatureHeaderName)
	if sig == "" {
		return nil, fmt.Errorf("%w: signature required", common.ErrUnauthorized)
	}

	var payload []byte
	var nonce string
	if r.Method == http.MethodGet || r.Method == http.MethodDelete {
		payload = []byte(r.URL.RawQuery)
		nonce = r.URL.Query().Get(common.NonceParamName)
	} else {
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBody+1))
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %w", common.ErrValidation, err)
		}
		if len(body) > MaxJSONBody {
			return nil, fmt.Errorf("%w: request body too large", common.ErrValidation)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		payload = body

		var params map[string]any
		if err := json.Unmarshal(body, &params); err == nil {
			nonce, _ = params[common.NonceParamName].(string)
		}
	}
	if nonce == "" {
		return nil, fmt.Errorf("%w: nonce required", common.ErrUnauthorized)
	}

	user, err := h.keys.Authenticate(r.Context(), pub, common.SignedMessage(r.Method, r.URL.Path, payload), sig)
	if err != nil {
		return nil, err
	}
	if err := h.nonces.Use(pub + ":" + nonce); err != nil {
		return nil, err
	}
	return user, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += int64(n)
	return n, err
}

// RequestIDHeader echoes the id that tags every log line of a request.
const RequestIDHeader = "X-Request-Id"

// withLogging tags the request context with a request id and logs one line
// per request.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(logging.NewContext(r.Context(), "request_id", id))
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start).String())
	})
}

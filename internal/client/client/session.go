package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultConcurrency is the number of in-flight requests a Session allows.
	DefaultConcurrency = 6
	// DefaultRequestTimeout bounds a single request, body transfer included.
	// File uploads and downloads use the transfer timeout instead.
	DefaultRequestTimeout = 30 * time.Second
)

// Params are the request parameters of an Operation. They are sent as the
// query string for GET and DELETE and as a JSON object otherwise.
type Params map[string]any

// Operation names an endpoint of the bridge API.
type Operation struct {
	Method string
	Path   string
}

// Session is an authenticated handle bound to one identity and one bridge
// endpoint. It is safe for concurrent use; at most Concurrency requests are
// in flight at a time and the rest wait for a free slot.
type Session struct {
	endpoint    *url.URL
	auth        authenticator
	httpClient  *http.Client
	sem         *semaphore.Weighted
	concurrency int
	timeout     time.Duration

	// transferTimeout bounds streamed file bodies; zero means no bound.
	transferTimeout time.Duration
}

// Option customizes a Session.
type Option func(*Session)

// WithConcurrency sets the in-flight request limit. Values below 1 keep the
// default.
func WithConcurrency(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithTransferTimeout bounds StoreFile and DownloadFile, body included.
// Zero, the default, leaves them bounded only by ctx.
func WithTransferTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.transferTimeout = d
	}
}

// WithTimeout sets the per-request timeout of JSON operations. Zero disables
// it.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// Authenticate constructs a Session for the given mode and credentials.
// Malformed credentials fail with ErrAuthentication; a malformed endpoint
// fails with ErrValidation. No request is made: credentials are verified
// by the bridge on first use.
func Authenticate(endpoint string, mode AuthMode, creds Credentials, opts ...Option) (*Session, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, validationError(fmt.Sprintf("bridge endpoint %q is not an absolute http(s) URL", endpoint))
	}

	auth, err := newAuthenticator(mode, creds)
	if err != nil {
		return nil, err
	}

	s := &Session{
		endpoint:    u,
		auth:        auth,
		httpClient:  &http.Client{},
		concurrency: DefaultConcurrency,
		timeout:     DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sem = semaphore.NewWeighted(int64(s.concurrency))

	return s, nil
}

// NewAnonymousSession returns a Session that sends unauthenticated requests,
// used to create accounts.
func NewAnonymousSession(endpoint string, opts ...Option) (*Session, error) {
	return Authenticate(endpoint, AuthModeNone, Credentials{}, opts...)
}

func (s *Session) Mode() AuthMode {
	return s.auth.mode()
}

func (s *Session) Endpoint() string {
	return s.endpoint.String()
}

func (s *Session) Concurrency() int {
	return s.concurrency
}

// Do performs op with params and decodes a JSON response into result, which
// may be nil. It waits for a free concurrency slot first.
func (s *Session) Do(ctx context.Context, op Operation, params Params, result any) error {
	return s.send(ctx, op, params, nil, s.timeout, func(resp *http.Response) error {
		return decodeJSON(resp, result)
	})
}

func decodeJSON(resp *http.Response, result any) error {
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrNetwork, resp.Request.URL.Path, err)
	}
	return nil
}

// rawBody is a pre-built request body that bypasses params encoding and
// signing. It is used for streaming uploads authorized by a token.
type rawBody struct {
	body        io.Reader
	contentType string
	header      http.Header
}

func (s *Session) send(ctx context.Context, op Operation, params Params, raw *rawBody, timeout time.Duration, handle func(*http.Response) error) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: waiting for a request slot: %w", ErrNetwork, err)
	}
	defer s.sem.Release(1)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := s.newRequest(ctx, op, params, raw)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, op.Method, op.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeServiceError(resp)
	}
	return handle(resp)
}

func (s *Session) newRequest(ctx context.Context, op Operation, params Params, raw *rawBody) (*http.Request, error) {
	u := *s.endpoint
	u.Path = s.endpoint.Path + op.Path

	if raw != nil {
		req, err := http.NewRequestWithContext(ctx, op.Method, u.String(), raw.body)
		if err != nil {
			return nil, fmt.Errorf("%w: build request: %w", ErrValidation, err)
		}
		req.Header.Set("Content-Type", raw.contentType)
		for k, vs := range raw.header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		return req, nil
	}

	if s.auth.needsNonce() {
		p := make(Params, len(params)+1)
		for k, v := range params {
			p[k] = v
		}
		p[common.NonceParamName] = uuid.NewString()
		params = p
	}

	var (
		payload []byte
		body    io.Reader
	)
	if op.Method == http.MethodGet || op.Method == http.MethodDelete {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, fmt.Sprint(v))
		}
		u.RawQuery = q.Encode()
		payload = []byte(u.RawQuery)
	} else {
		if params == nil {
			params = Params{}
		}
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%w: encode params: %w", ErrValidation, err)
		}
		payload = b
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrValidation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := s.auth.apply(req, payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return req, nil
}

// errorPayload is the JSON error body returned by the bridge.
type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeServiceError(resp *http.Response) error {
	body := netx.ReadErrorBody(resp)

	se := &ServiceError{StatusCode: resp.StatusCode}
	var p errorPayload
	if err := json.Unmarshal(body, &p); err == nil && p.Error != "" {
		se.Message = p.Error
		se.Code = p.Code
	} else {
		se.Message = strings.TrimSpace(string(body))
	}
	if se.Message == "" {
		se.Message = http.StatusText(resp.StatusCode)
	}
	return se
}

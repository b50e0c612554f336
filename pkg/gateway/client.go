package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/nasiyapay/consolekit/pkg/toast"
)

// DefaultLocale is sent as Accept-Language when no locale is configured.
const DefaultLocale = "uz"

const (
	defaultRetry      = 2
	defaultRetryDelay = 300 * time.Millisecond

	defaultSuccessMessage = "Operation completed successfully"
	defaultErrorMessage   = "Something went wrong. Please try again."
)

// NoRetry disables automatic retry for a single request.
const NoRetry = -1

// HTTPDoer abstracts the transport so tests can substitute one.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionSource provides the persisted credentials attached to every
// request. The value may change between calls (login, logout); the
// client reads it fresh per attempt and never re-validates after
// attaching; a stale token fails server-side through the normal
// classification path.
type SessionSource interface {
	Token(ctx context.Context) string
	TenantID(ctx context.Context) string
}

// RequestInterceptor may rewrite the outgoing request or abort the call
// by returning an error.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor may transform the buffered response or abort the
// call by returning an error.
type ResponseInterceptor func(ctx context.Context, resp *Response) error

// ErrorHook observes every classified failure the client returns.
type ErrorHook func(ctx context.Context, err error)

// Response is a fully buffered backend response. Buffering means the
// notification path and the caller's decode read the body independently.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v. An empty body leaves v
// untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

// Client executes console backend calls. Construct with New; a Client
// is safe for concurrent use.
type Client struct {
	baseURL    string
	http       HTTPDoer
	sessions   SessionSource
	localeFunc func(ctx context.Context) string
	notifier   toast.Notifier
	logger     *slog.Logger

	reqInterceptors  []RequestInterceptor
	respInterceptors []ResponseInterceptor
	errorHooks       []ErrorHook

	retry      int
	retryDelay time.Duration
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) { c.http = doer }
}

// WithSession attaches a credential source; every request reads the
// bearer token and tenant scope from it.
func WithSession(source SessionSource) ClientOption {
	return func(c *Client) { c.sessions = source }
}

// WithLocale sets a static Accept-Language value. The tag is
// canonicalized; an unparsable tag keeps the previous locale.
func WithLocale(locale string) ClientOption {
	return func(c *Client) {
		if tag, err := language.Parse(locale); err == nil {
			c.localeFunc = staticLocale(tag.String())
		}
	}
}

// WithLocaleSource reads the locale per call, e.g. from the persisted
// profile settings.
func WithLocaleSource(fn func(ctx context.Context) string) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.localeFunc = fn
		}
	}
}

// WithNotifier sets the toast sink.
func WithNotifier(n toast.Notifier) ClientOption {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestInterceptor appends a request interceptor; interceptors
// run in registration order.
func WithRequestInterceptor(ic RequestInterceptor) ClientOption {
	return func(c *Client) { c.reqInterceptors = append(c.reqInterceptors, ic) }
}

// WithResponseInterceptor appends a response interceptor.
func WithResponseInterceptor(ic ResponseInterceptor) ClientOption {
	return func(c *Client) { c.respInterceptors = append(c.respInterceptors, ic) }
}

// WithErrorHook appends a hook observing every classified failure.
func WithErrorHook(hook ErrorHook) ClientOption {
	return func(c *Client) { c.errorHooks = append(c.errorHooks, hook) }
}

// OnError registers an error hook after construction. The auth-state
// provider needs the client to exist before it can hand out its hook,
// so registration happens in a second wiring step. Not safe to call
// concurrently with in-flight requests; register during startup.
func (c *Client) OnError(hook ErrorHook) {
	c.errorHooks = append(c.errorHooks, hook)
}

// WithRetryPolicy sets the default retry count and base backoff delay
// for transport-level failures.
func WithRetryPolicy(retries int, delay time.Duration) ClientOption {
	return func(c *Client) {
		if retries >= 0 {
			c.retry = retries
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithTimeout bounds every call, retries included. Zero disables the
// client-level timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func staticLocale(locale string) func(ctx context.Context) string {
	return func(context.Context) string { return locale }
}

// New creates a gateway client for the given backend base URL.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{},
		localeFunc: staticLocale(DefaultLocale),
		notifier:   toast.NewLogNotifier(nil),
		logger:     slog.Default(),
		retry:      defaultRetry,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute performs the described call and returns the buffered
// response. Every failure is a classified *Error.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	req.applyDirectives()
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	target, err := c.resolveURL(req)
	if err != nil {
		return nil, c.fail(ctx, req, &Error{Kind: KindGeneric, Message: err.Error(), cause: err})
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, c.fail(ctx, req, &Error{Kind: KindGeneric, Message: "encode request body", cause: err})
		}
	}

	resp, err := c.attempt(ctx, req, target, payload)
	if err != nil {
		return nil, err
	}

	for _, ic := range c.respInterceptors {
		if err := ic(ctx, resp); err != nil {
			return nil, c.fail(ctx, req, classifyOrWrap(err))
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		classified := classifyResponse(resp)
		c.notifyError(ctx, req, classified)
		c.fireHooks(ctx, classified)
		return nil, classified
	}

	c.notifySuccess(ctx, req, resp)
	return resp, nil
}

// attempt runs the network call with bounded retry. Only transport
// failures retry; any response that arrived is final.
func (c *Client) attempt(ctx context.Context, req Request, target string, payload []byte) (*Response, error) {
	retries := c.retry
	switch {
	case req.Retry == NoRetry:
		retries = 0
	case req.Retry > 0:
		retries = req.Retry
	}
	delay := c.retryDelay
	if req.RetryDelay > 0 {
		delay = req.RetryDelay
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			// Linear backoff: attempt n waits n * delay.
			wait := time.Duration(attempt) * delay
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				netErr := &Error{Kind: KindNetwork, Message: "request cancelled", cause: errors.Join(ctx.Err(), lastErr)}
				return nil, c.fail(ctx, req, netErr)
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(payload))
		if err != nil {
			return nil, c.fail(ctx, req, &Error{Kind: KindGeneric, Message: "build request", cause: err})
		}
		c.setHeaders(ctx, httpReq, req.Headers)

		aborted := false
		for _, ic := range c.reqInterceptors {
			if err := ic(ctx, httpReq); err != nil {
				aborted = true
				lastErr = err
				break
			}
		}
		if aborted {
			// An interceptor rejection is not a transport failure; abort
			// without retry.
			return nil, c.fail(ctx, req, classifyOrWrap(lastErr))
		}

		httpResp, err := c.http.Do(httpReq)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			c.logger.LogAttrs(ctx, slog.LevelDebug, "transport failure",
				slog.String("method", req.Method),
				slog.String("url", target),
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()),
			)
			continue
		}

		body, readErr := io.ReadAll(httpResp.Body)
		_ = httpResp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			if ctx.Err() != nil {
				break
			}
			continue
		}

		return &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
		}, nil
	}

	netErr := &Error{Kind: KindNetwork, Message: "network request failed", cause: lastErr}
	return nil, c.fail(ctx, req, netErr)
}

func (c *Client) resolveURL(req Request) (string, error) {
	raw := req.Path
	if !req.Absolute {
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		raw = c.baseURL + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for key, value := range req.Query {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *http.Request, extra map[string]string) {
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept-Language", c.locale(ctx))
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if c.sessions != nil {
		if token := c.sessions.Token(ctx); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
		if tenantID := c.sessions.TenantID(ctx); tenantID != "" {
			httpReq.Header.Set("X-Tenant-ID", tenantID)
		}
	}

	for key, value := range extra {
		httpReq.Header.Set(key, value)
	}
}

func (c *Client) locale(ctx context.Context) string {
	if locale := c.localeFunc(ctx); locale != "" {
		return locale
	}
	return DefaultLocale
}

// fail reports a classified failure to the toast sink and error hooks
// before returning it.
func (c *Client) fail(ctx context.Context, req Request, gwErr *Error) *Error {
	c.notifyError(ctx, req, gwErr)
	c.fireHooks(ctx, gwErr)
	return gwErr
}

func (c *Client) fireHooks(ctx context.Context, err error) {
	for _, hook := range c.errorHooks {
		hook(ctx, err)
	}
}

func (c *Client) notifyError(ctx context.Context, req Request, gwErr *Error) {
	if req.DisableToasts {
		return
	}
	message := req.ErrorMessage
	if message == "" {
		message = gwErr.Message
	}
	if message == "" {
		message = defaultErrorMessage
	}
	c.notifier.Notify(ctx, toast.Error(message))
}

func (c *Client) notifySuccess(ctx context.Context, req Request, resp *Response) {
	if req.DisableToasts {
		return
	}
	if !isMutating(req.Method) && !req.ForceSuccessToast {
		return
	}

	message := req.SuccessMessage
	if message == "" {
		// The backend may supply a display message in the success body.
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(resp.Body, &envelope); err == nil {
			message = envelope.Message
		}
	}
	if message == "" {
		message = defaultSuccessMessage
	}
	c.notifier.Notify(ctx, toast.Success(message))
}

// classifyOrWrap passes through an already classified error and wraps
// anything else as generic.
func classifyOrWrap(err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return &Error{Kind: KindGeneric, Message: err.Error(), cause: err}
}

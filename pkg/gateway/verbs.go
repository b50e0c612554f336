package gateway

import (
	"context"
	"net/http"
)

// RequestOption tweaks a single request built by the verb helpers.
type RequestOption func(*Request)

// WithHeader sets a request header. Directive headers are interpreted
// client-side and stripped.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQuery appends a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithoutToasts silences all notifications for this request. Meant for
// bulk and background calls.
func WithoutToasts() RequestOption {
	return func(r *Request) { r.DisableToasts = true }
}

// WithSuccessToast overrides the success toast text, or forces a
// success toast on a non-mutating request when message is empty.
func WithSuccessToast(message string) RequestOption {
	return func(r *Request) {
		r.ForceSuccessToast = true
		r.SuccessMessage = message
	}
}

// WithErrorToast overrides the error toast text.
func WithErrorToast(message string) RequestOption {
	return func(r *Request) { r.ErrorMessage = message }
}

// WithRetry overrides the retry policy for this request. Use NoRetry to
// disable automatic retry.
func WithRetry(retries int) RequestOption {
	return func(r *Request) { r.Retry = retries }
}

// The verb helpers are argument shaping over Execute; out is decoded
// from the response body when non-nil.

func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, path, body, out, opts)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts []RequestOption) error {
	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.Execute(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// Package gateway is the console's outbound HTTP layer. Every backend
// call goes through a Client, which resolves the absolute URL, attaches
// credentials and tenant scoping from the persisted session, executes
// with bounded retry, and classifies every failure into a fixed error
// taxonomy. Callers never see a raw transport error.
//
// Only transport-level failures (DNS, connection refused, timeout) are
// retried, with linear backoff. A response that arrived, whatever its
// status, is never retried automatically: retrying a 5xx on a mutating
// call could repeat a write the server already applied. The same
// ambiguity exists when a network failure interrupts a mutating call
// that the server had in fact applied; the console accepts that risk, as
// the backend exposes no idempotency keys.
//
// Success and failure emit user-facing toasts through an injected
// notifier. Per-request directives suppress them or override their
// messages so bulk and background calls stay quiet. The response body is
// buffered before classification, so the notification path and the
// caller's decode read it independently.
//
// The gateway never reacts to an authentication failure beyond
// classifying it; tearing down the session and redirecting to login is
// the auth-state provider's responsibility.
package gateway

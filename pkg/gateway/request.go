package gateway

import "time"

// Directive headers. Callers may set these on a request to control
// notification behavior; the client interprets and strips them before
// the request leaves the process.
const (
	HeaderToastDisable       = "X-Toast-Disable"
	HeaderToastSuccessEnable = "X-Toast-Success-Enable"
	HeaderToastSuccess       = "X-Toast-Success"
	HeaderToastError         = "X-Toast-Error"
)

// Request describes one backend call. Construct per call; a Request is
// not reused across calls and is not persisted.
type Request struct {
	// Method is the HTTP method. Defaults to GET.
	Method string

	// Path is resolved against the client's base URL unless Absolute is
	// set, in which case it is used as the full URL.
	Path     string
	Absolute bool

	// Body is JSON-encoded when non-nil.
	Body any

	// Headers are merged over the standard headers; directive headers
	// are interpreted and stripped.
	Headers map[string]string

	// Query is appended to the URL.
	Query map[string]string

	// Retry is the number of extra attempts after a transport-level
	// failure. Negative means use the client default.
	Retry int

	// RetryDelay is the base backoff; attempt n waits n * RetryDelay.
	// Zero means use the client default.
	RetryDelay time.Duration

	// Timeout bounds the whole call including retries. Zero means no
	// timeout beyond the caller's context.
	Timeout time.Duration

	// DisableToasts silences all notifications for this call.
	DisableToasts bool

	// ForceSuccessToast emits a success toast even for non-mutating
	// methods.
	ForceSuccessToast bool

	// SuccessMessage overrides the success toast text.
	SuccessMessage string

	// ErrorMessage overrides the error toast text.
	ErrorMessage string
}

// applyDirectives interprets directive headers into descriptor fields
// and drops them from the header map. Control headers must never reach
// the backend with their client-side meaning.
func (r *Request) applyDirectives() {
	if r.Headers == nil {
		return
	}
	if _, ok := r.Headers[HeaderToastDisable]; ok {
		r.DisableToasts = true
		delete(r.Headers, HeaderToastDisable)
	}
	if _, ok := r.Headers[HeaderToastSuccessEnable]; ok {
		r.ForceSuccessToast = true
		delete(r.Headers, HeaderToastSuccessEnable)
	}
	if msg, ok := r.Headers[HeaderToastSuccess]; ok {
		r.SuccessMessage = msg
		delete(r.Headers, HeaderToastSuccess)
	}
	if msg, ok := r.Headers[HeaderToastError]; ok {
		r.ErrorMessage = msg
		delete(r.Headers, HeaderToastError)
	}
}

func isMutating(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

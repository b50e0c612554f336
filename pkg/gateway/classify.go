package gateway

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope is the backend's error body. Any subset of fields may
// be absent and the body may not be JSON at all; parsing is tolerant.
type errorEnvelope struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// classifyResponse maps a failed response onto the error taxonomy.
// A field-level errors map wins over the status mapping regardless of
// the actual status code.
func classifyResponse(resp *Response) *Error {
	var envelope errorEnvelope
	if len(resp.Body) > 0 {
		// Ignore parse failures: a plain-text 502 from a proxy still
		// classifies by status.
		_ = json.Unmarshal(resp.Body, &envelope)
	}

	message := envelope.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if len(envelope.Errors) > 0 {
		return &Error{
			Kind:        KindValidation,
			StatusCode:  resp.StatusCode,
			Message:     message,
			FieldErrors: envelope.Errors,
		}
	}

	kind := KindGeneric
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = KindAuthentication
	case http.StatusForbidden:
		kind = KindAuthorization
	case http.StatusNotFound:
		kind = KindNotFound
	}

	return &Error{Kind: kind, StatusCode: resp.StatusCode, Message: message}
}

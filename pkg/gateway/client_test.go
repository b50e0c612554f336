package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasiyapay/consolekit/pkg/gateway"
	"github.com/nasiyapay/consolekit/pkg/toast"
)

type failingDoer struct {
	attempts atomic.Int32
}

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.attempts.Add(1)
	return nil, errors.New("dial tcp: connection refused")
}

type staticSession struct {
	token    string
	tenantID string
}

func (s staticSession) Token(context.Context) string    { return s.token }
func (s staticSession) TenantID(context.Context) string { return s.tenantID }

func TestClient_RetryBound(t *testing.T) {
	doer := &failingDoer{}
	rec := toast.NewRecorder()
	client := gateway.New("http://backend", gateway.WithHTTPClient(doer), gateway.WithNotifier(rec))

	_, err := client.Execute(context.Background(), gateway.Request{
		Method:     http.MethodGet,
		Path:       "/orders",
		Retry:      2,
		RetryDelay: time.Millisecond,
	})

	require.Error(t, err)
	assert.Equal(t, gateway.KindNetwork, gateway.KindOf(err))
	// 1 initial attempt + 2 retries.
	assert.Equal(t, int32(3), doer.attempts.Load())
	assert.Len(t, rec.Toasts(), 1)
}

func TestClient_NoRetryDirective(t *testing.T) {
	doer := &failingDoer{}
	client := gateway.New("http://backend",
		gateway.WithHTTPClient(doer),
		gateway.WithNotifier(toast.NewRecorder()),
	)

	_, err := client.Execute(context.Background(), gateway.Request{
		Method: http.MethodGet,
		Path:   "/orders",
		Retry:  gateway.NoRetry,
	})

	require.Error(t, err)
	assert.Equal(t, int32(1), doer.attempts.Load())
}

func TestClient_NonNetworkFailuresNeverRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := gateway.New(server.URL, gateway.WithNotifier(toast.NewRecorder()))

	_, err := client.Execute(context.Background(), gateway.Request{
		Method: http.MethodGet,
		Path:   "/orders",
		Retry:  5,
	})

	require.Error(t, err)
	assert.Equal(t, gateway.KindAuthorization, gateway.KindOf(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind gateway.Kind
	}{
		{name: "401 is authentication", status: http.StatusUnauthorized, wantKind: gateway.KindAuthentication},
		{name: "403 is authorization", status: http.StatusForbidden, wantKind: gateway.KindAuthorization},
		{name: "404 is not found", status: http.StatusNotFound, wantKind: gateway.KindNotFound},
		{name: "500 is generic", status: http.StatusInternalServerError, wantKind: gateway.KindGeneric},
		{name: "400 is generic without field errors", status: http.StatusBadRequest, wantKind: gateway.KindGeneric},
		{
			name:     "field errors map wins regardless of status",
			status:   http.StatusInternalServerError,
			body:     `{"message":"invalid","errors":{"phone":["required"]}}`,
			wantKind: gateway.KindValidation,
		},
		{
			name:     "422 with field errors",
			status:   http.StatusUnprocessableEntity,
			body:     `{"errors":{"amount":["must be positive","too large"]}}`,
			wantKind: gateway.KindValidation,
		},
		{
			name:     "non-JSON body still classifies by status",
			status:   http.StatusBadGateway,
			body:     "upstream exploded",
			wantKind: gateway.KindGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := gateway.New(server.URL, gateway.WithNotifier(toast.NewRecorder()))

			_, err := client.Execute(context.Background(), gateway.Request{Path: "/x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, gateway.KindOf(err))
		})
	}
}

func TestClient_FieldErrorsExposed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"phone":["required"]}}`))
	}))
	defer server.Close()

	client := gateway.New(server.URL, gateway.WithNotifier(toast.NewRecorder()))

	_, err := client.Execute(context.Background(), gateway.Request{Path: "/clients"})
	require.Error(t, err)
	assert.Equal(t, map[string][]string{"phone": {"required"}}, gateway.FieldErrors(err))
}

func TestClient_StandardHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := gateway.New(server.URL,
		gateway.WithSession(staticSession{token: "tok-1", tenantID: "t-9"}),
		gateway.WithNotifier(toast.NewRecorder()),
	)

	_, err := client.Execute(context.Background(), gateway.Request{Path: "/orders"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "uz", got.Get("Accept-Language"))
	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))
	assert.Equal(t, "t-9", got.Get("X-Tenant-ID"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_NoCredentialsWhenSignedOut(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := gateway.New(server.URL,
		gateway.WithSession(staticSession{}),
		gateway.WithNotifier(toast.NewRecorder()),
	)

	_, err := client.Execute(context.Background(), gateway.Request{Path: "/orders"})
	require.NoError(t, err)

	assert.Empty(t, got.Get("Authorization"))
	assert.Empty(t, got.Get("X-Tenant-ID"))
}

func TestClient_DirectiveHeadersStrippedAndApplied(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	rec := toast.NewRecorder()
	client := gateway.New(server.URL, gateway.WithNotifier(rec))

	_, err := client.Execute(context.Background(), gateway.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Headers: map[string]string{
			gateway.HeaderToastDisable: "1",
			"X-Custom":                 "kept",
		},
	})
	require.Error(t, err)

	// The directive acted client-side and never left the process.
	assert.Empty(t, got.Get(gateway.HeaderToastDisable))
	assert.Equal(t, "kept", got.Get("X-Custom"))
	assert.Empty(t, rec.Toasts())
}

func TestClient_ToastSuppression(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "suppressed on success", status: http.StatusOK},
		{name: "suppressed on validation failure", status: http.StatusUnprocessableEntity},
		{name: "suppressed on server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			rec := toast.NewRecorder()
			client := gateway.New(server.URL, gateway.WithNotifier(rec))

			_, _ = client.Execute(context.Background(), gateway.Request{
				Method:        http.MethodPost,
				Path:          "/bulk",
				DisableToasts: true,
			})

			assert.Empty(t, rec.Toasts())
		})
	}
}

func TestClient_SuccessToastOnMutation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Order created","data":{"id":7}}`))
	}))
	defer server.Close()

	rec := toast.NewRecorder()
	client := gateway.New(server.URL, gateway.WithNotifier(rec))

	resp, err := client.Execute(context.Background(), gateway.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   map[string]any{"client_id": 1},
	})
	require.NoError(t, err)

	// The toast read the server message and the caller still gets the
	// full body.
	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, toast.LevelSuccess, toasts[0].Level)
	assert.Equal(t, "Order created", toasts[0].Message)

	var payload struct {
		Message string `json:"message"`
		Data    struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, resp.Decode(&payload))
	assert.Equal(t, 7, payload.Data.ID)
}

func TestClient_NoSuccessToastOnRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	rec := toast.NewRecorder()
	client := gateway.New(server.URL, gateway.WithNotifier(rec))

	_, err := client.Execute(context.Background(), gateway.Request{Method: http.MethodGet, Path: "/orders"})
	require.NoError(t, err)
	assert.Empty(t, rec.Toasts())
}

func TestClient_ForcedSuccessToastUsesDefaultMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	rec := toast.NewRecorder()
	client := gateway.New(server.URL, gateway.WithNotifier(rec))

	err := client.Get(context.Background(), "/export", nil, gateway.WithSuccessToast(""))
	require.NoError(t, err)

	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, toast.LevelSuccess, toasts[0].Level)
	assert.NotEmpty(t, toasts[0].Message)
}

func TestClient_ErrorToastUsesEnvelopeMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Client not found"}`))
	}))
	defer server.Close()

	rec := toast.NewRecorder()
	client := gateway.New(server.URL, gateway.WithNotifier(rec))

	_, err := client.Execute(context.Background(), gateway.Request{Path: "/clients/404"})
	require.Error(t, err)

	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, toast.LevelError, toasts[0].Level)
	assert.Equal(t, "Client not found", toasts[0].Message)
}

func TestClient_RequestInterceptorAbort(t *testing.T) {
	doer := &failingDoer{}
	var hooked error
	client := gateway.New("http://backend",
		gateway.WithHTTPClient(doer),
		gateway.WithNotifier(toast.NewRecorder()),
		gateway.WithRequestInterceptor(func(context.Context, *http.Request) error {
			return errors.New("interceptor rejected")
		}),
		gateway.WithErrorHook(func(_ context.Context, err error) { hooked = err }),
	)

	_, err := client.Execute(context.Background(), gateway.Request{Path: "/orders", Retry: 3})
	require.Error(t, err)
	assert.Equal(t, gateway.KindGeneric, gateway.KindOf(err))
	// Aborted before the transport, no retries.
	assert.Equal(t, int32(0), doer.attempts.Load())
	require.Error(t, hooked)
}

func TestClient_RequestInterceptorRewrite(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := gateway.New(server.URL,
		gateway.WithNotifier(toast.NewRecorder()),
		gateway.WithRequestInterceptor(func(_ context.Context, req *http.Request) error {
			req.Header.Set("X-Trace", "abc")
			return nil
		}),
	)

	_, err := client.Execute(context.Background(), gateway.Request{Path: "/orders"})
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Get("X-Trace"))
}

func TestClient_ResponseInterceptor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"wrapped":{"id":1}}`))
	}))
	defer server.Close()

	client := gateway.New(server.URL,
		gateway.WithNotifier(toast.NewRecorder()),
		gateway.WithResponseInterceptor(func(_ context.Context, resp *gateway.Response) error {
			// Unwrap the inconsistent envelope before the caller decodes.
			var outer struct {
				Wrapped json.RawMessage `json:"wrapped"`
			}
			if err := json.Unmarshal(resp.Body, &outer); err == nil && len(outer.Wrapped) > 0 {
				resp.Body = outer.Wrapped
			}
			return nil
		}),
	)

	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, client.Get(context.Background(), "/thing", &out))
	assert.Equal(t, 1, out.ID)
}

func TestClient_ErrorHookOnClassifiedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var hooked error
	client := gateway.New(server.URL,
		gateway.WithNotifier(toast.NewRecorder()),
		gateway.WithErrorHook(func(_ context.Context, err error) { hooked = err }),
	)

	_, err := client.Execute(context.Background(), gateway.Request{Path: "/me"})
	require.Error(t, err)
	assert.True(t, gateway.IsAuthentication(hooked))
	assert.Equal(t, err, hooked)
}

func TestClient_CancellationStopsRetry(t *testing.T) {
	doer := &failingDoer{}
	client := gateway.New("http://backend",
		gateway.WithHTTPClient(doer),
		gateway.WithNotifier(toast.NewRecorder()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := client.Execute(ctx, gateway.Request{
		Path:       "/orders",
		Retry:      5,
		RetryDelay: time.Second,
	})

	require.Error(t, err)
	assert.Equal(t, gateway.KindNetwork, gateway.KindOf(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_Verbs(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":3}}`))
	}))
	defer server.Close()

	client := gateway.New(server.URL, gateway.WithNotifier(toast.NewRecorder()))
	ctx := context.Background()

	var out struct {
		Data struct {
			ID int `json:"id"`
		} `json:"data"`
	}

	require.NoError(t, client.Get(ctx, "/orders/3", &out))
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/orders/3", gotPath)
	assert.Equal(t, 3, out.Data.ID)

	require.NoError(t, client.Post(ctx, "/orders", map[string]int{"client_id": 1}, nil))
	assert.Equal(t, http.MethodPost, gotMethod)

	require.NoError(t, client.Put(ctx, "/orders/3", map[string]int{"qty": 2}, nil))
	assert.Equal(t, http.MethodPut, gotMethod)

	require.NoError(t, client.Patch(ctx, "/orders/3", map[string]int{"qty": 4}, nil))
	assert.Equal(t, http.MethodPatch, gotMethod)

	require.NoError(t, client.Delete(ctx, "/orders/3", nil))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestClient_QueryParameters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := gateway.New(server.URL, gateway.WithNotifier(toast.NewRecorder()))

	require.NoError(t, client.Get(context.Background(), "/orders", nil,
		gateway.WithQuery("page", "2"),
		gateway.WithQuery("status", "active"),
	))
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "status=active")
}

func TestClient_LocaleOption(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Accept-Language")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := gateway.New(server.URL,
		gateway.WithNotifier(toast.NewRecorder()),
		gateway.WithLocale("ru"),
	)

	require.NoError(t, client.Get(context.Background(), "/orders", nil))
	assert.Equal(t, "ru", got)
}

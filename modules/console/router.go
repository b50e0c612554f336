// Package console wires the core pieces into a mountable HTTP surface:
// session endpoints backed by the auth-state provider and a helper for
// guarding protected subtrees.
package console

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nasiyapay/consolekit/pkg/authstate"
	"github.com/nasiyapay/consolekit/pkg/gateway"
	"github.com/nasiyapay/consolekit/pkg/guard"
)

// RouterOptions configures the console module router.
type RouterOptions struct {
	Auth   *authstate.Provider
	Logger *slog.Logger
}

// Router creates the session endpoint router.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/session", console.Router(console.RouterOptions{Auth: provider}))
//	r.Group(func(pr chi.Router) {
//	    pr.Use(evaluator.Middleware(provider, guard.RouteConfig{}, logger))
//	    pr.Get("/orders", ordersHandler)
//	})
func Router(opts RouterOptions) chi.Router {
	if opts.Auth == nil {
		panic("console: auth provider is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handlers{auth: opts.Auth, logger: logger}

	r := chi.NewRouter()
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
	return r
}

// Protect wraps a subtree with the guard middleware. Sugar over
// Evaluator.Middleware so call sites read like route declarations.
func Protect(e *guard.Evaluator, source guard.StateSource, cfg guard.RouteConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return e.Middleware(source, cfg, logger)
}

type handlers struct {
	auth   *authstate.Provider
	logger *slog.Logger
}

type stateResponse struct {
	Authenticated bool   `json:"authenticated"`
	PrincipalID   string `json:"principal_id,omitempty"`
	Kind          string `json:"kind,omitempty"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var creds authstate.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	if err := h.auth.Login(r.Context(), creds); err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelInfo, "login failed",
			slog.String("error", err.Error()),
		)
		writeLoginError(w, err)
		return
	}

	h.writeState(w, r)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	h.writeState(w, r)
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r)
}

func (h *handlers) writeState(w http.ResponseWriter, r *http.Request) {
	state := h.auth.AuthState(r.Context())
	resp := stateResponse{Authenticated: state.Principal != nil}
	if state.Principal != nil {
		resp.PrincipalID = state.Principal.ID
		resp.Kind = string(state.Principal.Kind)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch gateway.KindOf(err) {
	case gateway.KindAuthentication:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
	case gateway.KindValidation:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "validation failed",
			"errors":  gateway.FieldErrors(err),
		})
	case gateway.KindNetwork:
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "backend unreachable"})
	default:
		if errors.Is(err, authstate.ErrMalformedLoginResponse) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "unexpected backend response"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "login failed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

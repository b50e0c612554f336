package guard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nasiyapay/consolekit/pkg/permissions"
)

// StateSource supplies the live authentication state per request.
type StateSource interface {
	AuthState(ctx context.Context) AuthState
}

// RouteConfig carries the per-route flags of one mounted subtree.
type RouteConfig struct {
	GuestOnly        bool
	Public           bool
	RequiredOverride *permissions.Permission
}

// Middleware adapts the evaluator to net/http. Each request evaluates
// the guard against its path; redirect states answer with a redirect,
// denial renders 403 in place, and only Authorized reaches the next
// handler. Works with chi or any stdlib-compatible router.
func (e *Evaluator) Middleware(source StateSource, cfg RouteConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := e.Evaluate(Input{
				Path: r.URL.Path,
				// Server-side the route is already resolved.
				RouterReady:      true,
				Auth:             source.AuthState(r.Context()),
				GuestOnly:        cfg.GuestOnly,
				Public:           cfg.Public,
				RequiredOverride: cfg.RequiredOverride,
			})

			logger.LogAttrs(r.Context(), slog.LevelDebug, "guard decision",
				slog.String("path", r.URL.Path),
				slog.String("state", string(decision.State)),
			)

			switch decision.State {
			case StateAuthorized:
				next.ServeHTTP(w, r)
			case StateGuestRedirect, StateHomeRedirect, StateUnauthenticated:
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
			case StatePermissionDenied:
				http.Error(w, "not authorized", http.StatusForbidden)
			default:
				// Initializing cannot settle within one request.
				http.Error(w, "authentication state unresolved", http.StatusServiceUnavailable)
			}
		})
	}
}

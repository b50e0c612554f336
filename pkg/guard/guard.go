package guard

import (
	"net/url"

	"github.com/nasiyapay/consolekit/pkg/permissions"
	"github.com/nasiyapay/consolekit/pkg/routeacl"
	"github.com/nasiyapay/consolekit/pkg/session"
)

// State is the outcome of one guard evaluation.
type State string

const (
	// StateInitializing means auth state or routing is still resolving;
	// render a loading indicator, do not redirect.
	StateInitializing State = "initializing"

	// StateGuestRedirect sends an authenticated principal away from a
	// guest-only route to their home.
	StateGuestRedirect State = "guest_redirect"

	// StateHomeRedirect sends an authenticated principal from the
	// application root to their home; the root is never a terminal
	// destination when signed in.
	StateHomeRedirect State = "home_redirect"

	// StateUnauthenticated redirects to login, carrying the requested
	// path so login can forward back.
	StateUnauthenticated State = "unauthenticated"

	// StatePermissionDenied renders an in-place "not authorized" view;
	// no navigation.
	StatePermissionDenied State = "permission_denied"

	// StateAuthorized renders the requested view.
	StateAuthorized State = "authorized"
)

// ReturnParam is the query parameter carrying the originally requested
// path on the login redirect.
const ReturnParam = "returnUrl"

// Principal is the authenticated actor as the guard sees it.
type Principal struct {
	ID   string
	Kind session.Kind
}

// AuthState is the live authentication state consumed per evaluation.
// Loading is true until the boot-time session restore resolves.
type AuthState struct {
	Loading     bool
	Principal   *Principal
	Permissions permissions.Groups
}

// Input is everything one evaluation consumes.
type Input struct {
	// Path is the navigation target.
	Path string

	// RouterReady is false until the routing layer has resolved the
	// initial path.
	RouterReady bool

	Auth AuthState

	// GuestOnly marks routes like login that authenticated principals
	// must not see.
	GuestOnly bool

	// Public marks routes that render without authentication.
	Public bool

	// RequiredOverride, when set, replaces the route table lookup.
	RequiredOverride *permissions.Permission
}

// Decision is the evaluation outcome. RedirectTo is set only for
// redirect states; redirects are fire-and-forget replace navigations.
type Decision struct {
	State      State
	RedirectTo string
}

// Evaluator holds the static pieces of the decision: the route table,
// the unknown-route policy and the navigation targets.
type Evaluator struct {
	table       *routeacl.Table
	policy      routeacl.UnknownRoutePolicy
	loginPath   string
	rootPath    string
	homes       map[session.Kind]string
	defaultHome string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLoginPath sets the login route. Default /login.
func WithLoginPath(path string) Option {
	return func(e *Evaluator) { e.loginPath = path }
}

// WithRootPath sets the application root. Default /.
func WithRootPath(path string) Option {
	return func(e *Evaluator) { e.rootPath = path }
}

// WithHome maps a principal kind to its home route.
func WithHome(kind session.Kind, path string) Option {
	return func(e *Evaluator) { e.homes[kind] = path }
}

// WithDefaultHome sets the home route for kinds without an explicit
// mapping. Default /dashboard.
func WithDefaultHome(path string) Option {
	return func(e *Evaluator) { e.defaultHome = path }
}

// WithUnknownRoutePolicy overrides the fail-open default for routes
// missing from the table.
func WithUnknownRoutePolicy(policy routeacl.UnknownRoutePolicy) Option {
	return func(e *Evaluator) { e.policy = policy }
}

// New creates an evaluator over the given route table. A nil table is
// allowed and resolves every path to "no rule".
func New(table *routeacl.Table, opts ...Option) *Evaluator {
	e := &Evaluator{
		table:       table,
		policy:      routeacl.PolicyAllow,
		loginPath:   "/login",
		rootPath:    "/",
		homes:       make(map[session.Kind]string),
		defaultHome: "/dashboard",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the decision process. Branches are evaluated in order;
// the first applicable wins.
func (e *Evaluator) Evaluate(in Input) Decision {
	// 1. Nothing is decided while auth or routing is still resolving.
	if in.Auth.Loading || !in.RouterReady {
		return Decision{State: StateInitializing}
	}

	principal := in.Auth.Principal

	// 2. Authenticated principals bounce off guest-only routes.
	if in.GuestOnly && principal != nil {
		return Decision{State: StateGuestRedirect, RedirectTo: e.home(principal)}
	}

	// 3. The root immediately forwards a signed-in principal home.
	if principal != nil && in.Path == e.rootPath {
		return Decision{State: StateHomeRedirect, RedirectTo: e.home(principal)}
	}

	// 4. Public routes render unconditionally.
	if in.Public {
		return Decision{State: StateAuthorized}
	}

	// 5. No principal: to login, carrying the requested path back.
	if principal == nil {
		return Decision{State: StateUnauthenticated, RedirectTo: e.loginRedirect(in.Path)}
	}

	perms := in.Auth.Permissions
	if perms == nil {
		perms = permissions.Groups{}
	}

	// 6. An explicit override replaces the table lookup.
	if in.RequiredOverride != nil {
		if !perms.HasPermission(*in.RequiredOverride) {
			return Decision{State: StatePermissionDenied}
		}
		return Decision{State: StateAuthorized}
	}

	// 7./8. Route table lookup; no rule falls back to the named policy.
	required := e.resolve(in.Path)
	if required == nil {
		if e.policy == routeacl.PolicyDeny {
			return Decision{State: StatePermissionDenied}
		}
		return Decision{State: StateAuthorized}
	}
	if !perms.HasPermission(*required) {
		return Decision{State: StatePermissionDenied}
	}

	// 9. Everything checked out.
	return Decision{State: StateAuthorized}
}

func (e *Evaluator) resolve(path string) *permissions.Permission {
	if e.table == nil {
		return nil
	}
	return e.table.Resolve(path)
}

func (e *Evaluator) home(p *Principal) string {
	if home, ok := e.homes[p.Kind]; ok {
		return home
	}
	return e.defaultHome
}

func (e *Evaluator) loginRedirect(path string) string {
	if path == "" {
		return e.loginPath
	}
	return e.loginPath + "?" + ReturnParam + "=" + url.QueryEscape(path)
}

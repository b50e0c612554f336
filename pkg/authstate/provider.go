package authstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nasiyapay/consolekit/pkg/gateway"
	"github.com/nasiyapay/consolekit/pkg/guard"
	"github.com/nasiyapay/consolekit/pkg/permissions"
	"github.com/nasiyapay/consolekit/pkg/session"
)

// Credentials are what the login form collects.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// loginResponse is the backend's credential exchange payload.
type loginResponse struct {
	Token       string             `json:"token"`
	UserType    string             `json:"user_type"`
	TenantID    string             `json:"tenant_id"`
	Permissions permissions.Groups `json:"permissions"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

// Provider owns the authentication state. It implements
// guard.StateSource and gateway.SessionSource, so one Provider wires
// the guard's reads and the gateway's credential attachment.
type Provider struct {
	sessions *session.Manager
	client   *gateway.Client
	logger   *slog.Logger

	loginPath  string
	logoutPath string

	mu          sync.RWMutex
	loading     bool
	principal   *guard.Principal
	permissions permissions.Groups

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// Option configures a Provider.
type Option func(*Provider)

// WithLoginPath sets the backend login endpoint. Default /auth/login.
func WithLoginPath(path string) Option {
	return func(p *Provider) { p.loginPath = path }
}

// WithLogoutPath sets the backend logout endpoint. Default /auth/logout.
func WithLogoutPath(path string) Option {
	return func(p *Provider) { p.logoutPath = path }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a provider. The state starts loading until Restore runs.
// The gateway client may be nil for session-only use (no login calls).
func New(sessions *session.Manager, client *gateway.Client, opts ...Option) *Provider {
	if sessions == nil {
		panic("authstate: session manager is required")
	}
	p := &Provider{
		sessions:    sessions,
		client:      client,
		logger:      slog.Default(),
		loginPath:   "/auth/login",
		logoutPath:  "/auth/logout",
		loading:     true,
		permissions: permissions.Groups{},
		subscribers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthState implements guard.StateSource.
func (p *Provider) AuthState(context.Context) guard.AuthState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return guard.AuthState{
		Loading:     p.loading,
		Principal:   p.principal,
		Permissions: p.permissions,
	}
}

// Token implements gateway.SessionSource.
func (p *Provider) Token(ctx context.Context) string {
	return p.sessions.Token(ctx)
}

// TenantID implements gateway.SessionSource.
func (p *Provider) TenantID(ctx context.Context) string {
	return p.sessions.TenantID(ctx)
}

// Restore resolves the boot-time state from the persisted session.
// Whatever happens the state leaves loading: an absent or invalid
// session resolves to unauthenticated, never to an error surfaced at
// render time.
func (p *Provider) Restore(ctx context.Context) {
	s, err := p.sessions.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "session restore failed",
				slog.String("error", err.Error()),
			)
			// An invalid persisted shape is unusable; drop it.
			_ = p.sessions.Clear(ctx)
		}
		p.setState(nil, permissions.Groups{})
		return
	}

	p.setState(&guard.Principal{Kind: s.Kind}, s.Permissions)
}

// Login exchanges credentials for a session. On success the session is
// persisted and the state flips to authenticated.
func (p *Provider) Login(ctx context.Context, creds Credentials) error {
	if p.client == nil {
		return errors.Join(ErrLoginFailed, errors.New("no gateway client configured"))
	}

	var payload loginResponse
	if err := p.client.Post(ctx, p.loginPath, creds, &payload, gateway.WithoutToasts()); err != nil {
		return errors.Join(ErrLoginFailed, err)
	}

	s, err := sessionFromLogin(payload)
	if err != nil {
		return err
	}
	if err := p.sessions.Save(ctx, s); err != nil {
		return errors.Join(ErrLoginFailed, err)
	}

	p.setState(&guard.Principal{ID: payload.User.ID, Kind: s.Kind}, s.Permissions)
	return nil
}

func sessionFromLogin(payload loginResponse) (session.Session, error) {
	switch session.Kind(payload.UserType) {
	case session.KindCentral:
		s, err := session.NewCentral(payload.Token, payload.Permissions)
		if err != nil {
			return session.Session{}, errors.Join(ErrMalformedLoginResponse, err)
		}
		return s, nil
	case session.KindTenant:
		s, err := session.NewTenant(payload.Token, payload.TenantID, payload.Permissions)
		if err != nil {
			return session.Session{}, errors.Join(ErrMalformedLoginResponse, err)
		}
		return s, nil
	}
	return session.Session{}, errors.Join(ErrMalformedLoginResponse,
		errors.New("unknown user_type "+payload.UserType))
}

// Logout destroys the session and resets the state. The backend call is
// best effort; a dead backend must not keep the console signed in.
func (p *Provider) Logout(ctx context.Context) {
	if p.client != nil {
		if err := p.client.Post(ctx, p.logoutPath, nil, nil, gateway.WithoutToasts(), gateway.WithRetry(gateway.NoRetry)); err != nil {
			p.logger.LogAttrs(ctx, slog.LevelDebug, "logout call failed",
				slog.String("error", err.Error()),
			)
		}
	}
	p.teardown(ctx)
}

// ErrorHook returns a gateway hook that tears the session down on any
// authentication rejection. Register it with gateway.WithErrorHook.
func (p *Provider) ErrorHook() gateway.ErrorHook {
	return func(ctx context.Context, err error) {
		if !gateway.IsAuthentication(err) {
			return
		}
		// Skip if already signed out so concurrent 401s tear down once.
		p.mu.RLock()
		signedIn := p.principal != nil
		p.mu.RUnlock()
		if !signedIn {
			return
		}
		p.logger.LogAttrs(ctx, slog.LevelInfo, "authentication rejected, destroying session")
		p.teardown(ctx)
	}
}

// Subscribe registers fn to run after every state change. Returns an
// unsubscribe function. The guard layer subscribes to re-evaluate the
// current navigation.
func (p *Provider) Subscribe(fn func()) func() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		delete(p.subscribers, id)
	}
}

func (p *Provider) teardown(ctx context.Context) {
	if err := p.sessions.Clear(ctx); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "session clear failed",
			slog.String("error", err.Error()),
		)
	}
	p.setState(nil, permissions.Groups{})
}

func (p *Provider) setState(principal *guard.Principal, perms permissions.Groups) {
	if perms == nil {
		perms = permissions.Groups{}
	}
	p.mu.Lock()
	p.loading = false
	p.principal = principal
	p.permissions = perms
	p.mu.Unlock()

	p.notify()
}

func (p *Provider) notify() {
	p.subMu.Lock()
	subs := make([]func(), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// HasPermission reports whether the signed-in principal may perform
// action on subject. Unauthenticated and still-loading states have no
// permissions.
func (p *Provider) HasPermission(action, subject string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.loading || p.principal == nil {
		return false
	}
	return p.permissions.Has(action, subject)
}

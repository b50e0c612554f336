// Package consolekit is the headless core of a multi-tenant BNPL admin
// console: the authorization and resilient-request layer the console's
// views sit on top of.
//
// The module is a set of composable packages rather than a framework:
//
//   - pkg/permissions: (action, subject) capability pairs and the
//     grouped subject→actions representation, with lossless conversion
//     and union merging
//   - pkg/routeacl: the route permission table, matching literal,
//     single-segment and catch-all route patterns
//   - pkg/guard: the per-navigation decision machine (render, redirect
//     or deny) with an http middleware adapter
//   - pkg/gateway: the outbound HTTP client: credential attachment,
//     bounded retry, a closed error taxonomy and toast notifications
//   - pkg/session, pkg/kv: the persisted credential bundle over a
//     pluggable key-value store
//   - pkg/authstate: the authentication lifecycle owning login, logout
//     and boot-time session restore
//
// Typical wiring:
//
//	sessions := session.NewManager(store)
//	client := gateway.New(cfg.BaseURL, gateway.WithSession(sessions))
//	provider := authstate.New(sessions, client)
//	client.OnError(provider.ErrorHook())
//	evaluator := guard.New(routeTable)
//
// The gateway attaches the session's bearer token and tenant scope to
// every call; a 401 anywhere flips the auth state through the error
// hook, and the guard's next evaluation redirects to login.
package consolekit

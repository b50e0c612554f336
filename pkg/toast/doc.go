// Package toast carries user-facing notifications emitted by the
// gateway: success confirmations after mutating calls and error
// messages for classified failures. The console UI renders them; this
// package only defines the sink contract plus a slog-backed notifier
// for headless use and a recorder for tests.
package toast

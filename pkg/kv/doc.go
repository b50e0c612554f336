// Package kv abstracts the console's per-profile key-value storage: a
// plain string-keyed get/set/remove store. The session layer persists
// credentials through it, so every gateway call and guard evaluation
// reads through a Store.
//
// Three implementations ship: an in-memory store for tests and
// ephemeral sessions, a file store persisting a profile directory on
// disk, and a Redis store for deployments that keep console sessions
// server-side.
package kv

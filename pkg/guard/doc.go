// Package guard decides, per navigation, whether the console renders
// the requested view, redirects, or blocks. Evaluation is a pure
// function over the navigation input and the current authentication
// state: evaluating twice with identical inputs yields the identical
// decision, so the caller may re-evaluate on every navigation and every
// auth-state change without double-firing redirects.
//
// The decision order is fixed and security-relevant: a wrong Authorized
// is a privilege escalation, a wrong denial is only an availability
// bug. Branches are therefore ordered so that every denial check runs
// before any fall-through to Authorized, and the guard never panics:
// corrupted inputs degrade toward denial, except for the documented
// fail-open policy on routes missing from the permission table.
package guard

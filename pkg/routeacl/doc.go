// Package routeacl maps navigation paths to the permission required to
// view them. Route patterns follow the console's file-router convention:
// a literal path, a path with a single dynamic segment such as
// /clients/[id], or a catch-all such as /docs/[...rest].
//
// Resolution order is fixed: exact string match first, then catch-all
// patterns, then single-segment patterns, each scanned in table
// declaration order with first match winning. Declare more specific
// patterns before general ones that could match the same path; the
// resolver does not reorder the table.
//
// A path with no matching entry resolves to nil. Whether that means
// "allow" or "deny" is the caller's policy; the console ships with
// PolicyAllow (undeclared routes are open) as a named, auditable choice.
package routeacl

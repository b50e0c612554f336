// Package permissions models the console's capability checks as
// (action, subject) pairs and provides lossless conversion between the
// flat pair list and the grouped subject→actions representation the
// backend serves and the session layer persists.
//
// A principal's effective permission set may arrive as several
// role-derived groups; Merge combines them as a union so combining
// sources can only widen, never narrow, what a principal may do.
//
// Basic usage:
//
//	groups := permissions.Groups{"orders": {"view", "create"}}
//	if groups.Has("view", "orders") {
//	    // render the orders list
//	}
//
//	// Combine role-derived groups into one effective set.
//	effective := permissions.Merge(adminGroups, tenantGroups)
//
// All functions are pure and never panic; parsing a corrupted persisted
// payload degrades to an empty set rather than failing the caller.
package permissions

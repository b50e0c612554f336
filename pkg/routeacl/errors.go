package routeacl

import "errors"

// Domain errors for route table construction.
var (
	// ErrEmptyPattern is returned when an entry has no route pattern.
	ErrEmptyPattern = errors.New("routeacl.empty_pattern")

	// ErrMultipleMarkers is returned when a pattern contains more than one
	// dynamic or catch-all marker.
	ErrMultipleMarkers = errors.New("routeacl.multiple_markers")

	// ErrMalformedMarker is returned when a pattern contains an unbalanced
	// or empty [..] marker.
	ErrMalformedMarker = errors.New("routeacl.malformed_marker")

	// ErrInvalidTableFile is returned when a YAML route table cannot be parsed.
	ErrInvalidTableFile = errors.New("routeacl.invalid_table_file")
)

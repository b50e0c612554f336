package routeacl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nasiyapay/consolekit/pkg/permissions"
)

// UnknownRoutePolicy tells the guard what to do with a path the table has
// no entry for.
type UnknownRoutePolicy int

const (
	// PolicyAllow renders routes with no declared rule. The table is
	// necessarily incomplete for intentionally-open views, so this is the
	// shipped default; flip per deployment if the table is exhaustive.
	PolicyAllow UnknownRoutePolicy = iota

	// PolicyDeny treats an undeclared route as forbidden.
	PolicyDeny
)

// Entry binds a route pattern to the permission required to view it.
type Entry struct {
	Pattern  string
	Required permissions.Permission
}

type compiledEntry struct {
	entry Entry
	re    *regexp.Regexp
}

// Table is the process-wide immutable route permission table. Build it
// once at startup with New; Resolve is safe for concurrent use.
type Table struct {
	exact    map[string]permissions.Permission
	catchAll []compiledEntry
	dynamic  []compiledEntry
}

var markerRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

// New compiles a route table from entries in declaration order. Each
// pattern may carry at most one marker: [name] for a single dynamic
// segment or [...name] for a catch-all spanning segments.
func New(entries []Entry) (*Table, error) {
	t := &Table{exact: make(map[string]permissions.Permission, len(entries))}

	for _, e := range entries {
		if e.Pattern == "" {
			return nil, ErrEmptyPattern
		}
		if strings.Count(e.Pattern, "[") != strings.Count(e.Pattern, "]") {
			return nil, fmt.Errorf("%w: %q", ErrMalformedMarker, e.Pattern)
		}

		markers := markerRe.FindAllString(e.Pattern, -1)
		switch {
		case strings.Contains(e.Pattern, "[") && len(markers) == 0:
			return nil, fmt.Errorf("%w: %q", ErrMalformedMarker, e.Pattern)
		case len(markers) > 1:
			return nil, fmt.Errorf("%w: %q", ErrMultipleMarkers, e.Pattern)
		case len(markers) == 0:
			t.exact[e.Pattern] = e.Required
			continue
		}

		marker := markers[0]
		var segmentExpr string
		if strings.HasPrefix(marker, "[...") {
			// Catch-all spans path separators.
			segmentExpr = ".+"
		} else {
			// A single dynamic segment never crosses a separator.
			segmentExpr = "[^/]+"
		}

		pattern := "^" + strings.Replace(regexp.QuoteMeta(e.Pattern), regexp.QuoteMeta(marker), segmentExpr, 1) + "$"
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedMarker, e.Pattern)
		}

		ce := compiledEntry{entry: e, re: re}
		if segmentExpr == ".+" {
			t.catchAll = append(t.catchAll, ce)
		} else {
			t.dynamic = append(t.dynamic, ce)
		}
	}

	return t, nil
}

// MustNew compiles the table and panics on an invalid entry. Route tables
// are static configuration; a bad pattern should stop startup.
func MustNew(entries []Entry) *Table {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the permission required to view path, or nil when no
// entry matches. Exact matches win over catch-alls, catch-alls over
// single-segment patterns; within each class the first declared match wins.
func (t *Table) Resolve(path string) *permissions.Permission {
	if required, ok := t.exact[path]; ok {
		return &required
	}
	for _, ce := range t.catchAll {
		if ce.re.MatchString(path) {
			required := ce.entry.Required
			return &required
		}
	}
	for _, ce := range t.dynamic {
		if ce.re.MatchString(path) {
			required := ce.entry.Required
			return &required
		}
	}
	return nil
}

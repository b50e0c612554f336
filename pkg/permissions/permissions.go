package permissions

import (
	"encoding/json"
	"slices"
	"sort"
)

// Permission is an immutable (action, subject) capability pair.
// Identity is the pair itself; a principal's permission set is a set of
// these values with no ordering semantics.
type Permission struct {
	Action  string `json:"action"`
	Subject string `json:"subject"`
}

// Groups is the wire and storage representation of a permission set:
// a mapping from subject name to its granted actions.
type Groups map[string][]string

// Has reports whether the set grants action on subject.
// A missing subject yields false, never an error.
func (g Groups) Has(action, subject string) bool {
	actions, ok := g[subject]
	if !ok {
		return false
	}
	return slices.Contains(actions, action)
}

// HasPermission reports whether p is a member of the set.
func (g Groups) HasPermission(p Permission) bool {
	return g.Has(p.Action, p.Subject)
}

// ToList flattens the grouped representation into a flat pair list.
// Duplicate actions in the source are emitted once. Output order is
// deterministic (sorted by subject, then action) so callers can compare
// lists directly in tests.
func ToList(g Groups) []Permission {
	subjects := make([]string, 0, len(g))
	for subject := range g {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	var list []Permission
	for _, subject := range subjects {
		seen := make(map[string]struct{}, len(g[subject]))
		actions := make([]string, 0, len(g[subject]))
		for _, action := range g[subject] {
			if _, dup := seen[action]; dup {
				continue
			}
			seen[action] = struct{}{}
			actions = append(actions, action)
		}
		sort.Strings(actions)
		for _, action := range actions {
			list = append(list, Permission{Action: action, Subject: subject})
		}
	}
	return list
}

// ToGroups groups a flat pair list by subject. Duplicate pairs in the
// input collapse to a single action entry.
func ToGroups(list []Permission) Groups {
	groups := make(Groups)
	for _, p := range list {
		if slices.Contains(groups[p.Subject], p.Action) {
			continue
		}
		groups[p.Subject] = append(groups[p.Subject], p.Action)
	}
	return groups
}

// Merge combines permission groups into one effective set. Subjects are
// unioned; for subjects present in several groups the action lists are
// unioned as well, never replaced. Merging can only widen a set.
func Merge(groups ...Groups) Groups {
	merged := make(Groups)
	for _, g := range groups {
		for subject, actions := range g {
			for _, action := range actions {
				if slices.Contains(merged[subject], action) {
					continue
				}
				merged[subject] = append(merged[subject], action)
			}
		}
	}
	return merged
}

// ParseGroups decodes a persisted JSON payload into Groups. Corrupted or
// empty payloads degrade to an empty set: a stale session must never be
// able to break a render path with a parse error.
func ParseGroups(data []byte) Groups {
	if len(data) == 0 {
		return Groups{}
	}
	var groups Groups
	if err := json.Unmarshal(data, &groups); err != nil {
		return Groups{}
	}
	if groups == nil {
		return Groups{}
	}
	return groups
}

// EncodeGroups serializes Groups for persistence.
func EncodeGroups(g Groups) ([]byte, error) {
	return json.Marshal(g)
}

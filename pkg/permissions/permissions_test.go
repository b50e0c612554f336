package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasiyapay/consolekit/pkg/permissions"
)

func TestGroups_Has(t *testing.T) {
	groups := permissions.Groups{
		"orders":  {"view", "create"},
		"clients": {"show"},
	}

	tests := []struct {
		name    string
		action  string
		subject string
		want    bool
	}{
		{name: "granted action", action: "view", subject: "orders", want: true},
		{name: "second granted action", action: "create", subject: "orders", want: true},
		{name: "action not granted", action: "edit", subject: "orders", want: false},
		{name: "unknown subject", action: "view", subject: "payments", want: false},
		{name: "empty action", action: "", subject: "orders", want: false},
		{name: "empty subject", action: "view", subject: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, groups.Has(tt.action, tt.subject))
		})
	}
}

func TestGroups_Has_NilMap(t *testing.T) {
	var groups permissions.Groups
	assert.False(t, groups.Has("view", "orders"))
}

func TestRoundTrip(t *testing.T) {
	original := []permissions.Permission{
		{Action: "view", Subject: "orders"},
		{Action: "create", Subject: "orders"},
		{Action: "show", Subject: "clients"},
		{Action: "delete", Subject: "plans"},
	}

	groups := permissions.ToGroups(original)
	back := permissions.ToList(groups)

	assert.ElementsMatch(t, original, back)
}

func TestToGroups_Deduplicates(t *testing.T) {
	list := []permissions.Permission{
		{Action: "view", Subject: "orders"},
		{Action: "view", Subject: "orders"},
		{Action: "create", Subject: "orders"},
	}

	groups := permissions.ToGroups(list)

	require.Contains(t, groups, "orders")
	assert.ElementsMatch(t, []string{"view", "create"}, groups["orders"])
}

func TestToList_Deduplicates(t *testing.T) {
	groups := permissions.Groups{"orders": {"view", "view", "create"}}

	list := permissions.ToList(groups)

	assert.ElementsMatch(t, []permissions.Permission{
		{Action: "view", Subject: "orders"},
		{Action: "create", Subject: "orders"},
	}, list)
}

func TestMerge_UnionNotOverwrite(t *testing.T) {
	a := permissions.Groups{"orders": {"view"}}
	b := permissions.Groups{"orders": {"create"}}

	merged := permissions.Merge(a, b)

	assert.ElementsMatch(t, []string{"view", "create"}, merged["orders"])
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		groups []permissions.Groups
		want   permissions.Groups
	}{
		{
			name:   "no input",
			groups: nil,
			want:   permissions.Groups{},
		},
		{
			name:   "single group passes through",
			groups: []permissions.Groups{{"orders": {"view"}}},
			want:   permissions.Groups{"orders": {"view"}},
		},
		{
			name: "disjoint subjects",
			groups: []permissions.Groups{
				{"orders": {"view"}},
				{"clients": {"show"}},
			},
			want: permissions.Groups{"orders": {"view"}, "clients": {"show"}},
		},
		{
			name: "overlapping duplicates collapse",
			groups: []permissions.Groups{
				{"orders": {"view", "create"}},
				{"orders": {"view", "delete"}},
			},
			want: permissions.Groups{"orders": {"view", "create", "delete"}},
		},
		{
			name: "merge never narrows",
			groups: []permissions.Groups{
				{"orders": {"view", "create"}},
				{"orders": {}},
			},
			want: permissions.Groups{"orders": {"view", "create"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := permissions.Merge(tt.groups...)
			require.Len(t, merged, len(tt.want))
			for subject, actions := range tt.want {
				assert.ElementsMatch(t, actions, merged[subject], "subject %q", subject)
			}
		})
	}
}

func TestParseGroups(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want permissions.Groups
	}{
		{
			name: "valid payload",
			data: []byte(`{"orders":["view","create"]}`),
			want: permissions.Groups{"orders": {"view", "create"}},
		},
		{
			name: "empty payload degrades to empty set",
			data: nil,
			want: permissions.Groups{},
		},
		{
			name: "corrupted payload degrades to empty set",
			data: []byte(`{"orders":[`),
			want: permissions.Groups{},
		},
		{
			name: "wrong shape degrades to empty set",
			data: []byte(`["view","orders"]`),
			want: permissions.Groups{},
		},
		{
			name: "json null degrades to empty set",
			data: []byte(`null`),
			want: permissions.Groups{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := permissions.ParseGroups(tt.data)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	groups := permissions.Groups{
		"orders":  {"view", "create"},
		"clients": {"show"},
	}

	data, err := permissions.EncodeGroups(groups)
	require.NoError(t, err)

	back := permissions.ParseGroups(data)
	assert.Equal(t, groups, back)
}

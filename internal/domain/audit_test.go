package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffFields(t *testing.T) {
	tests := []struct {
		name   string
		before map[string]string
		after  map[string]string
		want   map[string]FieldChange
	}{
		{
			name:   "no changes returns nil",
			before: map[string]string{"name": "Grafana", "url": "https://g"},
			after:  map[string]string{"name": "Grafana", "url": "https://g"},
			want:   nil,
		},
		{
			name:   "single changed field",
			before: map[string]string{"name": "Grafana", "description": "old"},
			after:  map[string]string{"name": "Grafana", "description": "new"},
			want: map[string]FieldChange{
				"description": {Old: "old", New: "new"},
			},
		},
		{
			name:   "multiple changed fields enumerate exactly",
			before: map[string]string{"name": "a", "url": "b", "how_to_use": ""},
			after:  map[string]string{"name": "a2", "url": "b", "how_to_use": "run it"},
			want: map[string]FieldChange{
				"name":       {Old: "a", New: "a2"},
				"how_to_use": {Old: "", New: "run it"},
			},
		},
		{
			name:   "field removed maps to empty new",
			before: map[string]string{"documentation_url": "https://docs"},
			after:  map[string]string{},
			want: map[string]FieldChange{
				"documentation_url": {Old: "https://docs", New: ""},
			},
		},
		{
			name:   "field added maps to empty old",
			before: map[string]string{},
			after:  map[string]string{"documentation_url": "https://docs"},
			want: map[string]FieldChange{
				"documentation_url": {Old: "", New: "https://docs"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffFields(tt.before, tt.after)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffFields_ExactlyChangedKeys(t *testing.T) {
	before := map[string]string{
		"name": "n", "url": "u", "description": "d",
		"how_to_use": "h", "documentation_url": "doc",
	}
	after := map[string]string{
		"name": "n", "url": "u2", "description": "d2",
		"how_to_use": "h", "documentation_url": "doc",
	}

	got := DiffFields(before, after)
	require.Len(t, got, 2)
	assert.Contains(t, got, "url")
	assert.Contains(t, got, "description")
	assert.NotContains(t, got, "name")
}

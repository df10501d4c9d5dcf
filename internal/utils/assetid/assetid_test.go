package assetid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()

	assert.True(t, IsValid(id), "generated id %q should be valid", id)
	assert.Len(t, id, len(prefix)+26)

	parsed, err := Parse(id)
	require.NoError(t, err)
	assert.NotZero(t, parsed.Time())
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"missing prefix", "01hzx8y3k6q4m2n7p9r5s1t0vw", false},
		{"wrong prefix", "jan_01hzx8y3k6q4m2n7p9r5s1t0vw", false},
		{"too short", "ast_01hzx", false},
		{"valid", "ast_01hzx8y3k6q4m2n7p9r5s1t0vw", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.value))
		})
	}
}

package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

const (
	levelLow  level = "low"
	levelHigh level = "high"
)

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]level{
		"low":  levelLow,
		"HIGH": levelHigh,
	}, levelLow)

	tests := []struct {
		name  string
		input string
		want  level
	}{
		{"exact", "low", levelLow},
		{"case insensitive", "High", levelHigh},
		{"whitespace", "  high ", levelHigh},
		{"unknown falls back", "medium", levelLow},
		{"empty falls back", "", levelLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeWithError(t *testing.T) {
	n := NewNormalizer(map[string]level{"low": levelLow, "high": levelHigh}, levelLow)

	got, err := n.NormalizeWithError("HIGH")
	require.NoError(t, err)
	assert.Equal(t, levelHigh, got)

	got, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, levelLow, got)

	_, err = n.NormalizeWithError("medium")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[high low]")
	assert.Equal(t, []string{"high", "low"}, n.ValidKeys())
}

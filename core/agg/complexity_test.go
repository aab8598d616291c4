package agg

import (
	"testing"

	"github.com/huangsam/teamspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureComplexity_Length(t *testing.T) {
	tests := []struct {
		content  string
		expected int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"\n\n\n", 3},
	}
	for _, tt := range tests {
		got, err := MeasureComplexity(schema.LengthMetric, []byte(tt.content))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "content %q", tt.content)
	}
}

func TestMeasureComplexity_McCabe(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{"empty", "", 1},
		{"straight line", "x := 1\nreturn x\n", 1},
		{"keywords", "if a {\n} else if b {\n}\nfor {}\nwhile (x) {}\n", 5},
		{"boolean operators", "if a && b || c {}", 4},
		{"switch cases", "switch x {\ncase 1:\ncase 2:\n}", 3},
		{"try catch", "try { f() } catch (e) { }", 2},
		{"ternary and nullish", "const y = a ? b : c ?? d", 3},
		{"optional chaining is not a branch", "const y = a?.b?.c", 1},
		{"keywords inside identifiers", "format(); iffy(); before()", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MeasureComplexity(schema.McCabeMetric, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMeasureComplexity_UnknownMetric(t *testing.T) {
	_, err := MeasureComplexity("halstead", []byte("x"))
	assert.Error(t, err)
}

package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimator_Count(t *testing.T) {
	c := NewEstimator()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"§ 12 – ünïcödé", 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Count(tt.text), tt.text)
	}
	assert.Empty(t, c.Encoding())
}

func TestEstimator_Truncate(t *testing.T) {
	c := NewEstimator()

	assert.Equal(t, "", c.Truncate("anything", 0))
	assert.Equal(t, "short", c.Truncate("short", 10))
	assert.Equal(t, "abcdefgh", c.Truncate("abcdefghijkl", 2))
	assert.Equal(t, "éééé", c.Truncate(strings.Repeat("é", 20), 1))
}

func TestCounter_Tiktoken(t *testing.T) {
	if testing.Short() {
		t.Skip("loading the BPE file may need the network")
	}
	c := New(DefaultEncoding)
	if c.Encoding() == "" {
		t.Skip("cl100k_base unavailable in this environment")
	}

	text := "A tort is a civil wrong causing harm."
	n := c.Count(text)
	assert.Greater(t, n, 5)
	assert.Less(t, n, len(text))

	cut := c.Truncate(text, 3)
	assert.True(t, strings.HasPrefix(text, cut))
	assert.LessOrEqual(t, c.Count(cut), 3)
	assert.Equal(t, text, c.Truncate(text, n))
}

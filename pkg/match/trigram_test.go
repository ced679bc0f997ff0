package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identity(t *testing.T) {
	for _, s := range []string{"a", "hi", "show margins", "delivery status for so-436"} {
		assert.Equal(t, 1.0, Similarity(s, s), "identical strings must score 1: %q", s)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"show margins", "margins"},
		{"stock", "stok"},
		{"", "hello"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]),
			"similarity(%q,%q) must be symmetric", p[0], p[1])
	}
}

func TestSimilarity_BothEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", ""))
}

func TestSimilarity_ShortStrings(t *testing.T) {
	// Padding guarantees at least one trigram for a single character.
	assert.Equal(t, 1.0, Similarity("a", "a"))
	assert.Equal(t, 0.0, Similarity("a", "b"))
}

func TestSimilarity_Range(t *testing.T) {
	got := Similarity("show me the margins", "show margins")
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestSimilarity_Unrelated(t *testing.T) {
	got := Similarity("what colour is the sky", "upload stock take")
	assert.Less(t, got, 0.3)
}

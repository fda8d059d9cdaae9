package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "john smith", Normalize("  John Smith  "))
	assert.Equal(t, "jose garcia", Normalize("José García"))
	assert.Equal(t, "", Normalize("   "))
}

func TestRatioIdenticalStrings(t *testing.T) {
	assert.Equal(t, 100.0, Ratio("binding", "binding"))
	assert.Equal(t, 100.0, Ratio("BINDING", "binding"))
	assert.Equal(t, 100.0, Ratio("  binding  ", "binding"))
}

func TestRatioEmptyStrings(t *testing.T) {
	assert.Equal(t, 0.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("binding", ""))
	assert.Equal(t, 0.0, Ratio("", "binding"))
}

func TestRatioTypos(t *testing.T) {
	// One substitution in a 7 letter word
	assert.InDelta(t, 85.71, Ratio("binging", "binding"), 0.01)
	// One deletion
	assert.InDelta(t, 85.71, Ratio("bindng", "binding"), 0.01)
	// One adjacent transposition counts as a single edit
	assert.InDelta(t, 85.71, Ratio("bindign", "binding"), 0.01)
	// Unrelated words score low
	assert.Less(t, Ratio("opinion", "binding"), 50.0)
}

func TestRatioNonBindingVariants(t *testing.T) {
	assert.InDelta(t, 90.91, Ratio("non binding", "non-binding"), 0.01)
	assert.InDelta(t, 90.91, Ratio("nonbinding", "non-binding"), 0.01)
	assert.InDelta(t, 90.91, Ratio("non-binging", "non-binding"), 0.01)
	assert.InDelta(t, 81.82, Ratio("non bindng", "non-binding"), 0.01)
}

func TestTokenSortRatio(t *testing.T) {
	// Word order does not matter
	assert.Equal(t, 100.0, TokenSortRatio("Smith John", "John Smith"))
	assert.Equal(t, 100.0, TokenSortRatio("john  smith", "Smith   John"))

	// Typos still score high after sorting
	assert.GreaterOrEqual(t, TokenSortRatio("Jon Smith", "John Smith"), 70.0)

	// Different names score low
	assert.Less(t, TokenSortRatio("Bob Johnson", "Jane Doe"), 70.0)
}

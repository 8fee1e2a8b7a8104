package tarot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick_ReturnsCardFromDeck(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range Deck() {
		known[c.Name] = true
	}

	for i := 0; i < 100; i++ {
		card := Pick()
		assert.True(t, known[card.Name], "picked unknown card %q", card.Name)
		assert.NotEmpty(t, card.Meaning)
	}
}

func TestPick_DoesNotMutateDeck(t *testing.T) {
	before := Deck()
	for i := 0; i < 50; i++ {
		Pick()
	}
	after := Deck()
	require.Equal(t, before, after)
}

func TestPick_CoversDeckEventually(t *testing.T) {
	// 2000 draws over a 20-card deck should hit every card.
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		seen[Pick().Name] = true
	}
	assert.Len(t, seen, len(Deck()))
}

func TestValidSign(t *testing.T) {
	sign, ok := ValidSign("leo")
	require.True(t, ok)
	assert.Equal(t, "Leo", sign)

	sign, ok = ValidSign("Scorpio")
	require.True(t, ok)
	assert.Equal(t, "Scorpio", sign)

	_, ok = ValidSign("Ophiuchus")
	assert.False(t, ok)
}

func TestSigns_TwelveUnique(t *testing.T) {
	require.Len(t, Signs, 12)
	seen := make(map[string]bool)
	for _, s := range Signs {
		assert.False(t, seen[s], "duplicate sign %q", s)
		seen[s] = true
	}
}

package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRankSuit(t *testing.T) {
	tests := []struct {
		id   Card
		rank Rank
		suit Suit
	}{
		{0, Two, Spades},
		{12, Ace, Spades},
		{13, Two, Hearts},
		{51, Ace, Clubs},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.rank, tt.id.Rank(), "card %d rank", tt.id)
		assert.Equal(t, tt.suit, tt.id.Suit(), "card %d suit", tt.id)
	}
}

func TestNewCardRoundTrip(t *testing.T) {
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			c := NewCard(r, s)
			require.True(t, c.Valid())
			assert.Equal(t, r, c.Rank())
			assert.Equal(t, s, c.Suit())
		}
	}
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("As")
	require.NoError(t, err)
	assert.Equal(t, Ace, c.Rank())
	assert.Equal(t, Spades, c.Suit())
	assert.Equal(t, "As", c.String())

	_, err = ParseCard("Zz")
	assert.Error(t, err)

	_, err = ParseCard("A")
	assert.Error(t, err)
}

func TestBitmap(t *testing.T) {
	var b Bitmap
	assert.False(t, b.Has(5))
	b = b.Set(5)
	assert.True(t, b.Has(5))
	assert.Equal(t, 1, b.Count())
	b = b.Set(5) // idempotent
	assert.Equal(t, 1, b.Count())
	b = b.Set(10)
	assert.Equal(t, 2, b.Count())
}

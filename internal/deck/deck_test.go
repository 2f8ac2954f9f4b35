package deck

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealAvoidsUsed(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var used Bitmap
	seen := map[Card]bool{}
	for i := 0; i < NumCards; i++ {
		c := Deal(rng, used)
		require.False(t, seen[c], "card %v dealt twice", c)
		seen[c] = true
		used = used.Set(c)
	}
	assert.Equal(t, NumCards, used.Count())
}

func TestDealNDistinct(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	cards, used := DealN(rng, 0, 7)
	require.Len(t, cards, 7)
	seen := map[Card]bool{}
	for _, c := range cards {
		require.False(t, seen[c])
		seen[c] = true
		require.True(t, used.Has(c))
	}
}

// Package evaluator scores 5- and 7-card Texas Hold'em hands.
//
// Results are packed into a single comparable integer: a fixed-width
// base-15 number where the leading digit is the hand's category (0..8,
// high-card through straight-flush) and the five trailing digits are
// descending tiebreaker ranks (2..14), zero-padded. Fixed width guarantees
// category strictly dominates kickers, so two scores can be compared with
// plain integer comparison.
package evaluator

import (
	"sort"

	"headsup-holdem/internal/deck"
)

// Category is the class of a 5-card hand, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "high card"
	case OnePair:
		return "one pair"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	default:
		return "unknown"
	}
}

const kickerBase = 15 // ranks span 0 (padding) and 2..14

// pack combines a category and up to 5 descending kickers (zero-padded)
// into the fixed-width base-15 score.
func pack(cat Category, kickers [5]int) int {
	score := int(cat)
	for _, k := range kickers {
		score = score*kickerBase + k
	}
	return score
}

type rankGroup struct {
	rank  int
	count int
}

// Evaluate5 scores exactly 5 cards.
func Evaluate5(cards [5]deck.Card) int {
	var rankCounts [15]int // index 2..14
	var suitCounts [4]int
	var rankBits uint32

	for _, c := range cards {
		r := int(c.Rank())
		rankCounts[r]++
		suitCounts[c.Suit()]++
		rankBits |= 1 << uint(r)
	}

	isFlush := false
	for _, n := range suitCounts {
		if n == 5 {
			isFlush = true
			break
		}
	}

	straightHigh := straightHighCard(rankBits)

	if isFlush && straightHigh > 0 {
		return pack(StraightFlush, [5]int{straightHigh, 0, 0, 0, 0})
	}

	groups := rankGroups(rankCounts)

	if groups[0].count == 4 {
		return pack(FourOfAKind, [5]int{groups[0].rank, groups[1].rank, 0, 0, 0})
	}

	if groups[0].count == 3 && groups[1].count == 2 {
		return pack(FullHouse, [5]int{groups[0].rank, groups[1].rank, 0, 0, 0})
	}

	if isFlush {
		var ranks [5]int
		i := 0
		for r := int(deck.Ace); r >= int(deck.Two); r-- {
			if rankCounts[r] > 0 {
				ranks[i] = r
				i++
			}
		}
		return pack(Flush, ranks)
	}

	if straightHigh > 0 {
		return pack(Straight, [5]int{straightHigh, 0, 0, 0, 0})
	}

	if groups[0].count == 3 {
		return pack(ThreeOfAKind, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, 0, 0})
	}

	if groups[0].count == 2 && groups[1].count == 2 {
		return pack(TwoPair, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, 0, 0})
	}

	if groups[0].count == 2 {
		return pack(OnePair, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, 0})
	}

	return pack(HighCard, [5]int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, groups[4].rank})
}

// Evaluate7 dispatches to the fastest available evaluator. It builds the
// compressed perfect-hash table before its first evaluation and, if that
// succeeded, serves every call through Evaluate7Compressed; if
// construction failed it uses evaluate7Basic.
func Evaluate7(hole [2]deck.Card, board [5]deck.Card) int {
	ensureCompressedTable()
	if compressedReady {
		return Evaluate7Compressed(hole, board)
	}
	return evaluate7Basic(hole, board)
}

// evaluate7Basic returns the best score over all C(7,5)=21 five-card
// subsets of hole and board, each scored by the direct algorithm.
func evaluate7Basic(hole [2]deck.Card, board [5]deck.Card) int {
	var all [7]deck.Card
	all[0], all[1] = hole[0], hole[1]
	copy(all[2:], board[:])

	best := -1
	for i := 0; i < 7; i++ {
		for j := i + 1; j < 7; j++ {
			for k := j + 1; k < 7; k++ {
				for l := k + 1; l < 7; l++ {
					for m := l + 1; m < 7; m++ {
						score := Evaluate5([5]deck.Card{all[i], all[j], all[k], all[l], all[m]})
						if score > best {
							best = score
						}
					}
				}
			}
		}
	}
	return best
}

// rankGroups returns ranks present grouped by count, sorted by count
// descending then rank descending, padded to 5 entries with zero ranks so
// callers can always index groups[0..4].
func rankGroups(rankCounts [15]int) [5]rankGroup {
	groups := make([]rankGroup, 0, 7)
	for r := int(deck.Ace); r >= int(deck.Two); r-- {
		if rankCounts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: rankCounts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	var out [5]rankGroup
	for i := 0; i < 5; i++ {
		if i < len(groups) {
			out[i] = groups[i]
		}
	}
	return out
}

// straightHighCard returns the high rank of a straight found in rankBits,
// or 0 if none. The wheel (A-2-3-4-5) reports 5 as its high card.
func straightHighCard(rankBits uint32) int {
	wheel := uint32(1<<14 | 1<<2 | 1<<3 | 1<<4 | 1<<5)
	if rankBits&wheel == wheel {
		return 5
	}
	for high := int(deck.Ace); high >= int(deck.Six); high-- {
		mask := uint32(0x1F) << uint(high-4)
		if rankBits&mask == mask {
			return high
		}
	}
	return 0
}

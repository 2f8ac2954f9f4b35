package evaluator

import (
	"sync"

	"github.com/opencoff/go-chd"

	"headsup-holdem/internal/deck"
)

// compressedTable is a minimal-perfect-hash accelerated lookup from a
// 5-card hand's canonical signature (rank multiset + flush flag, suit
// identity discarded since it cannot affect the score) to its evaluated
// score. It is built lazily from the same Evaluate5 used as ground truth,
// so the two paths can never disagree on anything the table was built
// from.
type compressedTable struct {
	h      *chd.CHD
	keys   [][]byte
	scores []int
}

var (
	compressedOnce  sync.Once
	compressedTbl   *compressedTable
	compressedReady bool
)

// canonicalSignature packs a 5-card hand into the 6-byte key used by the
// compressed table: 5 descending ranks, one byte each, plus a flush flag.
func canonicalSignature(cards [5]deck.Card) []byte {
	var ranks [5]int
	for i, c := range cards {
		ranks[i] = int(c.Rank())
	}
	sortDescending(ranks[:])

	suit0 := cards[0].Suit()
	flush := byte(0)
	isFlush := true
	for _, c := range cards {
		if c.Suit() != suit0 {
			isFlush = false
			break
		}
	}
	if isFlush {
		flush = 1
	}

	key := make([]byte, 6)
	for i, r := range ranks {
		key[i] = byte(r)
	}
	key[5] = flush
	return key
}

func sortDescending(ranks []int) {
	for i := 1; i < len(ranks); i++ {
		for j := i; j > 0 && ranks[j] > ranks[j-1]; j-- {
			ranks[j], ranks[j-1] = ranks[j-1], ranks[j]
		}
	}
}

// buildCompressedTable enumerates every realizable 5-card canonical
// signature once, scores a representative hand for each via the basic
// evaluator, and compresses the key set into a minimal perfect hash so
// repeat evaluations become a single Find call plus a slice index.
func buildCompressedTable() *compressedTable {
	seen := make(map[string]int) // signature -> score, dedup across suit assignments
	var order []string
	var reprScore []int

	record := func(hand [5]deck.Card) {
		sig := canonicalSignature(hand)
		key := string(sig)
		if _, ok := seen[key]; ok {
			return
		}
		score := Evaluate5(hand)
		seen[key] = score
		order = append(order, key)
		reprScore = append(reprScore, score)
	}

	// Enumerate the 5-card combinations of a single reference 52-card
	// deck once; every canonical signature that can occur is realized by
	// some combination within it, so this single pass is exhaustive.
	var deckCards [deck.NumCards]deck.Card
	for i := range deckCards {
		deckCards[i] = deck.Card(i)
	}
	for a := 0; a < deck.NumCards; a++ {
		for b := a + 1; b < deck.NumCards; b++ {
			for c := b + 1; c < deck.NumCards; c++ {
				for d := c + 1; d < deck.NumCards; d++ {
					for e := d + 1; e < deck.NumCards; e++ {
						record([5]deck.Card{deckCards[a], deckCards[b], deckCards[c], deckCards[d], deckCards[e]})
					}
				}
			}
		}
	}

	builder := chd.NewBuilder()
	keys := make([][]byte, len(order))
	for i, k := range order {
		keys[i] = []byte(k)
		_ = builder.Add(keys[i])
	}

	h, err := builder.Freeze(chd.DefaultLoadFactor)
	if err != nil {
		// Construction failure leaves compressedReady false; callers fall
		// back to the uncompressed evaluator transparently.
		return nil
	}

	scores := make([]int, len(order))
	for i, k := range keys {
		idx := h.Find(k)
		scores[idx] = reprScore[i]
	}

	return &compressedTable{h: h, keys: keys, scores: scores}
}

func ensureCompressedTable() {
	compressedOnce.Do(func() {
		compressedTbl = buildCompressedTable()
		compressedReady = compressedTbl != nil
	})
}

// Evaluate5Compressed scores a 5-card hand via the perfect-hash table,
// building the table on first use. It always agrees with Evaluate5,
// which remains the source of truth.
func Evaluate5Compressed(cards [5]deck.Card) int {
	ensureCompressedTable()
	if !compressedReady {
		return Evaluate5(cards)
	}
	key := canonicalSignature(cards)
	idx := compressedTbl.h.Find(key)
	if idx < 0 || idx >= len(compressedTbl.scores) {
		return Evaluate5(cards)
	}
	return compressedTbl.scores[idx]
}

// Evaluate7Compressed is Evaluate7 using the compressed 5-card path.
func Evaluate7Compressed(hole [2]deck.Card, board [5]deck.Card) int {
	var all [7]deck.Card
	all[0], all[1] = hole[0], hole[1]
	copy(all[2:], board[:])

	best := -1
	for i := 0; i < 7; i++ {
		for j := i + 1; j < 7; j++ {
			for k := j + 1; k < 7; k++ {
				for l := k + 1; l < 7; l++ {
					for m := l + 1; m < 7; m++ {
						score := Evaluate5Compressed([5]deck.Card{all[i], all[j], all[k], all[l], all[m]})
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

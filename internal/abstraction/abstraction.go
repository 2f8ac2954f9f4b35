// Package abstraction defines BettingAbstraction, the configuration input
// to the tree builder, and loads it from HCL files.
package abstraction

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// ByStreet holds one value per betting street, indexed Preflop..River (0..3).
type ByStreet[T any] [4]T

// BettingAbstraction bounds the action space the tree builder enumerates:
// fixed stack/blinds, a per-street raise cap, and discrete pot-fraction
// bet/raise sizes.
type BettingAbstraction struct {
	StartingStack      int
	SmallBlind         int
	BigBlind           int
	MaxRaisesPerStreet int
	AllowAllIn         bool
	BetSizesByStreet   ByStreet[[]float64]
	RaiseSizesByStreet ByStreet[[]float64]
}

// Default returns an abstraction with the hand engine's pot fractions on
// every street and a cap of 4 raises per street, useful for smoke-testing
// the tree builder without a config file.
func Default() BettingAbstraction {
	sizes := []float64{0.5, 1.0, 2.0}
	return BettingAbstraction{
		StartingStack:      1000,
		SmallBlind:         5,
		BigBlind:           10,
		MaxRaisesPerStreet: 4,
		AllowAllIn:         true,
		BetSizesByStreet:   ByStreet[[]float64]{sizes, sizes, sizes, sizes},
		RaiseSizesByStreet: ByStreet[[]float64]{sizes, sizes, sizes, sizes},
	}
}

// hclSchema is the on-disk shape LoadFile parses before translating into
// a BettingAbstraction. hclsimple needs named blocks, so street-indexed
// sizes are expressed as one block per street labelled by name.
type hclSchema struct {
	StartingStack      int             `hcl:"starting_stack"`
	SmallBlind         int             `hcl:"small_blind"`
	BigBlind           int             `hcl:"big_blind"`
	MaxRaisesPerStreet int             `hcl:"max_raises_per_street"`
	AllowAllIn         bool            `hcl:"allow_all_in"`
	BetSizes           []streetSizes   `hcl:"bet_sizes,block"`
	RaiseSizes         []streetSizes   `hcl:"raise_sizes,block"`
	Remain             hcl.Body        `hcl:",remain"`
}

type streetSizes struct {
	Street string    `hcl:"street,label"`
	Sizes  []float64 `hcl:"sizes"`
}

var streetOrder = map[string]int{"preflop": 0, "flop": 1, "turn": 2, "river": 3}

// LoadFile reads an HCL betting-abstraction file at path.
func LoadFile(path string) (BettingAbstraction, error) {
	var schema hclSchema
	if err := hclsimple.DecodeFile(path, nil, &schema); err != nil {
		return BettingAbstraction{}, fmt.Errorf("abstraction: decode %s: %w", path, err)
	}

	ba := BettingAbstraction{
		StartingStack:      schema.StartingStack,
		SmallBlind:         schema.SmallBlind,
		BigBlind:           schema.BigBlind,
		MaxRaisesPerStreet: schema.MaxRaisesPerStreet,
		AllowAllIn:         schema.AllowAllIn,
	}

	for _, b := range schema.BetSizes {
		idx, ok := streetOrder[b.Street]
		if !ok {
			return BettingAbstraction{}, fmt.Errorf("abstraction: %s: unknown bet_sizes street %q", path, b.Street)
		}
		ba.BetSizesByStreet[idx] = b.Sizes
	}
	for _, r := range schema.RaiseSizes {
		idx, ok := streetOrder[r.Street]
		if !ok {
			return BettingAbstraction{}, fmt.Errorf("abstraction: %s: unknown raise_sizes street %q", path, r.Street)
		}
		ba.RaiseSizesByStreet[idx] = r.Sizes
	}

	return ba, nil
}

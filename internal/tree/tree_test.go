package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headsup-holdem/internal/abstraction"
)

func smokeAbstraction() abstraction.BettingAbstraction {
	sizes2 := []float64{0.5, 1.0}
	sizes1 := []float64{1.0}
	return abstraction.BettingAbstraction{
		StartingStack:      200,
		SmallBlind:         5,
		BigBlind:           10,
		MaxRaisesPerStreet: 2,
		AllowAllIn:         true,
		BetSizesByStreet:   abstraction.ByStreet[[]float64]{sizes2, sizes2, sizes1, sizes1},
		RaiseSizesByStreet: abstraction.ByStreet[[]float64]{sizes2, sizes2, sizes1, sizes1},
	}
}

func TestBuildSmoke(t *testing.T) {
	gt, err := Build(smokeAbstraction(), 300000)
	require.NoError(t, err)
	require.GreaterOrEqual(t, gt.RootID, 0)

	var sawDecision, sawChance, sawTerminal, sawFold, sawShowdown bool
	for _, n := range gt.Nodes {
		switch n.Type {
		case Decision:
			sawDecision = true
			assert.Equal(t, len(n.Actions), len(n.Children))
			assert.GreaterOrEqual(t, len(n.Actions), 1)
		case Chance:
			sawChance = true
			assert.Len(t, n.Children, 1)
		case Terminal:
			sawTerminal = true
			assert.Empty(t, n.Children)
			if n.Terminal.Kind.String() == "fold" {
				sawFold = true
			}
			if n.Terminal.Kind.String() == "showdown" {
				sawShowdown = true
			}
		}
	}

	assert.True(t, sawDecision)
	assert.True(t, sawChance)
	assert.True(t, sawTerminal)
	assert.True(t, sawFold, "expected at least one fold terminal")
	assert.True(t, sawShowdown, "expected at least one showdown terminal")
}

func TestNodeIDEqualsIndex(t *testing.T) {
	gt, err := Build(smokeAbstraction(), 300000)
	require.NoError(t, err)
	for i, n := range gt.Nodes {
		assert.Equal(t, i, n.ID)
		for _, c := range n.Children {
			assert.GreaterOrEqual(t, c, 0)
			assert.Less(t, c, len(gt.Nodes))
		}
	}
}

func TestMemoisationIsDeterministic(t *testing.T) {
	ba := smokeAbstraction()
	a, err := Build(ba, 300000)
	require.NoError(t, err)
	b, err := Build(ba, 300000)
	require.NoError(t, err)

	require.Equal(t, len(a.Nodes), len(b.Nodes))
	for i := range a.Nodes {
		assert.Equal(t, a.Nodes[i].Key, b.Nodes[i].Key)
		assert.Equal(t, a.Nodes[i].Type, b.Nodes[i].Type)
	}
}

// TestScenarioS6TreeBuildSmoke reproduces the literal end-to-end scenario:
// stack=1000, sb=5, bb=10, max_raises_per_street=2, bet/raise sizes
// {0.5,1.0} preflop/flop and {1.0} turn/river, all-in always emitted.
func TestScenarioS6TreeBuildSmoke(t *testing.T) {
	sizes2 := []float64{0.5, 1.0}
	sizes1 := []float64{1.0}
	ba := abstraction.BettingAbstraction{
		StartingStack:      1000,
		SmallBlind:         5,
		BigBlind:           10,
		MaxRaisesPerStreet: 2,
		AllowAllIn:         true,
		BetSizesByStreet:   abstraction.ByStreet[[]float64]{sizes2, sizes2, sizes1, sizes1},
		RaiseSizesByStreet: abstraction.ByStreet[[]float64]{sizes2, sizes2, sizes1, sizes1},
	}

	gt, err := Build(ba, 300000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, gt.RootID, 0)

	var kinds = map[NodeType]bool{}
	var fold, showdown bool
	for _, n := range gt.Nodes {
		kinds[n.Type] = true
		if n.Type == Terminal {
			if n.Terminal.Kind.String() == "fold" {
				fold = true
			}
			if n.Terminal.Kind.String() == "showdown" {
				showdown = true
			}
		}
	}
	assert.True(t, kinds[Decision])
	assert.True(t, kinds[Chance])
	assert.True(t, kinds[Terminal])
	assert.True(t, fold)
	assert.True(t, showdown)
}

func TestBudgetExceededIsFatal(t *testing.T) {
	_, err := Build(smokeAbstraction(), 5)
	require.Error(t, err)
	var budgetErr *ErrBudgetExceeded
	assert.ErrorAs(t, err, &budgetErr)
}

package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHand() *State {
	rng := rand.New(rand.NewPCG(1, 1))
	return NewHand(rng, 200, 1, 2)
}

func findAction(actions []Action, typ ActionType, amount int) (Action, bool) {
	for _, a := range actions {
		if a.Type == typ && a.Amount == amount {
			return a, true
		}
	}
	return Action{}, false
}

// S1: SB folds preflop, BB wins the blinds uncontested.
func TestScenarioSBFolds(t *testing.T) {
	s := newTestHand()
	require.True(t, Apply(s, Action{Player: 0, Type: Fold}))
	assert.Equal(t, Terminal, s.Street)

	result := TerminalPayoff(s)
	require.True(t, result.IsTerminal)
	assert.Equal(t, 1, result.Winner)
	assert.Equal(t, 1, result.ChipDelta[1], "BB wins the SB's posted blind")
	assert.Equal(t, -1, result.ChipDelta[0])
}

// S2: SB limps (calls), BB checks, preflop closes with no raise.
func TestScenarioLimpCheckClosesPreflop(t *testing.T) {
	s := newTestHand()
	require.True(t, Apply(s, Action{Player: 0, Type: Call, Amount: 1}))
	assert.Equal(t, Preflop, s.Street, "should not close until BB acts")

	require.True(t, Apply(s, Action{Player: 1, Type: Check}))
	assert.Equal(t, Flop, s.Street)
	assert.Equal(t, 3, len(s.Board))
	assert.Equal(t, 0, s.CommittedThisRound[0])
	assert.Equal(t, 0, s.CommittedThisRound[1])
}

// S3: BB opens with a bet (call==0 so it is classified Bet, never Raise)
// after a limp, and SB's call closes the round.
func TestScenarioBetThenCallClosesRound(t *testing.T) {
	s := newTestHand()
	require.True(t, Apply(s, Action{Player: 0, Type: Call, Amount: 1}))

	actions := LegalActions(s)
	betAction, ok := findAction(actions, Bet, 2)
	require.True(t, ok, "BB should have a half-pot bet option; got %+v", actions)
	require.True(t, Apply(s, betAction))
	assert.Equal(t, Preflop, s.Street)

	callAction, ok := findAction(LegalActions(s), Call, betAction.Amount)
	require.True(t, ok)
	require.True(t, Apply(s, callAction))
	assert.Equal(t, Flop, s.Street)
}

func TestLegalActionsEmptyOnTerminal(t *testing.T) {
	s := newTestHand()
	require.True(t, Apply(s, Action{Player: 0, Type: Fold}))
	assert.Empty(t, LegalActions(s))
}

func TestApplyRejectsIllegalAction(t *testing.T) {
	s := newTestHand()
	ok := Apply(s, Action{Player: 0, Type: Check})
	assert.False(t, ok, "SB facing a live bet cannot check")
	assert.Empty(t, s.History)
}

func TestChipConservationThroughRandomHand(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for trial := 0; trial < 25; trial++ {
		s := NewHand(rng, 200, 1, 2)
		startTotal := s.Stacks[0] + s.Stacks[1] + s.Pot

		guard := 0
		for s.Street != Terminal {
			guard++
			require.Less(t, guard, 200, "hand did not terminate")

			a, ok := RandomLegalAction(s, rng)
			require.True(t, ok)
			require.True(t, Apply(s, a))

			assert.Equal(t, startTotal, s.Stacks[0]+s.Stacks[1]+s.Pot, "chips must be conserved")
			assert.GreaterOrEqual(t, s.Stacks[0], 0)
			assert.GreaterOrEqual(t, s.Stacks[1], 0)
		}

		result := TerminalPayoff(s)
		require.True(t, result.IsTerminal)
		assert.Equal(t, 0, result.ChipDelta[0]+result.ChipDelta[1], "terminal payoff must be zero-sum")
	}
}

func TestAllInRunsOutRemainingBoard(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	s := NewHand(rng, 20, 1, 2)

	actions := LegalActions(s)
	shove, ok := findAction(actions, Raise, s.Stacks[0])
	require.True(t, ok, "SB should have an all-in raise option; got %+v", actions)
	require.True(t, Apply(s, shove))

	call, ok := findAction(LegalActions(s), Call, s.Stacks[1])
	require.True(t, ok)
	require.True(t, Apply(s, call))

	assert.Equal(t, Terminal, s.Street)
	assert.Len(t, s.Board, 5)

	result := TerminalPayoff(s)
	require.True(t, result.IsTerminal)
	assert.Equal(t, 0, result.ChipDelta[0]+result.ChipDelta[1])
}

func TestShowdownSplitPotAssignsOddChipToPlayerZero(t *testing.T) {
	s := newTestHand()
	s.Street = Terminal
	// An 11-chip pot cannot split evenly: player 0 is paid 6, player 1 is paid 5.
	s.CommittedTotal = [2]int{5, 6}
	// Give both players the same hole cards so Evaluate7 scores them equally.
	s.HoleCards[0] = s.HoleCards[1]

	result := TerminalPayoff(s)
	require.True(t, result.IsTerminal)
	assert.Equal(t, -1, result.Winner)
	assert.Equal(t, 1, result.ChipDelta[0], "player 0 receives the odd chip")
	assert.Equal(t, -1, result.ChipDelta[1])
	assert.Equal(t, 0, result.ChipDelta[0]+result.ChipDelta[1])
}

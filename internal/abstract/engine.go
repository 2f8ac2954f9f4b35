package abstract

import (
	"math"
	"sort"
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func minRaiseTo(s TreeState) int {
	return s.CurrentBet + maxInt(1, s.LastBetSize)
}

// betSizes/raiseSizes returns the abstraction's configured pot fractions
// for the state's current street, falling back to the hand engine's
// default fractions when the abstraction leaves a street unconfigured.
var fallbackSizes = []float64{0.5, 1.0, 2.0}

func betSizes(s TreeState) []float64 {
	sizes := s.abstraction.BetSizesByStreet[int(s.Street)]
	if len(sizes) == 0 {
		return fallbackSizes
	}
	return sizes
}

func raiseSizes(s TreeState) []float64 {
	sizes := s.abstraction.RaiseSizesByStreet[int(s.Street)]
	if len(sizes) == 0 {
		return fallbackSizes
	}
	return sizes
}

// LegalActions enumerates the abstraction's legal actions, identical in
// shape to the hand engine's but sized from the BettingAbstraction and
// capped by RaisesThisStreet.
func LegalActions(s TreeState) []Action {
	if s.Street == Terminal {
		return nil
	}

	raisesExhausted := s.RaisesThisStreet >= s.abstraction.MaxRaisesPerStreet

	p := s.ToAct
	stack := s.Stacks[p]
	call := maxInt(0, s.CurrentBet-s.CommittedThisRound[p])

	var actions []Action

	if call > 0 {
		actions = append(actions, Action{Player: p, Type: Fold})
		actions = append(actions, Action{Player: p, Type: Call, Amount: minInt(call, stack)})

		if stack > call && !raisesExhausted {
			minTarget := minRaiseTo(s)
			for _, x := range raiseSizes(s) {
				target := maxInt(minTarget, s.CurrentBet+int(math.Floor(float64(s.Pot)*x)))
				needed := target - s.CommittedThisRound[p]
				if needed > call && needed < stack {
					actions = append(actions, Action{Player: p, Type: Raise, Amount: needed})
				}
			}
			if s.abstraction.AllowAllIn {
				actions = append(actions, Action{Player: p, Type: Raise, Amount: stack})
			}
		}
	} else {
		actions = append(actions, Action{Player: p, Type: Check})

		if stack > 0 && !raisesExhausted {
			for _, x := range betSizes(s) {
				amount := maxInt(1, int(math.Floor(float64(s.Pot)*x)))
				if amount < stack {
					actions = append(actions, Action{Player: p, Type: Bet, Amount: amount})
				}
			}
			if s.abstraction.AllowAllIn {
				actions = append(actions, Action{Player: p, Type: Bet, Amount: stack})
			}
		}
	}

	return dedupeActions(actions)
}

func dedupeActions(actions []Action) []Action {
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Type != actions[j].Type {
			return actions[i].Type < actions[j].Type
		}
		return actions[i].Amount < actions[j].Amount
	})
	out := actions[:0]
	for i, a := range actions {
		if i > 0 && a.Type == out[len(out)-1].Type && a.Amount == out[len(out)-1].Amount {
			continue
		}
		out = append(out, a)
	}
	return out
}

func isLegal(s TreeState, a Action) bool {
	for _, la := range LegalActions(s) {
		if la.Player == a.Player && la.Type == a.Type && la.Amount == a.Amount {
			return true
		}
	}
	return false
}

// TerminalKind distinguishes how a Terminal TreeState was reached.
type TerminalKind int

const (
	NoTerminal TerminalKind = iota
	TerminalFold
	TerminalShowdown
)

func (k TerminalKind) String() string {
	switch k {
	case TerminalFold:
		return "fold"
	case TerminalShowdown:
		return "showdown"
	default:
		return "none"
	}
}

// Transition is the result of applying an action to a TreeState.
type Transition struct {
	State        TreeState
	ViaChance    bool
	IsTerminal   bool
	TerminalKind TerminalKind
}

// Apply computes the transition produced by applying a to s. s itself is
// never mutated; TreeState is a value type and Apply always returns a
// fresh one. ok is false if a is not legal for s.
func Apply(s TreeState, a Action) (Transition, bool) {
	if !isLegal(s, a) {
		return Transition{}, false
	}

	next := s.clone()
	p := a.Player

	switch a.Type {
	case Fold:
		next.Folded[p] = true
		next.Street = Terminal
		return Transition{State: next, IsTerminal: true, TerminalKind: TerminalFold}, true

	case Check:
		next.ActedThisRound[p] = true
		if roundClosed(next) {
			return closeRound(next), true
		}
		next.ToAct = 1 - p
		refreshBetToCall(&next)
		return Transition{State: next}, true

	case Call:
		amount := minInt(a.Amount, next.Stacks[p])
		commit(&next, p, amount)
		next.ActedThisRound[p] = true

		if bothAllIn(next) {
			next.Street = Terminal
			return Transition{State: next, IsTerminal: true, TerminalKind: TerminalShowdown}, true
		}
		if roundClosed(next) {
			return closeRound(next), true
		}
		next.ToAct = 1 - p
		refreshBetToCall(&next)
		return Transition{State: next}, true

	case Bet, Raise:
		priorCurrentBet := next.CurrentBet
		commit(&next, p, a.Amount)
		if next.CommittedThisRound[p] > next.CurrentBet {
			next.CurrentBet = next.CommittedThisRound[p]
		}
		next.LastBetSize = maxInt(1, next.CurrentBet-priorCurrentBet)
		next.RaisesThisStreet++
		next.ActedThisRound[p] = true
		next.ActedThisRound[1-p] = false

		// As in the hand engine, an all-in bet or raise still leaves the
		// opponent a Call or Fold unless the opponent has no chips left.
		if next.Stacks[1-p] == 0 {
			next.Street = Terminal
			return Transition{State: next, IsTerminal: true, TerminalKind: TerminalShowdown}, true
		}
		next.ToAct = 1 - p
		refreshBetToCall(&next)
		return Transition{State: next}, true
	}

	return Transition{}, false
}

func commit(s *TreeState, p int, amount int) {
	s.Stacks[p] -= amount
	s.CommittedThisRound[p] += amount
	s.CommittedTotal[p] += amount
	s.Pot += amount
}

func bothAllIn(s TreeState) bool {
	if s.Folded[0] || s.Folded[1] {
		return false
	}
	return s.Stacks[0] == 0 || s.Stacks[1] == 0
}

func refreshBetToCall(s *TreeState) {
	s.BetToCall = maxInt(0, s.CurrentBet-s.CommittedThisRound[s.ToAct])
}

// roundClosed is the acted_this_round-flag closure rule: both flags set
// and both players' round commitments equal. Unlike the hand engine's
// history peek, this never has to look backward — the flags alone decide.
func roundClosed(s TreeState) bool {
	return s.ActedThisRound[0] && s.ActedThisRound[1] && s.CommittedThisRound[0] == s.CommittedThisRound[1]
}

// closeRound advances the street, resetting round-scoped fields and
// reporting via_chance so the tree builder inserts a Chance node —
// except on the river, which resolves straight to Terminal.
func closeRound(s TreeState) Transition {
	s.BetToCall = 0
	s.CurrentBet = 0
	s.LastBetSize = 0
	s.CommittedThisRound = [2]int{0, 0}
	s.ActedThisRound = [2]bool{false, false}
	s.RaisesThisStreet = 0
	s.ToAct = 0

	switch s.Street {
	case Preflop:
		s.Street = Flop
		return Transition{State: s, ViaChance: true}
	case Flop:
		s.Street = Turn
		return Transition{State: s, ViaChance: true}
	case Turn:
		s.Street = River
		return Transition{State: s, ViaChance: true}
	case River:
		s.Street = Terminal
		return Transition{State: s, IsTerminal: true, TerminalKind: TerminalShowdown}
	}

	return Transition{State: s}
}

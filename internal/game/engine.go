package game

import (
	"math"
	"math/rand/v2"
	"sort"

	"headsup-holdem/internal/deck"
	"headsup-holdem/internal/evaluator"
)

// NewHand deals a fresh heads-up hand. Player 0 is the small blind, player
// 1 is the big blind; the small blind acts first preflop. rng is owned
// exclusively by the returned State — callers must not share it with
// another hand in flight.
func NewHand(rng *rand.Rand, startingStack, sb, bb int) *State {
	s := &State{
		Street:      Preflop,
		Stacks:      [2]int{startingStack - sb, startingStack - bb},
		ToAct:       0,
		CurrentBet:  bb,
		BetToCall:   bb - sb,
		LastBetSize: bb - sb,
		Pot:         sb + bb,
		rng:         rng,
	}
	s.CommittedThisRound = [2]int{sb, bb}
	s.CommittedTotal = [2]int{sb, bb}

	for p := 0; p < 2; p++ {
		cards, used := deck.DealN(rng, s.UsedCards, 2)
		s.UsedCards = used
		s.HoleCards[p][0], s.HoleCards[p][1] = cards[0], cards[1]
	}

	return s
}

// minRaiseTo returns the smallest legal raise-to target for the player to
// act.
func minRaiseTo(s *State) int {
	return s.CurrentBet + maxInt(1, s.LastBetSize)
}

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

// LegalActions enumerates every action the player to act may take. It is
// empty when the hand is not in a state that accepts actions. It does not
// mutate s.
func LegalActions(s *State) []Action {
	if s.Street == Terminal || s.Street == Showdown {
		return nil
	}

	p := s.ToAct
	stack := s.Stacks[p]
	call := maxInt(0, s.CurrentBet-s.CommittedThisRound[p])

	var actions []Action

	if call > 0 {
		actions = append(actions, Action{Player: p, Type: Fold, ToCallBefore: call, Street: s.Street})
		actions = append(actions, Action{Player: p, Type: Call, Amount: minInt(call, stack), ToCallBefore: call, Street: s.Street})

		if stack > call {
			minTarget := minRaiseTo(s)
			for _, x := range defaultRaiseFractions {
				target := maxInt(minTarget, s.CurrentBet+int(math.Floor(float64(s.Pot)*x)))
				needed := target - s.CommittedThisRound[p]
				if needed > call && needed < stack {
					actions = append(actions, Action{Player: p, Type: Raise, Amount: needed, ToCallBefore: call, Street: s.Street})
				}
			}
			actions = append(actions, Action{Player: p, Type: Raise, Amount: stack, ToCallBefore: call, Street: s.Street})
		}
	} else {
		actions = append(actions, Action{Player: p, Type: Check, ToCallBefore: 0, Street: s.Street})

		if stack > 0 {
			for _, x := range defaultRaiseFractions {
				amount := maxInt(1, int(math.Floor(float64(s.Pot)*x)))
				if amount < stack {
					actions = append(actions, Action{Player: p, Type: Bet, Amount: amount, ToCallBefore: 0, Street: s.Street})
				}
			}
			actions = append(actions, Action{Player: p, Type: Bet, Amount: stack, ToCallBefore: 0, Street: s.Street})
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

// isLegal reports whether a matches one of s's legal actions by
// (player, type, amount).
func isLegal(s *State, a Action) bool {
	for _, la := range LegalActions(s) {
		if la.Player == a.Player && la.Type == a.Type && la.Amount == a.Amount {
			return true
		}
	}
	return false
}

// RandomLegalAction picks uniformly among s's legal actions.
func RandomLegalAction(s *State, rng *rand.Rand) (Action, bool) {
	actions := LegalActions(s)
	if len(actions) == 0 {
		return Action{}, false
	}
	return actions[rng.IntN(len(actions))], true
}

// Apply attempts to apply action a to s. It returns false and leaves s
// unchanged if a is not among s's legal actions.
func Apply(s *State, a Action) bool {
	if !isLegal(s, a) {
		return false
	}

	p := a.Player
	a.ToCallBefore = s.BetToCall
	a.Street = s.Street
	s.History = append(s.History, a)

	switch a.Type {
	case Fold:
		s.Folded[p] = true
		s.Street = Terminal

	case Check:
		if roundClosedHistoryPeek(s) {
			advanceStreet(s)
		} else {
			s.ToAct = 1 - p
			refreshBetToCall(s)
		}

	case Call:
		amount := minInt(a.Amount, s.Stacks[p])
		commit(s, p, amount)

		if bothAllIn(s) {
			runOutRemainingBoard(s)
			s.Street = Terminal
		} else if roundClosedHistoryPeek(s) {
			advanceStreet(s)
		} else {
			s.ToAct = 1 - p
			refreshBetToCall(s)
		}

	case Bet, Raise:
		priorCurrentBet := s.CurrentBet
		commit(s, p, a.Amount)
		if s.CommittedThisRound[p] > s.CurrentBet {
			s.CurrentBet = s.CommittedThisRound[p]
		}
		s.LastBetSize = maxInt(1, s.CurrentBet-priorCurrentBet)

		// An all-in bet or raise still leaves the opponent a Call or Fold;
		// betting stops here only if the opponent has no chips to respond.
		if s.Stacks[1-p] == 0 {
			runOutRemainingBoard(s)
			s.Street = Terminal
		} else {
			s.ToAct = 1 - p
			refreshBetToCall(s)
		}
	}

	return true
}

// commit moves amount chips from player p's stack into the pot and
// updates their round/hand commitments.
func commit(s *State, p int, amount int) {
	s.Stacks[p] -= amount
	s.CommittedThisRound[p] += amount
	s.CommittedTotal[p] += amount
	s.Pot += amount
}

// bothAllIn reports whether betting must stop immediately because at
// least one active player has no chips left to act with.
func bothAllIn(s *State) bool {
	if s.Folded[0] || s.Folded[1] {
		return false
	}
	return s.Stacks[0] == 0 || s.Stacks[1] == 0
}

func refreshBetToCall(s *State) {
	s.BetToCall = maxInt(0, s.CurrentBet-s.CommittedThisRound[s.ToAct])
}

// roundClosedHistoryPeek derives round closure by scanning the action
// history for the current street rather than consulting a maintained
// per-player flag (that flag-based approach belongs to the tree
// builder's cards-free twin). It relies on the most recent entries in
// history rather than any separately tracked state, which is what
// makes it the fragile face of closure detection: a bug in the scan,
// not a flag write, would silently misjudge closure.
func roundClosedHistoryPeek(s *State) bool {
	if s.CommittedThisRound[0] != s.CommittedThisRound[1] {
		return false
	}

	var streetHistory []Action
	for _, a := range s.History {
		if a.Street == s.Street {
			streetHistory = append(streetHistory, a)
		}
	}

	lastAggr := -1
	for i, a := range streetHistory {
		if a.Type == Bet || a.Type == Raise {
			lastAggr = i
		}
	}

	acted := map[int]bool{}
	start := 0
	if lastAggr >= 0 {
		start = lastAggr + 1
		acted[streetHistory[lastAggr].Player] = true
	}
	for i := start; i < len(streetHistory); i++ {
		acted[streetHistory[i].Player] = true
	}

	if !acted[0] || !acted[1] {
		return false
	}

	// Preflop, an unraised pot still owes the big blind its option even
	// though both commitments already match.
	if s.Street == Preflop && lastAggr == -1 {
		bbActed := false
		for _, a := range streetHistory {
			if a.Player == 1 {
				bbActed = true
				break
			}
		}
		if !bbActed {
			return false
		}
	}

	return true
}

// advanceStreet resets round betting state and deals the next street's
// board cards. Closing the river resolves straight to Terminal; Street is
// never set to Showdown.
func advanceStreet(s *State) {
	s.BetToCall = 0
	s.CurrentBet = 0
	s.LastBetSize = 0
	s.CommittedThisRound = [2]int{0, 0}
	s.ToAct = 0

	switch s.Street {
	case Preflop:
		s.Street = Flop
		dealBoard(s, 3)
	case Flop:
		s.Street = Turn
		dealBoard(s, 1)
	case Turn:
		s.Street = River
		dealBoard(s, 1)
	case River:
		s.Street = Terminal
	}
}

// dealBoard deals n additional board cards using the State's own rng.
func dealBoard(s *State, n int) {
	cards, used := deck.DealN(s.rng, s.UsedCards, n)
	s.UsedCards = used
	s.Board = append(s.Board, cards...)
}

// runOutRemainingBoard deals every board card the current street has not
// yet dealt, used when an all-in ends betting before the river.
func runOutRemainingBoard(s *State) {
	remaining := 5 - len(s.Board)
	if remaining > 0 {
		dealBoard(s, remaining)
	}
}

// TerminalResult reports the chip outcome of a finished hand.
type TerminalResult struct {
	IsTerminal bool
	ChipDelta  [2]int
	Winner     int    // -1 on a split pot
	Reason     string // "fold" or "showdown"
}

// TerminalPayoff settles a hand whose Street has reached Terminal. It
// returns a zero-valued, IsTerminal=false result for any hand still in
// progress.
func TerminalPayoff(s *State) TerminalResult {
	if s.Street != Terminal {
		return TerminalResult{}
	}

	if s.Folded[0] || s.Folded[1] {
		winner := 0
		if s.Folded[0] {
			winner = 1
		}
		return foldPayoff(s, winner)
	}

	return showdownPayoff(s)
}

func foldPayoff(s *State, winner int) TerminalResult {
	loser := 1 - winner
	delta := s.CommittedTotal[loser]
	result := TerminalResult{IsTerminal: true, Winner: winner, Reason: "fold"}
	result.ChipDelta[winner] = delta
	result.ChipDelta[loser] = -delta
	return result
}

func showdownPayoff(s *State) TerminalResult {
	var board [5]deck.Card
	copy(board[:], s.Board)

	score0 := evaluator.Evaluate7(s.HoleCards[0], board)
	score1 := evaluator.Evaluate7(s.HoleCards[1], board)

	result := TerminalResult{IsTerminal: true, Reason: "showdown"}

	switch {
	case score0 > score1:
		result.Winner = 0
		delta := s.CommittedTotal[1]
		result.ChipDelta[0] = delta
		result.ChipDelta[1] = -delta
	case score1 > score0:
		result.Winner = 1
		delta := s.CommittedTotal[0]
		result.ChipDelta[1] = delta
		result.ChipDelta[0] = -delta
	default:
		result.Winner = -1
		total := s.CommittedTotal[0] + s.CommittedTotal[1]
		half := total / 2
		// Player 0 receives the odd chip on an unsplittable pot.
		result.ChipDelta[0] = half + total%2 - s.CommittedTotal[0]
		result.ChipDelta[1] = half - s.CommittedTotal[1]
	}

	return result
}

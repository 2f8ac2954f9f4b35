// Package httpapi exposes the hand engine over the fixed HTTP/JSON
// contract: seven REST endpoints plus an additive spectator WebSocket
// stream, serialised behind a single shared *game.State.
package httpapi

import (
	"headsup-holdem/internal/deck"
	"headsup-holdem/internal/game"
)

// ActionView is the wire shape of a game.Action.
type ActionView struct {
	Player       int    `json:"player"`
	Type         string `json:"type"`
	Amount       int    `json:"amount"`
	ToCallBefore int    `json:"to_call_before"`
	Street       int    `json:"street"`
}

func newActionView(a game.Action) ActionView {
	return ActionView{
		Player:       a.Player,
		Type:         a.Type.String(),
		Amount:       a.Amount,
		ToCallBefore: a.ToCallBefore,
		Street:       int(a.Street),
	}
}

// StateView is the bit-exact wire shape of game.State mandated by the
// adapter contract.
type StateView struct {
	Street         int          `json:"street"`
	StreetName     string       `json:"street_name"`
	Pot            int          `json:"pot"`
	Stacks         [2]int       `json:"stacks"`
	ToAct          int          `json:"to_act"`
	BetToCall      int          `json:"bet_to_call"`
	LastBetSize    int          `json:"last_bet_size"`
	CommittedTotal [2]int       `json:"committed_total"`
	HoleCards      [2][2]string `json:"hole_cards"`
	Board          []string     `json:"board"`
	History        []ActionView `json:"history"`
	IsTerminal     bool         `json:"is_terminal"`
}

func newStateView(s *game.State) StateView {
	view := StateView{
		Street:         int(s.Street),
		StreetName:     s.Street.String(),
		Pot:            s.Pot,
		Stacks:         s.Stacks,
		ToAct:          s.ToAct,
		BetToCall:      s.BetToCall,
		LastBetSize:    s.LastBetSize,
		CommittedTotal: s.CommittedTotal,
		Board:          cardStrings(s.Board),
		IsTerminal:     s.Street == game.Terminal,
	}

	for p := 0; p < 2; p++ {
		view.HoleCards[p][0] = s.HoleCards[p][0].String()
		view.HoleCards[p][1] = s.HoleCards[p][1].String()
	}

	view.History = make([]ActionView, len(s.History))
	for i, a := range s.History {
		view.History[i] = newActionView(a)
	}

	return view
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// TerminalResultView is the wire shape of game.TerminalResult.
type TerminalResultView struct {
	IsTerminal bool   `json:"is_terminal"`
	Winner     int    `json:"winner"`
	ChipDelta  [2]int `json:"chip_delta"`
	Reason     string `json:"reason"`
}

func newTerminalResultView(r game.TerminalResult) TerminalResultView {
	return TerminalResultView{
		IsTerminal: r.IsTerminal,
		Winner:     r.Winner,
		ChipDelta:  r.ChipDelta,
		Reason:     r.Reason,
	}
}

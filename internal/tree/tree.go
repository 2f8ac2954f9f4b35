// Package tree builds a memoised Decision/Chance/Terminal node DAG over
// the abstract betting state space under a configurable node budget.
package tree

import (
	"fmt"
	"strconv"
	"strings"

	"headsup-holdem/internal/abstract"
	"headsup-holdem/internal/abstraction"
)

// NodeType distinguishes the three kinds of node a GameTree contains.
type NodeType int

const (
	Decision NodeType = iota
	Chance
	Terminal
)

func (t NodeType) String() string {
	switch t {
	case Decision:
		return "decision"
	case Chance:
		return "chance"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// TerminalData is the payoff-relevant summary a Terminal node carries.
// Showdown terminals leave WinnerIfFold at -1 and ChipDeltaIfForced
// zeroed: resolving
// them is a downstream equity-solving concern, out of scope here.
type TerminalData struct {
	Kind           abstract.TerminalKind
	Pot            int
	CommittedTotal [2]int
	WinnerIfFold   int
	ChipDeltaIfForced [2]int
}

// TreeNode is one entry in a GameTree. For Decision nodes, Actions[k]
// corresponds to Children[k]. Chance nodes have exactly one child;
// Terminal nodes have none.
type TreeNode struct {
	ID       int
	Type     NodeType
	Key      string
	State    abstract.TreeState
	Actions  []abstract.Action
	Children []int
	Terminal TerminalData
}

// GameTree is the output of Build: a node-indexed DAG where
// nodes[i].ID == i. A node is inserted after the parent that first reaches
// it; a memoised node reached again from a later parent can have a smaller
// id than that parent.
type GameTree struct {
	RootID int
	Nodes  []TreeNode
}

// ErrBudgetExceeded is returned by Build when expanding the tree would
// create more nodes than the caller's budget allows. This is the one
// fatal condition in the package: callers must refine the abstraction
// rather than retry with the same inputs.
type ErrBudgetExceeded struct {
	MaxNodes int
}

func (e *ErrBudgetExceeded) Error() string {
	return fmt.Sprintf("tree: node budget of %d exceeded", e.MaxNodes)
}

type builder struct {
	maxNodes int
	nodes    []TreeNode
	memo     map[string]int
}

// Build expands the full Decision/Chance/Terminal DAG for ba, starting
// from the abstraction's initial state, aborting with ErrBudgetExceeded
// if more than maxNodes would be required.
func Build(ba abstraction.BettingAbstraction, maxNodes int) (*GameTree, error) {
	b := &builder{
		maxNodes: maxNodes,
		memo:     make(map[string]int),
	}

	root := abstract.InitialState(ba)
	rootID, err := b.expand(root)
	if err != nil {
		return nil, err
	}

	return &GameTree{RootID: rootID, Nodes: b.nodes}, nil
}

// expand returns the node id for s, building it (and its subtree) if it
// has not been visited before under an equivalent key.
func (b *builder) expand(s abstract.TreeState) (int, error) {
	actions := abstract.LegalActions(s)

	if len(actions) == 0 {
		return b.expandTerminalFromDeadEnd(s)
	}

	key := "D:" + stateKey(s)
	if id, ok := b.memo[key]; ok {
		return id, nil
	}

	id, err := b.reserve(TreeNode{Type: Decision, Key: key, State: s})
	if err != nil {
		return 0, err
	}
	b.memo[key] = id

	children := make([]int, len(actions))
	for i, a := range actions {
		childID, err := b.expandAfter(s, a)
		if err != nil {
			return 0, err
		}
		children[i] = childID
	}

	b.nodes[id].Actions = actions
	b.nodes[id].Children = children
	return id, nil
}

// expandAfter computes the transition for action a from s and builds (or
// looks up) the node it leads to: a Terminal child directly, a Chance
// node wrapping the next Decision, or a same-street Decision node.
func (b *builder) expandAfter(s abstract.TreeState, a abstract.Action) (int, error) {
	tr, ok := abstract.Apply(s, a)
	if !ok {
		return 0, fmt.Errorf("tree: action %+v illegal for state it was generated from", a)
	}

	if tr.IsTerminal {
		return b.expandTerminal(tr)
	}

	if tr.ViaChance {
		return b.expandChance(tr.State)
	}

	return b.expand(tr.State)
}

// expandChance inserts a Chance node whose single child is the next
// street's Decision node.
func (b *builder) expandChance(s abstract.TreeState) (int, error) {
	key := "C:" + stateKey(s)
	if id, ok := b.memo[key]; ok {
		return id, nil
	}

	id, err := b.reserve(TreeNode{Type: Chance, Key: key, State: s})
	if err != nil {
		return 0, err
	}
	b.memo[key] = id

	childID, err := b.expand(s)
	if err != nil {
		return 0, err
	}

	b.nodes[id].Children = []int{childID}
	return id, nil
}

// expandTerminal inserts (or looks up) the Terminal node a transition
// reported directly.
func (b *builder) expandTerminal(tr abstract.Transition) (int, error) {
	s := tr.State
	prefix := "T:S:"
	if tr.TerminalKind == abstract.TerminalFold {
		prefix = "T:F:"
	}
	key := prefix + stateKey(s)
	if id, ok := b.memo[key]; ok {
		return id, nil
	}

	data := TerminalData{Kind: tr.TerminalKind, Pot: s.Pot, CommittedTotal: s.CommittedTotal}
	if tr.TerminalKind == abstract.TerminalFold {
		winner := 0
		if s.Folded[0] {
			winner = 1
		}
		data.WinnerIfFold = winner
		loser := 1 - winner
		delta := s.CommittedTotal[loser]
		data.ChipDeltaIfForced[winner] = delta
		data.ChipDeltaIfForced[loser] = -delta
	} else {
		data.WinnerIfFold = -1
	}

	id, err := b.reserve(TreeNode{Type: Terminal, Key: key, State: s, Terminal: data})
	if err != nil {
		return 0, err
	}
	b.memo[key] = id
	return id, nil
}

// expandTerminalFromDeadEnd handles the (expected never to occur in this
// abstraction) case of a Decision state with no legal actions; present
// only to keep expand total rather than risk an out-of-bounds slice.
func (b *builder) expandTerminalFromDeadEnd(s abstract.TreeState) (int, error) {
	key := "T:S:" + stateKey(s)
	if id, ok := b.memo[key]; ok {
		return id, nil
	}
	id, err := b.reserve(TreeNode{Type: Terminal, Key: key, State: s, Terminal: TerminalData{Kind: abstract.TerminalShowdown, Pot: s.Pot, CommittedTotal: s.CommittedTotal, WinnerIfFold: -1}})
	if err != nil {
		return 0, err
	}
	b.memo[key] = id
	return id, nil
}

// reserve appends a new node, assigning it the index-equal id invariant,
// and fails with ErrBudgetExceeded if doing so would exceed maxNodes.
func (b *builder) reserve(n TreeNode) (int, error) {
	if len(b.nodes) >= b.maxNodes {
		return 0, &ErrBudgetExceeded{MaxNodes: b.maxNodes}
	}
	n.ID = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return n.ID, nil
}

// stateKey deterministically encodes every TreeState field that can
// distinguish legal-action sets or future subtrees. Callers prefix it
// with "D:", "C:", "T:F:", or "T:S:" so that a Decision and a Chance
// node built over an otherwise-identical state never collide.
func stateKey(s abstract.TreeState) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(s.Street)))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(s.Pot))
	sb.WriteByte(':')
	writeIntPair(&sb, s.Stacks)
	sb.WriteString(strconv.Itoa(s.ToAct))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(s.BetToCall))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(s.LastBetSize))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(s.CurrentBet))
	sb.WriteByte(':')
	writeIntPair(&sb, s.CommittedThisRound)
	writeIntPair(&sb, s.CommittedTotal)
	writeBoolPair(&sb, s.Folded)
	writeBoolPair(&sb, s.ActedThisRound)
	sb.WriteString(strconv.Itoa(s.RaisesThisStreet))
	return sb.String()
}

func writeIntPair(sb *strings.Builder, pair [2]int) {
	sb.WriteString(strconv.Itoa(pair[0]))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(pair[1]))
	sb.WriteByte(':')
}

func writeBoolPair(sb *strings.Builder, pair [2]bool) {
	sb.WriteString(strconv.FormatBool(pair[0]))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatBool(pair[1]))
	sb.WriteByte(':')
}

package main

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"headsup-holdem/internal/game"
)

// maxActionsPerHand guards against an engine bug looping forever instead
// of reaching Terminal; it is not a gameplay limit.
const maxActionsPerHand = 200

type CLI struct {
	Mode          int    `short:"m" help:"0 = interactive, 1 = auto-simulate 10 hands" default:"0" enum:"0,1"`
	Player        int    `short:"p" help:"Player seat you control in interactive mode (0=SB, 1=BB)" default:"0" enum:"0,1"`
	StartingStack int    `help:"Starting stack for both players" default:"1000"`
	SmallBlind    int    `help:"Small blind" default:"5"`
	BigBlind      int    `help:"Big blind" default:"10"`
	LogLevel      string `help:"Set the log level" enum:"debug,info,warn,error" default:"info"`
	Seed          *int64 `help:"Seed for the random number generator"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		log.Error("invalid log level", "error", err)
		ctx.Exit(1)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, ReportTimestamp: true})

	seed := uint64(time.Now().UnixNano())
	if cli.Seed != nil {
		seed = uint64(*cli.Seed)
	}

	var runErr error
	switch cli.Mode {
	case 0:
		runErr = runInteractive(logger, cli, seed)
	case 1:
		runErr = runAutoSimulate(logger, cli, seed)
	}

	if runErr != nil {
		logger.Error("hand did not complete cleanly", "error", runErr)
		ctx.Exit(1)
	}
	ctx.Exit(0)
}

func runInteractive(logger *log.Logger, cli CLI, seed uint64) error {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s := game.NewHand(rng, cli.StartingStack, cli.SmallBlind, cli.BigBlind)
	reader := bufio.NewReader(os.Stdin)

	for i := 0; i < maxActionsPerHand; i++ {
		if s.Street == game.Terminal {
			printResult(logger, game.TerminalPayoff(s))
			return nil
		}

		actions := game.LegalActions(s)
		printState(logger, s)
		printActions(actions)

		var idx int
		if s.ToAct == cli.Player {
			fmt.Print("select action index: ")
			line, _ := reader.ReadString('\n')
			parsed, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || parsed < 0 || parsed >= len(actions) {
				return fmt.Errorf("illegal action selection %q", line)
			}
			idx = parsed
		} else {
			a, ok := game.RandomLegalAction(s, rng)
			if !ok {
				return fmt.Errorf("no legal actions available for opponent")
			}
			idx = indexOfAction(actions, a)
		}

		if !game.Apply(s, actions[idx]) {
			return fmt.Errorf("engine rejected a supposedly legal action")
		}
	}

	return fmt.Errorf("hand exceeded %d actions without reaching terminal", maxActionsPerHand)
}

func indexOfAction(actions []game.Action, target game.Action) int {
	for i, a := range actions {
		if a == target {
			return i
		}
	}
	return -1
}

func runAutoSimulate(logger *log.Logger, cli CLI, seed uint64) error {
	const hands = 10

	var folds, showdowns int
	var g errgroup.Group
	results := make([]game.TerminalResult, hands)

	for h := 0; h < hands; h++ {
		h := h
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed+uint64(h), seed^uint64(h)*2654435761))
			s := game.NewHand(rng, cli.StartingStack, cli.SmallBlind, cli.BigBlind)

			for i := 0; i < maxActionsPerHand; i++ {
				if s.Street == game.Terminal {
					results[h] = game.TerminalPayoff(s)
					return nil
				}
				a, ok := game.RandomLegalAction(s, rng)
				if !ok || !game.Apply(s, a) {
					return fmt.Errorf("hand %d: engine stalled", h)
				}
			}
			return fmt.Errorf("hand %d exceeded %d actions without reaching terminal", h, maxActionsPerHand)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for h, r := range results {
		logger.Info("hand complete", "hand", h, "reason", r.Reason, "winner", r.Winner, "chip_delta", r.ChipDelta)
		if r.Reason == "fold" {
			folds++
		} else {
			showdowns++
		}
	}

	fmt.Printf("folds=%d showdowns=%d\n", folds, showdowns)
	return nil
}

func printState(logger *log.Logger, s *game.State) {
	logger.Info("state", "street", s.Street, "pot", s.Pot, "to_act", s.ToAct, "stacks", s.Stacks)
}

func printActions(actions []game.Action) {
	for i, a := range actions {
		fmt.Printf("  [%d] %s\n", i, a)
	}
}

func printResult(logger *log.Logger, r game.TerminalResult) {
	logger.Info("terminal", "reason", r.Reason, "winner", r.Winner, "chip_delta", r.ChipDelta)
}

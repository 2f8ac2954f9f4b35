// Command tree-build expands a BettingAbstraction into its full
// Decision/Chance/Terminal game tree and reports node counts per type
// and budget usage, without running the toolchain's solver stages.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"headsup-holdem/internal/abstraction"
	"headsup-holdem/internal/tree"
)

type CLI struct {
	Config   string `short:"c" help:"Path to an HCL BettingAbstraction file" optional:""`
	MaxNodes int    `short:"n" help:"Abort the build past this many nodes" default:"2000000"`
	LogLevel string `short:"l" help:"Log level" enum:"debug,info,warn,error" default:"info"`
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

	ba := abstraction.Default()
	if cli.Config != "" {
		loaded, err := abstraction.LoadFile(cli.Config)
		if err != nil {
			logger.Error("failed to load betting abstraction", "error", err)
			ctx.Exit(1)
		}
		ba = loaded
	}

	logger.Info("building tree", "max_nodes", cli.MaxNodes, "starting_stack", ba.StartingStack, "small_blind", ba.SmallBlind, "big_blind", ba.BigBlind)

	gt, err := tree.Build(ba, cli.MaxNodes)
	if err != nil {
		logger.Error("build failed", "error", err)
		ctx.Exit(1)
	}

	var decisions, chances, terminals, folds, showdowns int
	for _, n := range gt.Nodes {
		switch n.Type {
		case tree.Decision:
			decisions++
		case tree.Chance:
			chances++
		case tree.Terminal:
			terminals++
			if n.Terminal.Kind.String() == "fold" {
				folds++
			} else {
				showdowns++
			}
		}
	}

	logger.Info("tree built",
		"total_nodes", len(gt.Nodes),
		"decision_nodes", decisions,
		"chance_nodes", chances,
		"terminal_nodes", terminals,
		"fold_terminals", folds,
		"showdown_terminals", showdowns,
		"budget_used_pct", 100*len(gt.Nodes)/cli.MaxNodes,
	)
	ctx.Exit(0)
}

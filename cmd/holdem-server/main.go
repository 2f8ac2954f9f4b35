package main

import (
	"math/rand/v2"
	"net"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"headsup-holdem/internal/abstraction"
	"headsup-holdem/internal/httpapi"
)

type CLI struct {
	Addr     string `short:"a" help:"Address to listen on" default:":8080"`
	Config   string `short:"c" help:"Path to an HCL BettingAbstraction file" optional:""`
	LogLevel string `short:"l" help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Seed     *int64 `short:"s" help:"Seed for the random number generator"`
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

	seed := uint64(time.Now().UnixNano())
	if cli.Seed != nil {
		seed = uint64(*cli.Seed)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d))

	lis, err := net.Listen("tcp", cli.Addr)
	if err != nil {
		logger.Error("failed to listen", "addr", cli.Addr, "error", err)
		ctx.Exit(1)
	}
	logger.Info("listening", "addr", cli.Addr)

	server := httpapi.New(ba, rng, logger)
	if err := server.Serve(lis); err != nil {
		logger.Error("server stopped", "error", err)
		ctx.Exit(1)
	}
}

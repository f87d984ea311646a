package main

import (
	"fmt"
	"os"

	"github.com/gmn-dev/dispatch/pkg/runtime/terminal"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
	if os.Getenv("DISPATCH_DEBUG") != "" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	cli := terminal.NewCLI(terminal.Options{
		Tiers:  commission.DefaultTiers,
		Output: os.Stdout,
		Logger: &logger,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

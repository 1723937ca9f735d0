// Command roomir measures room impulse responses with exponential sine
// sweeps.
//
// Usage:
//
//	roomir sweep    [-c params.yaml] [-o DIR]
//	roomir analyze  [-c params.yaml] [-o DIR] [--trim] [-f FORMAT] RECORDING.wav
//	roomir metrics  [-c params.yaml] [--trim] [-f FORMAT] IR.wav
//	roomir simulate [-c params.yaml] [-o DIR] [--rt60 S] [--delay-ms MS] [--noise A]
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "roomir",
		Usage: "Room impulse response measurement with exponential sine sweeps",
		Commands: []*cli.Command{
			sweepCommand(),
			analyzeCommand(),
			metricsCommand(),
			simulateCommand(),
		},
	}
}

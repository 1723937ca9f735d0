//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-roomir/internal/report"
	"github.com/cwbudde/algo-roomir/internal/wavio"
	"github.com/cwbudde/algo-roomir/measure/ir"
	"github.com/cwbudde/algo-roomir/measure/room"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Extract and analyze the impulse response from a sweep recording",
		ArgsUsage: "<recording.wav>",
		Flags: []cli.Flag{
			configFlag(),
			outFlag("data/processed"),
			trimFlag(),
			formatFlag(),
			verboseFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errOneArg, cmd.NArg())
			}

			path := cmd.Args().First()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			samples, rate, err := wavio.ReadMono(path)
			if err != nil {
				return err
			}

			m := room.New(cfg, room.WithLogger(newLogger(cmd)))

			res, err := m.Process(ctx, m.Prepare(), room.Recording{Samples: samples, SampleRate: rate})
			if err != nil {
				return fmt.Errorf("processing %s: %w", path, err)
			}

			if err := writeResult(cmd.String("out"), res); err != nil {
				return err
			}

			return report.Print(os.Stdout, path, report.Build(res), cmd.String("format"))
		},
	}
}

func metricsCommand() *cli.Command {
	return &cli.Command{
		Name:      "metrics",
		Usage:     "Analyze a stored impulse response",
		ArgsUsage: "<ir.wav>",
		Flags: []cli.Flag{
			configFlag(),
			trimFlag(),
			formatFlag(),
			verboseFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errOneArg, cmd.NArg())
			}

			path := cmd.Args().First()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			samples, rate, err := wavio.ReadMono(path)
			if err != nil {
				return err
			}

			// a stored IR is trimmed only on request
			if cmd.Bool("trim") {
				samples = ir.TrimToDirect(samples, float64(rate), cfg.TrimPreDirect)
			}

			a, err := room.New(cfg, room.WithLogger(newLogger(cmd))).Analyze(ctx, samples, float64(rate))
			if err != nil {
				return err
			}

			return report.Print(os.Stdout, path, report.BuildAnalysis(a), cmd.String("format"))
		},
	}
}

//nolint:wrapcheck
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-roomir/dsp/signal"
	"github.com/cwbudde/algo-roomir/internal/report"
	"github.com/cwbudde/algo-roomir/internal/wavio"
	"github.com/cwbudde/algo-roomir/measure/config"
	"github.com/cwbudde/algo-roomir/measure/room"
)

var errOneArg = errors.New("expected exactly one argument: file path")

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML measurement parameters; defaults apply to absent keys",
	}
}

func outFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Output directory",
		Value:   value,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: console, json, markdown",
		Value:   report.FormatConsole,
	}
}

func trimFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "trim",
		Usage: "Trim the impulse response to shortly before the direct sound (overrides trim_ir)",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log informational diagnostics, not only warnings",
	}
}

// loadConfig reads --config and applies --trim when given.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if cmd.IsSet("trim") {
		cfg = config.Apply(cfg, config.WithTrim(cmd.Bool("trim"), -1))
	}

	return cfg, nil
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func writeDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	return nil
}

// writeResult persists the impulse response and its components.
func writeResult(dir string, res *room.Result) error {
	if err := writeDir(dir); err != nil {
		return err
	}

	fs := int(res.SampleRate)
	c := res.Analysis.Components

	files := []struct {
		name    string
		samples []float64
	}{
		{"ir.wav", res.IR},
		{"direct_sound.wav", c.Direct},
		{"early_reflections.wav", c.Early},
		{"late_reverb.wav", c.Late},
	}

	for _, f := range files {
		if err := wavio.WriteMono(filepath.Join(dir, f.name), f.samples, fs); err != nil {
			return err
		}
	}

	full, err := signal.Normalize(res.IR, 1)
	if err != nil {
		return err
	}

	return wavio.WriteChannels(filepath.Join(dir, "comparison.wav"),
		[][]float64{full, c.Direct, c.Early, c.Late}, fs)
}

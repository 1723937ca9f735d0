//nolint:wrapcheck
package main

import (
	"context"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-roomir/internal/wavio"
	"github.com/cwbudde/algo-roomir/measure/sweep"
)

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Generate the excitation sweep and its inverse filter",
		Flags: []cli.Flag{
			configFlag(),
			outFlag("data/sweep"),
			verboseFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			s := sweep.FromConfig(cfg)
			pair := s.Pair()
			dir := cmd.String("out")
			fs := int(cfg.SampleRate)

			if err := writeDir(dir); err != nil {
				return err
			}

			if err := wavio.WriteMono(filepath.Join(dir, "sweep.wav"), pair.Excitation, fs); err != nil {
				return err
			}

			if err := wavio.WriteMono(filepath.Join(dir, "inverse.wav"), pair.Inverse, fs); err != nil {
				return err
			}

			newLogger(cmd).Info("sweep written",
				"dir", dir,
				"samples", len(pair.Excitation),
				"sweep_samples", len(pair.Sweep),
				"fmin", s.StartFreq,
				"fmax", s.EndFreq,
			)

			return nil
		},
	}
}

//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-roomir/dsp/signal"
	"github.com/cwbudde/algo-roomir/internal/report"
	"github.com/cwbudde/algo-roomir/measure/room"
)

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Run a complete measurement against a synthetic room",
		Flags: []cli.Flag{
			configFlag(),
			outFlag(""),
			trimFlag(),
			formatFlag(),
			verboseFlag(),
			&cli.FloatFlag{
				Name:  "rt60",
				Usage: "Reverberation time of the synthetic room, seconds",
				Value: 0.5,
			},
			&cli.FloatFlag{
				Name:  "delay-ms",
				Usage: "Playback-to-capture latency, milliseconds",
				Value: 20,
			},
			&cli.FloatFlag{
				Name:  "noise",
				Usage: "Amplitude of the additive capture noise",
				Value: 1e-4,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rt60 := cmd.Float("rt60")
			if rt60 <= 0 {
				return fmt.Errorf("%w: rt60 %g", signal.ErrInvalidParameter, rt60)
			}

			sim := &room.Simulator{
				Room: signal.Room{
					RT60:      rt60,
					Length:    1.5 * rt60,
					TailLevel: 0.3,
					Reflections: []signal.Reflection{
						{Delay: 0.007, Gain: 0.5},
						{Delay: 0.019, Gain: 0.3},
					},
				},
				Latency: cmd.Float("delay-ms") / 1000,
				Noise:   cmd.Float("noise"),
				Seed:    1,
			}

			// the capture must hold the whole reverberation
			if cfg.RecordTail < sim.Room.Length {
				cfg.RecordTail = sim.Room.Length
			}

			res, err := room.New(cfg, room.WithLogger(newLogger(cmd))).Run(ctx, sim)
			if err != nil {
				return err
			}

			if dir := cmd.String("out"); dir != "" {
				if err := writeResult(dir, res); err != nil {
					return err
				}
			}

			name := fmt.Sprintf("simulated room (RT60 %.2f s)", rt60)

			return report.Print(os.Stdout, name, report.Build(res), cmd.String("format"))
		},
	}
}

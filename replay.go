package main

import (
	"os"
	"os/signal"

	"bots/assets"
	"bots/replay"

	"github.com/spf13/cobra"
)

var flagReplayHeadless bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Play back a recorded match",
	Long: `Play back a recording made with --record. Snapshots are fed through the
same scheduler and display driver as a live match, at the configured tick
rate.

Examples:
  bots replay match.rec
  bots replay match.rec --tick-rate 120
  bots replay match.rec --headless`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		// Replaying into a new recording is pointless.
		a.cfg.Sim.Record = ""

		var sprites *assets.Sprites
		if !flagReplayHeadless {
			sprites, err = assets.Load(a.cfg.UI.HullTexture, a.cfg.UI.TurretTexture)
			if err != nil {
				return err
			}
		}

		player, err := replay.Open(args[0])
		if err != nil {
			return err
		}
		defer player.Close()
		a.logger.Info("replaying", "file", args[0], "bots", player.BotCount())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if flagReplayHeadless {
			return a.runHeadless(ctx, player, nil)
		}
		return a.runWindow(ctx, player, nil, sprites)
	},
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayHeadless, "headless", false, "Play back without a window")
}

// bots renders a tank battle while the simulation runs on its own goroutine.
//
// Usage:
//
//	bots                    - run the simulation in a window
//	bots headless           - run without a window, logging frame stats
//	bots replay <file>      - play back a recording
//
// Global flags:
//
//	--config <path>     - TOML or YAML config (default: config.toml)
//	--program <path>    - bot program, repeatable; replaces sim.programs
//	--record <path>     - record every snapshot to a file
//	--tick-rate <n>     - simulation ticks per second
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"errors"
	"os"

	"bots/world"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagPrograms []string
	flagRecord   string
	flagTickRate int
	flagLogLevel string
	flagDebug    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var startup *world.StartupError
		if errors.As(err, &startup) {
			log.Error("cannot start", "kind", startup.Kind, "path", startup.Path, "err", startup.Err)
		} else {
			log.Error("exited", "err", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bots",
	Short: "Watch programmed tanks fight",
	Long: `bots runs a tank battle simulation at a fixed tick rate and draws every
tick's snapshot in a window.

Examples:
  bots --program bots/circler.bot --program bots/sentry.bot
  bots --config config.yaml --record match.rec
  bots headless --frames 600
  bots replay match.rec`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSimulation,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.toml", "Path to TOML or YAML config")
	rootCmd.PersistentFlags().StringArrayVar(&flagPrograms, "program", nil, "Bot program path (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flagRecord, "record", "", "Record snapshots to this file")
	rootCmd.PersistentFlags().IntVar(&flagTickRate, "tick-rate", 0, "Simulation ticks per second (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Show the debug overlay")

	rootCmd.AddCommand(headlessCmd)
	rootCmd.AddCommand(replayCmd)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"bots/assets"
	"bots/client"
	"bots/display"
	"bots/render"
	"bots/replay"
	"bots/sim"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

var flagFrames uint64

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Run the simulation without a window",
	Long: `Run the simulation and the display driver without opening a window. Every
published snapshot is projected as usual and the quad counts are logged once
per second.

Examples:
  bots headless --frames 600
  bots headless --program bots/patrol.bot --record patrol.rec`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		engine, recorder, err := a.boot()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return a.runHeadless(ctx, engine, recorder)
	},
}

func init() {
	headlessCmd.Flags().Uint64Var(&flagFrames, "frames", 0, "Stop after this many snapshots (0 = run until interrupted)")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	// Textures first: nothing starts unless the window can draw.
	sprites, err := assets.Load(a.cfg.UI.HullTexture, a.cfg.UI.TurretTexture)
	if err != nil {
		return err
	}
	engine, recorder, err := a.boot()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return a.runWindow(ctx, engine, recorder, sprites)
}

func (a *app) runWindow(ctx context.Context, engine sim.Engine, recorder *replay.Recorder, sprites *assets.Sprites) error {
	scheduler, driver := a.scheduler(engine, recorder, nil)
	p := &pipeline{
		driver:   driver,
		handle:   scheduler.Start(ctx),
		recorder: recorder,
		logger:   a.logger,
	}

	ebiten.SetWindowSize(a.cfg.UI.Resolution.X, a.cfg.UI.Resolution.Y)
	ebiten.SetWindowTitle(a.cfg.UI.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := client.NewGame(ctx, driver, client.NewTextures(sprites), p.handle, client.Options{
		Width:  a.cfg.UI.Resolution.X,
		Height: a.cfg.UI.Resolution.Y,
		Debug:  a.cfg.UI.Debug,
	}, a.logger)
	return p.shutdown(ebiten.RunGame(game))
}

// runHeadless redraws whenever the scheduler signals a new snapshot, and at
// the tick rate in case signals were coalesced.
func (a *app) runHeadless(ctx context.Context, engine sim.Engine, recorder *replay.Recorder) error {
	ready := make(chan struct{}, 1)
	notify := func(uint64) {
		select {
		case ready <- struct{}{}:
		default:
		}
	}
	scheduler, driver := a.scheduler(engine, recorder, notify)
	p := &pipeline{
		driver:   driver,
		handle:   scheduler.Start(ctx),
		recorder: recorder,
		logger:   a.logger,
	}

	redraw := time.NewTicker(sim.TickInterval(a.cfg.Sim.TickRate))
	defer redraw.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	var surface display.Counter
	frame := func() {
		surface.Reset()
		driver.Frame(&surface)
	}
	for flagFrames == 0 || driver.Received() < flagFrames {
		select {
		case <-ctx.Done():
			return p.shutdown(nil)
		case <-p.handle.Done():
			for driver.Received() < flagFrames || flagFrames == 0 {
				if !driver.Poll() {
					break
				}
			}
			a.logger.Info("simulation finished", "received", driver.Received())
			return p.shutdown(nil)
		case <-ready:
			frame()
		case <-redraw.C:
			frame()
		case <-report.C:
			var tick uint64
			if s := driver.Current(); s != nil {
				tick = s.Tick
			}
			a.logger.Info("frame",
				"tick", tick,
				"hulls", surface.Quads[render.Hull],
				"turrets", surface.Quads[render.Turret],
				"received", driver.Received(),
				"queued", driver.Queued(),
				"published", p.handle.Published(),
			)
		}
	}
	a.logger.Info("frame limit reached", "received", driver.Received())
	return p.shutdown(nil)
}

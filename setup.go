package main

import (
	"errors"
	"os"
	"time"

	"bots/arena"
	"bots/display"
	"bots/render"
	"bots/replay"
	"bots/sim"
	"bots/utils"
	"bots/world"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// app is everything a command needs after flags and config are resolved.
type app struct {
	cfg    *utils.Config
	layout render.Layout
	logger *log.Logger
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, world.NewStartupError(world.KindConfig, "", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bots",
		Level:           level,
	}).With("run", ksuid.New().String())

	return &app{
		cfg:    cfg,
		layout: layoutFromConfig(cfg.Layout),
		logger: logger,
	}, nil
}

// loadConfig reads the config file when there is one and applies flag
// overrides. A missing default config.toml is not an error.
func loadConfig(cmd *cobra.Command) (*utils.Config, error) {
	cfg := utils.DefaultConfig()
	if _, err := os.Stat(flagConfig); err == nil || cmd.Flags().Changed("config") {
		cfg, err = utils.ReadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
	}

	if len(flagPrograms) > 0 {
		cfg.Sim.Programs = flagPrograms
	}
	if flagRecord != "" {
		cfg.Sim.Record = flagRecord
	}
	if flagTickRate != 0 {
		cfg.Sim.TickRate = flagTickRate
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagDebug {
		cfg.UI.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func layoutFromConfig(c utils.LayoutConfig) render.Layout {
	l := render.Layout{
		Scale:        c.Scale,
		OffsetX:      c.OffsetX,
		OffsetY:      c.OffsetY,
		HeadingUnits: c.HeadingUnits,
		SpriteScale:  c.SpriteScale,
		Tint:         render.Color{R: c.Tint[0], G: c.Tint[1], B: c.Tint[2], A: c.Tint[3]},
	}
	for i := range l.Corners {
		l.Corners[i] = render.Point{X: c.Corners[i][0], Y: c.Corners[i][1]}
	}
	return l
}

// boot builds the arena from the configured programs and opens the
// recording, if any.
func (a *app) boot() (sim.Engine, *replay.Recorder, error) {
	engine, err := sim.Boot(arena.Factory, sim.EngineConfig{
		Budget:       a.cfg.Sim.Budget,
		HeadingUnits: a.cfg.Layout.HeadingUnits,
		Logger:       a.logger,
	}, a.cfg.Sim.Programs)
	if err != nil {
		return nil, nil, err
	}

	if a.cfg.Sim.Record == "" {
		return engine, nil, nil
	}
	recorder, err := replay.Create(a.cfg.Sim.Record)
	if err != nil {
		return nil, nil, world.NewStartupError(world.KindConfig, a.cfg.Sim.Record, err)
	}
	return engine, recorder, nil
}

// pipeline is a started scheduler and the display driver consuming it.
type pipeline struct {
	driver   *display.Driver
	handle   *sim.Handle
	recorder *replay.Recorder
	logger   *log.Logger
}

func (a *app) scheduler(engine sim.Engine, recorder *replay.Recorder, notify func(uint64)) (*sim.Scheduler, *display.Driver) {
	channel := sim.NewChannel(a.cfg.Sim.ChannelDepth)
	opts := sim.Options{
		TickRate:   a.cfg.Sim.TickRate,
		MaxBacklog: time.Duration(a.cfg.Sim.MaxBacklogMS) * time.Millisecond,
		Notify:     notify,
		Logger:     a.logger,
	}
	if recorder != nil {
		opts.Recorder = recorder
	}
	return sim.NewScheduler(engine, channel, opts), display.NewDriver(channel, a.layout, a.logger)
}

// shutdown drops the consumer end, joins the simulation and flushes the
// recording. err is the reason the display stopped, if any.
func (p *pipeline) shutdown(err error) error {
	p.driver.Close()
	if stopErr := p.handle.Stop(); stopErr != nil && !errors.Is(stopErr, sim.ErrChannelClosed) && err == nil {
		err = stopErr
	}
	if p.recorder != nil {
		if closeErr := p.recorder.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		p.logger.Info("recording saved", "snapshots", p.recorder.Count())
	}
	return err
}

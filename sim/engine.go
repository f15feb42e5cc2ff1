package sim

import (
	"errors"
	"fmt"

	"bots/world"

	"github.com/charmbracelet/log"
)

// Engine is the part of the simulation the scheduler drives once bots are
// placed.
type Engine interface {
	// Step advances the simulation by one tick. io.EOF means the engine has
	// nothing more to simulate.
	Step() error
	BotCount() int
	// Pose is valid for i in [0, BotCount()).
	Pose(i int) world.Pose
}

// World is an Engine that still needs its bots registered and placed.
type World interface {
	Engine
	AddBot(path string) error
	// Place assigns initial poses. It is called exactly once, after every
	// AddBot and before the first Step.
	Place() error
}

type EngineConfig struct {
	// Budget is the compute allowance per bot per tick.
	Budget int
	// HeadingUnits is the number of heading units in a full turn. Zero means
	// world.DefaultHeadingUnits.
	HeadingUnits uint32
	Logger       *log.Logger
}

type Factory func(EngineConfig) (World, error)

// Boot constructs a World, registers every program and places the bots.
// Every failure is a *world.StartupError.
func Boot(factory Factory, cfg EngineConfig, programs []string) (World, error) {
	if cfg.Budget <= 0 {
		return nil, world.NewStartupError(world.KindConfig, "", fmt.Errorf("budget must be positive, got %d", cfg.Budget))
	}
	if len(programs) == 0 {
		return nil, world.NewStartupError(world.KindConfig, "", errors.New("no bot programs"))
	}

	w, err := factory(cfg)
	if err != nil {
		return nil, startupError(world.KindEngine, "", err)
	}
	for _, path := range programs {
		if err := w.AddBot(path); err != nil {
			return nil, startupError(world.KindProgram, path, err)
		}
	}
	if err := w.Place(); err != nil {
		return nil, startupError(world.KindEngine, "", err)
	}
	return w, nil
}

func startupError(kind world.StartupKind, path string, err error) error {
	var startup *world.StartupError
	if errors.As(err, &startup) {
		return err
	}
	return world.NewStartupError(kind, path, err)
}

// Capture reads the current pose of every bot into a new snapshot.
func Capture(e Engine, tick uint64) *world.Snapshot {
	s := &world.Snapshot{
		Tick:  tick,
		Poses: make([]world.Pose, e.BotCount()),
	}
	for i := range s.Poses {
		s.Poses[i] = e.Pose(i)
	}
	return s
}

package arena

import (
	"errors"
	"fmt"
	"io"
	"math"

	"bots/sim"
	"bots/world"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"
)

const (
	// Bounds is the half-width of the square arena in world units.
	Bounds = 4000
	// PlacementRadius is the radius of the circle bots start on.
	PlacementRadius = 2500
)

type Bot struct {
	ID      string
	Program *Program
	Pose    world.Pose
	pc      int
}

// Arena is a small deterministic engine: every tick each bot runs up to
// Budget instructions of its program.
type Arena struct {
	budget int
	units  uint32
	bots   []*Bot
	placed bool
	tick   uint64
	logger *log.Logger
}

func New(cfg sim.EngineConfig) (*Arena, error) {
	if cfg.Budget <= 0 {
		return nil, fmt.Errorf("budget must be positive, got %d", cfg.Budget)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	units := cfg.HeadingUnits
	if units == 0 {
		units = world.DefaultHeadingUnits
	}
	return &Arena{
		budget: cfg.Budget,
		units:  units,
		logger: logger.With("component", "arena"),
	}, nil
}

// Factory builds an Arena for sim.Boot.
func Factory(cfg sim.EngineConfig) (sim.World, error) {
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) AddBot(path string) error {
	if a.placed {
		return errors.New("bots already placed")
	}
	program, err := LoadProgram(path)
	if err != nil {
		return world.NewStartupError(world.KindProgram, path, err)
	}
	bot := &Bot{
		ID:      ksuid.New().String(),
		Program: program,
	}
	a.bots = append(a.bots, bot)
	a.logger.Info("bot added", "id", bot.ID, "program", path, "instructions", program.Len())
	return nil
}

// Place spreads the bots evenly on a circle, each facing the centre.
func (a *Arena) Place() error {
	if a.placed {
		return errors.New("bots already placed")
	}
	if len(a.bots) == 0 {
		return errors.New("no bots to place")
	}
	n := uint32(len(a.bots))
	for i, bot := range a.bots {
		heading := uint32(i) * a.units / n
		theta := world.Radians(heading, a.units)
		bot.Pose = world.Pose{
			X:       int32(math.Round(PlacementRadius * math.Cos(theta))),
			Y:       int32(math.Round(-PlacementRadius * math.Sin(theta))),
			Heading: (heading + a.units/2) % a.units,
		}
	}
	a.placed = true
	return nil
}

func (a *Arena) Step() error {
	if !a.placed {
		return errors.New("step before placement")
	}
	for _, bot := range a.bots {
		for spent := 0; spent < a.budget; spent++ {
			a.execute(bot)
		}
	}
	a.tick++
	return nil
}

func (a *Arena) execute(bot *Bot) {
	in := bot.Program.instructions[bot.pc]
	bot.pc = (bot.pc + 1) % len(bot.Program.instructions)

	switch in.op {
	case opDrive:
		theta := world.Radians(bot.Pose.Heading, a.units)
		bot.Pose.X = clamp(int64(bot.Pose.X) + int64(math.Round(float64(in.arg)*math.Cos(theta))))
		bot.Pose.Y = clamp(int64(bot.Pose.Y) - int64(math.Round(float64(in.arg)*math.Sin(theta))))
	case opTurn:
		bot.Pose.Heading = a.rotate(bot.Pose.Heading, in.arg)
	case opAim:
		bot.Pose.Turret = a.rotate(bot.Pose.Turret, in.arg)
	}
}

func (a *Arena) rotate(heading uint32, by int32) uint32 {
	units := int64(a.units)
	h := (int64(heading) + int64(by)) % units
	if h < 0 {
		h += units
	}
	return uint32(h)
}

func clamp(v int64) int32 {
	if v > Bounds {
		return Bounds
	}
	if v < -Bounds {
		return -Bounds
	}
	return int32(v)
}

func (a *Arena) BotCount() int {
	return len(a.bots)
}

func (a *Arena) Pose(i int) world.Pose {
	return a.bots[i].Pose
}

func (a *Arena) Bot(i int) *Bot {
	return a.bots[i]
}

func (a *Arena) Tick() uint64 {
	return a.tick
}

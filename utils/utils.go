package utils

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"bots/world"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type SimConfig struct {
	TickRate     int      `toml:"tick_rate" yaml:"tick_rate"`
	Budget       int      `toml:"budget" yaml:"budget"`
	ChannelDepth int      `toml:"channel_depth" yaml:"channel_depth"`
	MaxBacklogMS int      `toml:"max_backlog_ms" yaml:"max_backlog_ms"`
	Programs     []string `toml:"programs" yaml:"programs"`
	Record       string   `toml:"record" yaml:"record"`
}

type LayoutConfig struct {
	Scale        float64      `toml:"scale" yaml:"scale"`
	OffsetX      float64      `toml:"offset_x" yaml:"offset_x"`
	OffsetY      float64      `toml:"offset_y" yaml:"offset_y"`
	HeadingUnits uint32       `toml:"heading_units" yaml:"heading_units"`
	SpriteScale  float64      `toml:"sprite_scale" yaml:"sprite_scale"`
	Corners      [][2]float64 `toml:"corners" yaml:"corners"`
	Tint         []float32    `toml:"tint" yaml:"tint"`
}

type ResolutionConfig struct {
	X int `toml:"x" yaml:"x"`
	Y int `toml:"y" yaml:"y"`
}

type UIConfig struct {
	Title         string           `toml:"title" yaml:"title"`
	Resolution    ResolutionConfig `toml:"resolution" yaml:"resolution"`
	HullTexture   string           `toml:"hull_texture" yaml:"hull_texture"`
	TurretTexture string           `toml:"turret_texture" yaml:"turret_texture"`
	Debug         bool             `toml:"debug" yaml:"debug"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

type Config struct {
	Sim    SimConfig    `toml:"sim" yaml:"sim"`
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	UI     UIConfig     `toml:"ui" yaml:"ui"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate:     60,
			Budget:       1,
			ChannelDepth: 8,
		},
		Layout: LayoutConfig{
			Scale:        8,
			OffsetX:      500,
			OffsetY:      500,
			HeadingUnits: world.DefaultHeadingUnits,
			SpriteScale:  1,
			Corners:      [][2]float64{{-480, -205}, {480, -205}, {-480, 335}, {480, 335}},
			Tint:         []float32{1, 1, 1, 1},
		},
		UI: UIConfig{
			Title:         "Bots",
			Resolution:    ResolutionConfig{X: 1000, Y: 1000},
			HullTexture:   "assets/tankbody.png",
			TurretTexture: "assets/tankturret.png",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ReadConfig reads a TOML or YAML file, chosen by extension, over the
// defaults.
func ReadConfig(fileName string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".toml":
		return ReadTOML(fileName)
	case ".yaml", ".yml":
		return ReadYAML(fileName)
	}
	return nil, world.NewStartupError(world.KindConfig, fileName, errors.New("unknown config format"))
}

func ReadTOML(fileName string) (*Config, error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return nil, world.NewStartupError(world.KindConfig, fileName, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(file, config); err != nil {
		return nil, world.NewStartupError(world.KindConfig, fileName, err)
	}
	return config, nil
}

func ReadYAML(fileName string) (*Config, error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return nil, world.NewStartupError(world.KindConfig, fileName, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, world.NewStartupError(world.KindConfig, fileName, err)
	}
	return config, nil
}

// Validate reports the first setting that cannot work. Bot programs are
// checked when the simulation boots.
func (c *Config) Validate() error {
	var err error
	switch {
	case c.Sim.TickRate <= 0:
		err = fmt.Errorf("sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	case c.Sim.Budget <= 0:
		err = fmt.Errorf("sim.budget must be positive, got %d", c.Sim.Budget)
	case c.Sim.ChannelDepth <= 0:
		err = fmt.Errorf("sim.channel_depth must be positive, got %d", c.Sim.ChannelDepth)
	case c.Sim.MaxBacklogMS < 0:
		err = fmt.Errorf("sim.max_backlog_ms must not be negative, got %d", c.Sim.MaxBacklogMS)
	case c.Layout.Scale <= 0:
		err = fmt.Errorf("layout.scale must be positive, got %v", c.Layout.Scale)
	case c.Layout.HeadingUnits == 0:
		err = errors.New("layout.heading_units must be positive")
	case len(c.Layout.Corners) != 4:
		err = fmt.Errorf("layout.corners needs 4 corners, got %d", len(c.Layout.Corners))
	case len(c.Layout.Tint) != 4:
		err = fmt.Errorf("layout.tint needs 4 components, got %d", len(c.Layout.Tint))
	case c.UI.HullTexture == "" || c.UI.TurretTexture == "":
		err = errors.New("ui.hull_texture and ui.turret_texture are required")
	}
	if err != nil {
		return world.NewStartupError(world.KindConfig, "", err)
	}
	return nil
}

func AlmostEqual(a, b, threshold float64) bool {
	return math.Abs(a-b) <= threshold
}

package client

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"bots/display"
	"bots/sim"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type Options struct {
	Width, Height int
	Debug         bool
	Background    color.Color
}

// Game is the ebiten side of the visualizer. It owns the display driver and
// the textures; the simulation runs behind handle.
type Game struct {
	ctx      context.Context
	driver   *display.Driver
	renderer *Renderer
	handle   *sim.Handle
	opts     Options
	logger   *log.Logger
	finished bool
}

func NewGame(ctx context.Context, driver *display.Driver, textures *Textures, handle *sim.Handle, opts Options, logger *log.Logger) *Game {
	if opts.Background == nil {
		opts.Background = color.RGBA{164, 178, 191, 255}
	}
	return &Game{
		ctx:      ctx,
		driver:   driver,
		renderer: NewRenderer(textures),
		handle:   handle,
		opts:     opts,
		logger:   logger,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.opts.Debug = !g.opts.Debug
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	case <-g.handle.Done():
		if err := g.handle.Wait(); err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
		// A finished replay keeps its last frame on screen.
		if !g.finished {
			g.finished = true
			g.logger.Info("simulation finished", "published", g.handle.Published())
		}
	default:
	}
	return nil
}

func (g *Game) debugString() string {
	lines := []string{
		fmt.Sprintf("TPS: %0.02f, FPS: %0.02f", ebiten.ActualTPS(), ebiten.ActualFPS()),
		fmt.Sprintf("published: %d, received: %d, queued: %d", g.handle.Published(), g.driver.Received(), g.driver.Queued()),
		fmt.Sprintf("quads: %d", g.renderer.Drawn()),
	}
	if s := g.driver.Current(); s != nil {
		lines = append(lines, fmt.Sprintf("tick: %d, bots: %d", s.Tick, s.Len()))
	}
	if g.finished {
		lines = append(lines, "finished")
	}
	return strings.Join(lines, "\n")
}

// Draw is the redraw opportunity: poll once, then draw the current snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.opts.Background)
	g.renderer.Begin(screen)
	g.driver.Frame(g.renderer)
	if g.opts.Debug {
		ebitenutil.DebugPrint(screen, g.debugString())
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.opts.Width, g.opts.Height
}

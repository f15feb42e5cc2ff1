package display

import (
	"io"

	"bots/render"
	"bots/sim"
	"bots/world"

	"github.com/charmbracelet/log"
)

// Surface receives the geometry of one redraw.
type Surface interface {
	DrawQuad(layer render.Layer, q *render.Quad)
}

// Driver owns the consumer end of a snapshot channel and turns the latest
// snapshot into quads once per redraw.
type Driver struct {
	channel  *sim.Channel
	layout   render.Layout
	current  *world.Snapshot
	received uint64
	logger   *log.Logger
}

func NewDriver(channel *sim.Channel, layout render.Layout, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		channel: channel,
		layout:  layout,
		logger:  logger.With("component", "display"),
	}
}

// Poll takes at most one snapshot from the channel without blocking and
// makes it current. It reports whether the current snapshot changed.
func (d *Driver) Poll() bool {
	s, ok := d.channel.TryRecv()
	if !ok {
		return false
	}
	if d.current == nil {
		d.logger.Info("first snapshot", "tick", s.Tick, "bots", s.Len())
	}
	d.current = s
	d.received++
	return true
}

// Draw submits the hull and turret quads of every bot in the current
// snapshot. It draws nothing before the first snapshot arrives.
func (d *Driver) Draw(surface Surface) int {
	if d.current == nil {
		return 0
	}
	for _, pose := range d.current.Poses {
		quads := d.layout.Project(pose)
		surface.DrawQuad(render.Hull, &quads[render.Hull])
		surface.DrawQuad(render.Turret, &quads[render.Turret])
	}
	return 2 * len(d.current.Poses)
}

// Frame is one redraw: Poll then Draw. It returns the number of quads drawn.
func (d *Driver) Frame(surface Surface) int {
	d.Poll()
	return d.Draw(surface)
}

func (d *Driver) Current() *world.Snapshot {
	return d.current
}

// Received is the number of snapshots taken from the channel.
func (d *Driver) Received() uint64 {
	return d.received
}

func (d *Driver) Queued() int {
	return d.channel.Len()
}

// Close drops the consumer end; the producer stops with sim.ErrChannelClosed.
func (d *Driver) Close() {
	d.channel.Close()
}

// Counter is a Surface that only counts quads, for running without a window.
type Counter struct {
	Quads [2]int
}

func (c *Counter) DrawQuad(layer render.Layer, q *render.Quad) {
	c.Quads[layer]++
}

func (c *Counter) Reset() {
	c.Quads = [2]int{}
}

package render

import (
	"math"

	"bots/world"
)

type Layer int

const (
	Hull Layer = iota
	Turret
)

func (l Layer) String() string {
	switch l {
	case Hull:
		return "hull"
	case Turret:
		return "turret"
	}
	return "unknown"
}

type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Quad is a textured rectangle drawn as two triangles, see Indices.
type Quad struct {
	Vertices [4]Vertex
}

// MapCoord maps a world coordinate onto the screen.
func MapCoord(v int32, scale, offset float64) float64 {
	return float64(v)/scale + offset
}

// HullAngle is the screen rotation of a hull. World headings turn the other
// way round from screen rotations.
func HullAngle(heading, units uint32) float64 {
	return -(float64(heading) * 2 * math.Pi / float64(units))
}

// TurretAngle is the screen rotation of a turret: the hull heading plus the
// turret's own offset.
func TurretAngle(heading, turret, units uint32) float64 {
	return -((float64(heading) + float64(turret)) * 2 * math.Pi / float64(units))
}

func (l *Layout) Position(p world.Pose) Point {
	return Point{
		X: MapCoord(p.X, l.Scale, l.OffsetX),
		Y: MapCoord(p.Y, l.Scale, l.OffsetY),
	}
}

// Project returns the hull and turret quads of a bot, indexed by Layer.
func (l *Layout) Project(p world.Pose) [2]Quad {
	pos := l.Position(p)
	return [2]Quad{
		Hull:   l.quad(pos, HullAngle(p.Heading, l.HeadingUnits)),
		Turret: l.quad(pos, TurretAngle(p.Heading, p.Turret, l.HeadingUnits)),
	}
}

func (l *Layout) quad(pos Point, angle float64) Quad {
	sin, cos := math.Sincos(angle)
	var q Quad
	for i, c := range l.Corners {
		x, y := c.X*l.SpriteScale, c.Y*l.SpriteScale
		q.Vertices[i] = Vertex{
			X: float32(pos.X + cos*x - sin*y),
			Y: float32(pos.Y + sin*x + cos*y),
			U: float32(UV[i].X),
			V: float32(UV[i].Y),
			R: l.Tint.R,
			G: l.Tint.G,
			B: l.Tint.B,
			A: l.Tint.A,
		}
	}
	return q
}

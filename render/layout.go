package render

import "bots/world"

type Point struct {
	X, Y float64
}

type Color struct {
	R, G, B, A float32
}

var White = Color{1, 1, 1, 1}

// Layout holds the constants that place world coordinates on screen and
// shape the tank sprites.
type Layout struct {
	// Screen coordinates are world/Scale + Offset.
	Scale   float64
	OffsetX float64
	OffsetY float64

	// HeadingUnits is the number of heading units in a full turn.
	HeadingUnits uint32

	// Corners are the sprite corners in local sprite units, in vertex order:
	// top-left, top-right, bottom-left, bottom-right.
	Corners     [4]Point
	SpriteScale float64
	Tint        Color
}

func DefaultLayout() Layout {
	return Layout{
		Scale:        8,
		OffsetX:      500,
		OffsetY:      500,
		HeadingUnits: world.DefaultHeadingUnits,
		Corners: [4]Point{
			{-480, -205},
			{480, -205},
			{-480, 335},
			{480, 335},
		},
		SpriteScale: 1,
		Tint:        White,
	}
}

// UV is the texture coordinate of each corner.
var UV = [4]Point{
	{0, 0},
	{1, 0},
	{0, 1},
	{1, 1},
}

// Indices pairs the four corners of a quad into two triangles.
var Indices = [6]uint16{0, 1, 2, 1, 2, 3}

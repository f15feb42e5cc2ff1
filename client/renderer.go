package client

import (
	"bots/render"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer submits quads to an ebiten screen as textured triangles.
type Renderer struct {
	textures *Textures
	screen   *ebiten.Image
	vertices []ebiten.Vertex
	options  ebiten.DrawTrianglesOptions
	drawn    int
}

func NewRenderer(textures *Textures) *Renderer {
	return &Renderer{
		textures: textures,
		vertices: make([]ebiten.Vertex, 4),
		options: ebiten.DrawTrianglesOptions{
			Filter: ebiten.FilterLinear,
		},
	}
}

// Begin starts a redraw onto screen.
func (r *Renderer) Begin(screen *ebiten.Image) {
	r.screen = screen
	r.drawn = 0
}

func (r *Renderer) DrawQuad(layer render.Layer, q *render.Quad) {
	image := r.textures.Image(layer)
	bounds := image.Bounds()
	w, h := float32(bounds.Dx()), float32(bounds.Dy())
	for i, v := range q.Vertices {
		r.vertices[i] = ebiten.Vertex{
			DstX:   v.X,
			DstY:   v.Y,
			SrcX:   float32(bounds.Min.X) + v.U*w,
			SrcY:   float32(bounds.Min.Y) + v.V*h,
			ColorR: v.R,
			ColorG: v.G,
			ColorB: v.B,
			ColorA: v.A,
		}
	}
	r.screen.DrawTriangles(r.vertices, render.Indices[:], image, &r.options)
	r.drawn++
}

// Drawn is the number of quads submitted since Begin.
func (r *Renderer) Drawn() int {
	return r.drawn
}

package client

import (
	"bots/assets"
	"bots/render"

	"github.com/hajimehoshi/ebiten/v2"
)

// Textures are the sprite images uploaded once at startup, indexed by layer.
type Textures struct {
	images [2]*ebiten.Image
}

func NewTextures(sprites *assets.Sprites) *Textures {
	return &Textures{
		images: [2]*ebiten.Image{
			render.Hull:   ebiten.NewImageFromImage(sprites.Hull),
			render.Turret: ebiten.NewImageFromImage(sprites.Turret),
		},
	}
}

func (t *Textures) Image(layer render.Layer) *ebiten.Image {
	return t.images[layer]
}

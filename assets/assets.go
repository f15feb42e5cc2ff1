package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"bots/world"
)

// Sprites are the decoded tank images, indexed like render.Layer.
type Sprites struct {
	Hull   image.Image
	Turret image.Image
}

func Load(hullPath, turretPath string) (*Sprites, error) {
	hull, err := LoadImage(hullPath)
	if err != nil {
		return nil, err
	}
	turret, err := LoadImage(turretPath)
	if err != nil {
		return nil, err
	}
	return &Sprites{Hull: hull, Turret: turret}, nil
}

func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, world.NewStartupError(world.KindTexture, path, err)
	}
	defer file.Close()

	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil, world.NewStartupError(world.KindTexture, path, fmt.Errorf("decode: %w", err))
	}
	if b := decoded.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, world.NewStartupError(world.KindTexture, path, fmt.Errorf("empty image %v", b))
	}
	return decoded, nil
}

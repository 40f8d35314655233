package editor

import (
	"github.com/go-gl/mathgl/mgl64"

	"roomplanner/internal/engine/document"
	"roomplanner/internal/engine/placement"
)

// Config holds the editor's tunables.
type Config struct {
	GridSize          float64
	WallHeight        float64
	WallThickness     float64
	DragHeight        float64
	RotateSensitivity float64 // radians per pixel
	OccupancyEpsilon  float64

	BookedColor    uint32
	AvailableColor uint32

	FloorWidth float64
	FloorDepth float64
	SpawnPoint mgl64.Vec3
}

func DefaultConfig() Config {
	return Config{
		GridSize:          2,
		WallHeight:        2,
		WallThickness:     0.2,
		DragHeight:        0.1,
		RotateSensitivity: 0.01,
		OccupancyEpsilon:  placement.DefaultEpsilon,
		BookedColor:       0xff0000,
		AvailableColor:    0x00ff00,
		FloorWidth:        20,
		FloorDepth:        20,
		SpawnPoint:        mgl64.Vec3{0, 0.5, 0},
	}
}

func (c Config) wallSize() placement.Size {
	return placement.Size{Length: c.GridSize, Height: c.WallHeight, Thickness: c.WallThickness}
}

func (c Config) documentOptions(viewOnly bool) document.Options {
	return document.Options{
		WallHeight:     c.WallHeight,
		WallThickness:  c.WallThickness,
		ViewOnly:       viewOnly,
		BookedColor:    c.BookedColor,
		AvailableColor: c.AvailableColor,
	}
}

package beaker

import "github.com/san-kum/beerslab/internal/vec"

const (
	DefaultX      = 350.0
	DefaultY      = 550.0
	DefaultWidth  = 600.0
	DefaultHeight = 300.0
	DefaultVolume = 1.0
)

type Size struct {
	Width  float64
	Height float64
}

// Beaker is the container geometry. Position is the center of the bottom
// edge; y grows downward, so the rim is at Position.Y - Size.Height.
type Beaker struct {
	Position vec.Vec2
	Size     Size
	Volume   float64 // liters at the rim
}

func New(position vec.Vec2, size Size, volume float64) *Beaker {
	return &Beaker{Position: position, Size: size, Volume: volume}
}

func NewDefault() *Beaker {
	return New(vec.New(DefaultX, DefaultY), Size{Width: DefaultWidth, Height: DefaultHeight}, DefaultVolume)
}

func (b *Beaker) Left() float64  { return b.Position.X - b.Size.Width/2 }
func (b *Beaker) Right() float64 { return b.Position.X + b.Size.Width/2 }

// LevelY returns the y coordinate of a liquid surface holding volume liters.
func (b *Beaker) LevelY(volume float64) float64 {
	return b.Position.Y - (volume/b.Volume)*b.Size.Height
}

package particle

import (
	"math"

	"go-match/internal/layout"

	"github.com/lucasb-eyer/go-colorful"
)

// Sprite is the visual handle a particle record owns for its whole life in
// the arena.
type Sprite struct {
	Glyph rune
	Color colorful.Color
}

// Particle is one confetti record. Records live in the emitter arena and are
// recycled, never freed.
type Particle struct {
	Pos      layout.Point
	Vel      layout.Point
	Rotation float64 // degrees
	Spin     float64 // degrees per second
	Size     float64

	Elapsed  float64
	Lifetime float64

	StartOpacity float64
	Opacity      float64

	Sprite Sprite
	Active bool
}

// Fade is the opacity multiplier at elapsed seconds into a lifetime: 1 until
// the final tail fraction, then linear down to 0 at the end of the lifetime.
func Fade(elapsed, lifetime, tail float64) float64 {
	if lifetime <= 0 || elapsed >= lifetime {
		return 0
	}
	start := (1 - tail) * lifetime
	if elapsed <= start {
		return 1
	}
	return (lifetime - elapsed) / (lifetime - start)
}

// Heading returns the direction of travel in degrees, [0, 360), with 90
// pointing up the screen.
func (p Particle) Heading() float64 {
	deg := math.Atan2(-p.Vel.Y, p.Vel.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Facing quantises the rotation into four orientations so a terminal
// renderer can fake the spin of a confetti strip.
func (p Particle) Facing() int {
	r := math.Mod(p.Rotation, 180)
	if r < 0 {
		r += 180
	}
	return int(r/45) % 4
}

// Tint returns the particle colour composited over bg at its current opacity.
func (p Particle) Tint(bg colorful.Color) colorful.Color {
	return p.Sprite.Color.BlendRgb(bg, 1-p.Opacity).Clamped()
}

package particle

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Range is an inclusive interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// Sample draws a value from the range.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func (r Range) ordered() Range {
	if r.Max < r.Min {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// Config holds the author-time tuning of an Emitter. Distances are in
// container units, angles in degrees, times in seconds.
type Config struct {
	BurstCount    int     // particles per burst
	BurstRepeat   int     // bursts per EmitRepeatedBursts call
	BurstInterval float64 // seconds between repeated bursts
	InitialPool   int     // records preallocated into the free stack

	Size     Range
	Speed    Range
	Spin     Range // degrees per second
	Lifetime Range

	// BaseAngle is the centre of directional bursts: 0 points right, 90 up.
	BaseAngle   float64
	AngleSpread float64
	Gravity     float64 // acceleration towards +y (down)

	// FadeTail is the trailing fraction of a lifetime spent fading out.
	FadeTail     float64
	StartOpacity float64

	Bounce        bool
	BounceDamping float64

	Glyphs []rune
	Colors []colorful.Color
}

var (
	defaultGlyphs = []rune{'▪', '■', '▬', '◆', '●'}
	defaultColors = []colorful.Color{
		mustHex("#ff595e"),
		mustHex("#ffca3a"),
		mustHex("#8ac926"),
		mustHex("#1982c4"),
		mustHex("#6a4c93"),
	}
	fallbackColor = colorful.Color{R: 1, G: 1, B: 1}
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultConfig returns confetti tuned for the 1080x1920 design space.
func DefaultConfig() Config {
	return Config{
		BurstCount:    60,
		BurstRepeat:   3,
		BurstInterval: 0.15,
		InitialPool:   180,
		Size:          Range{Min: 18, Max: 36},
		Speed:         Range{Min: 900, Max: 1600},
		Spin:          Range{Min: -540, Max: 540},
		Lifetime:      Range{Min: 2.5, Max: 4},
		BaseAngle:     90,
		AngleSpread:   70,
		Gravity:       1800,
		FadeTail:      0.3,
		StartOpacity:  1,
		Bounce:        true,
		BounceDamping: 0.6,
		Glyphs:        append([]rune(nil), defaultGlyphs...),
		Colors:        append([]colorful.Color(nil), defaultColors...),
	}
}

// normalize repairs values that would break the simulation. Bad visuals fall
// back to a single white square rather than failing.
func (c Config) normalize() Config {
	if c.BurstCount < 0 {
		c.BurstCount = 0
	}
	if c.BurstRepeat < 1 {
		c.BurstRepeat = 1
	}
	if c.BurstInterval < 0 {
		c.BurstInterval = 0
	}
	if c.InitialPool < 0 {
		c.InitialPool = 0
	}
	c.Size = c.Size.ordered()
	c.Speed = c.Speed.ordered()
	c.Spin = c.Spin.ordered()
	c.Lifetime = c.Lifetime.ordered()
	if c.Lifetime.Max <= 0 {
		c.Lifetime = Range{Min: 1, Max: 1}
	}
	if c.AngleSpread < 0 {
		c.AngleSpread = -c.AngleSpread
	}
	if c.AngleSpread > 360 {
		c.AngleSpread = 360
	}
	if c.FadeTail < 0 || c.FadeTail > 1 {
		c.FadeTail = 0.3
	}
	if c.StartOpacity <= 0 || c.StartOpacity > 1 {
		c.StartOpacity = 1
	}
	if c.BounceDamping < 0 || c.BounceDamping > 1 {
		c.BounceDamping = 0.6
	}
	if len(c.Glyphs) == 0 {
		c.Glyphs = []rune{'■'}
	}
	if len(c.Colors) == 0 {
		c.Colors = []colorful.Color{fallbackColor}
	}
	return c
}

// Package layout fits a fixed design resolution onto whatever display the
// game actually runs on.
package layout

import "fmt"

// Size is a width and height in arbitrary units (pixels or terminal cells).
type Size struct {
	W, H float64
}

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Aspect returns W/H, or 0 for a degenerate size.
func (s Size) Aspect() float64 {
	if s.H <= 0 {
		return 0
	}
	return s.W / s.H
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}

// DesignSize is the portrait reference resolution the game is authored for.
var DesignSize = Size{W: 1080, H: 1920}

// Mode describes how the design area sits inside the display.
type Mode int

const (
	Exact Mode = iota
	Letterbox
	Pillarbox
)

func (m Mode) String() string {
	switch m {
	case Letterbox:
		return "letterbox"
	case Pillarbox:
		return "pillarbox"
	default:
		return "exact"
	}
}

// Viewport maps design-space coordinates onto a display.
type Viewport struct {
	Design Size
	// Origin is the display position of the design area's top-left corner.
	Origin Point
	// Scale converts design units into display units, uniformly on both axes.
	Scale float64
	// Display is the full display size the viewport was fitted into.
	Display Size
}

// Fit scales design uniformly into display, centring it and leaving bars on
// the axis with spare room. A display that is relatively taller than the
// design gets bars above and below (letterbox), a wider one gets bars on the
// sides (pillarbox).
func Fit(design, display Size) Viewport {
	v := Viewport{Design: design, Display: display, Scale: 1}
	if design.W <= 0 || design.H <= 0 || display.W <= 0 || display.H <= 0 {
		return v
	}

	sx := display.W / design.W
	sy := display.H / design.H
	if sx < sy {
		v.Scale = sx
	} else {
		v.Scale = sy
	}
	v.Origin = Point{
		X: (display.W - design.W*v.Scale) / 2,
		Y: (display.H - design.H*v.Scale) / 2,
	}
	return v
}

// Mode reports which kind of bars the fit produced.
func (v Viewport) Mode() Mode {
	const tolerance = 1e-6
	switch {
	case v.Origin.Y > tolerance:
		return Letterbox
	case v.Origin.X > tolerance:
		return Pillarbox
	default:
		return Exact
	}
}

// Content returns the display-space size occupied by the design area.
func (v Viewport) Content() Size {
	return Size{W: v.Design.W * v.Scale, H: v.Design.H * v.Scale}
}

// ScreenToLocal converts a display coordinate into design space. Points in
// the bars map outside [0, Design].
func (v Viewport) ScreenToLocal(p Point) Point {
	if v.Scale == 0 {
		return p
	}
	return Point{
		X: (p.X - v.Origin.X) / v.Scale,
		Y: (p.Y - v.Origin.Y) / v.Scale,
	}
}

// LocalToScreen converts a design-space coordinate into display space.
func (v Viewport) LocalToScreen(p Point) Point {
	return Point{
		X: v.Origin.X + p.X*v.Scale,
		Y: v.Origin.Y + p.Y*v.Scale,
	}
}

// Contains reports whether a display coordinate falls inside the design area.
func (v Viewport) Contains(p Point) bool {
	l := v.ScreenToLocal(p)
	return l.X >= 0 && l.Y >= 0 && l.X <= v.Design.W && l.Y <= v.Design.H
}

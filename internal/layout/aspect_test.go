package layout

import (
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name    string
		display Size
		mode    Mode
		scale   float64
		origin  Point
	}{
		{"exact", Size{540, 960}, Exact, 0.5, Point{0, 0}},
		{"taller display letterboxes", Size{1080, 2400}, Letterbox, 1, Point{0, 240}},
		{"wider display pillarboxes", Size{1920, 1080}, Pillarbox, 0.5625, Point{656.25, 0}},
	}

	for _, tt := range tests {
		v := Fit(DesignSize, tt.display)
		if v.Mode() != tt.mode {
			t.Errorf("%s: expected mode %v, got %v", tt.name, tt.mode, v.Mode())
		}
		if math.Abs(v.Scale-tt.scale) > 1e-9 {
			t.Errorf("%s: expected scale %v, got %v", tt.name, tt.scale, v.Scale)
		}
		if math.Abs(v.Origin.X-tt.origin.X) > 1e-9 || math.Abs(v.Origin.Y-tt.origin.Y) > 1e-9 {
			t.Errorf("%s: expected origin %v, got %v", tt.name, tt.origin, v.Origin)
		}
	}
}

func TestViewport_RoundTrip(t *testing.T) {
	v := Fit(DesignSize, Size{1920, 1080})
	local := Point{X: 540, Y: 960}

	screen := v.LocalToScreen(local)
	if math.Abs(screen.X-960) > 1e-9 || math.Abs(screen.Y-540) > 1e-9 {
		t.Errorf("Design center should map to display center, got %v", screen)
	}

	back := v.ScreenToLocal(screen)
	if math.Abs(back.X-local.X) > 1e-9 || math.Abs(back.Y-local.Y) > 1e-9 {
		t.Errorf("Round trip mismatch: %v -> %v -> %v", local, screen, back)
	}

	if v.Contains(Point{X: 10, Y: 540}) {
		t.Error("Point in the pillar bar should be outside the design area")
	}
}

func TestFit_DegenerateDisplay(t *testing.T) {
	v := Fit(DesignSize, Size{})
	if v.Scale != 1 {
		t.Errorf("Degenerate display should keep unit scale, got %v", v.Scale)
	}
	p := Point{X: 3, Y: 4}
	if got := v.ScreenToLocal(p); got != p {
		t.Errorf("Expected identity mapping, got %v", got)
	}
}

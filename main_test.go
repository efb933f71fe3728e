package main

import (
	"strings"
	"testing"

	"go-match/internal/layout"
)

func TestParseTimer(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"auto", -1, false},
		{"", -1, false},
		{"off", 0, false},
		{"false", 0, false},
		{"45", 45, false},
		{"1:30", 90, false},
		{"0:00", 0, true},
		{"-5", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		got, err := parseTimer(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTimer(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseTimer(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLayoutBoard_GridAndHit(t *testing.T) {
	b := layoutBoard(16, rect{x: 0, y: 0, w: 60, h: 30})
	if b.cols != 4 || b.rows != 4 {
		t.Fatalf("Expected a 4x4 grid, got %dx%d", b.cols, b.rows)
	}

	for i, r := range b.cards {
		if got := b.hit(r.x, r.y); got != i {
			t.Errorf("hit at top-left of card %d returned %d", i, got)
		}
		if r.x < 0 || r.y < 0 || r.x+r.w > 60 || r.y+r.h > 30 {
			t.Errorf("card %d outside the field: %+v", i, r)
		}
	}
	if got := b.hit(-1, -1); got != -1 {
		t.Errorf("Expected miss, got %d", got)
	}
}

func TestBoard_MoveClamps(t *testing.T) {
	b := layoutBoard(6, rect{w: 40, h: 20}) // 3 columns, 2 rows

	if got := b.move(0, -1, 0); got != 0 {
		t.Errorf("left from 0: got %d", got)
	}
	if got := b.move(0, 1, 1); got != 4 {
		t.Errorf("down-right from 0: got %d", got)
	}
	if got := b.move(5, 0, 1); got != 5 {
		t.Errorf("down from last row: got %d", got)
	}
}

func TestFieldRect_Pillarbox(t *testing.T) {
	view := layout.Fit(layout.DesignSize, layout.Size{W: 100, H: 96})
	f := fieldRect(view, 2)

	// 96/1920 = 0.05 scale: 54 columns wide, 48 rows tall, centred horizontally
	if f.w != 54 || f.h != 48 || f.x != 23 || f.y != 2 {
		t.Errorf("unexpected field %+v", f)
	}
}

func TestCanvas_WideRunes(t *testing.T) {
	c := newCanvas(4, 1)
	c.text(0, 0, "🐱", faceColor, backgroundColor, false)
	if !c.at(1, 0).cont {
		t.Fatal("A wide rune should occupy two cells")
	}

	c.set(1, 0, '*', faceColor, backgroundColor, false)
	if c.at(0, 0).r != ' ' {
		t.Errorf("Overwriting half of a wide rune should blank the other half, got %q", c.at(0, 0).r)
	}

	c.set(3, 0, '🐶', faceColor, backgroundColor, false)
	if c.at(3, 0).r != ' ' {
		t.Error("A wide rune that does not fit should be dropped")
	}

	out := c.String()
	if !strings.Contains(out, "*") {
		t.Errorf("Rendered row is missing content: %q", out)
	}
}

func TestPaletteParses(t *testing.T) {
	if got := backgroundColor.Hex(); got != "#1d1d2b" {
		t.Errorf("background: got %s", got)
	}
	if got := cursorColor.Hex(); got != "#ffca3a" {
		t.Errorf("cursor: got %s", got)
	}
}

package main

import (
	"math"
	"strings"

	"go-match/internal/card"
	"go-match/internal/layout"
	"go-match/internal/particle"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

var (
	backgroundColor = mustHex("#1d1d2b")
	cardBackColor   = mustHex("#3a3a5c")
	cardEdgeColor   = mustHex("#8888aa")
	cursorColor     = mustHex("#ffca3a")
	matchedColor    = mustHex("#8ac926")
	faceColor       = mustHex("#f4f4f4")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Terminal cells are about twice as tall as they are wide, so one row
// covers two display units.
const cellAspect = 2

type cell struct {
	r    rune
	fg   colorful.Color
	bg   colorful.Color
	bold bool
	cont bool // right half of a wide rune
}

// canvas is a grid of cells flattened into lipgloss-styled lines.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', fg: faceColor, bg: backgroundColor}
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// set writes r at (x, y), splitting any wide rune it lands on.
func (c *canvas) set(x, y int, r rune, fg, bg colorful.Color, bold bool) {
	target := c.at(x, y)
	if target == nil {
		return
	}
	if target.cont {
		if left := c.at(x-1, y); left != nil {
			left.r = ' '
		}
	} else if runewidth.RuneWidth(target.r) == 2 {
		if right := c.at(x+1, y); right != nil {
			right.cont = false
			right.r = ' '
		}
	}
	*target = cell{r: r, fg: fg, bg: bg, bold: bold}

	if runewidth.RuneWidth(r) != 2 {
		return
	}
	right := c.at(x+1, y)
	if right == nil {
		target.r = ' '
		return
	}
	*right = cell{cont: true, fg: fg, bg: bg}
}

// text writes s starting at (x, y) and returns the columns used.
func (c *canvas) text(x, y int, s string, fg, bg colorful.Color, bold bool) int {
	col := x
	for _, r := range s {
		c.set(col, y, r, fg, bg, bold)
		col += max(runewidth.RuneWidth(r), 1)
	}
	return col - x
}

func (c *canvas) fill(r rect, ch rune, fg, bg colorful.Color) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			c.set(x, y, ch, fg, bg, false)
		}
	}
}

func styleFor(ce cell) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ce.fg.Hex())).
		Background(lipgloss.Color(ce.bg.Hex())).
		Bold(ce.bold)
}

// String renders each row as runs of identically styled cells.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		row := c.cells[y*c.w : (y+1)*c.w]
		var run strings.Builder
		var runStyle cell
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(styleFor(runStyle).Render(run.String()))
				run.Reset()
			}
		}
		for i, ce := range row {
			if ce.cont {
				continue
			}
			if i == 0 || ce.fg != runStyle.fg || ce.bg != runStyle.bg || ce.bold != runStyle.bold {
				flush()
				runStyle = ce
			}
			run.WriteRune(ce.r)
		}
		flush()
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && y >= r.y && x < r.x+r.w && y < r.y+r.h
}

// board places n cards in a near-square grid inside the design area.
type board struct {
	field rect
	cols  int
	rows  int
	cards []rect
}

// fieldRect is the design area of v in cells, offset by top rows.
func fieldRect(v layout.Viewport, top int) rect {
	content := v.Content()
	return rect{
		x: int(math.Round(v.Origin.X)),
		y: top + int(math.Round(v.Origin.Y/cellAspect)),
		w: int(content.W),
		h: int(content.H / cellAspect),
	}
}

func layoutBoard(n int, field rect) board {
	b := board{field: field}
	if n <= 0 {
		return b
	}
	b.cols = int(math.Ceil(math.Sqrt(float64(n))))
	b.rows = (n + b.cols - 1) / b.cols

	slotW := field.w / b.cols
	slotH := field.h / b.rows
	w := min(max(slotW-1, 3), 12)
	h := min(max(slotH-1, 3), 5)

	gridW := b.cols*(w+1) - 1
	gridH := b.rows*(h+1) - 1
	x0 := field.x + max((field.w-gridW)/2, 0)
	y0 := field.y + max((field.h-gridH)/2, 0)

	b.cards = make([]rect, n)
	for i := range b.cards {
		col, row := i%b.cols, i/b.cols
		b.cards[i] = rect{x: x0 + col*(w+1), y: y0 + row*(h+1), w: w, h: h}
	}
	return b
}

// hit returns the card under (x, y), or -1.
func (b board) hit(x, y int) int {
	for i, r := range b.cards {
		if r.contains(x, y) {
			return i
		}
	}
	return -1
}

// move steps the cursor by (dx, dy) within the grid.
func (b board) move(cursor, dx, dy int) int {
	if len(b.cards) == 0 {
		return 0
	}
	col := cursor%b.cols + dx
	row := cursor/b.cols + dy
	col = min(max(col, 0), b.cols-1)
	row = min(max(row, 0), b.rows-1)
	return min(row*b.cols+col, len(b.cards)-1)
}

func drawCard(c *canvas, r rect, v *card.View, selected bool) {
	w := int(math.Round(float64(r.w) * v.Scale()))
	if w < 1 {
		w = 1
	}
	inner := rect{x: r.x + (r.w-w)/2, y: r.y, w: w, h: r.h}

	edge := cardEdgeColor
	switch {
	case selected:
		edge = cursorColor
	case v.IsMatched():
		edge = matchedColor
	}

	if !v.ShowingFace() {
		c.fill(inner, '░', cardEdgeColor, cardBackColor)
		if selected {
			c.fill(rect{x: inner.x, y: inner.y + inner.h - 1, w: inner.w, h: 1}, '▔', cursorColor, cardBackColor)
		}
		return
	}

	c.fill(inner, ' ', faceColor, backgroundColor)
	if w >= 2 {
		for x := inner.x; x < inner.x+inner.w; x++ {
			c.set(x, inner.y, '─', edge, backgroundColor, false)
			c.set(x, inner.y+inner.h-1, '─', edge, backgroundColor, false)
		}
		for y := inner.y; y < inner.y+inner.h; y++ {
			c.set(inner.x, y, '│', edge, backgroundColor, false)
			c.set(inner.x+inner.w-1, y, '│', edge, backgroundColor, false)
		}
		c.set(inner.x, inner.y, '╭', edge, backgroundColor, false)
		c.set(inner.x+inner.w-1, inner.y, '╮', edge, backgroundColor, false)
		c.set(inner.x, inner.y+inner.h-1, '╰', edge, backgroundColor, false)
		c.set(inner.x+inner.w-1, inner.y+inner.h-1, '╯', edge, backgroundColor, false)
	}

	face := v.Card().Face
	fw := runewidth.StringWidth(face)
	if fw > inner.w-2 {
		face = runewidth.Truncate(face, max(inner.w-2, 1), "")
		fw = runewidth.StringWidth(face)
	}
	fx := inner.x + (inner.w-fw)/2
	c.text(fx, inner.y+inner.h/2, face, v.Card().Color(faceColor), backgroundColor, v.IsMatched())
}

var strips = [4]rune{'▬', '╱', '▮', '╲'}

func drawParticles(c *canvas, view layout.Viewport, top int, ps []particle.Particle) {
	for _, p := range ps {
		s := view.LocalToScreen(p.Pos)
		x := int(math.Floor(s.X))
		y := top + int(math.Floor(s.Y/cellAspect))

		under := c.at(x, y)
		if under == nil {
			continue
		}
		glyph := p.Sprite.Glyph
		if glyph == '▬' {
			glyph = strips[p.Facing()]
		}
		c.set(x, y, glyph, p.Tint(under.bg), under.bg, false)
	}
}

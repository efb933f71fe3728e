// Command confetti-sandbox plays the win confetti on its own so the emitter
// can be tuned without playing a round.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"go-match/internal/layout"
	"go-match/internal/particle"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	frameDuration = time.Second / 60
	maxDelta      = 0.1
	cellAspect    = 2 // display units per terminal row
)

var (
	colorBg  = mustHex("#1a1b26")
	colorBar = mustHex("#0f0f17")
	colorUI  = mustHex("#c8c8c8")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

type sandbox struct {
	screen  tcell.Screen
	emitter *particle.Emitter
	view    layout.Viewport
	width   int
	height  int
	bounce  bool
	pressed bool
	last    time.Time
}

func newSandbox(screen tcell.Screen) *sandbox {
	s := &sandbox{screen: screen}
	cfg := particle.DefaultConfig()
	s.bounce = cfg.Bounce
	s.emitter = particle.NewEmitter(cfg, s.view, nil, nil)
	s.resize()
	return s
}

// resize fits the portrait design area into everything but the status row.
func (s *sandbox) resize() {
	s.width, s.height = s.screen.Size()
	display := layout.Size{W: float64(s.width), H: float64(max(s.height-1, 1) * cellAspect)}
	s.view = layout.Fit(layout.DesignSize, display)
	s.emitter.SetViewport(s.view)
}

// handle returns false when the sandbox should exit.
func (s *sandbox) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				s.emitter.PlayCentered()
			case 'b':
				s.bounce = !s.bounce
				s.emitter.SetBounce(s.bounce)
			case 'x':
				s.emitter.Clear()
			}
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !s.pressed {
			x, y := ev.Position()
			s.emitter.PlayAt(layout.Point{X: float64(x) + 0.5, Y: float64(y*cellAspect) + 1})
		}
		s.pressed = down
	case *tcell.EventResize:
		s.resize()
		s.screen.Sync()
	}
	return true
}

func (s *sandbox) render() {
	bar := tcell.StyleDefault.Background(toTcell(colorBar))
	bg := tcell.StyleDefault.Background(toTcell(colorBg))
	for y := 0; y < s.height-1; y++ {
		for x := 0; x < s.width; x++ {
			style := bar
			if s.view.Contains(layout.Point{X: float64(x) + 0.5, Y: float64(y*cellAspect) + 1}) {
				style = bg
			}
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}

	for _, p := range s.emitter.Active() {
		pos := s.view.LocalToScreen(p.Pos)
		x := int(math.Floor(pos.X))
		y := int(math.Floor(pos.Y / cellAspect))
		if x < 0 || y < 0 || x >= s.width || y >= s.height-1 {
			continue
		}
		s.screen.SetContent(x, y, p.Sprite.Glyph, nil,
			tcell.StyleDefault.Foreground(toTcell(p.Tint(colorBg))).Background(toTcell(colorBg)))
	}

	status := fmt.Sprintf(" %s %s | active %d pool %d cap %d | bounce %v | Space burst, click aim, b bounce, x clear, q quit",
		s.view.Mode(), s.view.Display, s.emitter.ActiveCount(), s.emitter.PoolSize(), s.emitter.Capacity(), s.bounce)
	ui := tcell.StyleDefault.Foreground(toTcell(colorUI)).Background(toTcell(colorBar))
	col := 0
	for _, r := range status {
		if col >= s.width {
			break
		}
		s.screen.SetContent(col, s.height-1, r, nil, ui)
		col++
	}
	for ; col < s.width; col++ {
		s.screen.SetContent(col, s.height-1, ' ', nil, ui)
	}

	s.screen.Show()
}

func (s *sandbox) run() {
	inputChan := make(chan tcell.Event, 10)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			inputChan <- ev
		}
	}()

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	s.last = time.Now()
	for {
		select {
		case ev := <-inputChan:
			if !s.handle(ev) {
				return
			}
		case now := <-ticker.C:
			dt := min(now.Sub(s.last).Seconds(), maxDelta)
			s.last = now
			s.emitter.Update(dt)
			s.render()
		}
	}
}

func main() {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "confetti-sandbox: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "confetti-sandbox: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	newSandbox(screen).run()
}

// Package card implements the per-card state machine: a card is hidden,
// revealed while a turn is in progress, or matched for the rest of the round.
package card

import (
	"context"
	"math"

	"go-match/internal/deck"
	"go-match/internal/sched"

	"github.com/looplab/fsm"
)

const (
	Hidden   = "hidden"
	Revealed = "revealed"
	Matched  = "matched"
)

// DefaultFlipDuration is the length of the flip animation in seconds.
const DefaultFlipDuration = 0.3

// Selector receives the selections a view reports. The controller that owns
// the round implements it and is handed to every view when it is created.
type Selector interface {
	// Accepting reports whether taps may reveal cards right now.
	Accepting() bool
	SelectCard(v *View)
}

// View is the runtime card bound to one deck entry for a round.
type View struct {
	Index int

	card     deck.Card
	FSM      *fsm.FSM
	selector Selector
	tasks    *sched.Scheduler
	duration float64

	// flip is the single in-flight animation. Starting another one cancels it.
	flip     *sched.Task
	progress float64 // 0 shows the back, 1 the face
}

// NewView binds a hidden view to c. Flip animations run on tasks.
func NewView(index int, c deck.Card, sel Selector, tasks *sched.Scheduler, flipDuration float64) *View {
	if flipDuration < 0 {
		flipDuration = DefaultFlipDuration
	}
	v := &View{
		Index:    index,
		card:     c,
		selector: sel,
		tasks:    tasks,
		duration: flipDuration,
	}
	v.FSM = fsm.NewFSM(
		Hidden,
		fsm.Events{
			{Name: "reveal", Src: []string{Hidden}, Dst: Revealed},
			{Name: "hide", Src: []string{Revealed}, Dst: Hidden},
			{Name: "match", Src: []string{Hidden, Revealed}, Dst: Matched},
		},
		fsm.Callbacks{
			"enter_" + Revealed: func(_ context.Context, _ *fsm.Event) { v.animate(1) },
			"enter_" + Hidden:   func(_ context.Context, _ *fsm.Event) { v.animate(0) },
			"enter_" + Matched:  func(_ context.Context, _ *fsm.Event) { v.animate(1) },
		},
	)
	return v
}

// Bind reuses the view for a new round: it takes a new card, drops any
// animation and shows its back.
func (v *View) Bind(index int, c deck.Card) {
	v.flip.Cancel()
	v.flip = nil
	v.Index = index
	v.card = c
	v.progress = 0
	v.FSM.SetState(Hidden)
}

// Card returns the bound datum.
func (v *View) Card() deck.Card {
	return v.card
}

// ID is the bound card id.
func (v *View) ID() string {
	return v.card.ID
}

// State is one of Hidden, Revealed or Matched.
func (v *View) State() string {
	return v.FSM.Current()
}

func (v *View) IsMatched() bool {
	return v.FSM.Is(Matched)
}

func (v *View) IsRevealed() bool {
	return v.FSM.Is(Revealed)
}

func (v *View) IsHidden() bool {
	return v.FSM.Is(Hidden)
}

// Tap is the user pressing the card. Only a hidden card in a round that
// accepts selections reacts: it flips face up and reports itself.
func (v *View) Tap() bool {
	if !v.FSM.Is(Hidden) || v.selector == nil || !v.selector.Accepting() {
		return false
	}
	if err := v.FSM.Event(context.Background(), "reveal"); err != nil {
		return false
	}
	v.selector.SelectCard(v)
	return true
}

// Match locks the view face up. It ignores taps from then on.
func (v *View) Match() {
	if v.FSM.Can("match") {
		_ = v.FSM.Event(context.Background(), "match")
	}
}

// Hide flips a revealed view back over.
func (v *View) Hide() {
	if v.FSM.Can("hide") {
		_ = v.FSM.Event(context.Background(), "hide")
	}
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// animate tweens progress towards target, replacing any running flip.
func (v *View) animate(target float64) {
	v.flip.Cancel()
	v.flip = nil

	from := v.progress
	if from == target {
		return
	}
	if v.tasks == nil || v.duration == 0 {
		v.progress = target
		return
	}
	v.flip = v.tasks.Tween(v.duration, func(p float64) {
		v.progress = from + (target-from)*smoothstep(p)
	}, nil)
}

// Animating reports whether a flip is in flight.
func (v *View) Animating() bool {
	return !v.flip.Done()
}

// Progress is the flip position: 0 back, 1 face.
func (v *View) Progress() float64 {
	return v.progress
}

// Scale is the horizontal scale of the card for the flip effect.
func (v *View) Scale() float64 {
	return math.Abs(math.Cos(math.Pi * v.progress))
}

// ShowingFace reports whether the face side is currently visible.
func (v *View) ShowingFace() bool {
	return v.progress > 0.5
}

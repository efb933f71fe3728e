// Package match runs a round of the memory game: it deals the deck into card
// views, pairs up selections, counts down the timer and decides win or lose.
package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"slices"
	"time"

	"go-match/internal/card"
	"go-match/internal/deck"
	"go-match/internal/sched"

	"github.com/looplab/fsm"
)

const (
	Ready   = "ready"
	Playing = "playing"
	Busy    = "busy"
	Win     = "win"
	Lose    = "lose"
)

var (
	ErrMissingDeck      = errors.New("no deck definition")
	ErrEmptyDeck        = errors.New("deck has no cards")
	ErrMissingScheduler = errors.New("no scheduler")
)

// Options are the per-round rules.
type Options struct {
	TimeLimit     float64 // seconds: -1 auto, 0 off, >0 fixed
	SettleDelay   float64 // wait before comparing a pair
	MismatchDelay float64 // extra wait before hiding a wrong pair
	FlipDuration  float64
}

// DefaultOptions returns the standard rules with an automatic time limit.
func DefaultOptions() Options {
	return Options{
		TimeLimit:     -1,
		SettleDelay:   0.4,
		MismatchDelay: 0.25,
		FlipDuration:  card.DefaultFlipDuration,
	}
}

// AutoTimeLimit gives five seconds per pair, at least twenty.
func AutoTimeLimit(pairs int) float64 {
	limit := float64(pairs * 5)
	if limit < 20 {
		limit = 20
	}
	return limit
}

// Cues plays the feedback for a pair.
type Cues interface {
	Success()
	Failure()
}

// Scorer receives score events as the round progresses.
type Scorer interface {
	ScoreEvent(event string)
}

type silentCues struct{}

func (silentCues) Success() {}
func (silentCues) Failure() {}

// Deps are the collaborators a Controller is built with.
type Deps struct {
	// Tasks runs pair-evaluation delays in real time.
	Tasks *sched.Scheduler
	// Anim runs card flips, possibly time-scaled. Defaults to Tasks.
	Anim   *sched.Scheduler
	Cues   Cues
	Scorer Scorer
	Rand   *rand.Rand
	Logger *log.Logger
}

// Controller owns the state of one round at a time.
type Controller struct {
	FSM *fsm.FSM

	deck   *deck.Deck
	opts   Options
	tasks  *sched.Scheduler
	anim   *sched.Scheduler
	cues   Cues
	scorer Scorer
	rng    *rand.Rand
	log    *log.Logger

	views         []*card.View
	first, second *card.View

	matches    int
	totalPairs int
	turns      int
	mismatches int

	remaining    float64
	timeLimit    float64
	timerEnabled bool

	notified  bool
	round     []*sched.Task
	winHooks  []func()
	loseHooks []func()
}

// New builds a controller in the Ready state. Nothing is dealt until
// StartGame.
func New(d *deck.Deck, opts Options, deps Deps) *Controller {
	c := &Controller{
		deck:   d,
		opts:   opts,
		tasks:  deps.Tasks,
		anim:   deps.Anim,
		cues:   deps.Cues,
		scorer: deps.Scorer,
		rng:    deps.Rand,
		log:    deps.Logger,
	}
	if c.anim == nil {
		c.anim = c.tasks
	}
	if c.cues == nil {
		c.cues = silentCues{}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.log == nil {
		c.log = log.Default()
	}

	c.FSM = fsm.NewFSM(
		Ready,
		getStateTransitions(),
		getStateCallbacks(c),
	)
	return c
}

func getStateTransitions() fsm.Events {
	return fsm.Events{
		{Name: "start", Src: []string{Ready}, Dst: Playing},
		{Name: "evaluate", Src: []string{Playing}, Dst: Busy},
		{Name: "resume", Src: []string{Busy}, Dst: Playing},
		{Name: "complete", Src: []string{Playing, Busy}, Dst: Win},
		{Name: "timeout", Src: []string{Playing}, Dst: Lose},
		{Name: "reset", Src: []string{Playing, Busy, Win, Lose}, Dst: Ready},
	}
}

func getStateCallbacks(c *Controller) fsm.Callbacks {
	return fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			c.log.Printf("match: %s -> %s (%s)", e.Src, e.Dst, e.Event)
		},
		"enter_" + Ready: func(_ context.Context, _ *fsm.Event) {
			c.cancelRound()
		},
		"enter_" + Win: func(_ context.Context, _ *fsm.Event) {
			if c.scorer != nil {
				c.scorer.ScoreEvent("roundWin")
			}
			c.finish(c.winHooks)
		},
		"enter_" + Lose: func(_ context.Context, _ *fsm.Event) {
			c.finish(c.loseHooks)
		},
	}
}

// OnWin registers fn to run once when a round is won.
func (c *Controller) OnWin(fn func()) {
	c.winHooks = append(c.winHooks, fn)
}

// OnLose registers fn to run once when a round is lost.
func (c *Controller) OnLose(fn func()) {
	c.loseHooks = append(c.loseHooks, fn)
}

func (c *Controller) finish(hooks []func()) {
	c.timerEnabled = false
	if c.notified {
		return
	}
	c.notified = true
	for _, h := range hooks {
		h()
	}
}

func (c *Controller) cancelRound() {
	for _, t := range c.round {
		t.Cancel()
	}
	c.round = c.round[:0]
}

func (c *Controller) track(t *sched.Task) {
	c.round = append(c.round, t)
}

// StartGame deals a fresh round and enters Playing. A missing deck or
// scheduler is logged and the round is not started.
func (c *Controller) StartGame() error {
	if c.deck == nil {
		c.log.Printf("match: round not started: %v", ErrMissingDeck)
		return ErrMissingDeck
	}
	if c.tasks == nil {
		c.log.Printf("match: round not started: %v", ErrMissingScheduler)
		return ErrMissingScheduler
	}
	if len(c.deck.Cards) == 0 {
		c.log.Printf("match: round not started: %v", ErrEmptyDeck)
		return ErrEmptyDeck
	}
	if err := c.deck.Validate(); err != nil {
		c.log.Printf("match: round not started: %v", err)
		return fmt.Errorf("invalid deck %q: %w", c.deck.Name, err)
	}

	ctx := context.Background()
	if !c.FSM.Is(Ready) {
		if err := c.FSM.Event(ctx, "reset"); err != nil {
			return fmt.Errorf("reset round: %w", err)
		}
	}
	c.cancelRound()

	deal := c.deck.ShuffledPairs(c.rng)
	views := make([]*card.View, len(deal))
	for i, cd := range deal {
		if i < len(c.views) {
			c.views[i].Bind(i, cd)
			views[i] = c.views[i]
			continue
		}
		views[i] = card.NewView(i, cd, c, c.anim, c.opts.FlipDuration)
	}
	c.views = views

	c.first, c.second = nil, nil
	c.matches, c.turns, c.mismatches = 0, 0, 0
	c.totalPairs = c.deck.Pairs()
	c.notified = false

	c.timeLimit = c.opts.TimeLimit
	if c.timeLimit < 0 {
		c.timeLimit = AutoTimeLimit(c.totalPairs)
	}
	c.remaining = c.timeLimit
	c.timerEnabled = c.timeLimit > 0

	return c.FSM.Event(ctx, "start")
}

// SetDeck swaps the deck used by the next StartGame.
func (c *Controller) SetDeck(d *deck.Deck) {
	c.deck = d
}

// SetTimeLimit changes the limit used by the next StartGame.
func (c *Controller) SetTimeLimit(seconds float64) {
	c.opts.TimeLimit = seconds
}

// Accepting reports whether a card may be revealed now.
func (c *Controller) Accepting() bool {
	return c.FSM.Is(Playing) && c.second == nil
}

func (c *Controller) owns(v *card.View) bool {
	return v != nil && v.Index >= 0 && v.Index < len(c.views) && c.views[v.Index] == v
}

// SelectCard records v as the first or second pick of the turn. It does
// nothing unless the round is Playing, v is unmatched, v is not already the
// first pick and the second slot is free.
func (c *Controller) SelectCard(v *card.View) {
	if !c.FSM.Is(Playing) || !c.owns(v) || v.IsMatched() || v == c.first || c.second != nil {
		return
	}
	if c.first == nil {
		c.first = v
		return
	}

	c.second = v
	c.turns++
	if err := c.FSM.Event(context.Background(), "evaluate"); err != nil {
		c.log.Printf("match: evaluate: %v", err)
		return
	}
	a, b := c.first, c.second
	c.track(c.tasks.After(c.opts.SettleDelay, func() { c.evaluate(a, b) }))
}

func (c *Controller) evaluate(a, b *card.View) {
	if !c.FSM.Is(Busy) {
		return
	}
	ctx := context.Background()

	if a.ID() == b.ID() {
		a.Match()
		b.Match()
		c.matches++
		c.cues.Success()
		if c.scorer != nil {
			c.scorer.ScoreEvent("match")
		}
		c.first, c.second = nil, nil
		if c.matches >= c.totalPairs {
			_ = c.FSM.Event(ctx, "complete")
			return
		}
		_ = c.FSM.Event(ctx, "resume")
		return
	}

	c.mismatches++
	c.cues.Failure()
	if c.scorer != nil {
		c.scorer.ScoreEvent("mismatch")
	}
	c.track(c.tasks.After(c.opts.MismatchDelay, func() {
		if !c.FSM.Is(Busy) {
			return
		}
		a.Hide()
		b.Hide()
		c.first, c.second = nil, nil
		_ = c.FSM.Event(ctx, "resume")
	}))
}

// Update counts the timer down by dt seconds of real time while Playing.
// Reaching zero loses the round.
func (c *Controller) Update(dt float64) {
	if !c.timerEnabled || !c.FSM.Is(Playing) || dt <= 0 {
		return
	}
	c.remaining -= dt
	if c.remaining <= 0 {
		c.remaining = 0
		c.timerEnabled = false
		_ = c.FSM.Event(context.Background(), "timeout")
	}
}

// CancelTimer stops the countdown for the rest of the round.
func (c *Controller) CancelTimer() {
	c.timerEnabled = false
}

// TimerText formats the remaining time as MM:SS, rounding seconds up.
func (c *Controller) TimerText() string {
	secs := int(math.Ceil(c.remaining))
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (c *Controller) State() string {
	return c.FSM.Current()
}

// Views returns the card views of the current round in grid order.
func (c *Controller) Views() []*card.View {
	return slices.Clone(c.views)
}

// Selection returns the first and second picks of the current turn.
func (c *Controller) Selection() (*card.View, *card.View) {
	return c.first, c.second
}

func (c *Controller) Deck() *deck.Deck { return c.deck }
func (c *Controller) Matches() int { return c.matches }
func (c *Controller) TotalPairs() int { return c.totalPairs }
func (c *Controller) Turns() int { return c.turns }
func (c *Controller) Mismatches() int { return c.mismatches }
func (c *Controller) Remaining() float64 { return c.remaining }
func (c *Controller) TimeLimit() float64 { return c.timeLimit }
func (c *Controller) TimerEnabled() bool { return c.timerEnabled }
func (c *Controller) IsOver() bool { return c.FSM.Is(Win) || c.FSM.Is(Lose) }

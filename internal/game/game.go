package game

import (
	"log"
	"math"
	"math/rand"
	"time"

	"go-match/internal/deck"
	"go-match/internal/layout"
	"go-match/internal/match"
	"go-match/internal/particle"
	"go-match/internal/sched"
	"go-match/internal/scoring"
)

// Options configures a Game.
type Options struct {
	Match     match.Options
	Particles particle.Config
	// TimeScale multiplies the time given to animations and confetti. Pair
	// delays and the countdown always run on real time.
	TimeScale float64
	Seed      int64 // 0 seeds from the clock
}

func DefaultOptions() Options {
	return Options{
		Match:     match.DefaultOptions(),
		Particles: particle.DefaultConfig(),
		TimeScale: 1,
	}
}

// Deps are the collaborators a Game uses. Every field is optional.
type Deps struct {
	Cues    match.Cues
	Storage scoring.ScoreStorage // nil keeps scores in memory only
	Emitter *particle.Emitter    // shared confetti, one is built when nil
	View    layout.Viewport
	Logger  *log.Logger
}

// Game encapsulates the core game logic, independent of the UI.
type Game struct {
	Controller *match.Controller
	Emitter    *particle.Emitter
	Score      *scoring.Scoring
	TimeScale  float64

	deck    deck.Deck
	real    *sched.Scheduler
	scaled  *sched.Scheduler
	storage scoring.ScoreStorage
	log     *log.Logger
	elapsed float64
}

// NewGame builds a game for d. Nothing is dealt until Start.
func NewGame(d deck.Deck, opts Options, deps Deps) *Game {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := &Game{
		TimeScale: opts.TimeScale,
		deck:      d,
		real:      sched.New(),
		scaled:    sched.New(),
		storage:   deps.Storage,
		log:       deps.Logger,
		Emitter:   deps.Emitter,
	}
	if g.TimeScale <= 0 {
		g.TimeScale = 1
	}
	if g.storage == nil {
		g.storage = &scoring.MemoryStorage{}
	}
	if g.log == nil {
		g.log = log.Default()
	}
	if g.Emitter == nil {
		view := deps.View
		if view.Scale == 0 {
			view = layout.Fit(layout.DesignSize, layout.DesignSize)
		}
		g.Emitter = particle.NewEmitter(opts.Particles, view, nil, rng)
	}

	g.Controller = match.New(&g.deck, opts.Match, match.Deps{
		Tasks:  g.real,
		Anim:   g.scaled,
		Cues:   deps.Cues,
		Scorer: g,
		Rand:   rng,
		Logger: g.log,
	})
	g.Controller.OnWin(g.onWin)
	g.Controller.OnLose(g.onLose)
	return g
}

// Start deals a fresh round, replacing any round in progress.
func (g *Game) Start() error {
	sc, err := scoring.InitScoring(g.deck.Hash(), g.deck.Name, g.deck.Pairs(), g.storage)
	if err != nil {
		g.log.Printf("game: score history unavailable: %v", err)
		sc, _ = scoring.InitScoring(g.deck.Hash(), g.deck.Name, g.deck.Pairs(), &scoring.MemoryStorage{})
	}
	g.Score = sc
	g.elapsed = 0
	return g.Controller.StartGame()
}

// ScoreEvent forwards controller events to the round's score.
func (g *Game) ScoreEvent(event string) {
	if g.Score != nil {
		g.Score.ScoreEvent(event)
	}
}

func (g *Game) onWin() {
	g.Emitter.PlayCentered()
	if g.Score == nil {
		return
	}
	if g.Controller.TimeLimit() > 0 {
		g.Score.AddTimeBonus(int(math.Floor(g.Controller.Remaining())))
	}
	g.finishRound(true)
}

func (g *Game) onLose() {
	if g.Score != nil {
		g.finishRound(false)
	}
}

func (g *Game) finishRound(won bool) {
	g.Score.RecordRound(won, g.Controller.Turns(), g.elapsed)
	if err := g.Score.SaveEntries(); err != nil {
		g.log.Printf("game: could not save score: %v", err)
	}
}

// Step advances the game by dt real seconds.
func (g *Game) Step(dt float64) {
	if dt <= 0 {
		return
	}
	scaled := dt * g.TimeScale
	if !g.Controller.IsOver() && g.Controller.State() != match.Ready {
		g.elapsed += dt
	}

	// Animation clocks go first: flips and bursts started by pair
	// evaluation or a win below begin counting on the next frame.
	g.scaled.Advance(scaled)
	g.Emitter.Update(scaled)
	g.real.Advance(dt)
	g.Controller.Update(dt)
}

// Tap taps the card at index. It reports whether the card was revealed.
func (g *Game) Tap(index int) bool {
	views := g.Controller.Views()
	if index < 0 || index >= len(views) {
		return false
	}
	return views[index].Tap()
}

// Celebrate plays confetti at a point in display coordinates.
func (g *Game) Celebrate(screen layout.Point) {
	g.Emitter.PlayAt(screen)
}

func (g *Game) SetViewport(v layout.Viewport) {
	g.Emitter.SetViewport(v)
}

func (g *Game) Deck() deck.Deck {
	return g.deck
}

// Elapsed is the real time spent in the current round.
func (g *Game) Elapsed() float64 {
	return g.elapsed
}

func (g *Game) Won() bool {
	return g.Controller.State() == match.Win
}

func (g *Game) Lost() bool {
	return g.Controller.State() == match.Lose
}

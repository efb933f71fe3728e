package game

import (
	"errors"
	"math/rand"

	"go-match/internal/deck"
	"go-match/internal/layout"
	"go-match/internal/particle"
)

// DefaultAdvanceDelay is how long a won round stays on screen before the
// next deck is dealt.
const DefaultAdvanceDelay = 2.5

var ErrNoDecks = errors.New("no decks to play")

// Session plays a batch of decks in order. Winning a round moves on to the
// next deck; losing one ends the session.
type Session struct {
	Decks        []deck.Deck
	CurrentIndex int
	CurrentGame  *Game
	Options      Options
	Deps         Deps
	AdvanceDelay float64

	// Aggregate State
	TotalScore int

	// Batch State
	IsBatch   bool
	Randomize bool

	credited int // amount of TotalScore earned by the current deck
	counted  bool
	waited   float64
}

func NewSession(decks []deck.Deck, opts Options, deps Deps, randomize bool) (*Session, error) {
	if len(decks) == 0 {
		return nil, ErrNoDecks
	}
	s := &Session{
		Decks:        append([]deck.Deck(nil), decks...),
		Options:      opts,
		Deps:         deps,
		AdvanceDelay: DefaultAdvanceDelay,
		IsBatch:      len(decks) > 1,
		Randomize:    randomize,
	}

	if s.IsBatch && s.Randomize {
		swap := func(i, j int) {
			s.Decks[i], s.Decks[j] = s.Decks[j], s.Decks[i]
		}
		if opts.Seed != 0 {
			rand.New(rand.NewSource(opts.Seed)).Shuffle(len(s.Decks), swap)
		} else {
			rand.Shuffle(len(s.Decks), swap)
		}
	}

	// One emitter for the whole batch so confetti outlives the round.
	if s.Deps.Emitter == nil {
		view := s.Deps.View
		if view.Scale == 0 {
			view = layout.Fit(layout.DesignSize, layout.DesignSize)
		}
		var rng *rand.Rand
		if opts.Seed != 0 {
			rng = rand.New(rand.NewSource(opts.Seed))
		}
		s.Deps.Emitter = particle.NewEmitter(opts.Particles, view, nil, rng)
	}

	if err := s.startGame(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) startGame() error {
	s.CurrentGame = NewGame(s.Decks[s.CurrentIndex], s.Options, s.Deps)
	s.credited = 0
	s.counted = false
	s.waited = 0
	return s.CurrentGame.Start()
}

// Restart deals the current deck again. A win already counted for it is
// taken back out of the total.
func (s *Session) Restart() error {
	if s.CurrentGame == nil {
		return ErrNoDecks
	}
	s.TotalScore -= s.credited
	s.credited = 0
	s.counted = false
	s.waited = 0
	return s.CurrentGame.Start()
}

// NextGame moves to the following deck.
func (s *Session) NextGame() error {
	if s.CurrentIndex+1 >= len(s.Decks) {
		return ErrNoDecks
	}
	s.CurrentIndex++
	return s.startGame()
}

// Step advances the current game and moves on after a win.
func (s *Session) Step(dt float64) {
	if s.CurrentGame == nil {
		return
	}
	s.CurrentGame.Step(dt)

	if !s.CurrentGame.Won() {
		return
	}
	if !s.counted {
		s.counted = true
		if s.CurrentGame.Score != nil {
			s.credited = s.CurrentGame.Score.CurrentScore
			s.TotalScore += s.credited
		}
	}
	if s.CurrentIndex+1 >= len(s.Decks) {
		return
	}
	s.waited += dt
	if s.waited >= s.AdvanceDelay {
		if err := s.NextGame(); err != nil {
			s.CurrentGame.log.Printf("session: next deck: %v", err)
		}
	}
}

// SetViewport updates the shared confetti area.
func (s *Session) SetViewport(v layout.Viewport) {
	s.Deps.View = v
	s.Deps.Emitter.SetViewport(v)
}

func (s *Session) Emitter() *particle.Emitter {
	return s.Deps.Emitter
}

// IsFinished reports whether the last deck has been won.
func (s *Session) IsFinished() bool {
	return s.CurrentIndex == len(s.Decks)-1 && s.CurrentGame != nil && s.CurrentGame.Won()
}

func (s *Session) IsSessionLoss() bool {
	return s.CurrentGame != nil && s.CurrentGame.Lost()
}

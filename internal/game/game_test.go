package game

import (
	"io"
	"log"
	"math"
	"testing"

	"go-match/internal/deck"
	"go-match/internal/layout"
	"go-match/internal/match"
	"go-match/internal/scoring"
)

// MockStorage implements scoring.ScoreStorage for testing
type MockStorage struct {
	Entries   []scoring.ScoreHistoryEntry
	SaveCalls int
}

func (m *MockStorage) LoadAll() ([]scoring.ScoreHistoryEntry, error) {
	return m.Entries, nil
}

func (m *MockStorage) SaveAll(entries []scoring.ScoreHistoryEntry) error {
	m.Entries = entries
	m.SaveCalls++
	return nil
}

// RecordingCues counts the feedback cues played.
type RecordingCues struct {
	Successes int
	Failures  int
}

func (r *RecordingCues) Success() { r.Successes++ }
func (r *RecordingCues) Failure() { r.Failures++ }

func quietDeps(store scoring.ScoreStorage) Deps {
	return Deps{
		Cues:    &RecordingCues{},
		Storage: store,
		Logger:  log.New(io.Discard, "", 0),
	}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 11
	return opts
}

func singleCard(id string) deck.Deck {
	return deck.Deck{Name: id, Cards: []deck.Card{{ID: id, Face: id}}}
}

func indicesOf(g *Game, id string) []int {
	var out []int
	for i, v := range g.Controller.Views() {
		if v.ID() == id {
			out = append(out, i)
		}
	}
	return out
}

func TestGame_StartDeals(t *testing.T) {
	g := NewGame(deck.Default(), testOptions(), quietDeps(&MockStorage{}))
	if err := g.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if got := len(g.Controller.Views()); got != 16 {
		t.Errorf("Expected 16 cards, got %d", got)
	}
	if g.Controller.State() != match.Playing {
		t.Errorf("Expected playing, got %s", g.Controller.State())
	}
	if g.Score == nil || g.Score.CurrentScore != 0 {
		t.Errorf("Expected a fresh score, got %+v", g.Score)
	}
}

func TestGame_WinPlaysConfettiAndSaves(t *testing.T) {
	store := &MockStorage{}
	g := NewGame(singleCard("A"), testOptions(), quietDeps(store))
	if err := g.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	idx := indicesOf(g, "A")
	if !g.Tap(idx[0]) || !g.Tap(idx[1]) {
		t.Fatal("Both taps should be accepted")
	}

	g.Step(0.2)
	if g.Won() {
		t.Fatal("Pair should not be evaluated before the settle delay")
	}
	g.Step(0.2)
	if !g.Won() {
		t.Fatalf("Expected win, got %s", g.Controller.State())
	}

	burst := g.Emitter.Config().BurstCount
	if g.Emitter.ActiveCount() != burst {
		t.Errorf("Expected the first burst on win, got %d particles", g.Emitter.ActiveCount())
	}

	// match 100 + win 500 + 20s * 10; the clock is paused while a pair is compared
	if g.Score.CurrentScore != 800 {
		t.Errorf("Expected score 800, got %d", g.Score.CurrentScore)
	}
	if store.SaveCalls != 1 || len(store.Entries) != 1 {
		t.Fatalf("Expected one saved entry, got %d saves %d entries", store.SaveCalls, len(store.Entries))
	}
	if e := store.Entries[0]; !e.Won || e.Turns != 1 || e.Seconds != 0.4 {
		t.Errorf("Unexpected saved entry: %+v", e)
	}

	g.Step(0.1)
	if g.Emitter.ActiveCount() != burst {
		t.Errorf("Second burst fired early, got %d particles", g.Emitter.ActiveCount())
	}
	g.Step(0.05)
	if g.Emitter.ActiveCount() != 2*burst {
		t.Errorf("Expected the second burst one interval after the win, got %d particles", g.Emitter.ActiveCount())
	}

	g.Step(0.2)
	if store.SaveCalls != 1 {
		t.Error("A finished round should only be saved once")
	}
}

func TestGame_MismatchHideStartsNextFrame(t *testing.T) {
	g := NewGame(deck.Default(), testOptions(), quietDeps(nil))
	_ = g.Start()

	views := g.Controller.Views()
	a, b := 0, -1
	for i, v := range views {
		if v.ID() != views[a].ID() {
			b = i
			break
		}
	}
	if !g.Tap(a) || !g.Tap(b) {
		t.Fatal("Both taps should be accepted")
	}

	opts := testOptions().Match
	g.Step(opts.SettleDelay)
	if views[a].Animating() || views[a].Progress() != 1 {
		t.Fatalf("Reveal should have finished, progress %v", views[a].Progress())
	}
	g.Step(opts.MismatchDelay)
	if !views[a].Animating() || views[a].Progress() != 1 {
		t.Errorf("Hide should start without progress in the frame it was scheduled, progress %v", views[a].Progress())
	}
}

func TestGame_LoseSavesRound(t *testing.T) {
	store := &MockStorage{}
	opts := testOptions()
	opts.Match.TimeLimit = 1
	g := NewGame(singleCard("A"), opts, quietDeps(store))
	_ = g.Start()

	g.Step(0.5)
	g.Step(0.5)
	if !g.Lost() {
		t.Fatalf("Expected lose, got %s", g.Controller.State())
	}
	if g.Emitter.ActiveCount() != 0 {
		t.Error("Losing should not play confetti")
	}
	if len(store.Entries) != 1 || store.Entries[0].Won {
		t.Errorf("Expected one lost round saved, got %+v", store.Entries)
	}
}

func TestGame_TimeScaleOnlyAffectsAnimation(t *testing.T) {
	opts := testOptions()
	opts.TimeScale = 2
	opts.Match.TimeLimit = 10
	g := NewGame(deck.Default(), opts, quietDeps(nil))
	_ = g.Start()

	v := g.Controller.Views()[0]
	if !g.Tap(0) {
		t.Fatal("Tap should be accepted")
	}
	g.Step(0.15)

	if v.Animating() || v.Progress() != 1 {
		t.Errorf("Flip should finish in half the time, progress %v", v.Progress())
	}
	if got := g.Controller.Remaining(); math.Abs(got-9.85) > 1e-9 {
		t.Errorf("Countdown should use real time, got %v", got)
	}
}

func TestGame_TapOutOfRange(t *testing.T) {
	g := NewGame(singleCard("A"), testOptions(), quietDeps(nil))
	_ = g.Start()

	if g.Tap(-1) || g.Tap(2) {
		t.Error("Out of range taps should be ignored")
	}
}

func TestGame_CelebrateUsesViewport(t *testing.T) {
	deps := quietDeps(nil)
	deps.View = layout.Fit(layout.DesignSize, layout.Size{W: 2160, H: 1920})
	g := NewGame(singleCard("A"), testOptions(), deps)

	g.Celebrate(layout.Point{X: 1080, Y: 960})
	ps := g.Emitter.Active()
	if len(ps) == 0 {
		t.Fatal("Expected particles")
	}
	if ps[0].Pos.X != 540 || ps[0].Pos.Y != 960 {
		t.Errorf("Expected origin (540,960), got (%v,%v)", ps[0].Pos.X, ps[0].Pos.Y)
	}
}

func TestGame_StartEmptyDeck(t *testing.T) {
	g := NewGame(deck.Deck{Name: "empty"}, testOptions(), quietDeps(nil))
	if err := g.Start(); err != match.ErrEmptyDeck {
		t.Errorf("Expected ErrEmptyDeck, got %v", err)
	}
}

package card

import (
	"testing"

	"go-match/internal/deck"
	"go-match/internal/sched"
)

// MockSelector records reported selections.
type MockSelector struct {
	Open     bool
	Selected []*View
}

func (m *MockSelector) Accepting() bool {
	return m.Open
}

func (m *MockSelector) SelectCard(v *View) {
	m.Selected = append(m.Selected, v)
}

func newTestView(sel Selector) (*View, *sched.Scheduler) {
	tasks := sched.New()
	return NewView(0, deck.Card{ID: "a", Face: "A"}, sel, tasks, 0.2), tasks
}

func TestView_TapRevealsAndReports(t *testing.T) {
	sel := &MockSelector{Open: true}
	v, tasks := newTestView(sel)

	if !v.Tap() {
		t.Fatal("Tap on a hidden card should be accepted")
	}
	if v.State() != Revealed {
		t.Errorf("Expected %s, got %s", Revealed, v.State())
	}
	if len(sel.Selected) != 1 || sel.Selected[0] != v {
		t.Errorf("Selection not reported: %v", sel.Selected)
	}
	if !v.Animating() {
		t.Error("Reveal should start the flip animation")
	}

	tasks.Advance(0.2)
	if v.Animating() {
		t.Error("Flip should be over after its duration")
	}
	if v.Progress() != 1 || !v.ShowingFace() {
		t.Errorf("Expected face up, progress %v", v.Progress())
	}
}

func TestView_TapIgnoredWhenNotAccepting(t *testing.T) {
	sel := &MockSelector{Open: false}
	v, _ := newTestView(sel)

	if v.Tap() {
		t.Error("Tap should be ignored while the round is not accepting")
	}
	if v.State() != Hidden || len(sel.Selected) != 0 {
		t.Errorf("State changed: %s, selected %d", v.State(), len(sel.Selected))
	}
}

func TestView_TapIgnoredUnlessHidden(t *testing.T) {
	sel := &MockSelector{Open: true}
	v, _ := newTestView(sel)

	v.Tap()
	if v.Tap() {
		t.Error("Second tap on a revealed card should be ignored")
	}
	v.Match()
	if v.Tap() {
		t.Error("Tap on a matched card should be ignored")
	}
	if len(sel.Selected) != 1 {
		t.Errorf("Expected a single report, got %d", len(sel.Selected))
	}
}

func TestView_MatchIsTerminal(t *testing.T) {
	sel := &MockSelector{Open: true}
	v, _ := newTestView(sel)
	v.Tap()
	v.Match()

	v.Hide()
	if !v.IsMatched() {
		t.Errorf("Hide should not leave Matched, got %s", v.State())
	}
}

func TestView_HideFlipsBack(t *testing.T) {
	sel := &MockSelector{Open: true}
	v, tasks := newTestView(sel)
	v.Tap()
	tasks.Advance(0.2)

	v.Hide()
	if !v.IsHidden() {
		t.Fatalf("Expected hidden, got %s", v.State())
	}
	tasks.Advance(0.1)
	if !v.Animating() {
		t.Error("Hide animation should still be running halfway")
	}
	tasks.Advance(0.1)
	if v.Progress() != 0 || v.ShowingFace() {
		t.Errorf("Expected back side, progress %v", v.Progress())
	}
}

func TestView_NewFlipReplacesInFlightOne(t *testing.T) {
	sel := &MockSelector{Open: true}
	v, tasks := newTestView(sel)

	v.Tap()
	tasks.Advance(0.1) // reveal half done
	first := v.flip
	v.Hide()

	if !first.Cancelled() {
		t.Error("Reveal animation should be cancelled by the hide")
	}
	if tasks.Pending() != 1 {
		t.Errorf("Expected exactly one running animation, got %d", tasks.Pending())
	}

	mid := v.Progress()
	tasks.Advance(0.2)
	if v.Progress() != 0 {
		t.Errorf("Hide should finish at 0, got %v (started at %v)", v.Progress(), mid)
	}
}

func TestView_ScaleFollowsFlip(t *testing.T) {
	v, _ := newTestView(&MockSelector{})
	if v.Scale() != 1 {
		t.Errorf("Resting card should be full width, got %v", v.Scale())
	}
	v.progress = 0.5
	if v.Scale() > 1e-9 {
		t.Errorf("Card should be edge-on halfway, got %v", v.Scale())
	}
}

func TestView_Bind(t *testing.T) {
	sel := &MockSelector{Open: true}
	v, _ := newTestView(sel)
	v.Tap()
	v.Match()

	v.Bind(3, deck.Card{ID: "b"})
	if !v.IsHidden() || v.ID() != "b" || v.Index != 3 {
		t.Errorf("Bind did not reset the view: %s %s %d", v.State(), v.ID(), v.Index)
	}
	if v.Animating() || v.Progress() != 0 {
		t.Error("Bind should drop the animation")
	}
	if !v.Tap() {
		t.Error("Rebound view should accept taps")
	}
}

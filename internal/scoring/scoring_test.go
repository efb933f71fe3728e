package scoring

import (
	"errors"
	"testing"
)

// MockScoreStorage is an in-memory ScoreStorage that can simulate failures.
type MockScoreStorage struct {
	Entries   []ScoreHistoryEntry
	SaveCalls int
	err       error
}

func (m *MockScoreStorage) LoadAll() ([]ScoreHistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Entries, nil
}

func (m *MockScoreStorage) SaveAll(entries []ScoreHistoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.SaveCalls++
	m.Entries = entries
	return nil
}

func TestInitScoring_NewDeck(t *testing.T) {
	scoring, err := InitScoring("hash", "Classic", 8, &MockScoreStorage{})
	if err != nil {
		t.Fatalf("InitScoring returned an unexpected error: %v", err)
	}

	if scoring.GetAttempts() != 0 {
		t.Errorf("expected 0 attempts for a new deck, but got %d", scoring.GetAttempts())
	}
	if scoring.GetHighScore() != nil {
		t.Errorf("expected nil high score for a new deck, but got %v", scoring.GetHighScore())
	}
	if scoring.CurrentScore != 0 {
		t.Errorf("expected initial score of 0, but got %d", scoring.CurrentScore)
	}
	if scoring.PotentialScore != 8*100+500 {
		t.Errorf("expected potential score 1300, got %d", scoring.PotentialScore)
	}
	if !scoring.GotHighScore() {
		t.Error("Any score is a high score without history")
	}
}

func TestInitScoring_WithHistory(t *testing.T) {
	mockStorage := &MockScoreStorage{
		Entries: []ScoreHistoryEntry{
			{Hash: "other", Score: 9999, Title: "Other"},
			{Hash: "deck", Score: 500, Won: true, Seconds: 40},
			{Hash: "deck", Score: 120, Won: true, Seconds: 31.5},
			{Hash: "deck", Score: 80, Won: false, Seconds: 20},
		},
	}

	scoring, err := InitScoring("deck", "Classic", 4, mockStorage)
	if err != nil {
		t.Fatalf("InitScoring returned an unexpected error: %v", err)
	}

	if scoring.GetAttempts() != 3 {
		t.Errorf("expected 3 attempts, but got %d", scoring.GetAttempts())
	}
	highScore := scoring.GetHighScore()
	if highScore == nil || highScore.Score != 500 {
		t.Fatalf("expected high score of 500, got %v", highScore)
	}
	if scoring.BestTime() != 31.5 {
		t.Errorf("expected best winning time 31.5, got %v", scoring.BestTime())
	}

	top := scoring.GetNScoreEntries(2)
	if len(top) != 2 || top[0].Score != 500 || top[1].Score != 120 {
		t.Errorf("unexpected top entries: %+v", top)
	}
}

func TestInitScoring_StorageError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := InitScoring("deck", "Classic", 4, &MockScoreStorage{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
}

func TestScoreEvent(t *testing.T) {
	scoring, _ := InitScoring("deck", "Test", 2, &MockScoreStorage{})

	scoring.ScoreEvent("mismatch")
	if scoring.CurrentScore != -20 || scoring.MismatchCount != 1 {
		t.Errorf("mismatch: got score %d count %d", scoring.CurrentScore, scoring.MismatchCount)
	}

	scoring.ScoreEvent("match")
	scoring.ScoreEvent("match")
	if scoring.CurrentScore != 180 || scoring.MatchCount != 2 {
		t.Errorf("match: got score %d count %d", scoring.CurrentScore, scoring.MatchCount)
	}

	scoring.ScoreEvent("roundWin")
	scoring.AddTimeBonus(7)
	if scoring.CurrentScore != 180+500+70 {
		t.Errorf("win with bonus: expected 750, got %d", scoring.CurrentScore)
	}

	scoring.ScoreEvent("unknown")
	if scoring.CurrentScore != 750 {
		t.Errorf("unknown events should not score, got %d", scoring.CurrentScore)
	}
}

func TestSaveEntries_OnceWithRoundDetails(t *testing.T) {
	mockStorage := &MockScoreStorage{
		Entries: []ScoreHistoryEntry{{Hash: "other", Score: 1}},
	}
	scoring, _ := InitScoring("deck", "Classic", 2, mockStorage)
	scoring.ScoreEvent("match")
	scoring.RecordRound(true, 5, 18.25)

	if err := scoring.SaveEntries(); err != nil {
		t.Fatalf("SaveEntries failed: %v", err)
	}
	if err := scoring.SaveEntries(); err != nil {
		t.Fatalf("second SaveEntries failed: %v", err)
	}

	if mockStorage.SaveCalls != 1 {
		t.Errorf("expected a single save, got %d", mockStorage.SaveCalls)
	}
	if len(mockStorage.Entries) != 2 {
		t.Fatalf("expected 2 stored entries, got %d", len(mockStorage.Entries))
	}
	saved := mockStorage.Entries[1]
	if saved.Hash != "deck" || saved.Score != 100 || !saved.Won || saved.Turns != 5 || saved.Seconds != 18.25 {
		t.Errorf("unexpected saved entry: %+v", saved)
	}
}

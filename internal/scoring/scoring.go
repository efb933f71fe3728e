package scoring

import (
	"fmt"
	"sort"
	"time"
)

// Scoring tracks the score of one round and the history of earlier rounds
// played with the same deck.
type Scoring struct {
	// public
	CurrentScore   int
	MatchCount     int
	MismatchCount  int
	PotentialScore int
	// private
	storage    ScoreStorage // The interface for loading/saving scores.
	history    ScoreHistory
	scoreTable map[string]int
	deckHash   string
	saved      bool
}

// InitScoring creates a Scoring for a round dealt from the deck identified by
// deckHash, loading that deck's earlier results from storage.
func InitScoring(deckHash string, title string, pairs int, storage ScoreStorage) (*Scoring, error) {
	s := &Scoring{
		scoreTable: getScoreTable(),
		storage:    storage,
		deckHash:   deckHash,
	}
	s.PotentialScore = s.scoreTable["match"]*pairs + s.scoreTable["roundWin"]

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("could not load score history: %w", err)
	}

	filteredEntries := []ScoreHistoryEntry{}
	for _, entry := range allEntries {
		if entry.Hash == s.deckHash {
			filteredEntries = append(filteredEntries, entry)
		}
	}
	sort.Slice(filteredEntries, func(i, j int) bool {
		return filteredEntries[i].Score > filteredEntries[j].Score
	})

	s.history.Entries = filteredEntries
	s.history.Attempts = len(filteredEntries)
	if len(filteredEntries) > 0 {
		s.history.HighScoreEntry = &filteredEntries[0]
	}

	s.history.CurrentScore = &ScoreHistoryEntry{
		Hash:      s.deckHash,
		Timestamp: time.Now().Format(time.RFC3339),
		Title:     title,
	}
	return s, nil
}

// ScoreEvent applies a game event to the score.
func (s *Scoring) ScoreEvent(event string) {
	switch event {
	case "match":
		s.MatchCount++
	case "mismatch":
		s.MismatchCount++
	}
	s.CurrentScore += s.scoreTable[event]
	s.sync()
}

// AddTimeBonus rewards the seconds left on the clock when a round is won.
func (s *Scoring) AddTimeBonus(seconds int) {
	if seconds <= 0 {
		return
	}
	s.CurrentScore += seconds * s.scoreTable["secondLeft"]
	s.sync()
}

// RecordRound stores how the round went alongside the score.
func (s *Scoring) RecordRound(won bool, turns int, elapsed float64) {
	if s.history.CurrentScore == nil {
		return
	}
	s.history.CurrentScore.Won = won
	s.history.CurrentScore.Turns = turns
	s.history.CurrentScore.Seconds = elapsed
}

func (s *Scoring) sync() {
	if s.history.CurrentScore != nil {
		s.history.CurrentScore.Score = s.CurrentScore
	}
}

// SaveEntries persists the finished round once. Later calls are no-ops.
func (s *Scoring) SaveEntries() error {
	if s.history.CurrentScore == nil || s.saved {
		return nil
	}

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return fmt.Errorf("could not load scores for saving: %w", err)
	}

	updatedEntries := make([]ScoreHistoryEntry, 0, len(allEntries)+1)
	updatedEntries = append(updatedEntries, allEntries...)
	updatedEntries = append(updatedEntries, *s.history.CurrentScore)

	if err := s.storage.SaveAll(updatedEntries); err != nil {
		return err
	}
	s.saved = true
	return nil
}

func (s *Scoring) GetHighScore() *ScoreHistoryEntry {
	return s.history.GetHighScoreEntry()
}

func (s *Scoring) GetAttempts() int {
	return s.history.Attempts
}

func (s *Scoring) GotHighScore() bool {
	return s.history.GotHighScore()
}

// GetNScoreEntries returns the best n earlier results for this deck.
func (s *Scoring) GetNScoreEntries(n int) []ScoreHistoryEntry {
	return s.history.GetNScoreEntries(n)
}

// BestTime is the fastest earlier win with this deck, or 0 if none.
func (s *Scoring) BestTime() float64 {
	return s.history.BestTime()
}

// getScoreTable returns the predefined values for different scoring events.
func getScoreTable() map[string]int {
	return map[string]int{
		"match":      100,
		"mismatch":   -20,
		"roundWin":   500,
		"secondLeft": 10,
	}
}

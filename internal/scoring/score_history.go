package scoring

import (
	"sort"
)

// ScoreHistory holds the earlier results for one deck and the result of the
// round in progress.
type ScoreHistory struct {
	Entries        []ScoreHistoryEntry
	HighScoreEntry *ScoreHistoryEntry
	CurrentScore   *ScoreHistoryEntry
	Attempts       int
}

// ScoreHistoryEntry is a single finished round.
type ScoreHistoryEntry struct {
	Hash      string  `json:"hash"`
	Score     int     `json:"score"`
	Timestamp string  `json:"timestamp"`
	Title     string  `json:"title"`
	Won       bool    `json:"won"`
	Turns     int     `json:"turns,omitempty"`
	Seconds   float64 `json:"seconds,omitempty"`
}

func (sh ScoreHistory) GetHighScoreEntry() *ScoreHistoryEntry {
	return sh.HighScoreEntry
}

// GetNScoreEntries returns the top N earlier entries sorted by score.
func (sh ScoreHistory) GetNScoreEntries(n int) []ScoreHistoryEntry {
	entriesCopy := make([]ScoreHistoryEntry, len(sh.Entries))
	copy(entriesCopy, sh.Entries)

	sort.Slice(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].Score > entriesCopy[j].Score
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotHighScore reports whether the current round matches or beats the best
// earlier score. With no history every score is a high score.
func (sh ScoreHistory) GotHighScore() bool {
	if sh.HighScoreEntry == nil || sh.CurrentScore == nil {
		return true
	}
	return sh.CurrentScore.Score >= sh.HighScoreEntry.Score
}

// BestTime is the shortest duration among earlier won rounds.
func (sh ScoreHistory) BestTime() float64 {
	best := 0.0
	for _, e := range sh.Entries {
		if !e.Won || e.Seconds <= 0 {
			continue
		}
		if best == 0 || e.Seconds < best {
			best = e.Seconds
		}
	}
	return best
}

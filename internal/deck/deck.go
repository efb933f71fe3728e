// Package deck defines the read-only card data a round is dealt from.
package deck

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrEmptyID     = errors.New("card has an empty id")
	ErrDuplicateID = errors.New("duplicate card id")
)

// Card is the identity and look of one card face.
type Card struct {
	ID   string
	Face string
	Tint string // hex colour, empty for the default tint
}

// Color parses Tint, falling back to def when it is empty or malformed.
func (c Card) Color(def colorful.Color) colorful.Color {
	if c.Tint == "" {
		return def
	}
	col, err := colorful.Hex(c.Tint)
	if err != nil {
		return def
	}
	return col
}

// Deck is an ordered set of unique cards.
type Deck struct {
	Name   string
	Source string
	Cards  []Card
}

// Validate reports the first empty or repeated id.
func (d Deck) Validate() error {
	seen := make(map[string]bool, len(d.Cards))
	for i, c := range d.Cards {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("card #%d: %w", i+1, ErrEmptyID)
		}
		if seen[c.ID] {
			return fmt.Errorf("%q: %w", c.ID, ErrDuplicateID)
		}
		seen[c.ID] = true
	}
	return nil
}

// Pairs is the number of pairs a round dealt from d contains. Every card is
// dealt twice, so a deck of N unique cards takes N matches to clear, not N/2.
func (d Deck) Pairs() int {
	return len(d.Cards)
}

// ShuffledPairs returns every card twice in Fisher-Yates order. A nil rng
// uses the package-level source.
func (d Deck) ShuffledPairs(rng *rand.Rand) []Card {
	out := make([]Card, 0, 2*len(d.Cards))
	out = append(out, d.Cards...)
	out = append(out, d.Cards...)

	for i := len(out) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Hash identifies the deck contents, independent of its name or source.
func (d Deck) Hash() string {
	h := sha256.New()
	for _, c := range d.Cards {
		fmt.Fprintf(h, "%s\x00%s\x00%s\n", c.ID, c.Face, c.Tint)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Default is the built-in deck used when no deck files are given.
func Default() Deck {
	return Deck{
		Name:   "Classic",
		Source: "built-in",
		Cards: []Card{
			{ID: "star", Face: "★", Tint: "#ffca3a"},
			{ID: "heart", Face: "♥", Tint: "#ff595e"},
			{ID: "spade", Face: "♠", Tint: "#c0c0c0"},
			{ID: "club", Face: "♣", Tint: "#8ac926"},
			{ID: "diamond", Face: "♦", Tint: "#ff924c"},
			{ID: "note", Face: "♪", Tint: "#1982c4"},
			{ID: "sun", Face: "☀", Tint: "#ffd166"},
			{ID: "moon", Face: "☾", Tint: "#6a4c93"},
		},
	}
}

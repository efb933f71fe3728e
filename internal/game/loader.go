package game

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go-match/internal/deck"
)

var separatorRe = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)

// LoadDecks loads decks from a list of paths (files or directories).
// Directories are read one level deep.
func LoadDecks(paths []string) ([]deck.Deck, error) {
	var decks []deck.Deck

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if !info.IsDir() {
			d, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			decks = append(decks, d...)
			continue
		}

		files, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
		}
		for _, entry := range files {
			if entry.IsDir() {
				continue
			}
			d, err := loadFile(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			decks = append(decks, d...)
		}
	}

	return decks, nil
}

// DefaultDeck is used when no deck paths are given.
func DefaultDeck() deck.Deck {
	return deck.Default()
}

func loadFile(path string) ([]deck.Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var contentBuilder strings.Builder
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		contentBuilder.WriteString(scanner.Text() + "\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan file %s: %w", path, err)
	}

	parts := separatorRe.Split(contentBuilder.String(), -1)

	var decks []deck.Deck
	for _, part := range parts {
		d, err := parseDeck(part)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(d.Cards) == 0 {
			continue
		}
		d.Source = path
		decks = append(decks, d)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range decks {
		if decks[i].Name != "" {
			continue
		}
		decks[i].Name = base
		if len(decks) > 1 {
			decks[i].Name = fmt.Sprintf("%s #%d", base, i+1)
		}
	}

	if len(decks) == 0 {
		log.Printf("loader: %s has no cards", path)
	}
	return decks, nil
}

// parseDeck reads one block. Each card line is `id [face] [#tint]`; a line
// starting with # is a comment and `name: ...` names the deck.
func parseDeck(block string) (deck.Deck, error) {
	var d deck.Deck
	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "name:"); ok {
			d.Name = strings.TrimSpace(rest)
			continue
		}

		fields := strings.Fields(line)
		c := deck.Card{ID: fields[0], Face: fields[0]}
		if len(fields) > 1 && strings.HasPrefix(fields[len(fields)-1], "#") {
			c.Tint = fields[len(fields)-1]
			fields = fields[:len(fields)-1]
		}
		if len(fields) > 1 {
			c.Face = strings.Join(fields[1:], " ")
		}
		d.Cards = append(d.Cards, c)
	}
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

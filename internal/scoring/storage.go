package scoring

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ScoreStorage defines the interface for loading and saving score data.
type ScoreStorage interface {
	// LoadAll loads all score entries from the persistence layer.
	LoadAll() ([]ScoreHistoryEntry, error)
	// SaveAll saves a slice of score entries to the persistence layer, overwriting existing data.
	SaveAll(entries []ScoreHistoryEntry) error
}

// JSONFileStorage keeps one JSON object per line in a file.
type JSONFileStorage struct {
	path string
}

// NewJSONFileStorage stores scores in ~/.config/go-match/scores.json.
func NewJSONFileStorage() (*JSONFileStorage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get user home directory: %w", err)
	}
	return NewJSONFileStorageAt(filepath.Join(homeDir, ".config", "go-match", "scores.json")), nil
}

// NewJSONFileStorageAt stores scores in the given file.
func NewJSONFileStorageAt(path string) *JSONFileStorage {
	return &JSONFileStorage{path: path}
}

// Path is the backing file.
func (jfs *JSONFileStorage) Path() string {
	return jfs.path
}

// LoadAll reads every entry. A missing file is an empty history.
func (jfs *JSONFileStorage) LoadAll() ([]ScoreHistoryEntry, error) {
	file, err := os.Open(jfs.path)
	if errors.Is(err, os.ErrNotExist) {
		return []ScoreHistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening scores file for reading: %w", err)
	}
	defer file.Close()

	entries := make([]ScoreHistoryEntry, 0)
	decoder := json.NewDecoder(file)
	for {
		var entry ScoreHistoryEntry
		err := decoder.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding JSON entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// SaveAll rewrites the file with entries.
func (jfs *JSONFileStorage) SaveAll(entries []ScoreHistoryEntry) error {
	if err := os.MkdirAll(filepath.Dir(jfs.path), 0755); err != nil {
		return fmt.Errorf("error creating scores directory: %w", err)
	}

	file, err := os.OpenFile(jfs.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening scores file for writing: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("error encoding JSON entry: %w", err)
		}
	}

	return writer.Flush()
}

// MemoryStorage keeps scores for the life of the process.
type MemoryStorage struct {
	Entries []ScoreHistoryEntry
}

func (m *MemoryStorage) LoadAll() ([]ScoreHistoryEntry, error) {
	return append([]ScoreHistoryEntry(nil), m.Entries...), nil
}

func (m *MemoryStorage) SaveAll(entries []ScoreHistoryEntry) error {
	m.Entries = append([]ScoreHistoryEntry(nil), entries...)
	return nil
}

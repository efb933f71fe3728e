package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"go-match/internal/audio"
	"go-match/internal/deck"
	"go-match/internal/game"
	"go-match/internal/match"
	"go-match/internal/scoring"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// parseTimer accepts "auto", "off", plain seconds or MM:SS.
func parseTimer(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "true":
		return -1, nil
	case "off", "false", "0":
		return 0, nil
	}

	if val, err := strconv.Atoi(s); err == nil && val > 0 {
		return float64(val), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		min, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil && min >= 0 && sec >= 0 && min*60+sec > 0 {
			return float64(min*60 + sec), nil
		}
	}

	return 0, fmt.Errorf("invalid timer format: %s (use 'auto', 'off', 'MM:SS' or seconds)", s)
}

func loadDecks(paths []string) ([]deck.Deck, error) {
	if len(paths) == 0 {
		return []deck.Deck{game.DefaultDeck()}, nil
	}
	decks, err := game.LoadDecks(paths)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, fmt.Errorf("no decks found in provided paths")
	}
	return decks, nil
}

func newCues(mute bool) match.Cues {
	if mute {
		return audio.Silent{}
	}
	player, err := audio.NewSpeakerCuePlayer()
	if err != nil {
		log.Printf("audio: falling back to silence: %v", err)
		return audio.Silent{}
	}
	return player
}

func newStorage(noSave bool) (scoring.ScoreStorage, error) {
	if noSave {
		return &scoring.MemoryStorage{}, nil
	}
	storage, err := scoring.NewJSONFileStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to create score storage: %w", err)
	}
	return storage, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String("log"); path != "" {
		f, err := tea.LogToFile(path, "go-match")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	timeLimit, err := parseTimer(cmd.String("timer"))
	if err != nil {
		return err
	}

	decks, err := loadDecks(cmd.Args().Slice())
	if err != nil {
		return err
	}

	storage, err := newStorage(cmd.Bool("no-save"))
	if err != nil {
		return err
	}

	opts := game.DefaultOptions()
	opts.Match.TimeLimit = timeLimit
	opts.TimeScale = cmd.Float("time-scale")
	opts.Seed = cmd.Int64("seed")

	sess, err := game.NewSession(decks, opts, game.Deps{
		Cues:    newCues(cmd.Bool("mute")),
		Storage: storage,
	}, cmd.Bool("random"))
	if err != nil {
		return err
	}

	m := newModel(sess)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running the program: %w", err)
	}

	switch {
	case sess.IsFinished():
		fmt.Printf("All decks cleared! Total score: %d\n", sess.TotalScore)
	case sess.IsSessionLoss():
		fmt.Println("Time's up! Better luck next time.")
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "go-match",
		Usage:     "a memory matching card game for the terminal",
		ArgsUsage: "[deck files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "timer",
				Aliases: []string{"t"},
				Value:   "auto",
				Usage:   "countdown per deck: auto, off, seconds or MM:SS",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "shuffle seed, 0 picks one from the clock",
			},
			&cli.FloatFlag{
				Name:  "time-scale",
				Value: 1,
				Usage: "speed of flips and confetti",
			},
			&cli.BoolFlag{
				Name:  "mute",
				Usage: "disable sound cues",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "do not record scores",
			},
			&cli.BoolFlag{
				Name:    "random",
				Aliases: []string{"rc"},
				Usage:   "randomize the order of decks",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "write debug logs to `FILE`",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

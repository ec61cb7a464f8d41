package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hailam/checkersplay/internal/storage"
)

// report prints what was asked for out of the game history: aggregate
// stats, the list of recorded games, and the moves of one game.
func report(w io.Writer, store *storage.Storage, stats, games bool, id string) error {
	if stats {
		if err := printStats(w, store); err != nil {
			return err
		}
	}
	if games {
		if err := printGames(w, store); err != nil {
			return err
		}
	}
	if id != "" {
		if err := printGame(w, store, id); err != nil {
			return err
		}
	}
	return nil
}

func printStats(w io.Writer, store *storage.Storage) error {
	s, err := store.LoadStats()
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	fmt.Fprintf(w, "games %d\n", s.GamesPlayed)
	fmt.Fprintf(w, "white wins %d black wins %d draws %d\n", s.WhiteWins, s.BlackWins, s.Draws)
	fmt.Fprintf(w, "white score %.1f%%\n", s.WhiteScore())
	fmt.Fprintf(w, "average turns %.1f longest %d\n", s.AverageTurns(), s.LongestGame)
	fmt.Fprintf(w, "play time %v\n", s.TotalPlayTime.Round(time.Second))
	return nil
}

func printGames(w io.Writer, store *storage.Storage) error {
	games, err := store.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(w, "no games recorded")
		return nil
	}
	for _, g := range games {
		fmt.Fprintf(w, "%s %s %s turns %d\n", g.ID, g.Played.Format(time.RFC3339), g.Result, g.Turns)
	}
	return nil
}

func printGame(w io.Writer, store *storage.Storage, id string) error {
	g, err := store.LoadGame(id)
	if err != nil {
		return fmt.Errorf("load game %s: %w", id, err)
	}
	fmt.Fprintf(w, "game %s\n", g.ID)
	fmt.Fprintf(w, "start %s\n", g.Start)
	fmt.Fprintf(w, "result %s turns %d time %v\n", g.Result, g.Turns, g.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "moves %s\n", strings.Join(g.Moves, " "))
	return nil
}

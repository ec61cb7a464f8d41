package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/checkersplay/internal/config"
	"github.com/hailam/checkersplay/internal/storage"
)

func TestResolveConfigPath(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skipf("data dir is not relocatable on %s", runtime.GOOS)
	}
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if got, err := resolveConfigPath("custom.yaml"); err != nil || got != "custom.yaml" {
		t.Errorf("explicit flag: got %q, %v", got, err)
	}
	if got, err := resolveConfigPath(""); err != nil || got != "" {
		t.Errorf("no settings file: got %q, %v; want empty", got, err)
	}

	want, err := storage.GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(want, []byte("game:\n  max_turns: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := resolveConfigPath("")
	if err != nil || got != want {
		t.Fatalf("got %q, %v; want %q", got, err, want)
	}
	if filepath.Base(got) != "settings.yaml" {
		t.Errorf("settings file = %q", got)
	}

	cfg, err := config.Load(got)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.MaxTurns != 50 {
		t.Errorf("max_turns = %d, want 50 from the data dir settings", cfg.Game.MaxTurns)
	}
}

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.NewMemoryStorage(nil)
	if err != nil {
		t.Fatalf("NewMemoryStorage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReport(t *testing.T) {
	store := newTestStore(t)
	played := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := store.RecordGame(storage.GameRecord{
		Start:    "8/8/8/8/3w4/8/8/8",
		Moves:    []string{"c3-d4", "f6-e5", "d4xf6"},
		Result:   storage.ResultWhiteWins,
		Turns:    40,
		Played:   played,
		Duration: time.Minute,
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.RecordGame(storage.GameRecord{
		Result:   storage.ResultDraw,
		Turns:    120,
		Played:   played.Add(time.Hour),
		Duration: 2 * time.Minute,
	})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := report(&out, store, true, true, first); err != nil {
		t.Fatalf("report: %v", err)
	}
	want := []string{
		"games 2",
		"white wins 1 black wins 0 draws 1",
		"white score 75.0%",
		"average turns 80.0 longest 120",
		"play time 3m0s",
		first + " 2024-03-01T12:00:00Z white wins turns 40",
		second + " 2024-03-01T13:00:00Z draw turns 120",
		"game " + first,
		"start 8/8/8/8/3w4/8/8/8",
		"result white wins turns 40 time 1m0s",
		"moves c3-d4 f6-e5 d4xf6",
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestReportEmpty(t *testing.T) {
	store := newTestStore(t)

	var out bytes.Buffer
	if err := report(&out, store, false, true, ""); err != nil {
		t.Fatalf("report: %v", err)
	}
	if got := out.String(); got != "no games recorded\n" {
		t.Errorf("got %q", got)
	}

	out.Reset()
	if err := report(&out, store, true, false, ""); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.HasPrefix(out.String(), "games 0\n") {
		t.Errorf("got %q", out.String())
	}
}

func TestReportUnknownGame(t *testing.T) {
	store := newTestStore(t)
	err := report(&bytes.Buffer{}, store, false, false, "nope")
	if !errors.Is(err, storage.ErrGameNotFound) {
		t.Errorf("got %v, want ErrGameNotFound", err)
	}
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gamePrefix     = "game/"
)

// ErrGameNotFound is returned when no record exists for a game ID.
var ErrGameNotFound = errors.New("game not found")

// Result is the outcome of a finished game.
type Result string

const (
	ResultWhiteWins Result = "white wins"
	ResultBlackWins Result = "black wins"
	ResultDraw      Result = "draw"
)

// Preferences stores the bot setup of the last session.
type Preferences struct {
	WhiteBot      bool      `json:"white_bot"`
	BlackBot      bool      `json:"black_bot"`
	WhiteBotLevel int       `json:"white_bot_level"`
	BlackBotLevel int       `json:"black_bot_level"`
	Scoring       string    `json:"scoring"`
	Optimization  string    `json:"optimization"`
	LastPlayed    time.Time `json:"last_played"`
}

// DefaultPreferences returns a human playing White against a medium bot.
func DefaultPreferences() *Preferences {
	return &Preferences{
		BlackBot:      true,
		WhiteBotLevel: 3,
		BlackBotLevel: 3,
		Scoring:       "NumberAndPotential",
		Optimization:  "O1",
		LastPlayed:    time.Now(),
	}
}

// GameStats stores aggregate statistics over all recorded games.
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	WhiteWins     int           `json:"white_wins"`
	BlackWins     int           `json:"black_wins"`
	Draws         int           `json:"draws"`
	TotalTurns    int           `json:"total_turns"`
	LongestGame   int           `json:"longest_game"`
	TotalPlayTime time.Duration `json:"total_play_time"`
}

// AverageTurns returns the mean game length in turns.
func (s *GameStats) AverageTurns() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.GamesPlayed)
}

// WhiteScore returns White's score as a percentage (0-100), a draw
// counting half.
func (s *GameStats) WhiteScore() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return (float64(s.WhiteWins) + float64(s.Draws)/2) / float64(s.GamesPlayed) * 100
}

// GameRecord is a finished game.
type GameRecord struct {
	ID       string        `json:"id"`
	Start    string        `json:"start"`
	Moves    []string      `json:"moves"`
	Result   Result        `json:"result"`
	Turns    int           `json:"turns"`
	Played   time.Time     `json:"played"`
	Duration time.Duration `json:"duration"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log *zap.Logger
}

// NewStorage opens the database in dir, or in the platform data directory
// when dir is empty.
func NewStorage(dir string, log *zap.Logger) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}
	return open(badger.DefaultOptions(dir), log)
}

// NewMemoryStorage opens a database that lives only in memory.
func NewMemoryStorage(log *zap.Logger) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), log)
}

func open(opts badger.Options, log *zap.Logger) (*Storage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts.Logger = badgerLogger{log.Named("badger").Sugar()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("database opened", zap.String("dir", opts.Dir), zap.Bool("in_memory", opts.InMemory))
	return &Storage{db: db, log: log}, nil
}

// badgerLogger routes badger's log output through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves the bot preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyPreferences, prefs)
	})
}

// LoadPreferences loads the bot preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyPreferences, prefs)
		return err
	})
	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyStats, stats)
		return err
	})
	return stats, err
}

// RecordGame stores a finished game under a fresh ID and folds it into the
// statistics in the same transaction. The ID is returned.
func (s *Storage) RecordGame(rec GameRecord) (string, error) {
	switch rec.Result {
	case ResultWhiteWins, ResultBlackWins, ResultDraw:
	default:
		return "", fmt.Errorf("record game: unknown result %q", rec.Result)
	}

	rec.ID = uuid.NewString()
	if rec.Played.IsZero() {
		rec.Played = time.Now()
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		stats := &GameStats{}
		if _, err := getJSON(txn, keyStats, stats); err != nil {
			return err
		}

		stats.GamesPlayed++
		stats.TotalTurns += rec.Turns
		stats.TotalPlayTime += rec.Duration
		if rec.Turns > stats.LongestGame {
			stats.LongestGame = rec.Turns
		}
		switch rec.Result {
		case ResultWhiteWins:
			stats.WhiteWins++
		case ResultBlackWins:
			stats.BlackWins++
		default:
			stats.Draws++
		}

		if err := setJSON(txn, gamePrefix+rec.ID, &rec); err != nil {
			return err
		}
		return setJSON(txn, keyStats, stats)
	})
	if err != nil {
		return "", fmt.Errorf("record game: %w", err)
	}

	s.log.Info("game recorded",
		zap.String("id", rec.ID),
		zap.String("result", string(rec.Result)),
		zap.Int("turns", rec.Turns),
	)
	return rec.ID, nil
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	rec := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		found, err := getJSON(txn, gamePrefix+id, rec)
		if err == nil && !found {
			err = fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns every recorded game, oldest first.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Played.Before(games[j].Played)
	})
	return games, nil
}

func setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// getJSON decodes the value under key into v. A missing key leaves v
// untouched and reports false.
func getJSON(txn *badger.Txn, key string, v interface{}) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

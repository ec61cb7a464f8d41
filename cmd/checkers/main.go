package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/config"
	"github.com/hailam/checkersplay/internal/engine"
	"github.com/hailam/checkersplay/internal/game"
	"github.com/hailam/checkersplay/internal/protocol"
	"github.com/hailam/checkersplay/internal/storage"
)

var (
	configPath = flag.String("config", "", "settings file, yaml, json or toml (default: settings.yaml in the data dir)")
	dbDir      = flag.String("db", "", "database directory (default: platform data dir)")
	selfplay   = flag.Bool("selfplay", false, "let the engine play both sides and exit")
	debug      = flag.Bool("debug", false, "enable debug logging")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	showStats  = flag.Bool("stats", false, "print statistics of recorded games and exit")
	listGames  = flag.Bool("games", false, "list recorded games and exit")
	gameID     = flag.String("game", "", "print the moves of a recorded game and exit")
)

func main() {
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("checkers failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	newFn := zap.NewProduction
	if debug {
		newFn = zap.NewDevelopment
	}
	logger, err := newFn()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger
}

func run(logger *zap.Logger) error {
	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("cpu profiling enabled", zap.String("path", profilePath))
	}

	cfgFile, err := resolveConfigPath(*configPath)
	if err != nil {
		logger.Warn("settings file lookup failed, using defaults", zap.Error(err))
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if *showStats || *listGames || *gameID != "" {
		store, err := storage.NewStorage(*dbDir, logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer store.Close()
		return report(os.Stdout, store, *showStats, *listGames, *gameID)
	}

	// Games are still playable without a database.
	store, err := storage.NewStorage(*dbDir, logger)
	if err != nil {
		logger.Warn("storage unavailable, games will not be recorded", zap.Error(err))
		store = nil
	} else {
		defer store.Close()
		if err := savePreferences(store, cfg, logger); err != nil {
			logger.Warn("saving preferences failed", zap.Error(err))
		}
	}

	eng := engine.NewEngine(cfg.EngineOptions(logger))
	settings := cfg.GameSettings()
	if *selfplay {
		settings.Bots = [2]bool{true, true}
	}
	g := game.New(eng, settings, logger)

	if *selfplay {
		st, err := g.PlayOut()
		if err != nil {
			return err
		}
		fmt.Println(board.FormatMoves(g.Moves()))
		fmt.Println(st)
	} else {
		p := protocol.New(eng, g, os.Stdout, logger)
		if err := p.Run(os.Stdin); err != nil {
			return err
		}
	}

	if store != nil {
		recordGame(store, g, logger)
	}
	return nil
}

// resolveConfigPath returns the settings file to load: the -config flag
// if given, else settings.yaml in the data directory when it exists. An
// empty result means defaults and environment only.
func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	path, ok, err := storage.FindConfigFile()
	if err != nil || !ok {
		return "", err
	}
	return path, nil
}

// savePreferences stores the bot setup of this session.
func savePreferences(store *storage.Storage, cfg *config.Config, logger *zap.Logger) error {
	first, err := store.IsFirstLaunch()
	if err != nil {
		return err
	}
	if first {
		logger.Info("first launch", zap.String("config", *configPath))
		if err := store.MarkFirstLaunchComplete(); err != nil {
			return err
		}
	} else if prev, err := store.LoadPreferences(); err == nil {
		logger.Debug("previous session", zap.Time("last_played", prev.LastPlayed))
	}

	return store.SavePreferences(&storage.Preferences{
		WhiteBot:      cfg.Bot.IsWhiteBot,
		BlackBot:      cfg.Bot.IsBlackBot,
		WhiteBotLevel: cfg.Bot.WhiteBotLevel,
		BlackBotLevel: cfg.Bot.BlackBotLevel,
		Scoring:       cfg.Bot.Scoring,
		Optimization:  cfg.Bot.Optimization,
	})
}

// recordGame stores the game if it reached a result.
func recordGame(store *storage.Storage, g *game.Game, logger *zap.Logger) {
	var result storage.Result
	switch g.Status() {
	case game.WhiteWins:
		result = storage.ResultWhiteWins
	case game.BlackWins:
		result = storage.ResultBlackWins
	case game.Draw:
		result = storage.ResultDraw
	default:
		return
	}

	moves := make([]string, 0, len(g.Moves()))
	for _, m := range g.Moves() {
		moves = append(moves, m.String())
	}

	_, err := store.RecordGame(storage.GameRecord{
		Start:    g.StartPosition().Notation(),
		Moves:    moves,
		Result:   result,
		Turns:    g.Turn(),
		Duration: g.Elapsed(),
	})
	if err != nil {
		logger.Warn("recording game failed", zap.Error(err))
	}
}

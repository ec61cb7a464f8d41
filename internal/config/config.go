// Package config loads bot and game settings from a config file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/engine"
	"github.com/hailam/checkersplay/internal/game"
)

// ErrInvalidConfig indicates a setting outside its allowed values.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. CHECKERS_BOT_WHITE_BOT_LEVEL.
const EnvPrefix = "CHECKERS"

type Config struct {
	Bot  BotConfig  `mapstructure:"bot"`
	Game GameConfig `mapstructure:"game"`
}

type BotConfig struct {
	IsWhiteBot    bool   `mapstructure:"is_white_bot"`
	IsBlackBot    bool   `mapstructure:"is_black_bot"`
	WhiteBotLevel int    `mapstructure:"white_bot_level"`
	BlackBotLevel int    `mapstructure:"black_bot_level"`
	Scoring       string `mapstructure:"scoring"`
	Optimization  string `mapstructure:"optimization"`
	NoRandom      bool   `mapstructure:"no_random"`
	Seed          int64  `mapstructure:"seed"`
	DelayMS       int    `mapstructure:"delay_ms"`
}

type GameConfig struct {
	MaxTurns int `mapstructure:"max_turns"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.is_white_bot", false)
	v.SetDefault("bot.is_black_bot", true)
	v.SetDefault("bot.white_bot_level", 3)
	v.SetDefault("bot.black_bot_level", 3)
	v.SetDefault("bot.scoring", string(engine.NumberAndPotential))
	v.SetDefault("bot.optimization", string(engine.O1))
	v.SetDefault("bot.no_random", false)
	v.SetDefault("bot.seed", 0)
	v.SetDefault("bot.delay_ms", 0)
	v.SetDefault("game.max_turns", 120)
}

// Load reads settings from cfgPath (any format viper understands) on top
// of the defaults, then applies environment overrides. An empty path
// skips the file.
func Load(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Bot.WhiteBotLevel <= 0 {
		return fmt.Errorf("%w: white_bot_level must be positive, got %d", ErrInvalidConfig, c.Bot.WhiteBotLevel)
	}
	if c.Bot.BlackBotLevel <= 0 {
		return fmt.Errorf("%w: black_bot_level must be positive, got %d", ErrInvalidConfig, c.Bot.BlackBotLevel)
	}
	if _, err := engine.ParseScoringMode(c.Bot.Scoring); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Bot.Optimization == "" {
		return fmt.Errorf("%w: optimization is empty", ErrInvalidConfig)
	}
	if c.Bot.DelayMS < 0 {
		return fmt.Errorf("%w: delay_ms must not be negative", ErrInvalidConfig)
	}
	if c.Game.MaxTurns < 0 {
		return fmt.Errorf("%w: max_turns must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Limits returns the search limits of color c's bot.
func (c *Config) Limits(color board.Color) engine.SearchLimits {
	depth := c.Bot.WhiteBotLevel
	if color == board.Black {
		depth = c.Bot.BlackBotLevel
	}
	return engine.SearchLimits{
		MaxDepth:     depth,
		Optimization: engine.Optimization(c.Bot.Optimization),
		Scoring:      engine.ScoringMode(c.Bot.Scoring),
	}
}

// EngineOptions builds engine options. The default limits are White's.
func (c *Config) EngineOptions(log *zap.Logger) engine.Options {
	opts := engine.DefaultOptions()
	opts.Limits = c.Limits(board.White)
	opts.Randomize = !c.Bot.NoRandom
	opts.Seed = c.Bot.Seed
	opts.Logger = log
	return opts
}

// GameSettings builds the settings of a game.
func (c *Config) GameSettings() game.Settings {
	return game.Settings{
		MaxTurns: c.Game.MaxTurns,
		Bots:     [2]bool{c.Bot.IsWhiteBot, c.Bot.IsBlackBot},
		Limits:   [2]engine.SearchLimits{c.Limits(board.White), c.Limits(board.Black)},
		BotDelay: time.Duration(c.Bot.DelayMS) * time.Millisecond,
	}
}

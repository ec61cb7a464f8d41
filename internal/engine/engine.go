package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/checkersplay/internal/board"
)

var (
	// ErrInvalidDepth is returned when a search is requested with a
	// non-positive depth limit.
	ErrInvalidDepth = errors.New("search depth must be positive")

	// ErrEmptySquare is returned when single-piece generation is asked
	// for a square that holds no piece.
	ErrEmptySquare = errors.New("no piece on square")
)

// Optimization selects whether alpha-beta cutoffs are taken.
type Optimization string

const (
	// O0 disables pruning. The search explores the full tree and must
	// reach the same root score as the pruned search.
	O0 Optimization = "O0"
	// O1 enables alpha-beta pruning. Any value other than O0 behaves the same.
	O1 Optimization = "O1"
)

// Prunes reports whether cutoffs are enabled.
func (o Optimization) Prunes() bool {
	return o != O0
}

// ScoringMode selects the evaluator weighting.
type ScoringMode string

const (
	// Number counts material only, queens weighted 4.
	Number ScoringMode = "Number"
	// NumberAndPotential adds a bonus for advanced men, queens weighted 5.
	NumberAndPotential ScoringMode = "NumberAndPotential"
)

// ParseScoringMode validates a scoring mode name.
func ParseScoringMode(s string) (ScoringMode, error) {
	switch ScoringMode(s) {
	case Number, NumberAndPotential:
		return ScoringMode(s), nil
	}
	return "", fmt.Errorf("unknown scoring mode %q", s)
}

// SearchLimits configures one search.
type SearchLimits struct {
	MaxDepth     int
	Optimization Optimization
	Scoring      ScoringMode
}

// Difficulty represents the bot strength.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// String returns the lower-case name of the difficulty.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {MaxDepth: 1, Optimization: O1, Scoring: Number},
	Medium: {MaxDepth: 3, Optimization: O1, Scoring: NumberAndPotential},
	Hard:   {MaxDepth: 5, Optimization: O1, Scoring: NumberAndPotential},
}

// Result describes a finished search.
type Result struct {
	Moves []board.Move
	// Score is Infinity when the side to move has no legal move.
	Score    float64
	Nodes    uint64
	Duration time.Duration
}

// Options configures a new Engine.
type Options struct {
	Limits SearchLimits

	// Randomize seeds the move-order shuffle from the clock. When false the
	// shuffle is seeded with Seed and results are reproducible.
	Randomize bool
	Seed      int64

	Logger *zap.Logger
}

// DefaultOptions returns the options of a Medium bot with a random shuffle.
func DefaultOptions() Options {
	return Options{
		Limits:    DifficultySettings[Medium],
		Randomize: true,
	}
}

// Engine is the checkers rules and decision engine.
//
// An Engine is not safe for concurrent use: move generation advances its
// shuffle generator. Callers must serialize calls.
type Engine struct {
	limits SearchLimits
	rng    *rand.Rand
	log    *zap.Logger

	// Callbacks
	OnResult func(Result)
}

// NewEngine creates an engine.
func NewEngine(opts Options) *Engine {
	seed := opts.Seed
	if opts.Randomize {
		seed = time.Now().UnixNano()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		limits: opts.Limits,
		rng:    rand.New(rand.NewSource(seed)),
		log:    log,
	}
}

// Limits returns the default search limits.
func (e *Engine) Limits() SearchLimits {
	return e.limits
}

// SetLimits replaces the default search limits.
func (e *Engine) SetLimits(l SearchLimits) {
	e.limits = l
}

// SetDifficulty sets the default search limits from a difficulty level.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.limits = DifficultySettings[d]
}

// LegalMoves returns every legal move for color c in shuffled order and
// whether they are captures.
func (e *Engine) LegalMoves(b board.Board, c board.Color) ([]board.Move, bool) {
	moves, captures := b.GenerateMoves(c)
	e.shuffle(moves)
	return moves, captures
}

// LegalMovesFrom returns the legal moves of the piece on sq in shuffled
// order. Asking for an empty or off-board square is a caller error.
func (e *Engine) LegalMovesFrom(b board.Board, sq board.Square) ([]board.Move, bool, error) {
	if b.At(sq) == board.Empty {
		return nil, false, fmt.Errorf("%w: %v", ErrEmptySquare, sq)
	}
	moves, captures := b.PieceMoves(sq)
	e.shuffle(moves)
	return moves, captures, nil
}

func (e *Engine) shuffle(moves []board.Move) {
	e.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
}

// BestTurn returns the turn the bot should play for color c with the
// default limits: one move, or a capture chain in playing order. An empty
// slice means c has no legal move.
func (e *Engine) BestTurn(b board.Board, c board.Color) ([]board.Move, error) {
	res, err := e.Search(b, c, e.limits)
	if err != nil {
		return nil, err
	}
	return res.Moves, nil
}

// Search runs a full search with explicit limits.
func (e *Engine) Search(b board.Board, c board.Color, limits SearchLimits) (Result, error) {
	if limits.MaxDepth <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidDepth, limits.MaxDepth)
	}

	start := time.Now()
	s := newSearcher(e, c, limits)
	score, line := s.root(b, board.NoSquare, posInf)
	if math.IsInf(score, 1) {
		score = Infinity
	}

	res := Result{
		Moves:    line,
		Score:    score,
		Nodes:    s.nodes,
		Duration: time.Since(start),
	}
	e.log.Debug("search finished",
		zap.Stringer("color", c),
		zap.Int("depth", limits.MaxDepth),
		zap.String("optimization", string(limits.Optimization)),
		zap.String("turn", board.FormatMoves(line)),
		zap.Float64("score", score),
		zap.Uint64("nodes", s.nodes),
		zap.Duration("elapsed", res.Duration),
	)
	if e.OnResult != nil {
		e.OnResult(res)
	}
	return res, nil
}

// Evaluate returns the static evaluation of b for color c with the
// default scoring mode.
func (e *Engine) Evaluate(b board.Board, c board.Color) float64 {
	return Evaluate(b, c, e.limits.Scoring)
}

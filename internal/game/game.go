// Package game drives a checkers game: it keeps the live board, validates
// human moves against the rules engine, runs bot turns and decides the result.
package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/engine"
)

var (
	// ErrIllegalMove is returned when a move is not in the legal set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameOver is returned when a move is played after the game ended.
	ErrGameOver = errors.New("game is over")
)

// Status is the state of a game.
type Status int

const (
	InProgress Status = iota
	WhiteWins
	BlackWins
	Draw
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case WhiteWins:
		return "white wins"
	case BlackWins:
		return "black wins"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// winner maps a color to its winning status.
func winner(c board.Color) Status {
	if c == board.White {
		return WhiteWins
	}
	return BlackWins
}

// Settings configures a game.
type Settings struct {
	// MaxTurns ends the game in a draw once reached. Zero means no limit.
	MaxTurns int

	// Bots marks which colors are played by the engine.
	Bots [2]bool

	// Limits holds the search limits of each color's bot.
	Limits [2]engine.SearchLimits

	// BotDelay is the pause before each move of a bot turn. The first
	// pause overlaps the search.
	BotDelay time.Duration
}

// Game is a single checkers game.
type Game struct {
	engine   *engine.Engine
	settings Settings
	log      *zap.Logger

	start      board.Board
	board      board.Board
	toMove     board.Color
	turn       int
	beatSeries int
	chain      board.Square // piece in the middle of a capture chain
	played     []board.Move
	started    time.Time
}

// New creates a game from the starting position with White to move.
func New(eng *engine.Engine, settings Settings, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{engine: eng, settings: settings, log: log}
	g.Reset(board.New(), board.White)
	return g
}

// Reset starts over from b with c to move.
func (g *Game) Reset(b board.Board, c board.Color) {
	g.start = b
	g.board = b
	g.toMove = c
	g.turn = 0
	g.beatSeries = 0
	g.chain = board.NoSquare
	g.played = nil
	g.started = time.Now()
}

// Board returns a snapshot of the live board.
func (g *Game) Board() board.Board {
	return g.board
}

// StartPosition returns the position the game was reset to.
func (g *Game) StartPosition() board.Board {
	return g.start
}

// SideToMove returns the color whose turn it is.
func (g *Game) SideToMove() board.Color {
	return g.toMove
}

// Turn returns the number of completed turns.
func (g *Game) Turn() int {
	return g.turn
}

// BeatSeries returns the number of captures made so far in the current turn.
func (g *Game) BeatSeries() int {
	return g.beatSeries
}

// InChain reports whether the side to move must continue a capture chain
// and with which piece.
func (g *Game) InChain() (board.Square, bool) {
	return g.chain, g.chain != board.NoSquare
}

// Moves returns every move played so far.
func (g *Game) Moves() []board.Move {
	return append([]board.Move(nil), g.played...)
}

// Settings returns the game settings.
func (g *Game) Settings() Settings {
	return g.settings
}

// SetSettings replaces the game settings.
func (g *Game) SetSettings(s Settings) {
	g.settings = s
}

// IsBot reports whether color c is played by the engine.
func (g *Game) IsBot(c board.Color) bool {
	return g.settings.Bots[c]
}

// LegalMoves returns the moves the side to move may play now. In the
// middle of a capture chain only the chain piece's captures are legal.
func (g *Game) LegalMoves() ([]board.Move, bool) {
	if g.chain != board.NoSquare {
		moves, captures, err := g.engine.LegalMovesFrom(g.board, g.chain)
		if err != nil {
			// The chain square always holds the moving piece.
			panic(err)
		}
		return moves, captures
	}
	return g.engine.LegalMoves(g.board, g.toMove)
}

// Status reports whether the game is over. A side that cannot move loses.
func (g *Game) Status() Status {
	if g.chain != board.NoSquare {
		return InProgress
	}
	if g.settings.MaxTurns > 0 && g.turn >= g.settings.MaxTurns {
		return Draw
	}
	if !g.board.HasMoves(g.toMove) {
		return winner(g.toMove.Other())
	}
	return InProgress
}

// Play applies one move for the side to move. Only the endpoints of m are
// compared, so a move parsed from notation is accepted. The legal version
// of the move, with its captured square, is returned. After a capture the
// same side keeps moving while the piece can capture again.
func (g *Game) Play(m board.Move) (board.Move, error) {
	if st := g.Status(); st != InProgress {
		return board.Move{}, fmt.Errorf("%w: %s", ErrGameOver, st)
	}

	legal, _ := g.LegalMoves()
	move, ok := board.FindMove(legal, m)
	if !ok {
		return board.Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	g.board = g.board.Apply(move)
	g.played = append(g.played, move)

	if move.IsCapture() {
		g.beatSeries++
		if _, more := g.board.PieceMoves(move.To); more {
			g.chain = move.To
			return move, nil
		}
	}
	g.endTurn()
	return move, nil
}

func (g *Game) endTurn() {
	g.chain = board.NoSquare
	g.beatSeries = 0
	g.toMove = g.toMove.Other()
	g.turn++
}

// BotTurn lets the engine play the whole turn of the side to move and
// returns the moves played. When BotDelay is set every move of the turn,
// each step of a capture chain included, waits that long before it is
// played. The first wait runs alongside the search.
func (g *Game) BotTurn() ([]board.Move, error) {
	if st := g.Status(); st != InProgress {
		return nil, fmt.Errorf("%w: %s", ErrGameOver, st)
	}
	if g.chain != board.NoSquare {
		return nil, fmt.Errorf("%w: capture chain in progress on %s", ErrIllegalMove, g.chain)
	}

	start := time.Now()
	var delay <-chan time.Time
	if g.settings.BotDelay > 0 {
		delay = time.After(g.settings.BotDelay)
	}

	color := g.toMove
	res, err := g.engine.Search(g.board, color, g.settings.Limits[color])
	if err != nil {
		return nil, err
	}
	if delay != nil {
		<-delay
	}

	played := make([]board.Move, 0, len(res.Moves))
	for i, m := range res.Moves {
		if i > 0 && g.settings.BotDelay > 0 {
			time.Sleep(g.settings.BotDelay)
		}
		move, err := g.Play(m)
		if err != nil {
			return played, fmt.Errorf("engine turn %s: %w", board.FormatMoves(res.Moves), err)
		}
		played = append(played, move)
	}

	g.log.Info("bot turn",
		zap.Stringer("color", color),
		zap.Int("turn", g.turn),
		zap.String("moves", board.FormatMoves(played)),
		zap.Float64("score", res.Score),
		zap.Uint64("nodes", res.Nodes),
		zap.Duration("elapsed", time.Since(start)),
	)
	return played, nil
}

// PlayOut lets the engine play both sides until the game ends.
func (g *Game) PlayOut() (Status, error) {
	for g.Status() == InProgress {
		if _, err := g.BotTurn(); err != nil {
			return g.Status(), err
		}
	}
	st := g.Status()
	g.log.Info("game finished",
		zap.Stringer("result", st),
		zap.Int("turns", g.turn),
		zap.Duration("elapsed", time.Since(g.started)),
	)
	return st, nil
}

// Elapsed returns the time since the game started.
func (g *Game) Elapsed() time.Duration {
	return time.Since(g.started)
}

package engine

import (
	"math"

	"github.com/hailam/checkersplay/internal/board"
)

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

// searcher holds the state of one Search call. It is created fresh for
// every call, so nothing leaks between searches.
//
// Scores follow Evaluate: they are computed for the root color and lower
// is better for it. Depth counts turns after the root turn; at even depths
// the opponent moves and maximizes, at odd depths the root color moves
// and minimizes.
type searcher struct {
	e      *Engine
	color  board.Color
	limits SearchLimits
	nodes  uint64
}

func newSearcher(e *Engine, c board.Color, limits SearchLimits) *searcher {
	return &searcher{e: e, color: c, limits: limits}
}

// root searches the root color's own turn. With from == NoSquare it picks
// among all legal moves; otherwise it continues the capture chain of the
// piece on from. It returns the best score and the moves that reach it,
// starting with the move played from b. bound is the score the caller
// already has; the opponent's search may stop once it proves a reply
// that is at least that bad.
func (s *searcher) root(b board.Board, from board.Square, bound float64) (float64, []board.Move) {
	s.nodes++

	var moves []board.Move
	var captures bool
	if from == board.NoSquare {
		moves, captures = s.e.LegalMoves(b, s.color)
	} else {
		moves, captures = s.pieceMoves(b, from)
		if !captures {
			// Chain is over, the opponent replies.
			return s.minimax(b, s.color.Other(), 0, negInf, bound, board.NoSquare), nil
		}
	}

	best := posInf
	var line []board.Move
	for _, m := range moves {
		next := b.Apply(m)
		var score float64
		var cont []board.Move
		if captures {
			score, cont = s.root(next, m.To, math.Min(bound, best))
		} else {
			score = s.minimax(next, s.color.Other(), 0, negInf, math.Min(bound, best), board.NoSquare)
		}

		// Strictly lower only: the first of equally scored moves wins,
		// and the shuffle decides which one comes first.
		if score < best {
			best = score
			line = append([]board.Move{m}, cont...)
		}
	}
	return best, line
}

// minimax is the depth-limited alpha-beta search below the root turn.
// When from is a square, c is in the middle of a capture chain with the
// piece standing there.
func (s *searcher) minimax(b board.Board, c board.Color, depth int, alpha, beta float64, from board.Square) float64 {
	s.nodes++

	if depth == s.limits.MaxDepth {
		return Evaluate(b, s.color, s.limits.Scoring)
	}

	var moves []board.Move
	var captures bool
	if from != board.NoSquare {
		moves, captures = s.pieceMoves(b, from)
		if !captures {
			return s.minimax(b, c.Other(), depth+1, alpha, beta, board.NoSquare)
		}
	} else {
		moves, captures = s.e.LegalMoves(b, c)
	}

	maximizing := depth%2 == 0
	if len(moves) == 0 {
		// The side to move is stuck and loses.
		if maximizing {
			return 0
		}
		return Infinity
	}

	minScore, maxScore := posInf, negInf
	for _, m := range moves {
		var score float64
		if captures {
			score = s.minimax(b.Apply(m), c, depth, alpha, beta, m.To)
		} else {
			score = s.minimax(b.Apply(m), c.Other(), depth+1, alpha, beta, board.NoSquare)
		}

		minScore = math.Min(minScore, score)
		maxScore = math.Max(maxScore, score)
		if maximizing {
			alpha = math.Max(alpha, maxScore)
		} else {
			beta = math.Min(beta, minScore)
		}

		if s.limits.Optimization.Prunes() && alpha >= beta {
			break
		}
	}

	if maximizing {
		return maxScore
	}
	return minScore
}

// pieceMoves continues a capture chain. The piece is known to exist, so
// the unchecked generator is used and the result is shuffled.
func (s *searcher) pieceMoves(b board.Board, sq board.Square) ([]board.Move, bool) {
	moves, captures := b.PieceMoves(sq)
	s.e.shuffle(moves)
	return moves, captures
}

package board

import (
	"fmt"
	"strings"
)

// Move is a single step of a turn: a piece travels from From to To and,
// for a capture, removes the piece standing on Captured.
type Move struct {
	From     Square
	To       Square
	Captured Square
}

// NewMove creates a quiet move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Captured: NoSquare}
}

// NewCapture creates a capturing move.
func NewCapture(from, to, captured Square) Move {
	return Move{From: from, To: to, Captured: captured}
}

// IsCapture returns true if this move removes an opposing piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoSquare
}

// Equal compares origin and destination only. Two moves reaching the same
// cell from the same cell are the same move regardless of capture data.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// String returns the move in notation: "c3-d4" for a quiet move and
// "c3xe5" for a capture.
func (m Move) String() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return m.From.String() + sep + m.To.String()
}

// ParseMove parses "c3-d4" or "c3xe5". The captured square is not part of
// the notation, so the result only carries endpoints; callers match it
// against generated moves with Equal.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || (s[2] != '-' && s[2] != 'x') {
		return Move{}, fmt.Errorf("%w: move %q", ErrInvalidNotation, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[3:5])
	if err != nil {
		return Move{}, err
	}
	return NewMove(from, to), nil
}

// FormatMoves joins moves with spaces.
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// FindMove returns the move in list whose endpoints equal m.
func FindMove(list []Move, m Move) (Move, bool) {
	for _, cand := range list {
		if cand.Equal(m) {
			return cand, true
		}
	}
	return Move{}, false
}

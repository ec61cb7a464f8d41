package board

import (
	"fmt"
	"strings"
)

// StartNotation is the notation of the starting position.
const StartNotation = "1b1b1b1b/b1b1b1b1/1b1b1b1b/8/8/w1w1w1w1/1w1w1w1w/w1w1w1w1"

// Parse reads a board from notation: eight '/'-separated rows, top row
// first, each made of piece characters (. w b W B) and digits 1-8 that
// stand for runs of empty cells. Pieces may only stand on dark cells.
func Parse(s string) (Board, error) {
	var b Board
	rows := strings.Split(strings.TrimSpace(s), "/")
	if len(rows) != Size {
		return b, fmt.Errorf("%w: need %d rows, got %d", ErrInvalidNotation, Size, len(rows))
	}

	for x, row := range rows {
		y := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			if y >= Size {
				return b, fmt.Errorf("%w: too many cells in row %d", ErrInvalidNotation, x)
			}
			if c >= '1' && c <= '8' {
				y += int(c - '0')
				continue
			}
			p, ok := PieceFromChar(c)
			if !ok {
				return b, fmt.Errorf("%w: invalid piece character %q", ErrInvalidNotation, c)
			}
			if p != Empty && !NewSquare(x, y).IsDark() {
				return b, fmt.Errorf("%w: piece on light cell %s", ErrInvalidNotation, NewSquare(x, y))
			}
			b[x][y] = p
			y++
		}
		if y != Size {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrInvalidNotation, x, y)
		}
	}
	return b, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Board {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Notation returns the compact notation accepted by Parse.
func (b Board) Notation() string {
	var sb strings.Builder
	for x := 0; x < Size; x++ {
		if x > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for y := 0; y < Size; y++ {
			p := b[x][y]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// ParseColor parses "w" / "b" (or the full names).
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return White, fmt.Errorf("%w: color %q", ErrInvalidNotation, s)
}

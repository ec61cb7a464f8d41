// Package board implements the checkers board, its piece encoding and
// the rules for generating and applying moves.
package board

import "fmt"

// Size is the number of rows and columns on the board.
const Size = 8

// Square addresses a board cell. X is the row (0 at the top, where white
// men promote) and Y is the column.
type Square struct {
	X, Y int
}

// NoSquare marks an absent coordinate, such as the captured cell of a quiet move.
var NoSquare = Square{-1, -1}

// NewSquare creates a square from row and column.
func NewSquare(x, y int) Square {
	return Square{X: x, Y: y}
}

// OnBoard reports whether the square lies inside the 8x8 grid.
func (sq Square) OnBoard() bool {
	return sq.X >= 0 && sq.X < Size && sq.Y >= 0 && sq.Y < Size
}

// Add returns the square offset by (dx, dy).
func (sq Square) Add(dx, dy int) Square {
	return Square{sq.X + dx, sq.Y + dy}
}

// IsDark reports whether the square is a playing cell.
func (sq Square) IsDark() bool {
	return (sq.X+sq.Y)%2 == 1
}

// String returns the algebraic name of the square (e.g. "c3").
// Columns map to files a-h, row 0 is rank 8.
func (sq Square) String() string {
	if !sq.OnBoard() {
		return "-"
	}
	return string([]byte{byte('a' + sq.Y), byte('0' + Size - sq.X)})
}

// ParseSquare parses an algebraic square name.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: square %q", ErrInvalidNotation, s)
	}
	file := s[0]
	rank := s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, fmt.Errorf("%w: square %q", ErrInvalidNotation, s)
	}
	return Square{X: Size - int(rank-'0'), Y: int(file - 'a')}, nil
}

// diagonals lists the four ray directions.
var diagonals = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

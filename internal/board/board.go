package board

import (
	"errors"
	"strings"
)

// ErrInvalidNotation is returned for malformed board, square or move text.
var ErrInvalidNotation = errors.New("invalid notation")

// Board is the 8x8 grid of piece codes, indexed [row][column].
// It is a value type: assignment and Apply produce independent snapshots.
type Board [Size][Size]Piece

// New returns the starting position. Black men fill rows 0-2 and white
// men rows 5-7, on dark cells only.
func New() Board {
	return MustParse(StartNotation)
}

// At returns the piece on sq, or Empty when sq is off the board.
func (b Board) At(sq Square) Piece {
	if !sq.OnBoard() {
		return Empty
	}
	return b[sq.X][sq.Y]
}

// Set places p on sq.
func (b *Board) Set(sq Square, p Piece) {
	b[sq.X][sq.Y] = p
}

// Count returns the number of men and queens of color c.
func (b Board) Count(c Color) (men, queens int) {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			p := b[x][y]
			if p == Empty || p.Color() != c {
				continue
			}
			if p.IsQueen() {
				queens++
			} else {
				men++
			}
		}
	}
	return men, queens
}

// Apply returns the board after m. The receiver is copied, never mutated:
// the captured cell is cleared, the piece is relocated and a man reaching
// its promotion row becomes a queen.
func (b Board) Apply(m Move) Board {
	if m.IsCapture() {
		b[m.Captured.X][m.Captured.Y] = Empty
	}
	p := b[m.From.X][m.From.Y]
	if p.IsMan() && m.To.X == p.Color().PromotionRow() {
		p = p.Promoted()
	}
	b[m.From.X][m.From.Y] = Empty
	b[m.To.X][m.To.Y] = p
	return b
}

// String returns a printable grid with rank and file labels.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for x := 0; x < Size; x++ {
		sb.WriteByte(byte('0' + Size - x))
		for y := 0; y < Size; y++ {
			sb.WriteByte(' ')
			sb.WriteByte(b[x][y].Char())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

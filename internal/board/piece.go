package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PromotionRow returns the row on which a man of this color becomes a queen.
func (c Color) PromotionRow() int {
	if c == White {
		return 0
	}
	return Size - 1
}

// Forward returns the row delta of a quiet man step for this color.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// Piece is the code stored in a board cell.
// Odd codes are white, even non-zero codes are black.
type Piece uint8

const (
	Empty Piece = iota
	WhiteMan
	BlackMan
	WhiteQueen
	BlackQueen
)

// Color returns the color of an occupied cell. The result is meaningless for Empty.
func (p Piece) Color() Color {
	if p%2 == 1 {
		return White
	}
	return Black
}

// IsQueen reports whether the piece is a promoted queen.
func (p Piece) IsQueen() bool {
	return p == WhiteQueen || p == BlackQueen
}

// IsMan reports whether the piece is an unpromoted man.
func (p Piece) IsMan() bool {
	return p == WhiteMan || p == BlackMan
}

// Promoted returns the queen code for a man; queens and Empty are unchanged.
func (p Piece) Promoted() Piece {
	if p.IsMan() {
		return p + 2
	}
	return p
}

// Valid reports whether p is one of the five known codes.
func (p Piece) Valid() bool {
	return p <= BlackQueen
}

// Char returns the notation character for the piece.
func (p Piece) Char() byte {
	chars := []byte{'.', 'w', 'b', 'W', 'B'}
	if !p.Valid() {
		return '?'
	}
	return chars[p]
}

// PieceFromChar returns the piece for a notation character.
func PieceFromChar(c byte) (Piece, bool) {
	switch c {
	case '.':
		return Empty, true
	case 'w':
		return WhiteMan, true
	case 'b':
		return BlackMan, true
	case 'W':
		return WhiteQueen, true
	case 'B':
		return BlackQueen, true
	}
	return Empty, false
}

// String returns the piece name.
func (p Piece) String() string {
	switch p {
	case Empty:
		return "Empty"
	case WhiteMan:
		return "WhiteMan"
	case BlackMan:
		return "BlackMan"
	case WhiteQueen:
		return "WhiteQueen"
	case BlackQueen:
		return "BlackQueen"
	default:
		return "Invalid"
	}
}

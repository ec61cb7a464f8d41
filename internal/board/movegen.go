package board

// GenerateMoves generates all legal moves for color c in board scan order.
// Capturing is mandatory: as soon as any piece of c can capture, only
// capturing moves are returned and captures reports true.
func (b Board) GenerateMoves(c Color) (moves []Move, captures bool) {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			p := b[x][y]
			if p == Empty || p.Color() != c {
				continue
			}
			pieceMoves, pieceCaptures := b.PieceMoves(Square{x, y})
			switch {
			case pieceCaptures && !captures:
				// First capture found: drop the quiet moves collected so far.
				captures = true
				moves = append(moves[:0], pieceMoves...)
			case pieceCaptures == captures:
				moves = append(moves, pieceMoves...)
			}
		}
	}
	return moves, captures
}

// PieceMoves generates the moves of the single piece on sq. If the piece
// can capture only its captures are returned. An empty or off-board
// square yields no moves.
func (b Board) PieceMoves(sq Square) (moves []Move, captures bool) {
	p := b.At(sq)
	if p == Empty {
		return nil, false
	}

	if p.IsQueen() {
		moves = b.appendQueenCaptures(moves, sq, p)
	} else {
		moves = b.appendManCaptures(moves, sq, p)
	}
	if len(moves) > 0 {
		return moves, true
	}

	if p.IsQueen() {
		moves = b.appendQueenSteps(moves, sq)
	} else {
		moves = b.appendManSteps(moves, sq, p)
	}
	return moves, false
}

// appendManCaptures adds the jumps of a man in all four directions.
func (b Board) appendManCaptures(moves []Move, from Square, p Piece) []Move {
	for _, d := range diagonals {
		over := from.Add(d[0], d[1])
		to := from.Add(2*d[0], 2*d[1])
		if !to.OnBoard() || b.At(to) != Empty {
			continue
		}
		victim := b.At(over)
		if victim == Empty || victim.Color() == p.Color() {
			continue
		}
		moves = append(moves, NewCapture(from, to, over))
	}
	return moves
}

// appendManSteps adds the two forward diagonal steps of a man.
func (b Board) appendManSteps(moves []Move, from Square, p Piece) []Move {
	dx := p.Color().Forward()
	for _, dy := range [2]int{-1, 1} {
		to := from.Add(dx, dy)
		if !to.OnBoard() || b.At(to) != Empty {
			continue
		}
		moves = append(moves, NewMove(from, to))
	}
	return moves
}

// appendQueenCaptures adds, for every ray, the capture of the first piece
// met when it is an opponent and the cell right behind it is free.
func (b Board) appendQueenCaptures(moves []Move, from Square, p Piece) []Move {
	for _, d := range diagonals {
		sq := from.Add(d[0], d[1])
		for sq.OnBoard() && b.At(sq) == Empty {
			sq = sq.Add(d[0], d[1])
		}
		if !sq.OnBoard() || b.At(sq).Color() == p.Color() {
			continue
		}
		to := sq.Add(d[0], d[1])
		if !to.OnBoard() || b.At(to) != Empty {
			continue
		}
		moves = append(moves, NewCapture(from, to, sq))
	}
	return moves
}

// appendQueenSteps adds every empty cell along each ray up to the first
// occupied one.
func (b Board) appendQueenSteps(moves []Move, from Square) []Move {
	for _, d := range diagonals {
		for to := from.Add(d[0], d[1]); to.OnBoard() && b.At(to) == Empty; to = to.Add(d[0], d[1]) {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

// HasMoves reports whether color c has at least one legal move.
func (b Board) HasMoves(c Color) bool {
	moves, _ := b.GenerateMoves(c)
	return len(moves) > 0
}

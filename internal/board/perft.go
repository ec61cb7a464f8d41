package board

// Perft counts the complete turns reachable from b with c to move at the
// given depth. A capture chain by one piece counts as a single turn.
func (b Board) Perft(c Color, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves, captures := b.GenerateMoves(c)
	var nodes uint64
	for _, m := range moves {
		if captures {
			nodes += b.Apply(m).perftChain(c, m.To, depth)
		} else {
			nodes += b.Apply(m).Perft(c.Other(), depth-1)
		}
	}
	return nodes
}

// perftChain continues a capture chain from sq before handing the turn over.
func (b Board) perftChain(c Color, sq Square, depth int) uint64 {
	moves, captures := b.PieceMoves(sq)
	if !captures {
		return b.Perft(c.Other(), depth-1)
	}
	var nodes uint64
	for _, m := range moves {
		nodes += b.Apply(m).perftChain(c, m.To, depth)
	}
	return nodes
}

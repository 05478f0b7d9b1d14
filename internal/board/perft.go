package board

// Perft counts the leaf nodes of the legal move tree at the given depth.
// It is the standard oracle for move generation and make/unmake.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		undo := p.MakeMove(moves.Get(i))
		nodes += Perft(p, depth-1)
		p.UnmakeMove(undo)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by the
// move's UCI text.
func PerftDivide(p *Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth < 1 {
		return result
	}

	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		result[m.String()] = Perft(p, depth-1)
		p.UnmakeMove(undo)
	}
	return result
}

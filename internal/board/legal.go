package board

// GenerateLegalMoves generates all legal moves for the position.
//
// Each pseudo-legal move is made, the mover's king is tested against the
// new side to move, and the move is unmade before the next one is tried.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.filterLegalMoves(p.GeneratePseudoLegalMoves())
}

// filterLegalMoves keeps the moves that do not leave the mover's king attacked.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal returns true if the pseudo-legal move m does not leave the
// mover's own king attacked.
func (p *Position) IsLegal(m Move) bool {
	undo := p.MakeMove(m)
	mover := p.SideToMove.Other()
	ksq := p.KingSquare(mover)
	legal := ksq != NoSquare && !p.IsSquareAttacked(ksq, p.SideToMove)
	p.UnmakeMove(undo)
	return legal
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

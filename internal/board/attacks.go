package board

// IsSquareAttacked returns true if any piece of color by attacks sq.
// It has no side effects and works on any position, including one reached
// by a tentative move that has not been validated yet.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	b := &p.Board

	// Pawns
	pawn := NewPiece(Pawn, by)
	for _, off := range pawnAttackedVia[by] {
		if b[sq+off] == pawn {
			return true
		}
	}

	// Knights
	knight := NewPiece(Knight, by)
	for _, off := range KnightOffsets {
		if b[sq+off] == knight {
			return true
		}
	}

	// King
	king := NewPiece(King, by)
	for _, off := range KingOffsets {
		if b[sq+off] == king {
			return true
		}
	}

	// Diagonal sliders
	queen := NewPiece(Queen, by)
	bishop := NewPiece(Bishop, by)
	for _, off := range BishopOffsets {
		for t := sq + off; b[t] != OffBoard; t += off {
			if piece := b[t]; piece != Empty {
				if piece == bishop || piece == queen {
					return true
				}
				break
			}
		}
	}

	// Orthogonal sliders
	rook := NewPiece(Rook, by)
	for _, off := range RookOffsets {
		for t := sq + off; b[t] != OffBoard; t += off {
			if piece := b[t]; piece != Empty {
				if piece == rook || piece == queen {
					return true
				}
				break
			}
		}
	}

	return false
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	ksq := p.KingSquare(p.SideToMove)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, p.SideToMove.Other())
}

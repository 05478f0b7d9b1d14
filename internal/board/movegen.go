package board

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
// Moves come out in generation order: pawns, knights, bishops, rooks,
// queens, king (castling last).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// generateAllMoves appends every pseudo-legal move for the side to move.
func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove

	p.generatePawnMoves(ml, us)
	p.generateLeaperMoves(ml, NewPiece(Knight, us), KnightOffsets[:])
	p.generateSliderMoves(ml, NewPiece(Bishop, us), BishopOffsets[:])
	p.generateSliderMoves(ml, NewPiece(Rook, us), RookOffsets[:])
	p.generateSliderMoves(ml, NewPiece(Queen, us), QueenOffsets[:])
	p.generateLeaperMoves(ml, NewPiece(King, us), KingOffsets[:])
	p.generateCastlingMoves(ml, us)
}

// isEnemy reports whether cell content belongs to the opponent of us.
func isEnemy(piece Piece, us Color) bool {
	return piece.IsPiece() && piece.Color() != us
}

// generateLeaperMoves generates knight or king steps onto empty or enemy cells.
func (p *Position) generateLeaperMoves(ml *MoveList, piece Piece, offsets []Square) {
	us := piece.Color()
	for _, from := range p.PieceList[piece] {
		for _, off := range offsets {
			to := from + off
			target := p.Board[to]
			if target == Empty || isEnemy(target, us) {
				ml.Add(NewMove(from, to))
			}
		}
	}
}

// generateSliderMoves walks each ray until the border or the first occupant,
// emitting the occupant only if it is an enemy.
func (p *Position) generateSliderMoves(ml *MoveList, piece Piece, offsets []Square) {
	us := piece.Color()
	for _, from := range p.PieceList[piece] {
		for _, off := range offsets {
			for to := from + off; p.Board[to] != OffBoard; to += off {
				target := p.Board[to]
				if target == Empty {
					ml.Add(NewMove(from, to))
					continue
				}
				if isEnemy(target, us) {
					ml.Add(NewMove(from, to))
				}
				break
			}
		}
	}
}

// generatePawnMoves generates pushes, double pushes, captures, en passant
// and promotions.
func (p *Position) generatePawnMoves(ml *MoveList, us Color) {
	forward := pawnForward[us]
	startRank, epRank, promoRank := 1, 4, 7
	if us == Black {
		startRank, epRank, promoRank = 6, 3, 0
	}
	ep := p.EnPassantIndex()

	for _, from := range p.PieceList[NewPiece(Pawn, us)] {
		// Single push
		to := from + forward
		if p.IsEmpty(to) {
			if to.Rank() == promoRank {
				addPromotions(ml, from, to)
			} else {
				ml.Add(NewMove(from, to))
			}

			// Double push
			if from.Rank() == startRank && p.IsEmpty(to+forward) {
				ml.Add(NewTaggedMove(from, to+forward, TagDoublePush))
			}
		}

		// Captures
		for _, off := range pawnCaptures[us] {
			to := from + off
			target := p.Board[to]
			switch {
			case isEnemy(target, us):
				if to.Rank() == promoRank {
					addPromotions(ml, from, to)
				} else {
					ml.Add(NewMove(from, to))
				}
			case to == ep && from.Rank() == epRank:
				ml.Add(NewTaggedMove(from, to, TagEnPassant))
			}
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	for _, tag := range promotionTags {
		ml.Add(NewTaggedMove(from, to, tag))
	}
}

// castleRule describes one castling option.
type castleRule struct {
	right    CastlingRights
	tag      MoveTag
	king     Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	empty    []Square // cells between king and rook
	safe     []Square // king start, pass-through and destination
}

var castleRules = [2][2]castleRule{
	White: {
		{WhiteKingSideCastle, TagCastleShort, E1, G1, H1, F1, []Square{F1, G1}, []Square{E1, F1, G1}},
		{WhiteQueenSideCastle, TagCastleLong, E1, C1, A1, D1, []Square{D1, C1, B1}, []Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSideCastle, TagCastleShort, E8, G8, H8, F8, []Square{F8, G8}, []Square{E8, F8, G8}},
		{BlackQueenSideCastle, TagCastleLong, E8, C8, A8, D8, []Square{D8, C8, B8}, []Square{E8, D8, C8}},
	},
}

// generateCastlingMoves generates castling moves whose right is held, whose
// path is clear and whose king squares are not attacked.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()

rules:
	for i := range castleRules[us] {
		rule := &castleRules[us][i]
		if p.CastlingRights&rule.right == 0 {
			continue
		}
		// Rights loaded from a FEN are not trusted to match the placement.
		if p.Board[rule.king] != NewPiece(King, us) || p.Board[rule.rookFrom] != NewPiece(Rook, us) {
			continue
		}
		for _, sq := range rule.empty {
			if !p.IsEmpty(sq) {
				continue rules
			}
		}
		for _, sq := range rule.safe {
			if p.IsSquareAttacked(sq, them) {
				continue rules
			}
		}
		ml.Add(NewTaggedMove(rule.king, rule.kingTo, rule.tag))
	}
}

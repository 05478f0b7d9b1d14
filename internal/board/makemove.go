package board

import "fmt"

// cornerRights lists, for each rook home square, the right that dies when
// that square is vacated or captured on.
var cornerRights = [4]struct {
	sq    Square
	right CastlingRights
}{
	{H1, WhiteKingSideCastle},
	{A1, WhiteQueenSideCastle},
	{H8, BlackKingSideCastle},
	{A8, BlackQueenSideCastle},
}

// castleRook returns the rook relocation for a castling tag.
func castleRook(us Color, tag MoveTag) (from, to Square) {
	rule := &castleRules[us][0]
	if tag == TagCastleLong {
		rule = &castleRules[us][1]
	}
	return rule.rookFrom, rule.rookTo
}

// MakeMove applies a move to the position and returns undo information.
// The move must come from the generator for this position; a move whose
// origin holds no piece of the side to move is a programming error and panics.
func (p *Position) MakeMove(m Move) UndoInfo {
	us := p.SideToMove
	from, to := m.From, m.To
	piece := p.Board[from]
	captured := p.Board[to]

	if !piece.IsPiece() || piece.Color() != us {
		panic(fmt.Sprintf("board: MakeMove %s: no %s piece on %s in %s", m, us, from, p.ToFEN()))
	}

	undo := UndoInfo{
		Move:             m,
		MovedPiece:       piece,
		CapturedPiece:    captured,
		CastlingRights:   p.CastlingRights,
		EnPassant:        p.EnPassant,
		HalfMoveClock:    p.HalfMoveClock,
		FullMoveNumber:   p.FullMoveNumber,
		EPCapturedSquare: NoSquare,
		EPCapturedPiece:  Empty,
	}

	// En passant: the captured pawn sits behind the target square.
	if m.Tag == TagEnPassant {
		capSq := to - pawnForward[us]
		undo.EPCapturedSquare = capSq
		undo.EPCapturedPiece = p.Board[capSq]
		undo.EPCapturedIndex = p.unlist(undo.EPCapturedPiece, capSq)
		p.Board[capSq] = Empty
	}

	// Pieces keep their piece-list slots across make/unmake so move
	// generation order does not depend on search history.
	if captured.IsPiece() {
		undo.CapturedIndex = p.unlist(captured, to)
	}

	if m.IsPromotion() {
		undo.MovedIndex = p.unlist(piece, from)
		p.Board[from] = Empty
		p.Place(NewPiece(m.Tag.Promotion(), us), to)
	} else {
		p.relocate(piece, from, to)
	}

	if m.IsCastling() {
		rookFrom, rookTo := castleRook(us, m.Tag)
		p.relocate(p.Board[rookFrom], rookFrom, rookTo)
	}

	if m.Tag == TagDoublePush {
		p.EnPassant = from + pawnForward[us]
	} else {
		p.EnPassant = NoSquare
	}

	if piece.Type() == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	// Checked for every move: a rook captured at home loses its right
	// without ever having moved.
	for _, c := range cornerRights {
		if from == c.sq || to == c.sq {
			p.CastlingRights &^= c.right
		}
	}

	if piece.Type() == Pawn || captured.IsPiece() || m.Tag == TagEnPassant {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = us.Other()

	return undo
}

// UnmakeMove restores the position to the state before the move recorded in undo.
func (p *Position) UnmakeMove(undo UndoInfo) {
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove
	from, to := undo.Move.From, undo.Move.To

	if undo.Move.IsPromotion() {
		// The promoted piece was appended last, so dropping it leaves its
		// list as it was.
		p.Remove(to)
		p.Board[from] = undo.MovedPiece
		p.relist(undo.MovedPiece, from, undo.MovedIndex)
	} else {
		p.relocate(undo.MovedPiece, to, from)
	}

	if undo.Move.IsCastling() {
		rookFrom, rookTo := castleRook(us, undo.Move.Tag)
		p.relocate(p.Board[rookTo], rookTo, rookFrom)
	}

	if undo.CapturedPiece.IsPiece() {
		p.Board[to] = undo.CapturedPiece
		p.relist(undo.CapturedPiece, to, undo.CapturedIndex)
	}

	if undo.Move.Tag == TagEnPassant {
		p.Board[undo.EPCapturedSquare] = undo.EPCapturedPiece
		p.relist(undo.EPCapturedPiece, undo.EPCapturedSquare, undo.EPCapturedIndex)
	}

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.FullMoveNumber = undo.FullMoveNumber
}

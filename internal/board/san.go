package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move to Standard Algebraic Notation.
// The position is probed with make/unmake for the check suffix and is
// left unchanged.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	piece := pos.PieceAt(m.From)
	if !piece.IsPiece() {
		return m.String()
	}

	var sb strings.Builder

	switch m.Tag {
	case TagCastleShort:
		sb.WriteString("O-O")
	case TagCastleLong:
		sb.WriteString("O-O-O")
	default:
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, piece))
		}

		if m.IsCapture(pos) {
			if pt == Pawn {
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Tag.Promotion()])
		}
	}

	undo := pos.MakeMove(m)
	if pos.InCheck() {
		if pos.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	pos.UnmakeMove(undo)

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other legal moves of the same piece to the same destination.
func disambiguation(pos *Position, m Move, piece Piece) string {
	var sameFile, sameRank, ambiguous bool

	moves := pos.GenerateLegalMoves()
	for _, other := range moves.Slice() {
		if other.To != m.To || other.From == m.From || pos.PieceAt(other.From) != piece {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// MovesToSAN converts a move sequence played from pos to SAN.
// pos is restored before returning.
func MovesToSAN(pos *Position, moves []Move) ([]string, error) {
	result := make([]string, 0, len(moves))
	undos := make([]UndoInfo, 0, len(moves))
	defer func() {
		for i := len(undos) - 1; i >= 0; i-- {
			pos.UnmakeMove(undos[i])
		}
	}()

	for _, m := range moves {
		if !pos.GenerateLegalMoves().Contains(m) {
			return result, fmt.Errorf("%s in %s: %w", m, pos.ToFEN(), ErrIllegalMove)
		}
		result = append(result, m.ToSAN(pos))
		undos = append(undos, pos.MakeMove(m))
	}

	return result, nil
}

// ParseSAN parses a SAN string such as "Nf3", "exd5", "e8=Q+" or "O-O"
// against the legal moves of pos.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		tag := TagCastleShort
		if len(s) == 5 {
			tag = TagCastleLong
		}
		for _, m := range pos.GenerateLegalMoves().Slice() {
			if m.Tag == tag {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%q: %w", orig, ErrIllegalMove)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 && idx+1 < len(s) {
		switch s[idx+1] {
		case 'N':
			promo = Knight
		case 'B':
			promo = Bishop
		case 'R':
			promo = Rook
		case 'Q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("%q: invalid promotion piece: %w", orig, ErrIllegalMove)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, fmt.Errorf("%q: unknown piece letter: %w", orig, ErrIllegalMove)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("%q: missing destination: %w", orig, ErrIllegalMove)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		}
	}

	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.To != dest || m.IsCastling() || pos.PieceAt(m.From).Type() != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		if m.Tag.Promotion() != promo {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%q in %s: %w", orig, pos.ToFEN(), ErrIllegalMove)
}

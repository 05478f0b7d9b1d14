package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when move text matches no legal move.
var ErrIllegalMove = errors.New("illegal move")

// MoveTag distinguishes the special moves that a bare origin/destination
// pair cannot express.
type MoveTag uint8

const (
	TagNone MoveTag = iota
	TagDoublePush
	TagEnPassant
	TagCastleShort
	TagCastleLong
	TagPromoQueen
	TagPromoRook
	TagPromoBishop
	TagPromoKnight
)

// String returns the tag name.
func (t MoveTag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagDoublePush:
		return "double"
	case TagEnPassant:
		return "en_passant"
	case TagCastleShort:
		return "castle_short"
	case TagCastleLong:
		return "castle_long"
	case TagPromoQueen:
		return "promo_q"
	case TagPromoRook:
		return "promo_r"
	case TagPromoBishop:
		return "promo_b"
	case TagPromoKnight:
		return "promo_n"
	default:
		return "unknown"
	}
}

// IsPromotion returns true for the four promotion tags.
func (t MoveTag) IsPromotion() bool {
	return t >= TagPromoQueen && t <= TagPromoKnight
}

// Promotion returns the piece type a promotion tag promotes to.
func (t MoveTag) Promotion() PieceType {
	switch t {
	case TagPromoQueen:
		return Queen
	case TagPromoRook:
		return Rook
	case TagPromoBishop:
		return Bishop
	case TagPromoKnight:
		return Knight
	default:
		return NoPieceType
	}
}

// promotionTags is the order promotions are generated in.
var promotionTags = [4]MoveTag{TagPromoQueen, TagPromoRook, TagPromoBishop, TagPromoKnight}

// Move is an origin, a destination and an optional tag. It carries no
// captured piece or previous state; MakeMove reconstructs that.
type Move struct {
	From Square
	To   Square
	Tag  MoveTag
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates an untagged move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// NewTaggedMove creates a move with a tag.
func NewTaggedMove(from, to Square, tag MoveTag) Move {
	return Move{From: from, To: to, Tag: tag}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Tag.IsPromotion()
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Tag == TagCastleShort || m.Tag == TagCastleLong
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Tag == TagEnPassant
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return pos.Board[m.To].IsPiece()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From.String() + m.To.String()

	if m.IsPromotion() {
		s += string("pnbrqk"[m.Tag.Promotion()])
	}

	return s
}

// ParseMove decodes UCI move text against the current legal moves.
// The text alone cannot tell a castle or en passant from a plain move, so
// the tag comes from the matching generated move.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string %q: %w", s, ErrIllegalMove)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece %q: %w", s[4], ErrIllegalMove)
		}
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From != from || m.To != to {
			continue
		}
		if m.Tag.Promotion() == promo {
			return m, nil
		}
	}

	return NoMove, fmt.Errorf("%s in %s: %w", s, pos.ToFEN(), ErrIllegalMove)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo is everything UnmakeMove needs to reverse one MakeMove.
// All state fields hold their values from before the move.
type UndoInfo struct {
	Move           Move
	MovedPiece     Piece
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	// Piece-list slots the moved pawn (promotions only) and the captured
	// piece held, for reinsertion in place.
	MovedIndex    int
	CapturedIndex int

	// Set only for en passant captures.
	EPCapturedSquare Square
	EPCapturedPiece  Piece
	EPCapturedIndex  int
}

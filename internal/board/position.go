package board

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// Position represents a complete chess position.
//
// Board and PieceList describe the same placement: every occupied cell
// appears exactly once in the list of its piece, and every mutation goes
// through Place/Remove (or RebuildPieceLists after a bulk load) so the two
// never drift apart.
type Position struct {
	Board     [GridSize]Piece
	PieceList [NumPieces][]Square

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1
}

// NewEmptyPosition creates a position with no pieces and the border filled
// with OffBoard.
func NewEmptyPosition() *Position {
	p := &Position{}
	p.Clear()
	return p
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	for i := range p.Board {
		if Mailbox120[i] < 0 {
			p.Board[i] = OffBoard
		} else {
			p.Board[i] = Empty
		}
	}
	for i := range p.PieceList {
		p.PieceList[i] = p.PieceList[i][:0]
	}
	p.SideToMove = White
	p.CastlingRights = NoCastling
	p.EnPassant = NoSquare
	p.HalfMoveClock = 0
	p.FullMoveNumber = 1
}

// Copy creates a deep copy of the position.
// The search never copies; this is for callers that hand a position to a
// search running on another goroutine.
func (p *Position) Copy() *Position {
	newPos := *p
	for i := range p.PieceList {
		newPos.PieceList[i] = slices.Clone(p.PieceList[i])
	}
	return &newPos
}

// PieceAt returns the piece at the given square.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == Empty
}

// Place puts a piece on an empty square.
func (p *Position) Place(piece Piece, sq Square) {
	p.Board[sq] = piece
	p.PieceList[piece] = append(p.PieceList[piece], sq)
}

// Remove clears a square and returns the piece that stood there.
func (p *Position) Remove(sq Square) Piece {
	piece := p.Board[sq]
	if !piece.IsPiece() {
		return piece
	}
	p.unlist(piece, sq)
	p.Board[sq] = Empty
	return piece
}

// unlist drops sq from the piece list of piece and returns the slot it held.
func (p *Position) unlist(piece Piece, sq Square) int {
	list := p.PieceList[piece]
	i := slices.Index(list, sq)
	if i < 0 {
		panic(fmt.Sprintf("board: %s not listed on %s", piece, sq))
	}
	p.PieceList[piece] = slices.Delete(list, i, i+1)
	return i
}

// relist puts sq back into slot i of the piece list of piece.
func (p *Position) relist(piece Piece, sq Square, i int) {
	p.PieceList[piece] = slices.Insert(p.PieceList[piece], i, sq)
}

// relocate moves piece from one cell to another, keeping its list slot.
func (p *Position) relocate(piece Piece, from, to Square) {
	list := p.PieceList[piece]
	i := slices.Index(list, from)
	if i < 0 {
		panic(fmt.Sprintf("board: %s not listed on %s", piece, from))
	}
	list[i] = to
	p.Board[from] = Empty
	p.Board[to] = piece
}

// RebuildPieceLists recomputes PieceList from Board in a single pass.
func (p *Position) RebuildPieceLists() {
	for i := range p.PieceList {
		p.PieceList[i] = p.PieceList[i][:0]
	}
	for _, sq := range Mailbox64 {
		if piece := p.Board[sq]; piece.IsPiece() {
			p.PieceList[piece] = append(p.PieceList[piece], sq)
		}
	}
}

// EnPassantIndex returns the en passant target as a grid index, or NoSquare.
func (p *Position) EnPassantIndex() Square {
	if !p.EnPassant.IsValid() {
		return NoSquare
	}
	return p.EnPassant
}

// KingSquare returns the square of the king of color c, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	kings := p.PieceList[NewPiece(King, c)]
	if len(kings) == 0 {
		return NoSquare
	}
	return kings[0]
}

// Equal reports whether two positions are structurally identical: the same
// cells, the same piece lists compared as sets, and the same state fields.
func (p *Position) Equal(o *Position) bool {
	if p.Board != o.Board ||
		p.SideToMove != o.SideToMove ||
		p.CastlingRights != o.CastlingRights ||
		p.EnPassant != o.EnPassant ||
		p.HalfMoveClock != o.HalfMoveClock ||
		p.FullMoveNumber != o.FullMoveNumber {
		return false
	}
	for i := range p.PieceList {
		a := slices.Clone(p.PieceList[i])
		b := slices.Clone(o.PieceList[i])
		slices.Sort(a)
		slices.Sort(b)
		if !slices.Equal(a, b) {
			return false
		}
	}
	return true
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n  +---+---+---+---+---+---+---+---+\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d |", rank+1)
		for file := 0; file < 8; file++ {
			fmt.Fprintf(&sb, " %s |", p.Board[NewSquare(file, rank)])
		}
		sb.WriteString("\n  +---+---+---+---+---+---+---+---+\n")
	}
	sb.WriteString("    a   b   c   d   e   f   g   h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	return sb.String()
}

// Material returns the material balance (positive favors white).
func (p *Position) Material() int {
	score := 0
	for pt := Pawn; pt <= King; pt++ {
		score += len(p.PieceList[NewPiece(pt, White)]) * PieceValue[pt]
		score -= len(p.PieceList[NewPiece(pt, Black)]) * PieceValue[pt]
	}
	return score
}

// Package board implements the chess position on a 10x12 mailbox, move
// generation, make/unmake and the perft harness.
package board

import (
	"errors"
	"fmt"
)

// Square is an index into the 120-cell mailbox grid.
// Playable squares run from A8=21 to H1=98; the two-cell border around
// them holds OffBoard so a single cell test bounds-checks every step.
type Square int

// ErrInvalidSquare is returned when a square name cannot be parsed.
var ErrInvalidSquare = errors.New("invalid square")

// Grid constants for all 64 playable squares.
const (
	A8 Square = 21 + iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

const (
	A7 Square = 31 + iota
	B7
	C7
	D7
	E7
	F7
	G7
	H7
)

const (
	A6 Square = 41 + iota
	B6
	C6
	D6
	E6
	F6
	G6
	H6
)

const (
	A5 Square = 51 + iota
	B5
	C5
	D5
	E5
	F5
	G5
	H5
)

const (
	A4 Square = 61 + iota
	B4
	C4
	D4
	E4
	F4
	G4
	H4
)

const (
	A3 Square = 71 + iota
	B3
	C3
	D3
	E3
	F3
	G3
	H3
)

const (
	A2 Square = 81 + iota
	B2
	C2
	D2
	E2
	F2
	G2
	H2
)

const (
	A1 Square = 91 + iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

// NoSquare marks an absent square (no en passant target, no king).
const NoSquare Square = -1

// GridSize is the number of cells in the mailbox.
const GridSize = 120

// Mailbox64 maps a 0..63 index (a8=0, h8=7, ..., h1=63) to its grid cell.
var Mailbox64 = [64]Square{
	21, 22, 23, 24, 25, 26, 27, 28,
	31, 32, 33, 34, 35, 36, 37, 38,
	41, 42, 43, 44, 45, 46, 47, 48,
	51, 52, 53, 54, 55, 56, 57, 58,
	61, 62, 63, 64, 65, 66, 67, 68,
	71, 72, 73, 74, 75, 76, 77, 78,
	81, 82, 83, 84, 85, 86, 87, 88,
	91, 92, 93, 94, 95, 96, 97, 98,
}

// Mailbox120 maps a grid cell back to 0..63, or -1 for border cells.
var Mailbox120 [GridSize]int

func init() {
	for i := range Mailbox120 {
		Mailbox120[i] = -1
	}
	for i, sq := range Mailbox64 {
		Mailbox120[sq] = i
	}
}

// Step offsets on the grid.
var (
	KnightOffsets   = [8]Square{-21, -19, -12, -8, 8, 12, 19, 21}
	KingOffsets     = [8]Square{-10, 10, -1, 1, -11, 11, -9, 9}
	QueenOffsets    = KingOffsets
	BishopOffsets   = [4]Square{-11, 11, -9, 9}
	RookOffsets     = [4]Square{-10, 10, -1, 1}
	pawnForward     = [2]Square{-10, 10}
	pawnCaptures    = [2][2]Square{{-9, -11}, {9, 11}}
	pawnAttackedVia = [2][2]Square{{9, 11}, {-9, -11}}
)

// NewSquare creates a grid square from 0-based file (a=0) and rank (1st=0).
func NewSquare(file, rank int) Square {
	return Square(21 + (7-rank)*10 + file)
}

// File returns the file of the square (0-7, where 0=a).
func (sq Square) File() int {
	return int(sq)%10 - 1
}

// Rank returns the rank of the square (0-7, where 0 is the 1st rank).
func (sq Square) Rank() int {
	return 9 - int(sq)/10
}

// IsValid returns true if the square is one of the 64 playable cells.
func (sq Square) IsValid() bool {
	return sq >= 0 && sq < GridSize && Mailbox120[sq] >= 0
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a grid Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return NewSquare(file, rank), nil
}

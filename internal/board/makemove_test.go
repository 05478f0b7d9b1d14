package board

import (
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

func mustParse(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func mustMove(t *testing.T, pos *Position, uci string) Move {
	t.Helper()
	m, err := ParseMove(uci, pos)
	if err != nil {
		t.Fatalf("ParseMove(%s): %v", uci, err)
	}
	return m
}

func TestMakeUnmakeRestores(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustParse(t, fen)
			before := pos.Copy()

			moves := pos.GeneratePseudoLegalMoves()
			for i := 0; i < moves.Len(); i++ {
				m := moves.Get(i)
				undo := pos.MakeMove(m)
				pos.UnmakeMove(undo)
				if !pos.Equal(before) {
					t.Fatalf("make/unmake %s: got %s, want %s", m, pos.ToFEN(), before.ToFEN())
				}
				for pc := range pos.PieceList {
					if !slices.Equal(pos.PieceList[pc], before.PieceList[pc]) {
						t.Fatalf("make/unmake %s reordered %s list: got %v, want %v",
							m, Piece(pc), pos.PieceList[pc], before.PieceList[pc])
					}
				}
			}
		})
	}
}

// TestRandomPlayouts plays seeded random games and unwinds them, checking the
// board and piece lists stay consistent at every ply and that no legal move
// leaves the mover's king attacked.
func TestRandomPlayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(20240601))

	games := 50
	if testing.Short() {
		games = 10
	}

	for g := 0; g < games; g++ {
		pos := NewPosition()
		var history []*Position
		var undos []UndoInfo

		for ply := 0; ply < 200; ply++ {
			moves := pos.GenerateLegalMoves()
			if moves.Len() == 0 {
				break
			}
			checkKingSafe(t, pos, moves)
			m := moves.Get(rng.Intn(moves.Len()))
			history = append(history, pos.Copy())
			undos = append(undos, pos.MakeMove(m))
			checkPieceLists(t, pos)
		}

		for i := len(undos) - 1; i >= 0; i-- {
			pos.UnmakeMove(undos[i])
			if !pos.Equal(history[i]) {
				t.Fatalf("game %d ply %d: unmake gave %s, want %s", g, i, pos.ToFEN(), history[i].ToFEN())
			}
		}
	}
}

// checkKingSafe makes every move and tests the mover's king directly,
// independent of the legality filter.
func checkKingSafe(t *testing.T, pos *Position, moves *MoveList) {
	t.Helper()
	mover := pos.SideToMove
	for _, m := range moves.Slice() {
		undo := pos.MakeMove(m)
		ksq := pos.KingSquare(mover)
		if ksq == NoSquare || pos.IsSquareAttacked(ksq, mover.Other()) {
			t.Fatalf("legal move %s leaves the %s king attacked in %s", m, mover, pos.ToFEN())
		}
		pos.UnmakeMove(undo)
	}
}

func checkPieceLists(t *testing.T, pos *Position) {
	t.Helper()
	rebuilt := pos.Copy()
	rebuilt.RebuildPieceLists()
	if !pos.Equal(rebuilt) {
		t.Fatalf("piece lists out of sync with board in %s", pos.ToFEN())
	}
	for sq := Square(0); sq < GridSize; sq++ {
		if Mailbox120[sq] < 0 && pos.Board[sq] != OffBoard {
			t.Fatalf("border cell %d overwritten in %s", sq, pos.ToFEN())
		}
	}
}

func TestMakeMoveState(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		move    string
		wantFEN string
	}{
		{
			name:    "double push sets en passant",
			fen:     StartFEN,
			move:    "e2e4",
			wantFEN: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			name:    "black move increments full move",
			fen:     "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			move:    "g8f6",
			wantFEN: "rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 1 2",
		},
		{
			name:    "en passant capture removes pawn",
			fen:     "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
			move:    "e5f6",
			wantFEN: "rnbqkbnr/ppp1p1pp/5P2/3p4/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 3",
		},
		{
			name:    "white short castle",
			fen:     "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 3 10",
			move:    "e1g1",
			wantFEN: "r3k2r/8/8/8/8/8/8/R4RK1 b kq - 4 10",
		},
		{
			name:    "black long castle",
			fen:     "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 3 10",
			move:    "e8c8",
			wantFEN: "2kr3r/8/8/8/8/8/8/R3K2R w KQ - 4 11",
		},
		{
			name:    "rook move clears one right",
			fen:     "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			move:    "a1b1",
			wantFEN: "r3k2r/8/8/8/8/8/8/1R2K2R b Kkq - 1 1",
		},
		{
			name:    "capturing rook on its home square clears its right",
			fen:     "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			move:    "h1h8",
			wantFEN: "r3k2R/8/8/8/8/8/8/R3K3 b Qq - 0 1",
		},
		{
			name:    "promotion with capture",
			fen:     "1r2k3/P7/8/8/8/8/8/4K3 w - - 5 40",
			move:    "a7b8n",
			wantFEN: "1N2k3/8/8/8/8/8/8/4K3 b - - 0 40",
		},
		{
			name:    "black promotion",
			fen:     "4k3/8/8/8/8/8/p7/4K3 b - - 0 1",
			move:    "a2a1q",
			wantFEN: "4k3/8/8/8/8/8/8/q3K3 w - - 0 2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			before := pos.Copy()

			m := mustMove(t, pos, tc.move)
			undo := pos.MakeMove(m)
			if got := pos.ToFEN(); got != tc.wantFEN {
				t.Errorf("after %s: got %s, want %s", tc.move, got, tc.wantFEN)
			}
			checkPieceLists(t, pos)

			pos.UnmakeMove(undo)
			if !pos.Equal(before) {
				t.Errorf("unmake %s: got %s, want %s", tc.move, pos.ToFEN(), tc.fen)
			}
		})
	}
}

func TestMoveTags(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		tag  MoveTag
	}{
		{StartFEN, "e2e4", TagDoublePush},
		{StartFEN, "e2e3", TagNone},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", TagEnPassant},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", TagCastleShort},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", TagCastleLong},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", TagPromoQueen},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8r", TagPromoRook},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8b", TagPromoBishop},
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8n", TagPromoKnight},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			m := mustMove(t, pos, tc.move)
			if m.Tag != tc.tag {
				t.Errorf("%s tag = %s, want %s", tc.move, m.Tag, tc.tag)
			}
			if m.String() != tc.move {
				t.Errorf("String() = %s, want %s", m.String(), tc.move)
			}
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"", "e2", "e2e5", "e1g1", "i2i4", "e7e8x", "a7a8q"} {
		if _, err := ParseMove(s, pos); err == nil {
			t.Errorf("ParseMove(%q) succeeded, want error", s)
		}
	}

	// A promotion needs its letter.
	pos = mustParse(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if _, err := ParseMove("a7a8", pos); err == nil {
		t.Error("ParseMove(a7a8) without promotion piece succeeded")
	}
}

func TestMakeMovePanicsOnEmptyOrigin(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MakeMove from an empty square did not panic")
		}
	}()
	pos := NewPosition()
	pos.MakeMove(NewMove(E4, E5))
}

func TestCastlingBlocked(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		absent []string
	}{
		{"through check", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", []string{"e1g1"}},
		{"out of check", "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1", []string{"e1g1", "e1c1"}},
		{"into check", "r3k2r/8/8/8/8/8/6r1/R3K2R w KQkq - 0 1", []string{"e1g1"}},
		{"piece between", "r3k2r/8/8/8/8/8/8/RN2K1NR w KQkq - 0 1", []string{"e1g1", "e1c1"}},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", []string{"e1g1", "e1c1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			legal := pos.GenerateLegalMoves()
			for _, s := range tc.absent {
				for _, m := range legal.Slice() {
					if m.String() == s {
						t.Errorf("%s should not be legal in %s", s, tc.fen)
					}
				}
			}
		})
	}

	// b1 attacked does not stop queenside castling.
	pos := mustParse(t, "r3k2r/8/8/8/8/8/1r6/R3K2R w KQkq - 0 1")
	if _, err := ParseMove("e1c1", pos); err != nil {
		t.Errorf("e1c1 with only b1 attacked: %v", err)
	}
}

func TestMoveOrderStableAfterPerft(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustParse(t, fen)
			want := slices.Clone(pos.GeneratePseudoLegalMoves().Slice())

			Perft(pos, 3)

			got := pos.GeneratePseudoLegalMoves().Slice()
			if !slices.Equal(got, want) {
				t.Errorf("move order changed after perft:\n got %v\nwant %v", got, want)
			}
		})
	}
}

package board

import (
	"errors"
	"testing"
)

func TestToSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"pawn push", StartFEN, "e2e4", "e4"},
		{"knight", StartFEN, "g1f3", "Nf3"},
		{"pawn capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", "e4d5", "exd5"},
		{"en passant", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", "exf6"},
		{"short castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"long castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"promotion", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", "a8=Q+"},
		{"underpromotion", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8n", "a8=N"},
		{"file disambiguation", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1d1", "Rad1"},
		{"rank disambiguation", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		{"mate", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2", "d8h4", "Qh4#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			before := pos.Copy()
			m := mustMove(t, pos, tc.move)
			if got := m.ToSAN(pos); got != tc.want {
				t.Errorf("ToSAN(%s) = %s, want %s", tc.move, got, tc.want)
			}
			if !pos.Equal(before) {
				t.Errorf("ToSAN modified the position")
			}

			parsed, err := ParseSAN(tc.want, pos)
			if err != nil {
				t.Fatalf("ParseSAN(%s): %v", tc.want, err)
			}
			if parsed != m {
				t.Errorf("ParseSAN(%s) = %s, want %s", tc.want, parsed, m)
			}
		})
	}
}

func TestMovesToSAN(t *testing.T) {
	pos := NewPosition()
	before := pos.Copy()

	var moves []Move
	probe := pos.Copy()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		m := mustMove(t, probe, uci)
		probe.MakeMove(m)
		moves = append(moves, m)
	}

	got, err := MovesToSAN(pos, moves)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d = %s, want %s", i, got[i], want[i])
		}
	}
	if !pos.Equal(before) {
		t.Errorf("MovesToSAN left %s", pos.ToFEN())
	}

	if _, err := MovesToSAN(pos, []Move{NewMove(E2, E5)}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("illegal move error = %v, want ErrIllegalMove", err)
	}
}

func TestParseSANErrors(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"", "Ke2", "Nf6", "e5", "Xe4", "O-O", "e8=Q"} {
		if _, err := ParseSAN(s, pos); err == nil {
			t.Errorf("ParseSAN(%q) succeeded, want error", s)
		}
	}
}

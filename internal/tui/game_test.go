package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/i-am-sentient/sce/internal/board"
	"github.com/i-am-sentient/sce/internal/engine"
)

func newTestGame(t *testing.T, human board.Color, fen string) *Game {
	t.Helper()
	limits := engine.SearchLimits{Depth: 2}
	if fen == "" {
		return NewGame(engine.NewEngine(), human, limits)
	}
	g, err := NewGameFromFEN(engine.NewEngine(), human, limits, fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

func TestParseInput(t *testing.T) {
	g := newTestGame(t, board.White, "")

	tests := []struct {
		input string
		want  string
	}{
		{"e2e4", "e2e4"},
		{"e4", "e2e4"},
		{"Nf3", "g1f3"},
		{" Nc3 ", "b1c3"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			m, err := g.ParseInput(tc.input)
			if err != nil {
				t.Fatalf("ParseInput(%q): %v", tc.input, err)
			}
			if m.String() != tc.want {
				t.Errorf("ParseInput(%q) = %s, want %s", tc.input, m, tc.want)
			}
		})
	}

	for _, bad := range []string{"e5", "Ke2", "zz", "e2e5"} {
		if _, err := g.ParseInput(bad); err == nil {
			t.Errorf("ParseInput(%q) succeeded, want error", bad)
		}
	}
}

func TestPlayHumanAndEngine(t *testing.T) {
	g := newTestGame(t, board.White, "")

	if _, err := g.PlayEngine(context.Background()); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("PlayEngine on human turn: err = %v, want ErrNotYourTurn", err)
	}

	pm, err := g.PlayHuman("e4")
	if err != nil {
		t.Fatalf("PlayHuman: %v", err)
	}
	if pm.SAN != "e4" || pm.Color != board.White {
		t.Errorf("played %+v", pm)
	}

	if _, err := g.PlayHuman("e5"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("PlayHuman on engine turn: err = %v, want ErrNotYourTurn", err)
	}

	reply, err := g.PlayEngine(context.Background())
	if err != nil {
		t.Fatalf("PlayEngine: %v", err)
	}
	if reply.Color != board.Black {
		t.Errorf("engine played for %s", reply.Color)
	}
	if g.LastResult.Depth != 2 {
		t.Errorf("engine searched depth %d, want 2", g.LastResult.Depth)
	}
	if len(g.History()) != 2 {
		t.Errorf("history has %d moves, want 2", len(g.History()))
	}
	if !g.HumanToMove() {
		t.Error("human should be on move")
	}
}

func TestEngineDeliversMate(t *testing.T) {
	g := newTestGame(t, board.Black, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	pm, err := g.PlayEngine(context.Background())
	if err != nil {
		t.Fatalf("PlayEngine: %v", err)
	}
	if pm.SAN != "Ra8#" {
		t.Errorf("engine played %s, want Ra8#", pm.SAN)
	}
	if !g.Over() {
		t.Fatal("game should be over")
	}
	if got, want := g.Outcome(), "Checkmate, White wins"; got != want {
		t.Errorf("Outcome = %q, want %q", got, want)
	}
	if _, err := g.PlayHuman("Kh8"); !errors.Is(err, ErrGameOver) {
		t.Errorf("PlayHuman after mate: err = %v, want ErrGameOver", err)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
	}{
		{"running", board.StartFEN, ""},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", "Stalemate"},
		{"mated", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", "Checkmate, White wins"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, board.White, tc.fen)
			if got := g.Outcome(); got != tc.want {
				t.Errorf("Outcome = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMoveText(t *testing.T) {
	g := newTestGame(t, board.White, "")
	for _, m := range []string{"e4", "e5", "Nf3"} {
		g.human = g.pos.SideToMove // drive both sides through PlayHuman
		if _, err := g.PlayHuman(m); err != nil {
			t.Fatalf("PlayHuman(%q): %v", m, err)
		}
	}
	if got, want := g.MoveText(), "1. e4 e5 2. Nf3"; got != want {
		t.Errorf("MoveText = %q, want %q", got, want)
	}

	g = newTestGame(t, board.Black, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if _, err := g.PlayHuman("c5"); err != nil {
		t.Fatalf("PlayHuman: %v", err)
	}
	if got, want := g.MoveText(), "1... c5"; got != want {
		t.Errorf("MoveText = %q, want %q", got, want)
	}
}

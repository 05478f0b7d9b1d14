// Package tui is a terminal front end for playing against the engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/i-am-sentient/sce/internal/board"
	"github.com/i-am-sentient/sce/internal/engine"
)

// ErrGameOver is returned when a move is attempted after the game ended.
var ErrGameOver = errors.New("game is over")

// ErrNotYourTurn is returned when the human tries to move for the engine.
var ErrNotYourTurn = errors.New("not your turn")

// PlayedMove is one entry of the game record.
type PlayedMove struct {
	Move  board.Move
	SAN   string
	Color board.Color
}

// Game holds the state of a human vs engine game. It is not safe for
// concurrent use; the view serializes access on the UI goroutine.
type Game struct {
	pos     *board.Position
	eng     *engine.Engine
	human   board.Color
	limits  engine.SearchLimits
	history []PlayedMove

	LastResult engine.Result
}

// NewGame starts a game from the standard position with the human playing
// the given color.
func NewGame(eng *engine.Engine, human board.Color, limits engine.SearchLimits) *Game {
	return &Game{
		pos:    board.NewPosition(),
		eng:    eng,
		human:  human,
		limits: limits,
	}
}

// NewGameFromFEN starts a game from fen.
func NewGameFromFEN(eng *engine.Engine, human board.Color, limits engine.SearchLimits, fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := NewGame(eng, human, limits)
	g.pos = pos
	return g, nil
}

// Position returns the live position. Callers must not modify it.
func (g *Game) Position() *board.Position { return g.pos }

// Human returns the human's color.
func (g *Game) Human() board.Color { return g.human }

// History returns the moves played so far.
func (g *Game) History() []PlayedMove { return g.history }

// HumanToMove reports whether the human is on move in an unfinished game.
func (g *Game) HumanToMove() bool {
	return g.pos.SideToMove == g.human && !g.Over()
}

// Over reports whether the side to move has no legal moves.
func (g *Game) Over() bool {
	return !g.pos.HasLegalMoves()
}

// Outcome describes the game result, or "" while the game is running.
func (g *Game) Outcome() string {
	switch {
	case g.pos.IsCheckmate():
		return fmt.Sprintf("Checkmate, %s wins", g.pos.SideToMove.Other())
	case g.pos.IsStalemate():
		return "Stalemate"
	default:
		return ""
	}
}

// ParseInput accepts a move in SAN ("Nf3", "exd5", "O-O") or coordinate
// notation ("g1f3", "e7e8q").
func (g *Game) ParseInput(text string) (board.Move, error) {
	text = strings.TrimSpace(text)
	if m, err := board.ParseMove(text, g.pos); err == nil {
		return m, nil
	}
	return board.ParseSAN(text, g.pos)
}

// PlayHuman plays the human's move given as text.
func (g *Game) PlayHuman(text string) (PlayedMove, error) {
	if g.Over() {
		return PlayedMove{}, ErrGameOver
	}
	if g.pos.SideToMove != g.human {
		return PlayedMove{}, ErrNotYourTurn
	}
	m, err := g.ParseInput(text)
	if err != nil {
		return PlayedMove{}, err
	}
	return g.play(m), nil
}

// PlayEngine searches the current position and plays the engine's choice.
// The search runs on a copy so the view can keep drawing g's position.
func (g *Game) PlayEngine(ctx context.Context) (PlayedMove, error) {
	if g.Over() {
		return PlayedMove{}, ErrGameOver
	}
	if g.pos.SideToMove == g.human {
		return PlayedMove{}, ErrNotYourTurn
	}

	res := g.eng.Search(ctx, g.pos.Copy(), g.limits)
	g.LastResult = res
	if res.Move == board.NoMove {
		return PlayedMove{}, ErrGameOver
	}
	return g.play(res.Move), nil
}

func (g *Game) play(m board.Move) PlayedMove {
	pm := PlayedMove{Move: m, SAN: m.ToSAN(g.pos), Color: g.pos.SideToMove}
	g.pos.MakeMove(m)
	g.history = append(g.history, pm)
	return pm
}

// MoveText renders the game record as numbered SAN, "1. e4 e5 2. Nf3".
func (g *Game) MoveText() string {
	var sb strings.Builder
	for i, pm := range g.history {
		if pm.Color == board.White || i == 0 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			// Move numbers are reconstructed from the end of the record.
			n := g.pos.FullMoveNumber - g.fullMovesAfter(i)
			if pm.Color == board.White {
				fmt.Fprintf(&sb, "%d.", n)
			} else {
				fmt.Fprintf(&sb, "%d...", n)
			}
		}
		sb.WriteByte(' ')
		sb.WriteString(pm.SAN)
	}
	return sb.String()
}

// fullMovesAfter counts the fullmove increments caused by moves after i.
func (g *Game) fullMovesAfter(i int) int {
	n := 0
	for _, pm := range g.history[i:] {
		if pm.Color == board.Black {
			n++
		}
	}
	return n
}

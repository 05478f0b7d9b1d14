// Package engine implements the chess search engine.
package engine

import (
	"github.com/i-am-sentient/sce/internal/board"
)

// Evaluator scores a position in centipawns, positive favoring White.
// It must not modify the position.
type Evaluator func(pos *board.Position) int

// Evaluate returns the material balance of the position (positive favors white).
// Both kings are counted, so they cancel out in any position reached by play.
func Evaluate(pos *board.Position) int {
	return pos.Material()
}

// relativeEval returns the evaluation from the side to move's perspective.
func relativeEval(eval Evaluator, pos *board.Position) int {
	score := eval(pos)
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

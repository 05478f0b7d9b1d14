package engine

import (
	"sync/atomic"
	"time"

	"github.com/i-am-sentient/sce/internal/board"
)

// Search constants
const (
	Infinity     = 1_000_000_000
	MateScore    = 1_000_000
	MaxPly       = 64
	DefaultDepth = 3
)

// Searcher performs the alpha-beta search on a single position that it
// explores in place with make/unmake.
type Searcher struct {
	eval     Evaluator
	nodes    uint64
	deadline time.Time
	stopFlag atomic.Bool
}

// NewSearcher creates a new searcher using eval at the leaves.
func NewSearcher(eval Evaluator) *Searcher {
	if eval == nil {
		eval = Evaluate
	}
	return &Searcher{eval: eval}
}

// Stop signals the search to stop. Safe to call from any goroutine.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset prepares the searcher for a new search with an optional deadline.
func (s *Searcher) Reset(deadline time.Time) {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.deadline = deadline
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// timedOut polls the deadline and the stop flag. Once the deadline has
// passed the flag is raised so every frame on the stack unwinds.
func (s *Searcher) timedOut() bool {
	if s.stopFlag.Load() {
		return true
	}
	if !s.deadline.IsZero() && !time.Now().Before(s.deadline) {
		s.stopFlag.Store(true)
		return true
	}
	return false
}

// terminalScore scores a node whose side to move has no legal moves.
// Mates further from the root score closer to zero so the search prefers
// the shortest mate.
func terminalScore(pos *board.Position, ply int) int {
	if pos.InCheck() {
		return -MateScore + ply
	}
	return 0
}

// negamax returns the score of pos from the side to move's perspective.
// A stopped search returns 0, which callers discard.
func (s *Searcher) negamax(pos *board.Position, depth, ply, alpha, beta int) int {
	if s.timedOut() {
		return 0
	}
	s.nodes++

	if depth <= 0 || ply >= MaxPly {
		if !pos.HasLegalMoves() {
			return terminalScore(pos, ply)
		}
		return relativeEval(s.eval, pos)
	}

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		return terminalScore(pos, ply)
	}

	best := -Infinity
	for i := 0; i < moves.Len(); i++ {
		undo := pos.MakeMove(moves.Get(i))
		score := -s.negamax(pos, depth-1, ply+1, -beta, -alpha)
		pos.UnmakeMove(undo)

		if s.stopFlag.Load() {
			return 0
		}

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break // Beta cutoff
		}
	}

	return best
}

// searchRoot runs one iteration at the given depth over the root moves in
// generator order. ok is false if the iteration was aborted.
func (s *Searcher) searchRoot(pos *board.Position, moves *board.MoveList, depth int) (best board.Move, bestScore int, ok bool) {
	alpha, beta := -Infinity, Infinity
	best, bestScore = board.NoMove, -Infinity

	for i := 0; i < moves.Len(); i++ {
		if s.timedOut() {
			return best, bestScore, false
		}

		m := moves.Get(i)
		undo := pos.MakeMove(m)
		score := -s.negamax(pos, depth-1, 1, -beta, -alpha)
		pos.UnmakeMove(undo)

		if s.stopFlag.Load() {
			return best, bestScore, false
		}

		if score > bestScore {
			bestScore = score
			best = m
		}
		if score > alpha {
			alpha = score
		}
	}

	return best, bestScore, true
}

// staticChoice picks the root move with the best immediate evaluation,
// first in generator order on ties. It ignores the deadline and is used
// when no iteration completed in time.
func (s *Searcher) staticChoice(pos *board.Position, moves *board.MoveList) (board.Move, int) {
	best, bestScore := board.NoMove, -Infinity
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		score := -relativeEval(s.eval, pos)
		pos.UnmakeMove(undo)
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, bestScore
}

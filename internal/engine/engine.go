package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/i-am-sentient/sce/internal/board"
)

// SearchInfo contains information about a completed search depth.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	NPS      uint64
	Time     time.Duration
	BestMove board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = engine default)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
}

// Result is the outcome of a search.
type Result struct {
	Move    board.Move
	Score   int // From the side to move's perspective
	Depth   int // Last fully completed depth, 0 if none
	Nodes   uint64
	Elapsed time.Duration
}

// Engine is the chess search engine.
type Engine struct {
	searcher *Searcher
	options  Options

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with material evaluation and
// default options.
func NewEngine() *Engine {
	return &Engine{
		searcher: NewSearcher(Evaluate),
		options:  DefaultOptions(),
	}
}

// SetEvaluator replaces the leaf evaluator. It must not be called while a
// search is running.
func (e *Engine) SetEvaluator(eval Evaluator) {
	e.searcher = NewSearcher(eval)
}

// Options returns the engine options.
func (e *Engine) Options() Options {
	return e.options
}

// SetOptions replaces the engine options; invalid fields keep their defaults.
func (e *Engine) SetOptions(o Options) {
	e.options = o.normalized()
}

// Search finds the best move for pos. pos is explored in place and is
// restored before Search returns. Cancelling ctx stops the search like Stop.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits SearchLimits) Result {
	startTime := time.Now()

	maxDepth := e.options.DefaultDepth
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	} else if limits.Infinite {
		maxDepth = MaxPly
	}
	if maxDepth > MaxPly {
		maxDepth = MaxPly
	}

	var deadline time.Time
	if limits.MoveTime > 0 && !limits.Infinite {
		deadline = startTime.Add(limits.MoveTime)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	e.searcher.Reset(deadline)
	stopWatch := context.AfterFunc(ctx, e.searcher.Stop)
	defer stopWatch()

	result := Result{Move: board.NoMove}

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		result.Score = terminalScore(pos, 0)
		result.Elapsed = time.Since(startTime)
		return result
	}

	// Iterative deepening
	for depth := 1; depth <= maxDepth; depth++ {
		if e.searcher.timedOut() {
			break
		}

		move, score, ok := e.searcher.searchRoot(pos, moves, depth)
		if !ok {
			break
		}

		result.Move = move
		result.Score = score
		result.Depth = depth

		if e.OnInfo != nil {
			elapsed := time.Since(startTime)
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    e.searcher.Nodes(),
				NPS:      nps(e.searcher.Nodes(), elapsed),
				Time:     elapsed,
				BestMove: move,
			})
		}

		// Early termination: found mate
		if _, mate := MateIn(score); mate {
			break
		}
	}

	if result.Depth == 0 {
		result.Move, result.Score = e.searcher.staticChoice(pos, moves)
	}

	result.Nodes = e.searcher.Nodes()
	result.Elapsed = time.Since(startTime)
	return result
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// Evaluate returns the static evaluation of a position from White's side.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.searcher.eval(pos)
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	ms := elapsed.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return nodes * 1000 / uint64(ms)
}

// MateIn returns the number of moves to mate encoded in score, negative
// when the side to move is being mated. ok is false for ordinary scores.
func MateIn(score int) (moves int, ok bool) {
	switch {
	case score > MateScore-MaxPly:
		return (MateScore - score + 1) / 2, true
	case score < -MateScore+MaxPly:
		return -(MateScore + score) / 2, true
	default:
		return 0, false
	}
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if n, ok := MateIn(score); ok {
		if n > 0 {
			return fmt.Sprintf("Mate in %d", n)
		}
		return fmt.Sprintf("Mated in %d", -n)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}

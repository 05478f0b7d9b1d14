package engine

import (
	"time"

	"github.com/i-am-sentient/sce/internal/board"
)

// Options holds the tunable engine settings.
type Options struct {
	DefaultDepth     int           // depth used when a search gives none
	MoveOverhead     time.Duration // safety margin subtracted from each allocation
	DefaultMovesToGo int           // assumed moves until the next time control
	MinThinkTime     time.Duration // floor for any allocation
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{
		DefaultDepth:     DefaultDepth,
		MoveOverhead:     50 * time.Millisecond,
		DefaultMovesToGo: 40,
		MinThinkTime:     10 * time.Millisecond,
	}
}

// normalized replaces out-of-range fields with their defaults.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.DefaultDepth < 1 || o.DefaultDepth > MaxPly {
		o.DefaultDepth = def.DefaultDepth
	}
	if o.MoveOverhead < 0 {
		o.MoveOverhead = def.MoveOverhead
	}
	if o.DefaultMovesToGo < 1 {
		o.DefaultMovesToGo = def.DefaultMovesToGo
	}
	if o.MinThinkTime <= 0 {
		o.MinThinkTime = def.MinThinkTime
	}
	return o
}

// UCILimits contains UCI time control parameters.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	HasClock  bool             // both wtime and btime were given
	MovesToGo int              // moves until next time control (0 = use default)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Infinite  bool             // search until stopped
}

// AllocateTime computes the budget for one move:
// remaining/movesToGo + 0.9*inc - overhead, floored at the minimum think time.
func (o Options) AllocateTime(remaining, inc time.Duration, movesToGo int) time.Duration {
	o = o.normalized()
	if movesToGo <= 0 {
		movesToGo = o.DefaultMovesToGo
	}

	budget := remaining/time.Duration(movesToGo) + inc*9/10 - o.MoveOverhead
	if budget < o.MinThinkTime {
		budget = o.MinThinkTime
	}
	return budget
}

// AllocateTime computes the budget for one move with the default options.
func AllocateTime(remaining, inc time.Duration, movesToGo int) time.Duration {
	return DefaultOptions().AllocateTime(remaining, inc, movesToGo)
}

// SearchLimits converts UCI parameters into search limits for the side us.
// movetime wins over the clock; without either the search is depth-bounded.
func (o Options) SearchLimits(l UCILimits, us board.Color) SearchLimits {
	limits := SearchLimits{
		Depth:    l.Depth,
		Infinite: l.Infinite && l.MoveTime == 0,
	}

	switch {
	case l.MoveTime > 0:
		limits.MoveTime = l.MoveTime
	case l.Infinite:
	case l.HasClock:
		limits.MoveTime = o.AllocateTime(l.Time[us], l.Inc[us], l.MovesToGo)
	}

	return limits
}

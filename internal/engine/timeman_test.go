package engine

import (
	"testing"
	"time"

	"github.com/i-am-sentient/sce/internal/board"
)

func TestAllocateTime(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		inc       time.Duration
		movesToGo int
		want      time.Duration
	}{
		{"sudden death default moves", 60 * time.Second, 0, 0, 1450 * time.Millisecond},
		{"with increment", 10 * time.Second, time.Second, 10, 1850 * time.Millisecond},
		{"floored", time.Second, 0, 0, 10 * time.Millisecond},
		{"nothing left", 0, 0, 5, 10 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AllocateTime(tc.remaining, tc.inc, tc.movesToGo); got != tc.want {
				t.Errorf("AllocateTime(%v, %v, %d) = %v, want %v", tc.remaining, tc.inc, tc.movesToGo, got, tc.want)
			}
		})
	}
}

func TestAllocateTimeOptions(t *testing.T) {
	opts := Options{
		DefaultDepth:     4,
		MoveOverhead:     0,
		DefaultMovesToGo: 20,
		MinThinkTime:     100 * time.Millisecond,
	}
	if got := opts.AllocateTime(40*time.Second, 0, 0); got != 2*time.Second {
		t.Errorf("AllocateTime = %v, want 2s", got)
	}
	if got := opts.AllocateTime(time.Second, 0, 0); got != 100*time.Millisecond {
		t.Errorf("AllocateTime = %v, want the 100ms floor", got)
	}
}

func TestSearchLimitsFromUCI(t *testing.T) {
	opts := DefaultOptions()
	clock := UCILimits{
		Time:     [2]time.Duration{60 * time.Second, 20 * time.Second},
		HasClock: true,
	}

	tests := []struct {
		name   string
		limits UCILimits
		us     board.Color
		want   SearchLimits
	}{
		{"depth only", UCILimits{Depth: 5}, board.White, SearchLimits{Depth: 5}},
		{"movetime", UCILimits{MoveTime: time.Second}, board.White, SearchLimits{MoveTime: time.Second}},
		{"infinite", UCILimits{Infinite: true}, board.White, SearchLimits{Infinite: true}},
		{"movetime beats infinite", UCILimits{MoveTime: time.Second, Infinite: true}, board.Black, SearchLimits{MoveTime: time.Second}},
		{"white clock", clock, board.White, SearchLimits{MoveTime: 1450 * time.Millisecond}},
		{"black clock", clock, board.Black, SearchLimits{MoveTime: 450 * time.Millisecond}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := opts.SearchLimits(tc.limits, tc.us); got != tc.want {
				t.Errorf("SearchLimits = %+v, want %+v", got, tc.want)
			}
		})
	}
}

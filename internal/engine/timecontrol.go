package engine

import (
	"time"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

// SearchParams carries the limits of one "go" request.
type SearchParams struct {
	Infinite  bool
	Ponder    bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
}

// TimeControl splits the budget into a soft and a hard wall. The hard wall
// is polled inside the search and aborts it; the soft wall is consulted only
// between iterations and stops the deepening loop: an iteration unlikely to
// finish in time is better not started.
type TimeControl struct {
	softWall    time.Duration
	hardWall    time.Duration
	maxDepth    int
	nodesWall   uint64
	start       time.Time
	competition bool
}

// NewTimeControl derives the walls from the request limits. With a real
// clock the engine enters competition mode and budgets a slice of the
// remaining time plus most of the increment.
func NewTimeControl(stm chess.Color, params SearchParams, now time.Time) TimeControl {
	tc := TimeControl{start: now}

	switch {
	case params.Infinite:
		return tc
	case params.MoveTime > 0:
		tc.softWall = params.MoveTime
		tc.hardWall = params.MoveTime
		return tc
	case params.Depth > 0:
		tc.maxDepth = params.Depth
		return tc
	case params.Nodes > 0:
		tc.nodesWall = params.Nodes
		return tc
	}

	remaining, inc := params.WTime, params.WInc
	if stm == chess.Black {
		remaining, inc = params.BTime, params.BInc
	}
	tc.competition = true

	base := time.Duration(float64(remaining)*0.05 + float64(inc)*0.75)
	tc.softWall = time.Duration(float64(base) * 0.6)
	tc.hardWall = time.Duration(float64(base) * 1.5)
	if limit := time.Duration(float64(remaining) * 0.9); tc.hardWall > limit {
		tc.hardWall = limit
	}
	return tc
}

// CompetitionMode reports whether the request runs on a game clock.
func (tc *TimeControl) CompetitionMode() bool {
	return tc.competition
}

// Elapsed returns the time since the search started, in milliseconds.
func (tc *TimeControl) Elapsed() int64 {
	return time.Since(tc.start).Milliseconds()
}

// HitHardLimit reports whether the search must abort now.
func (tc *TimeControl) HitHardLimit(depth int, nodes uint64) bool {
	if tc.nodesWall > 0 && nodes >= tc.nodesWall {
		return true
	}
	if tc.maxDepth > 0 {
		return depth > tc.maxDepth
	}
	return tc.hardWall > 0 && time.Since(tc.start) >= tc.hardWall
}

// HitSoftLimit reports whether another iteration should start. stability is
// the count of consecutive iterations whose root score held steady; a
// stable score releases time, a swinging one buys more.
func (tc *TimeControl) HitSoftLimit(depth int, nodes uint64, stability int) bool {
	if tc.nodesWall > 0 && nodes >= tc.nodesWall {
		return true
	}
	if tc.maxDepth > 0 {
		return depth > tc.maxDepth
	}
	if tc.softWall == 0 {
		return false
	}
	scale := 1.0
	if depth >= 5 {
		if stability > 5 {
			stability = 5
		}
		scale += 0.5 - float64(stability)/10
	}
	return time.Since(tc.start) >= time.Duration(float64(tc.softWall)*scale)
}

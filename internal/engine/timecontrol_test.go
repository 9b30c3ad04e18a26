package engine

import (
	"testing"
	"time"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

func wantNear(t *testing.T, what string, got, want time.Duration) {
	t.Helper()
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Millisecond {
		t.Errorf("%s = %v, want about %v", what, got, want)
	}
}

func TestTimeControlMoveTime(t *testing.T) {
	tc := NewTimeControl(chess.White, SearchParams{MoveTime: 500 * time.Millisecond}, time.Now())
	if tc.softWall != 500*time.Millisecond || tc.hardWall != 500*time.Millisecond {
		t.Errorf("movetime walls = %v/%v, want 500ms both", tc.softWall, tc.hardWall)
	}
	if tc.CompetitionMode() {
		t.Error("movetime is not competition mode")
	}
}

func TestTimeControlDepthLimit(t *testing.T) {
	tc := NewTimeControl(chess.White, SearchParams{Depth: 4}, time.Now())

	if tc.HitHardLimit(4, 0) {
		t.Error("hard limit must allow the final iteration to run")
	}
	if !tc.HitHardLimit(5, 0) {
		t.Error("hard limit must trip past the requested depth")
	}
	if tc.HitSoftLimit(4, 0, 0) {
		t.Error("soft limit must let the final iteration start")
	}
	if !tc.HitSoftLimit(5, 0, 0) {
		t.Error("soft limit must stop after the requested depth")
	}
}

func TestTimeControlNodesLimit(t *testing.T) {
	tc := NewTimeControl(chess.White, SearchParams{Nodes: 2000}, time.Now())

	if tc.HitHardLimit(10, 1999) {
		t.Error("node budget not yet exhausted")
	}
	if !tc.HitHardLimit(10, 2000) {
		t.Error("node budget exhausted, hard limit must trip")
	}
	if !tc.HitSoftLimit(10, 2000, 0) {
		t.Error("node budget exhausted, soft limit must trip")
	}
}

func TestTimeControlCompetitionBudget(t *testing.T) {
	params := SearchParams{
		WTime: 60 * time.Second,
		BTime: 30 * time.Second,
		WInc:  time.Second,
		BInc:  2 * time.Second,
	}
	tc := NewTimeControl(chess.White, params, time.Now())
	if !tc.CompetitionMode() {
		t.Fatal("clock search must be competition mode")
	}

	// base = 0.05*60s + 0.75*1s = 3.75s; soft = 2.25s; hard = 5.625s.
	wantNear(t, "soft wall", tc.softWall, 2250*time.Millisecond)
	wantNear(t, "hard wall", tc.hardWall, 5625*time.Millisecond)

	// Black reads the other clock.
	tc = NewTimeControl(chess.Black, params, time.Now())
	// base = 0.05*30s + 0.75*2s = 3s; soft = 1.8s; hard = min(4.5s, 27s).
	wantNear(t, "black soft wall", tc.softWall, 1800*time.Millisecond)
	wantNear(t, "black hard wall", tc.hardWall, 4500*time.Millisecond)
}

func TestTimeControlHardCappedByRemaining(t *testing.T) {
	// Tiny clock: hard wall must not exceed 90% of remaining time.
	params := SearchParams{WTime: time.Second, WInc: 10 * time.Second}
	tc := NewTimeControl(chess.White, params, time.Now())
	if tc.hardWall > 900*time.Millisecond {
		t.Errorf("hard wall %v exceeds 90%% of remaining time", tc.hardWall)
	}
}

func TestTimeControlStabilityScaling(t *testing.T) {
	start := time.Now().Add(-2 * time.Second)
	tc := TimeControl{softWall: 1800 * time.Millisecond, start: start, competition: true}

	// Unstable score stretches the soft budget: scale 1.5 -> 2.7s.
	if tc.HitSoftLimit(6, 0, 0) {
		t.Error("unstable search should still have soft budget at 2s")
	}
	// Stable score releases time: scale 1.0 -> 1.8s, already exceeded.
	if !tc.HitSoftLimit(6, 0, 5) {
		t.Error("stable search should have stopped at 2s")
	}
	// Below depth 5 the scaling is inactive.
	if !tc.HitSoftLimit(4, 0, 0) {
		t.Error("no scaling below depth 5")
	}
}

func TestTimeControlInfinite(t *testing.T) {
	tc := NewTimeControl(chess.White, SearchParams{Infinite: true}, time.Now().Add(-time.Hour))
	if tc.HitHardLimit(50, 1<<40) {
		t.Error("infinite search must never hit the hard limit")
	}
	if tc.HitSoftLimit(50, 1<<40, 0) {
		t.Error("infinite search must never hit the soft limit")
	}
}

package engine

import (
	"testing"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

func TestKillerInsertion(t *testing.T) {
	var kt KillerTable
	m1 := chess.NewMove(chess.E2, chess.E4)
	m2 := chess.NewMove(chess.D2, chess.D4)
	m3 := chess.NewMove(chess.G1, chess.F3)

	kt.Add(m1)
	if kt.Killer1 != m1 || kt.Killer2 != chess.NoMove {
		t.Fatalf("after first add: %+v", kt)
	}

	// Duplicates are ignored.
	kt.Add(m1)
	if kt.Killer1 != m1 || kt.Killer2 != chess.NoMove {
		t.Fatalf("duplicate add changed the table: %+v", kt)
	}

	kt.Add(m2)
	if kt.Killer1 != m2 || kt.Killer2 != m1 {
		t.Fatalf("second add did not demote: %+v", kt)
	}

	kt.Add(m3)
	if kt.Killer1 != m3 || kt.Killer2 != m2 {
		t.Fatalf("third add did not rotate: %+v", kt)
	}

	if !kt.Has(m3) || !kt.Has(m2) || kt.Has(m1) {
		t.Error("Has disagrees with slots")
	}
}

// TestKillerSlotsStayDistinct checks the structural invariant: the two
// slots never hold the same move, whatever the insertion sequence.
func TestKillerSlotsStayDistinct(t *testing.T) {
	moves := []chess.Move{
		chess.NewMove(chess.E2, chess.E4),
		chess.NewMove(chess.D2, chess.D4),
		chess.NewMove(chess.G1, chess.F3),
		chess.NewMove(chess.E2, chess.E4),
		chess.NewMove(chess.D2, chess.D4),
		chess.NewMove(chess.D2, chess.D4),
		chess.NewMove(chess.B1, chess.C3),
	}
	var kt KillerTable
	for i, m := range moves {
		kt.Add(m)
		if kt.Killer1 == kt.Killer2 && kt.Killer1 != chess.NoMove {
			t.Fatalf("after %d adds both slots hold %s", i+1, kt.Killer1)
		}
	}
}

func TestQuietHistoryStaysBounded(t *testing.T) {
	var h QuietHistory
	m := chess.NewMove(chess.E2, chess.E4)

	for i := 0; i < 10000; i++ {
		h.Update(chess.White, m, 500)
		if got := h.Get(chess.White, m); got > maxHistoryScore || got < minHistoryScore {
			t.Fatalf("quiet history escaped bounds: %d", got)
		}
	}
	if got := h.Get(chess.White, m); got <= 0 {
		t.Errorf("positive updates should leave a positive score, got %d", got)
	}

	for i := 0; i < 20000; i++ {
		h.Update(chess.White, m, -750)
		if got := h.Get(chess.White, m); got > maxHistoryScore || got < minHistoryScore {
			t.Fatalf("quiet history escaped bounds: %d", got)
		}
	}
	if got := h.Get(chess.White, m); got >= 0 {
		t.Errorf("negative updates should leave a negative score, got %d", got)
	}
}

func TestCaptureHistoryStaysBounded(t *testing.T) {
	var h CaptureHistory
	for i := 0; i < 5000; i++ {
		h.Update(chess.Black, chess.Knight, chess.D5, chess.Pawn, 961)
		got := h.Get(chess.Black, chess.Knight, chess.D5, chess.Pawn)
		if got > maxHistoryScore || got < minHistoryScore {
			t.Fatalf("capture history escaped bounds: %d", got)
		}
	}
}

func TestGravityIsSelfLimiting(t *testing.T) {
	// Under a constant bonus the gravity rule approaches the cap
	// asymptotically instead of slamming into a clamp, and a single
	// opposite update still moves the score.
	var h QuietHistory
	m := chess.NewMove(chess.A2, chess.A3)
	for i := 0; i < 200; i++ {
		h.Update(chess.White, m, 1000)
	}
	saturated := h.Get(chess.White, m)
	if saturated > maxHistoryScore || saturated < maxHistoryScore-200 {
		t.Errorf("expected near-saturation below the cap, got %d", saturated)
	}

	h.Update(chess.White, m, -1000)
	if got := h.Get(chess.White, m); got >= saturated {
		t.Errorf("a negative update must bite even at saturation: %d -> %d", saturated, got)
	}
}

func TestHistoryPerSideIsolation(t *testing.T) {
	var h QuietHistory
	m := chess.NewMove(chess.E2, chess.E4)
	h.Update(chess.White, m, 400)
	if h.Get(chess.Black, m) != 0 {
		t.Error("white update leaked into black's table")
	}
}

func TestStabilityCounter(t *testing.T) {
	var sh SearchHistory
	sh.UpdateStability(100, 110)
	sh.UpdateStability(110, 95)
	if sh.Stability != 2 {
		t.Errorf("stability = %d, want 2", sh.Stability)
	}
	sh.UpdateStability(95, 200)
	if sh.Stability != 0 {
		t.Errorf("stability after a swing = %d, want 0", sh.Stability)
	}
	sh.UpdateStability(ValueNone, 10)
	if sh.Stability != 0 {
		t.Errorf("stability with no previous score = %d, want 0", sh.Stability)
	}
}

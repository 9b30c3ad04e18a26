package engine

import "testing"

func TestMateEncoding(t *testing.T) {
	if MateIn(0) != ValueMate {
		t.Errorf("MateIn(0) = %d, want %d", MateIn(0), ValueMate)
	}
	if MatedIn(0) != ValueMated {
		t.Errorf("MatedIn(0) = %d, want %d", MatedIn(0), ValueMated)
	}
	if MateIn(3) != ValueMate-3 {
		t.Errorf("MateIn(3) = %d", MateIn(3))
	}
	if MatedIn(3) != ValueMated+3 {
		t.Errorf("MatedIn(3) = %d", MatedIn(3))
	}
}

func TestIsMate(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{ValueDraw, false},
		{100, false},
		{-3200, false},
		{MateThreshold, true},
		{-MateThreshold, true},
		{MateIn(5), true},
		{MatedIn(5), true},
		{MateThreshold - 1, false},
		{ValueNone, false},
	}
	for _, tc := range cases {
		if got := tc.v.IsMate(); got != tc.want {
			t.Errorf("IsMate(%d) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestMateDistance(t *testing.T) {
	// Mate in one ply is mate in one move; three plies is mate in two.
	if got := MateIn(1).MateDistance(); got != 1 {
		t.Errorf("MateIn(1).MateDistance() = %d, want 1", got)
	}
	if got := MateIn(3).MateDistance(); got != 2 {
		t.Errorf("MateIn(3).MateDistance() = %d, want 2", got)
	}
	if got := MatedIn(2).MateDistance(); got != -1 {
		t.Errorf("MatedIn(2).MateDistance() = %d, want -1", got)
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{150, "cp 150"},
		{-42, "cp -42"},
		{MateIn(1), "mate 1"},
		{MateIn(5), "mate 3"},
		{MatedIn(2), "mate -1"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("Value(%d).String() = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestScoreFuse(t *testing.T) {
	s := Score{MG: 100, EG: 0}
	if got := s.Fuse(PhaseMax, PhaseMax); got != 100 {
		t.Errorf("pure middlegame fuse = %d, want 100", got)
	}
	if got := s.Fuse(0, PhaseMax); got != 0 {
		t.Errorf("pure endgame fuse = %d, want 0", got)
	}
	if got := s.Fuse(PhaseMax/2, PhaseMax); got != 50 {
		t.Errorf("half phase fuse = %d, want 50", got)
	}

	huge := Score{MG: 32600, EG: 32600}
	if got := huge.Fuse(PhaseMax, PhaseMax); got != MateThreshold {
		t.Errorf("fuse must clamp to +-%d, got %d", MateThreshold, got)
	}
}

func TestScoreArithmetic(t *testing.T) {
	a := S(10, 20)
	b := S(3, 5)
	if got := a.Add(b); got != S(13, 25) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != S(7, 15) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Neg(); got != S(-10, -20) {
		t.Errorf("Neg = %v", got)
	}
}

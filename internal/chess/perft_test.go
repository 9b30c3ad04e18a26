package chess

import "testing"

// perft counts leaf nodes at a fixed depth; the standard way to verify move
// generation against known-good totals.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}
	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	expected := []int64{1, 20, 400, 8902, 197281}
	for depth := 1; depth < len(expected); depth++ {
		if got := perft(pos, depth); got != expected[depth] {
			t.Errorf("perft(%d) = %d, want %d", depth, got, expected[depth])
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	expected := []int64{1, 48, 2039, 97862}
	for depth := 1; depth < len(expected); depth++ {
		if got := perft(pos, depth); got != expected[depth] {
			t.Errorf("perft(%d) = %d, want %d", depth, got, expected[depth])
		}
	}
}

func TestPerftEnPassantPins(t *testing.T) {
	// Position 3 from the chessprogramming wiki, dense with en passant and
	// pin edge cases.
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	expected := []int64{1, 14, 191, 2812, 43238}
	for depth := 1; depth < len(expected); depth++ {
		if got := perft(pos, depth); got != expected[depth] {
			t.Errorf("perft(%d) = %d, want %d", depth, got, expected[depth])
		}
	}
}

func TestPerftPromotions(t *testing.T) {
	pos, err := ParseFEN("n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	expected := []int64{1, 24, 496, 9483}
	for depth := 1; depth < len(expected); depth++ {
		if got := perft(pos, depth); got != expected[depth] {
			t.Errorf("perft(%d) = %d, want %d", depth, got, expected[depth])
		}
	}
}

package chess

// IsHalfMoveDraw reports a draw by the fifty-move rule.
func (p *Position) IsHalfMoveDraw() bool {
	return p.HalfMoves >= 100
}

// IsRepetition reports whether the current position occurred before in the
// hash history. A single earlier occurrence counts: inside a search, allowing
// the opponent to force the same position twice already proves the draw.
func (p *Position) IsRepetition() bool {
	return p.RepetitionCount() >= 1
}

// RepetitionCount returns how many times the current position occurred
// before the current occurrence. Only positions since the last irreversible
// move can match, so the scan is bounded by the halfmove clock.
func (p *Position) RepetitionCount() int {
	n := len(p.history)
	limit := n - 1 - p.HalfMoves
	if limit < 0 {
		limit = 0
	}
	count := 0
	// Same side to move, so matches are two plies apart.
	for i := n - 3; i >= limit; i -= 2 {
		if p.history[i] == p.Hash {
			count++
		}
	}
	return count
}

// IsInsufficientMaterial reports a dead position: no pawns, rooks or queens,
// and at most a single minor piece on one side.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn]|
		p.Pieces[White][Rook]|p.Pieces[Black][Rook]|
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}
	wMinors := (p.Pieces[White][Knight] | p.Pieces[White][Bishop]).Count()
	bMinors := (p.Pieces[Black][Knight] | p.Pieces[Black][Bishop]).Count()
	return (wMinors <= 1 && bMinors == 0) || (bMinors <= 1 && wMinors == 0)
}

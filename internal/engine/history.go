package engine

import (
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

const (
	maxHistoryScore = 10000
	minHistoryScore = -10000
)

// KillerTable holds the two most recent quiet cutoff moves of one ply.
type KillerTable struct {
	Killer1 chess.Move
	Killer2 chess.Move
}

// Add records a new killer; the previous slot-1 move demotes to slot 2,
// duplicates are ignored.
func (kt *KillerTable) Add(m chess.Move) {
	switch {
	case kt.Killer1 == chess.NoMove:
		kt.Killer1 = m
	case m != kt.Killer1 && m != kt.Killer2:
		kt.Killer2 = kt.Killer1
		kt.Killer1 = m
	}
}

// Has reports whether m sits in either slot.
func (kt *KillerTable) Has(m chess.Move) bool {
	return m == kt.Killer1 || m == kt.Killer2
}

// Clear empties both slots.
func (kt *KillerTable) Clear() {
	kt.Killer1 = chess.NoMove
	kt.Killer2 = chess.NoMove
}

// QuietHistory is the butterfly table for quiet moves, indexed by side, from
// and to square.
type QuietHistory struct {
	data [2][64][64]int16
}

// Get returns the score for a quiet move.
func (h *QuietHistory) Get(side chess.Color, m chess.Move) int16 {
	return h.data[side][m.From()][m.To()]
}

// Update applies the gravity rule: the running score decays towards zero in
// proportion to |bonus|, which keeps the table bounded and recent-biased.
func (h *QuietHistory) Update(side chess.Color, m chess.Move, bonus int) {
	applyGravity(&h.data[side][m.From()][m.To()], bonus)
}

// Clear zeroes the table.
func (h *QuietHistory) Clear() {
	h.data = [2][64][64]int16{}
}

// CaptureHistory scores captures by side, aggressor piece type, target
// square and victim piece type. En passant is not scored: its victim square
// is empty.
type CaptureHistory struct {
	data [2][6][64][6]int16
}

// Get returns the score for a capture.
func (h *CaptureHistory) Get(side chess.Color, aggressor chess.PieceType, to chess.Square, victim chess.PieceType) int16 {
	return h.data[side][aggressor][to][victim]
}

// Update applies the gravity rule, as for quiet history.
func (h *CaptureHistory) Update(side chess.Color, aggressor chess.PieceType, to chess.Square, victim chess.PieceType, bonus int) {
	applyGravity(&h.data[side][aggressor][to][victim], bonus)
}

// Clear zeroes the table.
func (h *CaptureHistory) Clear() {
	h.data = [2][6][64][6]int16{}
}

func applyGravity(ref *int16, bonus int) {
	if bonus > maxHistoryScore {
		bonus = maxHistoryScore
	} else if bonus < minHistoryScore {
		bonus = minHistoryScore
	}
	v := int(*ref) + bonus - int(*ref)*abs(bonus)/maxHistoryScore
	if v > maxHistoryScore {
		v = maxHistoryScore
	} else if v < minHistoryScore {
		v = minHistoryScore
	}
	*ref = int16(v)
}

// SearchHistory bundles the ordering state a search request owns: killers
// per ply, the quiet butterfly table, the capture table and the root-score
// stability counter the time controller reads.
type SearchHistory struct {
	Killers   [MaxPly + 1]KillerTable
	Quiet     QuietHistory
	Capture   CaptureHistory
	Stability int
}

// Clear resets everything for a new search request.
func (sh *SearchHistory) Clear() {
	sh.ClearKillers()
	sh.Quiet.Clear()
	sh.Capture.Clear()
	sh.Stability = 0
}

// ClearKillers empties only the killer slots; called at the start of every
// root iteration while the history tables persist.
func (sh *SearchHistory) ClearKillers() {
	for i := range sh.Killers {
		sh.Killers[i].Clear()
	}
}

// UpdateStability bumps the stability counter while the root score stays
// within a 30 centipawn corridor of the previous iteration.
func (sh *SearchHistory) UpdateStability(prev, curr Value) {
	if prev.IsValid() && curr.IsValid() &&
		curr > prev-30 && curr < prev+30 {
		sh.Stability++
	} else {
		sh.Stability = 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

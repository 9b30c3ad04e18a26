package engine

import (
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

// EntryKind is the bound type of a stored value.
type EntryKind uint8

const (
	EntryNone EntryKind = iota
	EntryExact
	EntryUpperBound // fail-low: a stronger move exists elsewhere
	EntryLowerBound // fail-high: the opponent refutes this position
)

// TTEntry is one transposition-table slot.
type TTEntry struct {
	Zobrist uint64 // full hash, verified on probe
	Value   Value  // stored side-to-move relative, mate scores node-relative
	Move    chess.Move
	Depth   int8
	Age     uint8
	Kind    EntryKind
}

const ttEntrySize = 16 // unsafe.Sizeof(TTEntry{}) with padding

// TranspositionTable is a single-slot-per-index table with generation-based
// replacement. One searcher writes it; the front-end only resizes between
// searches.
type TranspositionTable struct {
	entries    []TTEntry
	occupied   int
	generation uint8
}

// NewTranspositionTable allocates a table of the given size in megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(sizeMB)
	return tt
}

// Resize reallocates the table, discarding its contents.
func (tt *TranspositionTable) Resize(sizeMB int) {
	n := sizeMB * 1024 * 1024 / ttEntrySize
	if n < 1 {
		n = 1
	}
	tt.entries = make([]TTEntry, n)
	tt.occupied = 0
	tt.generation = 0
}

// Clear empties every slot.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.occupied = 0
	tt.generation = 0
}

// IncGeneration starts a new search generation; stale entries lose their
// replacement priority but stay probeable until overwritten.
func (tt *TranspositionTable) IncGeneration() {
	tt.generation++
}

// HashFull returns the permille of slots holding an entry.
func (tt *TranspositionTable) HashFull() int {
	return tt.occupied * 1000 / len(tt.entries)
}

// Probe returns a copy of the slot matching the position's hash. The copy is
// deliberate: the caller must not hold slot state across a Store.
func (tt *TranspositionTable) Probe(pos *chess.Position) (TTEntry, bool) {
	entry := tt.entries[pos.Hash%uint64(len(tt.entries))]
	if entry.Kind == EntryNone || entry.Zobrist != pos.Hash {
		return TTEntry{}, false
	}
	return entry, true
}

// Store writes an entry if the slot is empty, holds the same position, is
// from an older generation, or is strictly shallower. On a same-position
// overwrite a NoMove argument preserves the existing best move.
func (tt *TranspositionTable) Store(pos *chess.Position, kind EntryKind, depth int, move chess.Move, value Value) {
	slot := &tt.entries[pos.Hash%uint64(len(tt.entries))]

	switch {
	case slot.Kind == EntryNone:
		tt.occupied++
	case slot.Zobrist == pos.Hash:
		if move == chess.NoMove {
			move = slot.Move
		}
	case slot.Age != tt.generation:
	case int(slot.Depth) < depth:
	default:
		return
	}

	*slot = TTEntry{
		Zobrist: pos.Hash,
		Value:   value,
		Move:    move,
		Depth:   int8(depth),
		Age:     tt.generation,
		Kind:    kind,
	}
}

// valueToTT re-expresses a mate score relative to the stored node before a
// write, so the entry means "mate in N from here".
func valueToTT(v Value, ply int) Value {
	if !v.IsValid() {
		return v
	}
	if v >= MateThreshold {
		return v + Value(ply)
	}
	if v <= -MateThreshold {
		return v - Value(ply)
	}
	return v
}

// valueFromTT converts a stored mate score back to root-relative on probe.
func valueFromTT(v Value, ply int) Value {
	if !v.IsValid() {
		return v
	}
	if v >= MateThreshold {
		return v - Value(ply)
	}
	if v <= -MateThreshold {
		return v + Value(ply)
	}
	return v
}

// boundProves reports whether the entry's bound settles the (alpha, beta)
// window at value v.
func boundProves(kind EntryKind, v, alpha, beta Value) bool {
	switch kind {
	case EntryExact:
		return true
	case EntryUpperBound:
		return v <= alpha
	case EntryLowerBound:
		return v >= beta
	}
	return false
}

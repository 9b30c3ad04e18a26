// Package eval provides the classical static evaluator: tapered material
// plus piece-square tables, blended by game phase.
package eval

import (
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/engine"
)

// evalBound clamps the evaluation well inside the mate range.
const evalBound = 3200

const tempoBonus = 10

// phaseStart is the phase-unit total of the starting position.
const phaseStart = 24

var phaseUnits = [6]int{0, 1, 1, 2, 4, 0}

// Classical is a stateless evaluator; the zero value is ready to use.
type Classical struct{}

// New returns the classical evaluator.
func New() Classical {
	return Classical{}
}

// Evaluate scores pos in centipawns from the side to move's point of view.
func (Classical) Evaluate(pos *chess.Position) engine.Value {
	var total engine.Score
	units := 0

	for pt := chess.Pawn; pt <= chess.King; pt++ {
		for bb := pos.Pieces[chess.White][pt]; bb != 0; {
			sq := bb.Pop()
			total = total.Add(pieceValue[pt]).Add(pieceSquare[pt][sq])
			units += phaseUnits[pt]
		}
		for bb := pos.Pieces[chess.Black][pt]; bb != 0; {
			sq := bb.Pop()
			total = total.Sub(pieceValue[pt]).Sub(pieceSquare[pt][sq.Mirror()])
			units += phaseUnits[pt]
		}
	}

	phase := units * engine.PhaseMax / phaseStart
	if phase > engine.PhaseMax {
		phase = engine.PhaseMax
	}

	v := total.Fuse(phase, engine.PhaseMax)
	if pos.SideToMove == chess.Black {
		v = -v
	}
	v += tempoBonus

	if v > evalBound {
		v = evalBound
	} else if v < -evalBound {
		v = -evalBound
	}
	return v
}

package engine

import (
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

// MVV-LVA base scores indexed by [aggressor][victim]. The K row covers king
// aggressors, the last column empty victim squares (push promotions); the
// unlabelled last row is padding.
var mvvLvaTable = [7][7]int16{
	//          P     N     B     R     Q     K  none
	/* P */ {0, 200, 250, 450, 900, 0, 0},
	/* N */ {-200, 10, 50, 250, 700, 0, 0},
	/* B */ {-250, -50, 5, 200, 650, 0, 0},
	/* R */ {-450, -250, -200, 15, 450, 0, 0},
	/* Q */ {-900, -700, -650, -450, 20, 0, 0},
	/* K */ {0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0},
}

const (
	orderCheckBonus       = 200
	orderPromotionBonus   = 200
	orderBadSquarePenalty = 200
	orderLosingCapture    = 1000
)

type pickerStage uint8

const (
	stageTT pickerStage = iota
	stageGenNoisy
	stageGoodNoisy
	stageKiller1
	stageKiller2
	stageGenQuiet
	stageGoodQuiet
	stageBadNoisy
	stageBadQuiet
	stageEnd

	stageGenQS
	stageGoodQS
	stageEndQS
)

type scoredMove struct {
	move  chess.Move
	score int16
}

// MovePicker yields the legal moves of one node lazily, ordered to raise
// alpha as early as possible. Every legal move comes out exactly once;
// NoMove signals exhaustion.
type MovePicker struct {
	pos     *chess.Position
	history *SearchHistory
	ply     int
	ttMove  chess.Move
	stage   pickerStage
	inCheck bool

	noisy  [256]scoredMove
	quiet  [256]scoredMove
	nNoisy int
	nQuiet int
}

// Init prepares the picker for a full-width node. hashMove may be NoMove.
func (mp *MovePicker) Init(pos *chess.Position, history *SearchHistory, ply int, hashMove chess.Move) {
	mp.pos = pos
	mp.history = history
	mp.ply = ply
	mp.ttMove = hashMove
	mp.stage = stageTT
	mp.inCheck = pos.InCheck()
	mp.nNoisy = 0
	mp.nQuiet = 0
}

// InitQSearch prepares the picker for quiescence: evasions when in check,
// captures and promotions otherwise.
func (mp *MovePicker) InitQSearch(pos *chess.Position, history *SearchHistory, ply int) {
	mp.pos = pos
	mp.history = history
	mp.ply = ply
	mp.ttMove = chess.NoMove
	mp.stage = stageGenQS
	mp.inCheck = pos.InCheck()
	mp.nNoisy = 0
	mp.nQuiet = 0
}

func (mp *MovePicker) killers() *KillerTable {
	return &mp.history.Killers[mp.ply]
}

// Next returns the next move, or NoMove when exhausted.
func (mp *MovePicker) Next() chess.Move {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageGenNoisy
			if mp.ttMove != chess.NoMove && mp.pos.IsMoveLegal(mp.ttMove) {
				return mp.ttMove
			}

		case stageGenNoisy:
			mp.genNoisy()
			mp.stage = stageGoodNoisy

		case stageGoodNoisy:
			for mp.nNoisy > 0 {
				top := mp.noisy[mp.nNoisy-1]
				if top.score < 0 {
					break // only losing captures left
				}
				mp.nNoisy--
				if top.move == mp.ttMove {
					continue
				}
				return top.move
			}
			mp.stage = stageKiller1

		case stageKiller1:
			mp.stage = stageKiller2
			k := mp.killers().Killer1
			if k != chess.NoMove && k != mp.ttMove && mp.pos.IsQuietLegal(k) {
				return k
			}

		case stageKiller2:
			mp.stage = stageGenQuiet
			k := mp.killers().Killer2
			if k != chess.NoMove && k != mp.ttMove && mp.pos.IsQuietLegal(k) {
				return k
			}

		case stageGenQuiet:
			mp.genQuiet()
			mp.stage = stageGoodQuiet

		case stageGoodQuiet:
			for mp.nQuiet > 0 {
				top := mp.quiet[mp.nQuiet-1]
				if top.score < 0 {
					break
				}
				mp.nQuiet--
				if top.move == mp.ttMove || mp.killers().Has(top.move) {
					continue
				}
				return top.move
			}
			mp.stage = stageBadNoisy

		case stageBadNoisy:
			for mp.nNoisy > 0 {
				mp.nNoisy--
				m := mp.noisy[mp.nNoisy].move
				if m == mp.ttMove {
					continue
				}
				return m
			}
			mp.stage = stageBadQuiet

		case stageBadQuiet:
			for mp.nQuiet > 0 {
				mp.nQuiet--
				m := mp.quiet[mp.nQuiet].move
				if m == mp.ttMove || mp.killers().Has(m) {
					continue
				}
				return m
			}
			mp.stage = stageEnd

		case stageEnd:
			return chess.NoMove

		case stageGenQS:
			if mp.inCheck {
				mp.genEvasions()
			} else {
				mp.genNoisy()
			}
			mp.stage = stageGoodQS

		case stageGoodQS:
			for mp.nNoisy > 0 {
				top := mp.noisy[mp.nNoisy-1]
				if !mp.inCheck && top.score < 0 {
					break
				}
				mp.nNoisy--
				return top.move
			}
			mp.stage = stageEndQS

		case stageEndQS:
			return chess.NoMove
		}
	}
}

func (mp *MovePicker) genNoisy() {
	pos := mp.pos
	us := pos.SideToMove
	moves := pos.NoisyMoves()

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		aggressor := pos.PieceAt(m.From()).Type()
		victim := chess.NoPieceType
		if m.IsEnPassant() {
			victim = chess.Pawn
		} else if captured := pos.PieceAt(m.To()); captured != chess.NoPiece {
			victim = captured.Type()
		}

		score := mvvLvaTable[aggressor][victim]
		if SEE(pos, m, 0) {
			if pos.IsCheckMove(m) {
				score += orderCheckBonus
			}
			if m.IsPromotion() && m.Promotion() == chess.Queen {
				score += orderPromotionBonus
			}
			if victim != chess.NoPieceType {
				score += mp.history.Capture.Get(us, aggressor, m.To(), victim) / 8
			}
			// A capture SEE does not reject is never ranked as losing.
			if score < 0 {
				score = 0
			}
		} else {
			score -= orderLosingCapture
		}

		mp.noisy[mp.nNoisy] = scoredMove{m, score}
		mp.nNoisy++
	}
	sortAscending(mp.noisy[:mp.nNoisy])
}

func (mp *MovePicker) genQuiet() {
	pos := mp.pos
	us := pos.SideToMove
	them := us.Other()
	enemyPawns := pos.Pieces[them][chess.Pawn]
	moves := pos.QuietMoves()

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		score := mp.history.Quiet.Get(us, m)
		if pos.IsCheckMove(m) {
			score += orderCheckBonus
		}
		// Walking a piece into an enemy pawn's attack is rarely right.
		if pos.PieceAt(m.From()).Type() != chess.Pawn &&
			chess.PawnCaptures(m.To(), us)&enemyPawns != 0 {
			score -= orderBadSquarePenalty
		}

		mp.quiet[mp.nQuiet] = scoredMove{m, score}
		mp.nQuiet++
	}
	sortAscending(mp.quiet[:mp.nQuiet])
}

func (mp *MovePicker) genEvasions() {
	moves := mp.pos.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		mp.noisy[mp.nNoisy] = scoredMove{moves.Get(i), 0}
		mp.nNoisy++
	}
}

func sortAscending(moves []scoredMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].score > t.score; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}

package engine

import (
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

// Exchange values for SEE only; deliberately distinct from the evaluator's
// piece values.
var seePieceValue = [7]int{
	chess.Pawn:   100,
	chess.Knight: 300,
	chess.Bishop: 320,
	chess.Rook:   550,
	chess.Queen:  1000,
	chess.King:   99999,
}

// SEE reports whether the exchange started by m wins at least threshold
// centipawns when both sides recapture with their least valuable attacker.
func SEE(pos *chess.Position, m chess.Move, threshold int) bool {
	from, to := m.From(), m.To()
	us := pos.SideToMove

	nextVictim := pos.PieceAt(from).Type()
	if m.IsPromotion() {
		nextVictim = m.Promotion()
	}

	balance := -threshold
	if m.IsEnPassant() {
		balance += seePieceValue[chess.Pawn]
	} else if victim := pos.PieceAt(to); victim != chess.NoPiece {
		balance += seePieceValue[victim.Type()]
	}
	if m.IsPromotion() {
		balance += seePieceValue[m.Promotion()] - seePieceValue[chess.Pawn]
	}
	if balance < 0 {
		return false
	}

	// Winning even if the moving piece is immediately lost.
	balance -= seePieceValue[nextVictim]
	if balance >= 0 {
		return true
	}

	occupied := pos.All&^chess.SquareBB(from) | chess.SquareBB(to)
	if m.IsEnPassant() {
		capSq := to - 8
		if us == chess.Black {
			capSq = to + 8
		}
		occupied &^= chess.SquareBB(capSq)
	}

	attackers := pos.AttackersTo(to, occupied) & occupied
	bishops := pos.Pieces[chess.White][chess.Bishop] | pos.Pieces[chess.Black][chess.Bishop] |
		pos.Pieces[chess.White][chess.Queen] | pos.Pieces[chess.Black][chess.Queen]
	rooks := pos.Pieces[chess.White][chess.Rook] | pos.Pieces[chess.Black][chess.Rook] |
		pos.Pieces[chess.White][chess.Queen] | pos.Pieces[chess.Black][chess.Queen]

	side := us.Other()
	for {
		own := attackers & pos.ByColor[side]
		if own == 0 {
			break
		}

		attackerType, attackerFrom := leastValuableAttacker(pos, side, own)
		occupied &^= chess.SquareBB(attackerFrom)

		// Re-add sliders discovered behind the departed attacker.
		switch attackerType {
		case chess.Pawn, chess.Bishop, chess.Queen:
			attackers |= chess.BishopAttacks(to, occupied) & bishops
		}
		switch attackerType {
		case chess.Rook, chess.Queen:
			attackers |= chess.RookAttacks(to, occupied) & rooks
		}
		attackers &= occupied

		side = side.Other()

		balance = -balance - 1 - seePieceValue[attackerType]
		if balance >= 0 {
			if attackerType == chess.King && attackers&pos.ByColor[side] != 0 {
				// The king cannot recapture into a defended square.
				side = side.Other()
			}
			break
		}
	}

	return side != us
}

func leastValuableAttacker(pos *chess.Position, side chess.Color, attackers chess.Bitboard) (chess.PieceType, chess.Square) {
	for pt := chess.Pawn; pt <= chess.King; pt++ {
		if sub := pos.Pieces[side][pt] & attackers; sub != 0 {
			return pt, sub.First()
		}
	}
	return chess.NoPieceType, chess.NoSquare
}

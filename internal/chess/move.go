package chess

import "fmt"

// Move encodes a move in 16 bits:
//
//	bits 0-5   from square
//	bits 6-11  to square
//	bits 12-13 promotion piece (0=knight .. 3=queen)
//	bits 14-15 kind (0=normal, 1=promotion, 2=en passant, 3=castling)
type Move uint16

const (
	kindNormal    Move = 0 << 14
	kindPromotion Move = 1 << 14
	kindEnPassant Move = 2 << 14
	kindCastling  Move = 3 << 14
)

// NoMove is the sentinel; it compares unequal to every legal move.
const NoMove Move = 0

// NewMove builds a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion builds a promotion to the given piece type.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | kindPromotion
}

// NewEnPassant builds an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | kindEnPassant
}

// NewCastling builds a castling move, expressed as the king's movement.
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | kindCastling
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece type; only meaningful when
// IsPromotion reports true.
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion reports whether this is a promotion.
func (m Move) IsPromotion() bool {
	return m&kindCastling == kindPromotion
}

// IsEnPassant reports whether this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&kindCastling == kindEnPassant
}

// IsCastling reports whether this is a castling move.
func (m Move) IsCastling() bool {
	return m&kindCastling == kindCastling
}

// String renders the move in long algebraic notation ("e2e4", "e7e8q");
// NoMove renders as "0000".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove resolves a long-algebraic move string against the position's
// legal moves, so the caller gets the fully flagged move or an error.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	var promo PieceType = NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion %q", s)
		}
	}

	legal := p.LegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() {
			if m.Promotion() == promo {
				return m, nil
			}
			continue
		}
		if promo == NoPieceType {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("illegal move %q", s)
}

package eval

import (
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/engine"
)

var s = engine.S

// Tapered base values per piece type.
var pieceValue = [6]engine.Score{
	s(89, 103), s(286, 328), s(312, 356), s(538, 590), s(1043, 1100), s(0, 0),
}

// Piece-square tables from white's point of view, indexed by square (a1=0).
// Derived from the Stockfish 6 tables.
var pieceSquare = [6][64]engine.Score{
	// Pawns: control the center.
	{
		s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0),
		s(-20, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(-20, 0),
		s(-15, 0), s(0, 0), s(10, 0), s(20, 0), s(20, 0), s(10, 0), s(0, 0), s(-15, 0),
		s(-20, 0), s(0, 0), s(20, 0), s(40, 0), s(40, 0), s(20, 0), s(0, 0), s(-20, 0),
		s(-20, 0), s(0, 0), s(10, 0), s(20, 0), s(20, 0), s(10, 0), s(0, 0), s(-20, 0),
		s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0),
		s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0),
		s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0), s(0, 0),
	},
	// Knights: pushed towards the center.
	{
		s(-144, -98), s(-109, -83), s(-85, -51), s(-73, -16), s(-73, -16), s(-85, -51), s(-109, -83), s(-144, -98),
		s(-88, -68), s(-43, -53), s(-19, -21), s(-7, 14), s(-7, 14), s(-19, -21), s(-43, -53), s(-88, -68),
		s(-69, -53), s(-24, -38), s(0, -6), s(12, 29), s(12, 29), s(0, -6), s(-24, -38), s(-69, -53),
		s(-28, -42), s(17, -27), s(41, 5), s(53, 40), s(53, 40), s(41, 5), s(17, -27), s(-28, -42),
		s(-30, -42), s(15, -27), s(39, 5), s(51, 40), s(51, 40), s(39, 5), s(15, -27), s(-30, -42),
		s(-10, -53), s(35, -38), s(59, -6), s(71, 29), s(71, 29), s(59, -6), s(35, -38), s(-10, -53),
		s(-64, -68), s(-19, -53), s(5, -21), s(17, 14), s(17, 14), s(5, -21), s(-19, -53), s(-64, -68),
		s(-200, -98), s(-65, -83), s(-41, -51), s(-29, -16), s(-29, -16), s(-41, -51), s(-65, -83), s(-200, -98),
	},
	// Bishops: long diagonals.
	{
		s(-54, -65), s(-27, -42), s(-34, -44), s(-43, -26), s(-43, -26), s(-34, -44), s(-27, -42), s(-54, -65),
		s(-29, -43), s(8, -20), s(1, -22), s(-8, -4), s(-8, -4), s(1, -22), s(8, -20), s(-29, -43),
		s(-20, -33), s(17, -10), s(10, -12), s(1, 6), s(1, 6), s(10, -12), s(17, -10), s(-20, -33),
		s(-19, -35), s(18, -12), s(11, -14), s(2, 4), s(2, 4), s(11, -14), s(18, -12), s(-19, -35),
		s(-22, -35), s(15, -12), s(8, -14), s(-1, 4), s(-1, 4), s(8, -14), s(15, -12), s(-22, -35),
		s(-28, -33), s(9, -10), s(2, -12), s(-7, 6), s(-7, 6), s(2, -12), s(9, -10), s(-28, -33),
		s(-32, -43), s(5, -20), s(-2, -22), s(-11, -4), s(-11, -4), s(-2, -22), s(5, -20), s(-32, -43),
		s(-49, -65), s(-22, -42), s(-29, -44), s(-38, -26), s(-38, -26), s(-29, -44), s(-22, -42), s(-49, -65),
	},
	// Rooks: mostly file-bound, the seventh rank pays.
	{
		s(-22, 3), s(-17, 3), s(-12, 3), s(-8, 3), s(-8, 3), s(-12, 3), s(-17, 3), s(-22, 3),
		s(-22, 3), s(-7, 3), s(-2, 3), s(2, 3), s(2, 3), s(-2, 3), s(-7, 3), s(-22, 3),
		s(-22, 3), s(-7, 3), s(-2, 3), s(2, 3), s(2, 3), s(-2, 3), s(-7, 3), s(-22, 3),
		s(-22, 3), s(-7, 3), s(-2, 3), s(2, 3), s(2, 3), s(-2, 3), s(-7, 3), s(-22, 3),
		s(-22, 3), s(-7, 3), s(-2, 3), s(2, 3), s(2, 3), s(-2, 3), s(-7, 3), s(-22, 3),
		s(-22, 3), s(-7, 3), s(-2, 3), s(2, 3), s(2, 3), s(-2, 3), s(-7, 3), s(-22, 3),
		s(-6, 3), s(9, 3), s(14, 3), s(18, 3), s(18, 3), s(14, 3), s(9, 3), s(-6, 3),
		s(-22, 3), s(-17, 3), s(-12, 3), s(-8, 3), s(-8, 3), s(-12, 3), s(-17, 3), s(-22, 3),
	},
	// Queens: nearly square-agnostic.
	{
		s(-2, -80), s(-2, -54), s(-2, -42), s(-2, -30), s(-2, -30), s(-2, -42), s(-2, -54), s(-2, -80),
		s(-2, -54), s(8, -30), s(8, -18), s(8, -6), s(8, -6), s(8, -18), s(8, -30), s(-2, -54),
		s(-2, -42), s(8, -18), s(8, -6), s(8, 6), s(8, 6), s(8, -6), s(8, -18), s(-2, -42),
		s(-2, -30), s(8, -6), s(8, 6), s(8, 18), s(8, 18), s(8, 6), s(8, -6), s(-2, -30),
		s(-2, -30), s(8, -6), s(8, 6), s(8, 18), s(8, 18), s(8, 6), s(8, -6), s(-2, -30),
		s(-2, -42), s(8, -18), s(8, -6), s(8, 6), s(8, 6), s(8, -6), s(8, -18), s(-2, -42),
		s(-2, -54), s(8, -30), s(8, -18), s(8, -6), s(8, -6), s(8, -18), s(8, -30), s(-2, -54),
		s(-2, -80), s(-2, -54), s(-2, -42), s(-2, -30), s(-2, -30), s(-2, -42), s(-2, -54), s(-2, -80),
	},
	// Kings: hide in the corner while pieces are on, centralize once they
	// come off.
	{
		s(298, 27), s(332, 81), s(273, 108), s(225, 116), s(225, 116), s(273, 108), s(332, 81), s(298, 27),
		s(287, 74), s(321, 128), s(262, 155), s(214, 163), s(214, 163), s(262, 155), s(321, 128), s(287, 74),
		s(224, 111), s(258, 165), s(199, 192), s(151, 200), s(151, 200), s(199, 192), s(258, 165), s(224, 111),
		s(196, 135), s(230, 189), s(171, 216), s(123, 224), s(123, 224), s(171, 216), s(230, 189), s(196, 135),
		s(173, 135), s(207, 189), s(148, 216), s(100, 224), s(100, 224), s(148, 216), s(207, 189), s(173, 135),
		s(146, 111), s(180, 165), s(121, 192), s(73, 200), s(73, 200), s(121, 192), s(180, 165), s(146, 111),
		s(119, 74), s(153, 128), s(94, 155), s(46, 163), s(46, 163), s(94, 155), s(153, 128), s(119, 74),
		s(98, 27), s(132, 81), s(73, 108), s(25, 116), s(25, 116), s(73, 108), s(132, 81), s(98, 27),
	},
}

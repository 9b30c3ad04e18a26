package engine

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

const (
	// MaxPly bounds the search stack.
	MaxPly = 128

	maxQSearchDepth = 8

	aspirationWindow = 20
)

// lmrTable holds precomputed late-move reductions by depth and move count.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrTable[d][m] = int(math.Round(0.9 + math.Sqrt(float64(d))*math.Sqrt(float64(m))/3))
		}
	}
}

// Evaluator is the static evaluation oracle: a pure function of the
// position, bounded well below the mate range.
type Evaluator interface {
	Evaluate(pos *chess.Position) Value
}

// IncrementalEvaluator is implemented by accumulator-style evaluators that
// need make/unmake notifications. The searcher refreshes once at the root
// and brackets every move with OnMake/OnUnmake.
type IncrementalEvaluator interface {
	Evaluator
	Refresh(pos *chess.Position)
	OnMake(pos *chess.Position, m chess.Move)
	OnUnmake()
}

// SearchInfo describes one completed iteration.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    Value
	Nodes    uint64
	TimeMs   int64
	HashFull int
	PV       []chess.Move
}

// SearchResult is the outcome of a whole search request.
type SearchResult struct {
	BestMove chess.Move
	Score    Value
	Depth    int
	Nodes    uint64
}

type stackFrame struct {
	staticEval  Value
	currentMove chess.Move
	bestMove    chess.Move
	inCheck     bool
	canNullMove bool
	// excludedMove is reserved for singular extensions.
	excludedMove chess.Move
}

type searchStats struct {
	nodes    uint64
	depth    int
	seldepth int
}

// searcher holds the context of one search request: the position, the
// shared tables, the per-ply stack and the time control. The recursion
// methods borrow it exclusively.
type searcher struct {
	pos     *chess.Position
	tt      *TranspositionTable
	eval    Evaluator
	inc     IncrementalEvaluator // nil unless eval is incremental
	history SearchHistory
	stack   [MaxPly + 2]stackFrame
	pickers [MaxPly + 1]MovePicker
	stats   searchStats
	tc      TimeControl

	stop        *atomic.Bool
	interrupted bool

	bestMoveCurr  chess.Move
	bestValueCurr Value

	onInfo func(SearchInfo)
}

func newSearcher(pos *chess.Position, tt *TranspositionTable, eval Evaluator, stop *atomic.Bool) *searcher {
	s := &searcher{pos: pos, tt: tt, eval: eval, stop: stop}
	s.inc, _ = eval.(IncrementalEvaluator)
	return s
}

// Search runs the iterative-deepening loop and returns the final result.
func (s *searcher) Search(params SearchParams) SearchResult {
	s.tc = NewTimeControl(s.pos.SideToMove, params, time.Now())
	s.history.Clear()
	s.stats = searchStats{depth: 1, seldepth: 1}
	s.interrupted = false
	for i := range s.stack {
		s.stack[i] = stackFrame{canNullMove: true}
	}
	s.tt.IncGeneration()
	if s.inc != nil {
		s.inc.Refresh(s.pos)
	}

	legal := s.pos.LegalMoves()
	if legal.Len() == 0 {
		return SearchResult{BestMove: chess.NoMove, Score: ValueDraw}
	}
	if s.tc.CompetitionMode() && legal.Len() == 1 {
		// The only reply needs no deliberation.
		move := legal.Get(0)
		score := s.evaluate()
		s.emitInfo(1, score, []chess.Move{move})
		return SearchResult{BestMove: move, Score: score, Depth: 1}
	}

	// A position already drawn by rule keeps its reported score pinned at
	// zero no matter what the tree below it looks like.
	rootDraw := s.pos.IsHalfMoveDraw() || s.pos.IsInsufficientMaterial() ||
		s.pos.RepetitionCount() >= 2

	bestMoveRoot := chess.NoMove
	bestValueRoot := ValueNone
	completedDepth := 0
	window := aspirationWindow

	for !s.tc.HitSoftLimit(s.stats.depth, s.stats.nodes, s.history.Stability) && s.stats.depth < MaxPly {
		depth := s.stats.depth
		s.history.ClearKillers()
		s.bestMoveCurr = chess.NoMove
		s.bestValueCurr = ValueNone

		alpha, beta := MatedIn(0), MateIn(0)
		if depth >= 3 && bestValueRoot.IsValid() && !bestValueRoot.IsMate() {
			window = aspirationWindow
			alpha = maxValue(bestValueRoot-Value(window), MatedIn(0))
			beta = minValue(bestValueRoot+Value(window), MateIn(0))
		}

		var score Value
		for {
			score = s.negamax(alpha, beta, depth, 0, true, false)
			if s.interrupted {
				break
			}
			if score <= alpha && alpha > MatedIn(0) {
				// Fail low: widen downwards, pull beta towards alpha. The
				// arithmetic runs in int so a doubled window cannot wrap
				// the 16-bit Value.
				beta = Value((int(alpha) + int(beta)) / 2)
				alpha = Value(max(int(alpha)-window, int(MatedIn(0))))
				window *= 2
			} else if score >= beta && beta < MateIn(0) {
				beta = Value(min(int(beta)+window, int(MateIn(0))))
				window *= 2
			} else {
				break
			}
		}

		if s.bestMoveCurr != chess.NoMove {
			s.history.UpdateStability(bestValueRoot, s.bestValueCurr)
			bestMoveRoot = s.bestMoveCurr
			bestValueRoot = s.bestValueCurr
			completedDepth = depth
			reported := bestValueRoot
			if rootDraw {
				reported = ValueDraw
			}
			s.emitInfo(depth, reported, s.buildPV(depth, bestMoveRoot))
		}

		if s.interrupted || s.tc.HitHardLimit(s.stats.depth, s.stats.nodes) {
			break
		}
		if s.tc.CompetitionMode() && score.IsMate() {
			break
		}
		s.stats.depth++
	}

	if bestMoveRoot == chess.NoMove {
		bestMoveRoot = legal.Get(0)
	}
	if rootDraw || !bestValueRoot.IsValid() {
		bestValueRoot = ValueDraw
	}
	return SearchResult{
		BestMove: bestMoveRoot,
		Score:    bestValueRoot,
		Depth:    completedDepth,
		Nodes:    s.stats.nodes,
	}
}

func (s *searcher) emitInfo(depth int, score Value, pv []chess.Move) {
	if s.onInfo == nil {
		return
	}
	s.onInfo(SearchInfo{
		Depth:    depth,
		SelDepth: s.stats.seldepth,
		Score:    score,
		Nodes:    s.stats.nodes,
		TimeMs:   s.tc.Elapsed(),
		HashFull: s.tt.HashFull(),
		PV:       pv,
	})
}

// buildPV reconstructs the principal variation by walking exact TT entries
// from the root for as long as their moves stay legal.
func (s *searcher) buildPV(depth int, rootMove chess.Move) []chess.Move {
	pv := make([]chess.Move, 0, depth)
	pos := s.pos.Clone()
	for len(pv) < depth {
		entry, ok := s.tt.Probe(pos)
		if !ok || entry.Kind != EntryExact || entry.Move == chess.NoMove || !pos.IsMoveLegal(entry.Move) {
			break
		}
		pv = append(pv, entry.Move)
		pos.MakeMove(entry.Move)
	}
	if len(pv) == 0 && rootMove != chess.NoMove {
		pv = append(pv, rootMove)
	}
	return pv
}

// aborted polls the stop flag and the hard limit; once tripped it stays
// tripped so every active frame unwinds promptly.
func (s *searcher) aborted() bool {
	if s.interrupted {
		return true
	}
	if (s.stop != nil && s.stop.Load()) || s.tc.HitHardLimit(s.stats.depth, s.stats.nodes) {
		s.interrupted = true
	}
	return s.interrupted
}

func (s *searcher) evaluate() Value {
	return s.eval.Evaluate(s.pos)
}

func (s *searcher) makeMove(m chess.Move, ply int) chess.Undo {
	s.stack[ply].currentMove = m
	undo := s.pos.MakeMove(m)
	if s.inc != nil {
		s.inc.OnMake(s.pos, m)
	}
	return undo
}

func (s *searcher) unmakeMove(m chess.Move, undo chess.Undo) {
	s.pos.UnmakeMove(m, undo)
	if s.inc != nil {
		s.inc.OnUnmake()
	}
}

func (s *searcher) isDraw() bool {
	return s.pos.IsHalfMoveDraw() || s.pos.IsRepetition() || s.pos.IsInsufficientMaterial()
}

// negamax searches the subtree below the current position. The returned
// value is consistent with the (alpha, beta) window: v <= alpha is an upper
// bound on the true score, v >= beta a lower bound, anything between exact.
func (s *searcher) negamax(alpha, beta Value, depth, ply int, isPV, cutnode bool) Value {
	if s.aborted() {
		return alpha // not trusted, never written to the TT
	}
	s.stats.nodes++

	inCheck := s.pos.InCheck()
	s.stack[ply].inCheck = inCheck

	if depth <= 0 && !inCheck {
		return s.qsearch(alpha, beta, maxQSearchDepth, ply, isPV)
	}
	if ply > 0 && s.isDraw() {
		return ValueDraw
	}
	if ply >= MaxPly {
		return s.evaluate()
	}

	// Mate distance pruning: a mate here cannot beat one already found
	// closer to the root.
	alpha = maxValue(alpha, MatedIn(ply))
	beta = minValue(beta, MateIn(ply))
	if alpha >= beta {
		return alpha
	}

	s.history.Killers[ply+1].Clear()

	isRoot := ply == 0
	entry, ttHit := s.tt.Probe(s.pos)
	ttMove := chess.NoMove
	ttValue := ValueNone
	if ttHit {
		ttMove = entry.Move
		ttValue = valueFromTT(entry.Value, ply)
	}

	suppressTTWrite := false
	pvDepthBonus := 0
	if isPV {
		pvDepthBonus = 2
	}
	if !isRoot && ttHit && int(entry.Depth) >= depth+pvDepthBonus &&
		boundProves(entry.Kind, ttValue, alpha, beta) {
		if !isPV {
			return ttValue
		}
		// At PV nodes the entry only buys a soft reduction; writing the
		// shallower result back afterwards would poison the slot.
		depth--
		suppressTTWrite = true
	}

	staticEval := ValueNone
	if !inCheck {
		staticEval = s.evaluate()
	}
	s.stack[ply].staticEval = staticEval

	if !isPV && !inCheck {
		// Reverse futility: far enough above beta that the margin cannot
		// close at this depth.
		if depth <= 8 && !alpha.IsMate() &&
			staticEval >= beta+Value(200+100*depth) {
			return beta + (staticEval-beta)/4
		}

		// Razoring: hopelessly below alpha, let quiescence confirm.
		if staticEval.IsValid() && staticEval+Value(500+100*depth) < alpha {
			return s.qsearch(alpha, beta, maxQSearchDepth, ply, false)
		}

		// Null move: if passing the turn still beats beta, a real move
		// will too. Unsound in zugzwang, hence the material condition.
		if s.stack[ply].canNullMove && depth >= 3 && staticEval >= beta &&
			s.pos.HasNonPawnMaterial() &&
			(!ttHit || cutnode || ttValue >= beta) {
			reduction := 2 + depth/3
			if reduction > depth {
				reduction = depth
			}
			s.stack[ply+1].canNullMove = false
			nullUndo := s.pos.MakeNullMove()
			nullValue := -s.negamax(-beta, -beta+1, depth-reduction, ply+1, false, !cutnode)
			s.pos.UnmakeNullMove(nullUndo)
			s.stack[ply+1].canNullMove = true

			if nullValue >= beta && !s.interrupted {
				if nullValue.IsMate() {
					nullValue = beta // never report unverified mates
				}
				if depth < 14 {
					return nullValue
				}
				// Deep nodes verify with a reduced search sans null move.
				s.stack[ply].canNullMove = false
				verified := s.negamax(beta-1, beta, depth-reduction, ply, false, false)
				s.stack[ply].canNullMove = true
				if verified >= beta {
					return nullValue
				}
			}
		}
	}

	hashMove := chess.NoMove
	if ttHit && (int(entry.Depth) >= depth || cutnode) {
		hashMove = ttMove
	}
	mp := &s.pickers[ply]
	mp.Init(s.pos, &s.history, ply, hashMove)

	bestMove := chess.NoMove
	bestValue := ValueNone
	kind := EntryUpperBound
	movesSearched := 0

	var quietsTried [128]chess.Move
	var capturesTried [64]chess.Move
	nQuiets, nCaptures := 0, 0

	for {
		m := mp.Next()
		if m == chess.NoMove {
			break
		}

		isCapture := s.pos.IsCapture(m)
		tactical := isCapture || m.IsPromotion()

		// Losing exchanges near the leaves are not worth a node.
		if !isRoot && !isPV && !inCheck && depth <= 8 && movesSearched > 0 {
			threshold := -40 * depth
			if tactical {
				threshold = -(20 + 24*depth*depth)
			}
			if !SEE(s.pos, m, threshold) {
				continue
			}
		}

		if isCapture && !m.IsEnPassant() && nCaptures < len(capturesTried) {
			capturesTried[nCaptures] = m
			nCaptures++
		} else if !tactical && nQuiets < len(quietsTried) {
			quietsTried[nQuiets] = m
			nQuiets++
		}

		reduction := 0
		if movesSearched >= 3 && depth >= 3 {
			d, mc := depth, movesSearched
			if d > 63 {
				d = 63
			}
			if mc > 63 {
				mc = 63
			}
			reduction = lmrTable[d][mc]
			if tactical || isPV {
				reduction /= 2
			} else if !cutnode {
				reduction--
			}
			if reduction < 0 {
				reduction = 0
			}
			if reduction > depth-1 {
				reduction = depth - 1
			}
		}

		undo := s.makeMove(m, ply)
		var score Value
		if movesSearched == 0 {
			score = -s.negamax(-beta, -alpha, depth-1, ply+1, isPV, !isPV && !cutnode)
		} else {
			score = -s.negamax(-alpha-1, -alpha, depth-1-reduction, ply+1, false, !cutnode)
			if score > alpha && reduction > 0 {
				score = -s.negamax(-alpha-1, -alpha, depth-1, ply+1, false, !cutnode)
			}
			if isPV && score > alpha && score < beta {
				score = -s.negamax(-beta, -alpha, depth-1, ply+1, true, false)
			}
		}
		s.unmakeMove(m, undo)
		movesSearched++

		if s.aborted() {
			return alpha
		}

		if !bestValue.IsValid() || score > bestValue {
			bestValue = score
		}
		if score > alpha {
			alpha = score
			bestMove = m
			kind = EntryExact
			s.stack[ply].bestMove = m
			if isRoot {
				s.bestMoveCurr = m
				s.bestValueCurr = score
			}
			if score >= beta {
				kind = EntryLowerBound
				s.updateCutoffHistories(m, depth, ply, quietsTried[:nQuiets], capturesTried[:nCaptures])
				break
			}
		}
	}

	if movesSearched == 0 {
		if inCheck {
			return MatedIn(ply)
		}
		return ValueDraw
	}

	if !suppressTTWrite && !s.interrupted {
		s.tt.Store(s.pos, kind, depth, bestMove, valueToTT(bestValue, ply))
	}
	return bestValue
}

// updateCutoffHistories rewards the move that refuted the node and punishes
// the siblings tried before it. Only cutoff sites feed the tables.
func (s *searcher) updateCutoffHistories(m chess.Move, depth, ply int, quiets, captures []chess.Move) {
	us := s.pos.SideToMove
	bonus := depth * depth

	if s.pos.IsCapture(m) {
		if !m.IsEnPassant() {
			s.updateCaptureHistory(us, m, bonus)
		}
		for _, tried := range captures {
			if tried != m {
				s.updateCaptureHistory(us, tried, -bonus)
			}
		}
		return
	}
	if m.IsPromotion() {
		return
	}

	s.history.Killers[ply].Add(m)
	s.history.Quiet.Update(us, m, bonus)
	for _, tried := range quiets {
		if tried != m {
			s.history.Quiet.Update(us, tried, -bonus)
		}
	}
}

func (s *searcher) updateCaptureHistory(us chess.Color, m chess.Move, bonus int) {
	victim := s.pos.PieceAt(m.To())
	if victim == chess.NoPiece {
		return
	}
	aggressor := s.pos.PieceAt(m.From()).Type()
	s.history.Capture.Update(us, aggressor, m.To(), victim.Type(), bonus)
}

// qsearch extends the search through captures and promotions (every evasion
// when in check) so the returned evaluation never sits on a tactical cliff.
func (s *searcher) qsearch(alpha, beta Value, depth, ply int, isPV bool) Value {
	if s.aborted() {
		return alpha
	}
	s.stats.nodes++

	if s.isDraw() {
		return ValueDraw
	}
	inCheck := s.pos.InCheck()
	if depth <= 0 || ply >= MaxPly {
		if inCheck {
			return ValueDraw
		}
		return s.evaluate()
	}
	if isPV && ply > s.stats.seldepth {
		s.stats.seldepth = ply
	}

	if !isPV {
		if entry, ok := s.tt.Probe(s.pos); ok {
			v := valueFromTT(entry.Value, ply)
			if boundProves(entry.Kind, v, alpha, beta) {
				return v
			}
		}
	}

	staticEval := ValueNone
	bestValue := MatedIn(ply)
	if !inCheck {
		// Stand pat: the side to move can decline every capture.
		staticEval = s.evaluate()
		if staticEval >= beta {
			return staticEval
		}
		alpha = maxValue(alpha, staticEval)
		bestValue = staticEval
	}

	prevMove := chess.NoMove
	if ply > 0 {
		prevMove = s.stack[ply-1].currentMove
	}

	mp := &s.pickers[ply]
	mp.InitQSearch(s.pos, &s.history, ply)

	movesSearched := 0
	for {
		m := mp.Next()
		if m == chess.NoMove {
			break
		}

		if !inCheck {
			// Delta pruning: even the best conceivable gain cannot lift
			// alpha.
			gain := 0
			if m.IsEnPassant() {
				gain = seePieceValue[chess.Pawn]
			} else if captured := s.pos.PieceAt(m.To()); captured != chess.NoPiece {
				gain = seePieceValue[captured.Type()]
			}
			if staticEval+Value(gain)+200 < alpha {
				continue
			}

			// Recaptures are exempt: they restore the material balance.
			recapture := prevMove != chess.NoMove && m.To() == prevMove.To()
			if !recapture && !SEE(s.pos, m, -6) {
				continue
			}
		}

		undo := s.makeMove(m, ply)
		score := -s.qsearch(-beta, -alpha, depth-1, ply+1, isPV)
		s.unmakeMove(m, undo)
		movesSearched++

		if s.aborted() {
			return alpha
		}

		if score > bestValue {
			bestValue = score
		}
		if score > alpha {
			alpha = score
			if score >= beta {
				break
			}
		}
	}

	if movesSearched == 0 && inCheck {
		return MatedIn(ply)
	}
	return bestValue
}

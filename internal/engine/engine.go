package engine

import (
	"sync/atomic"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
)

// Engine owns everything that outlives a single search request: the
// transposition table, the evaluator and the worker handle. There is at most
// one in-flight search; Go joins the previous worker before launching the
// next, and the stop flag is the only channel between front-end and worker.
type Engine struct {
	tt   *TranspositionTable
	eval Evaluator
	stop atomic.Bool
	done chan struct{} // closed when the current worker exits

	// OnInfo, when set, receives one callback per completed iteration.
	OnInfo func(SearchInfo)
}

// NewEngine builds an engine with the given hash size in megabytes.
func NewEngine(hashMB int, eval Evaluator) *Engine {
	return &Engine{tt: NewTranspositionTable(hashMB), eval: eval}
}

// Go starts a search on a private clone of pos and returns immediately.
// onDone receives the result from the worker goroutine.
func (e *Engine) Go(pos *chess.Position, params SearchParams, onDone func(SearchResult)) {
	e.StopAndWait()
	e.stop.Store(false)
	e.done = make(chan struct{})

	clone := pos.Clone()
	go func() {
		defer close(e.done)
		s := newSearcher(clone, e.tt, e.eval, &e.stop)
		s.onInfo = e.OnInfo
		onDone(s.Search(params))
	}()
}

// SearchSync runs a search on the calling goroutine; used by the annotation
// tool and by tests.
func (e *Engine) SearchSync(pos *chess.Position, params SearchParams) SearchResult {
	e.StopAndWait()
	e.stop.Store(false)
	s := newSearcher(pos.Clone(), e.tt, e.eval, &e.stop)
	s.onInfo = e.OnInfo
	return s.Search(params)
}

// Stop raises the stop flag; the worker observes it within a bounded number
// of nodes.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Wait blocks until the current worker, if any, has exited.
func (e *Engine) Wait() {
	if e.done != nil {
		<-e.done
	}
}

// StopAndWait raises the stop flag and joins the worker.
func (e *Engine) StopAndWait() {
	e.Stop()
	e.Wait()
}

// NewGame clears the transposition table.
func (e *Engine) NewGame() {
	e.StopAndWait()
	e.tt.Clear()
}

// ResizeHash reallocates the transposition table, discarding its contents.
// Never called while a search runs.
func (e *Engine) ResizeHash(sizeMB int) {
	e.StopAndWait()
	e.tt.Resize(sizeMB)
}

// StaticEval returns the evaluator's verdict on pos.
func (e *Engine) StaticEval(pos *chess.Position) Value {
	return e.eval.Evaluate(pos)
}

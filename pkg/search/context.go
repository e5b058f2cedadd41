package search

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/tb"
	"github.com/corvidchess/corvid/pkg/tt"
	"go.uber.org/atomic"
)

// maxPly bounds the per-ply arrays (killers, lastMove). No search in practice approaches this
// depth; it exists so those arrays can be fixed-size instead of reallocated per search.
const maxPly = 128

// nodesPerPoll is how often (in interior nodes visited) a worker rechecks the shared stop flag,
// which a time-control deadline also sets, trading a little overshoot for not paying an atomic
// load on every node.
const nodesPerPoll = 4096

// Shared holds state common to every Lazy-SMP worker searching the same root: the transposition
// table, evaluator, tablebase oracle, and the single atomic stop flag/node counter every worker
// polls and contributes to. Safe for concurrent use.
type Shared struct {
	TT       *tt.Table
	Eval     eval.Evaluator
	Oracle   tb.Oracle
	Contempt board.Score // subtracted from the draw score, from the side-to-move's perspective
	History  *History    // history/counter-move heuristic, shared and persisted across a game

	Stop   atomic.Bool
	Nodes  atomic.Uint64
	TBHits atomic.Uint64
}

// NewShared constructs shared search state. A nil oracle defaults to tb.NopOracle. History
// defaults to a fresh, empty table; an engine that wants history to persist across searches
// within a game (rather than starting from scratch every "go") should overwrite this field with
// one it keeps around itself, the way Engine.Analyze does.
func NewShared(table *tt.Table, evaluator eval.Evaluator, oracle tb.Oracle) *Shared {
	if oracle == nil {
		oracle = tb.NopOracle{}
	}
	return &Shared{TT: table, Eval: evaluator, Oracle: oracle, History: NewHistory()}
}

// historyCap bounds the history heuristic so it can never outrank a genuine SEE-ranked capture
// or overflow relative to the killer-move priorities it sits beneath.
const historyCap int32 = 16384

// History is the history heuristic and counter-move table: which quiet (side, from, to) moves
// have caused beta cutoffs in the past, and which move was last found to refute a given opponent
// move. It is shared by every Lazy-SMP worker searching the same root and, via Engine, persisted
// across searches within one game so ordering keeps improving move to move. Updates are not
// synchronized: a torn read or write only perturbs move ordering for one node, never search
// correctness, the same tolerance for benign races the lock-free transposition table (pkg/tt)
// already relies on, so paying for a mutex here would buy nothing.
type History struct {
	scores   [board.NumColors][board.NumSquares][board.NumSquares]int32
	counters [board.NumColors][board.NumSquares][board.NumSquares]board.Move
}

// NewHistory returns an empty history table.
func NewHistory() *History {
	return &History{}
}

// recordScore rewards turn's quiet move m for causing a beta cutoff at the given depth, clipped
// to ±historyCap and aged by a right-shift so recent cutoffs dominate stale ones.
func (h *History) recordScore(turn board.Color, m board.Move, depth int) {
	v := &h.scores[turn][m.From()][m.To()]
	*v -= *v >> 3
	*v += int32(depth * depth)
	switch {
	case *v > historyCap:
		*v = historyCap
	case *v < -historyCap:
		*v = -historyCap
	}
}

func (h *History) score(turn board.Color, m board.Move) int32 {
	return h.scores[turn][m.From()][m.To()]
}

// recordCounter remembers m as the reply that refuted prev, played by prevTurn.
func (h *History) recordCounter(prevTurn board.Color, prev, m board.Move) {
	h.counters[prevTurn][prev.From()][prev.To()] = m
}

// counter returns the move previously found to refute prev, played by prevTurn, or NullMove.
func (h *History) counter(prevTurn board.Color, prev board.Move) board.Move {
	return h.counters[prevTurn][prev.From()][prev.To()]
}

// Halve ages every history score toward zero. Called on ucinewgame so bias accumulated over a
// finished game does not carry into the next one; counter-moves are left as-is since they are
// a suggestion, not a magnitude, and are harmless if stale.
func (h *History) Halve() {
	for c := range h.scores {
		for from := range h.scores[c] {
			for to := range h.scores[c][from] {
				h.scores[c][from][to] /= 2
			}
		}
	}
}

// worker holds the per-goroutine mutable state of one Lazy-SMP search thread: its own board
// (make/unmake is not thread-safe), killer moves, and the path of moves played to reach the
// current node. Everything here is private to one worker; Shared (including the history table)
// is contended.
type worker struct {
	shared *Shared
	b      *board.Board

	localNodes uint64
	seldepth   int

	killers  [maxPly][2]board.Move
	lastMove [maxPly]board.Move // move played to reach ply, for the counter-move lookup

	stopped bool
}

func newWorker(shared *Shared, b *board.Board) *worker {
	return &worker{shared: shared, b: b}
}

// shouldStop polls the shared stop flag every nodesPerPoll nodes, so workers don't pay an atomic
// load on every single node visited.
func (w *worker) shouldStop() bool {
	if w.stopped {
		return true
	}
	if w.localNodes%nodesPerPoll == 0 && w.shared.Stop.Load() {
		w.stopped = true
	}
	return w.stopped
}

func (w *worker) bumpNode() {
	w.localNodes++
	w.shared.Nodes.Inc()
}

func (w *worker) recordKiller(ply int, m board.Move) {
	if ply >= maxPly {
		return
	}
	if w.killers[ply][0] == m {
		return
	}
	w.killers[ply][1] = w.killers[ply][0]
	w.killers[ply][0] = m
}

func (w *worker) isKiller(ply int, m board.Move) bool {
	if ply >= maxPly {
		return false
	}
	return w.killers[ply][0] == m || w.killers[ply][1] == m
}

func (w *worker) recordHistory(turn board.Color, m board.Move, depth int) {
	w.shared.History.recordScore(turn, m, depth)
}

func (w *worker) historyScore(turn board.Color, m board.Move) int32 {
	return w.shared.History.score(turn, m)
}

// recordCounterMove remembers m, played at ply, as the reply that refuted whatever move was
// played to reach ply (w.lastMove[ply]), if any.
func (w *worker) recordCounterMove(ply int, m board.Move) {
	if ply >= maxPly {
		return
	}
	prev := w.lastMove[ply]
	if prev == board.NullMove {
		return
	}
	w.shared.History.recordCounter(w.b.Turn().Opponent(), prev, m)
}

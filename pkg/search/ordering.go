package search

import (
	"math"

	"github.com/corvidchess/corvid/pkg/board"
)

// Move ordering buckets, highest first: a legal TT move always goes first since it is most
// likely to be the best move (found by a prior, possibly shallower, search); winning/equal
// captures by SEE gain next, then killers, then the counter-move, then quiets by history score,
// then losing captures last, since they only rarely turn out to be worth exploring early.
const (
	priorityTT          board.MovePriority = math.MaxInt32
	priorityWinningBase board.MovePriority = 1 << 24
	priorityKiller1     board.MovePriority = 1 << 20
	priorityKiller2     board.MovePriority = 1<<20 - 1
	priorityCounter     board.MovePriority = 1 << 19
	priorityQuietBase   board.MovePriority = 0
	priorityLosingBase  board.MovePriority = -(1 << 24)
)

// orderMoves assigns a board.MovePriority to every pseudo-legal move at a node, combining the TT
// move, static-exchange-ranked captures (queen promotions included, since SEE already prices in
// the promotion gain even for a non-capturing one), killer moves, the counter-move found to
// refute whatever move led to this node, and history-scored quiets into the single priority
// ordering board.NewMoveList expects.
func (w *worker) orderMoves(moves []board.Move, ttMove board.Move, ply int) board.MovePriorityFn {
	see := make(map[board.Move]board.Score, len(moves))
	for _, m := range moves {
		if m.IsCapture() || isQueenPromotion(m) {
			see[m] = w.b.StaticExchangeEval(m)
		}
	}

	turn := w.b.Turn()
	var counter board.Move
	if ply < maxPly {
		if prev := w.lastMove[ply]; prev != board.NullMove {
			counter = w.shared.History.counter(turn.Opponent(), prev)
		}
	}

	return func(m board.Move) board.MovePriority {
		if m == ttMove {
			return priorityTT
		}
		if gain, ok := see[m]; ok {
			if gain >= board.ZeroScore {
				return priorityWinningBase + board.MovePriority(gain)
			}
			return priorityLosingBase + board.MovePriority(gain)
		}
		if w.killers[minPly(ply)][0] == m {
			return priorityKiller1
		}
		if w.killers[minPly(ply)][1] == m {
			return priorityKiller2
		}
		if counter != board.NullMove && m == counter {
			return priorityCounter
		}
		return priorityQuietBase + board.MovePriority(w.historyScore(turn, m))
	}
}

// isQueenPromotion reports whether m promotes to a queen: spec.md ranks these with winning
// captures since under-promoting away from a queen is essentially never correct, and m.IsCapture
// alone misses the non-capturing case (board.QueenPromo, as opposed to QueenPromoCapture).
func isQueenPromotion(m board.Move) bool {
	p, ok := m.PromotionPiece()
	return ok && p == board.Queen
}

func minPly(ply int) int {
	if ply >= maxPly {
		return maxPly - 1
	}
	return ply
}

// isQuiet reports whether m is neither a capture nor a promotion, the set of moves eligible for
// late move reductions and futility pruning.
func isQuiet(m board.Move) bool {
	return !m.IsCapture() && !m.IsPromotion()
}

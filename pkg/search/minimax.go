package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// Minimax is a naive full-width negamax search with no pruning or ordering. It exists to
// cross-validate PVS at shallow depth in tests, not for play: node count grows with the
// unreduced branching factor, so it is only practical a few plies deep.
type Minimax struct {
	Eval eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, shared *Shared, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	r := &runMinimax{eval: m.Eval, b: b}
	score, pv := r.search(ctx, depth, 0)
	return r.nodes, score, pv, nil
}

type runMinimax struct {
	eval  eval.Evaluator
	b     *board.Board
	nodes uint64
}

// search returns the score from the side to move's perspective.
func (r *runMinimax) search(ctx context.Context, depth, ply int) (board.Score, []board.Move) {
	r.nodes++

	if r.b.Result().Outcome == board.Draw {
		return board.DrawScore, nil
	}
	if depth == 0 {
		return r.eval.Evaluate(ctx, r.b), nil
	}

	hasLegalMove := false
	best := board.NegInfScore
	var pv []board.Move

	for _, m := range r.b.PseudoLegalMoves() {
		if !r.b.PushMove(m) {
			continue
		}
		hasLegalMove = true
		score, rem := r.search(ctx, depth-1, ply+1)
		score = -score
		r.b.PopMove()

		if score > best {
			best = score
			pv = append([]board.Move{m}, rem...)
		}
	}

	if !hasLegalMove {
		if result := r.b.AdjudicateTerminal(); result.Reason == board.Checkmate {
			return board.Score(-int(board.MateScore) + ply), nil
		}
		return board.DrawScore, nil
	}
	return best, pv
}

package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// quiescence extends search past the nominal leaf depth along capturing lines only, so the
// static evaluator is never asked to score a position in the middle of a pending exchange. Stands
// pat on the static eval unless in check, in which case every evasion must be tried since there
// may be no quiet alternative.
func (w *worker) quiescence(ctx context.Context, ply int, alpha, beta board.Score) (board.Score, []board.Move) {
	if w.shouldStop() {
		return board.ZeroScore, nil
	}
	w.bumpNode()
	if ply > w.seldepth {
		w.seldepth = ply
	}

	if w.b.Result().Outcome == board.Draw {
		return w.drawScore(), nil
	}

	inCheck := w.b.IsChecked(w.b.Turn())

	var moves []board.Move
	if inCheck {
		moves = w.b.GenerateEvasions()
	} else {
		standPat := w.shared.Eval.Evaluate(ctx, w.b)
		if standPat >= beta {
			return standPat, nil
		}
		if standPat > alpha {
			alpha = standPat
		}
		moves = capturesOnly(w.b.PseudoLegalMoves())
	}

	ranked := eval.RankCapturesBySEE(w.b, moves)

	hasLegalMove := false
	bestScore := alpha
	var pv []board.Move

	for _, c := range ranked {
		// A losing capture can't raise a node that's already stood pat above alpha, so skip it;
		// in check there is no stand-pat floor to compare against and every evasion must be tried.
		if !inCheck && c.Gain < board.ZeroScore {
			continue
		}
		if !w.b.PushMove(c.Move) {
			continue
		}
		hasLegalMove = true

		score, rem := w.quiescence(ctx, ply+1, -beta, -alpha)
		score = -score
		w.b.PopMove()

		if w.shouldStop() {
			return board.ZeroScore, nil
		}

		if score > bestScore {
			bestScore = score
			pv = append([]board.Move{c.Move}, rem...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			return alpha, pv
		}
	}

	if inCheck && !hasLegalMove {
		return board.Score(-int(board.MateScore) + ply), nil
	}
	return bestScore, pv
}

func capturesOnly(moves []board.Move) []board.Move {
	out := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if m.IsCapture() || m.IsPromotion() {
			out = append(out, m)
		}
	}
	return out
}

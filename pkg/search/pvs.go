package search

import (
	"context"
	"errors"
	"math"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/tb"
	"github.com/corvidchess/corvid/pkg/tt"
)

// ErrHalted indicates the search was stopped before completing the requested depth.
var ErrHalted = errors.New("search halted")

// tbWinScore is returned for a tablebase-proven win, large enough to outrank any heuristic
// evaluation but kept well clear of the mate-score range so it never reports a false "mate in N".
const tbWinScore board.Score = 20000

// Searcher searches the game tree to a fixed depth from the root position in b. depth is in
// plies. Implementations must be safe to run concurrently from multiple Lazy-SMP workers
// sharing the same Shared state, each with its own Board.
type Searcher interface {
	Search(ctx context.Context, shared *Shared, b *board.Board, depth int) (nodes uint64, score board.Score, pv []board.Move, err error)
}

// PVS is a principal-variation search: negamax alpha-beta with iterative-deepening-friendly TT
// integration, null-move pruning, late move reductions, futility and razoring pruning, and
// quiescence search at the leaves.
type PVS struct{}

func (PVS) Search(ctx context.Context, shared *Shared, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	w := newWorker(shared, b)
	score, pv := w.search(ctx, depth, 0, board.NegInfScore, board.InfScore, true)
	if w.stopped {
		return w.localNodes, board.InvalidScore, nil, ErrHalted
	}
	return w.localNodes, score, pv, nil
}

// search implements negamax PVS at one node, returning the score from the side-to-move's
// perspective and the principal variation below this node.
func (w *worker) search(ctx context.Context, depth, ply int, alpha, beta board.Score, pvNode bool) (board.Score, []board.Move) {
	if w.shouldStop() {
		return board.ZeroScore, nil
	}

	if ply > 0 {
		if w.b.Result().Outcome == board.Draw {
			return w.drawScore(), nil
		}
		// In-search repetition short-circuit: if the current position has already occurred once
		// before along the real game history plus whatever moves this search has pushed, treat it
		// as an immediate draw rather than searching on to the real (three-fold) repetition. If the
		// opponent can force this position again, they can force the actual draw, so there is
		// nothing to gain by looking deeper.
		if w.b.RepetitionCount() >= 2 {
			return w.drawScore(), nil
		}
		// Mate-distance pruning: a shorter mate always outranks a longer one, so once alpha/beta
		// already bracket every score reachable via a faster or slower mate than is possible from
		// this node, there is nothing left to search.
		alpha = maxScore(alpha, board.Score(-int(board.MateScore)+ply))
		beta = minScore(beta, board.MateScore-board.Score(ply+1))
		if alpha >= beta {
			return alpha, nil
		}

		// Tablebase probe: once material has thinned to within the oracle's coverage, trust its
		// verdict over searching further. Skipped at the root so the engine always reports a move.
		if w.b.Occupancy().PopCount() <= w.shared.Oracle.MaxPieces() {
			if wdl, ok := w.shared.Oracle.Probe(w.b); ok {
				w.shared.TBHits.Inc()
				switch wdl {
				case tb.Win:
					return tbWinScore, nil
				case tb.Loss:
					return -tbWinScore, nil
				default:
					return w.drawScore(), nil
				}
			}
		}
	}

	inCheck := w.b.IsChecked(w.b.Turn())
	if inCheck {
		depth++ // check extension: never let a search stop while still in check.
	}

	if depth <= 0 {
		return w.quiescence(ctx, ply, alpha, beta)
	}

	w.bumpNode()
	if ply > w.seldepth {
		w.seldepth = ply
	}

	origAlpha := alpha
	var ttMove board.Move
	if e, ok := w.shared.TT.Probe(w.b.Hash(), ply); ok {
		ttMove = e.Move
		if e.Depth >= depth && !pvNode {
			switch {
			case e.Kind == tt.PVKind:
				return e.Score, []board.Move{ttMove}
			case e.Kind == tt.CutKind && e.Score >= beta:
				return e.Score, []board.Move{ttMove}
			case e.Kind == tt.AllKind && e.Score <= alpha:
				return e.Score, []board.Move{ttMove}
			}
		}
	}

	staticEval := w.shared.Eval.Evaluate(ctx, w.b)

	// Razoring: hopelessly far below alpha at shallow depth with no tactical resource left to
	// find, drop straight into quiescence instead of paying for a full-width search.
	if !pvNode && !inCheck && depth <= 3 {
		margin := board.Score(200 * depth)
		if staticEval+margin < alpha {
			score, _ := w.quiescence(ctx, ply, alpha, beta)
			if score < alpha {
				return score, nil
			}
		}
	}

	// Null-move pruning: let the opponent move twice in a row; if we still can't fail low, the
	// position is so good a null window search can be trusted to prune here. Skipped in check
	// (there is no null move that leaves us not in check) and when we hold only king and pawns,
	// where zugzwang makes the null-move assumption (that moving is never worse than passing)
	// unreliable.
	if !pvNode && !inCheck && depth >= 3 && staticEval >= beta && w.hasNonPawnMaterial(w.b.Turn()) {
		r := 2 + depth/6
		w.b.PushNullMove()
		score, _ := w.search(ctx, depth-1-r, ply+1, -beta, -beta+1, false)
		w.b.PopNullMove()
		score = -score
		if w.shouldStop() {
			return board.ZeroScore, nil
		}
		if score >= beta && !score.IsMate() {
			return beta, nil
		}
	}

	// Internal iterative deepening: with no TT move to seed ordering at real depth, spend a
	// shallow search finding one rather than falling back to a raw, unordered move list.
	if ttMove == board.NullMove && depth >= 6 && (pvNode || depth >= 8) {
		_, pv := w.search(ctx, depth-2, ply, alpha, beta, pvNode)
		if len(pv) > 0 {
			ttMove = pv[0]
		}
	}

	moves := w.b.PseudoLegalMoves()
	if inCheck {
		moves = w.b.GenerateEvasions()
	}
	list := board.NewMoveList(moves, w.orderMoves(moves, ttMove, ply))

	hasLegalMove := false
	moveNumber := 0
	bestScore := board.NegInfScore
	var bestMove board.Move
	var pv []board.Move

	for {
		m, ok := list.Next()
		if !ok {
			break
		}
		if !w.b.PushMove(m) {
			continue
		}
		hasLegalMove = true
		moveNumber++
		if ply+1 < maxPly {
			w.lastMove[ply+1] = m
		}

		givesCheck := w.b.IsChecked(w.b.Turn())

		// Futility pruning: at shallow depth, a quiet move that can't plausibly close a large
		// eval gap is not worth searching at all, as long as we're not in check and this isn't
		// the first move (which always gets a full search to establish a baseline).
		if !pvNode && !inCheck && !givesCheck && depth <= 3 && moveNumber > 1 && isQuiet(m) {
			margin := board.Score(100 * depth)
			if staticEval+margin <= alpha {
				w.b.PopMove()
				continue
			}
		}

		childDepth := depth - 1
		var score board.Score
		var rem []board.Move

		switch {
		case moveNumber == 1:
			score, rem = w.search(ctx, childDepth, ply+1, -beta, -alpha, pvNode)
			score = -score
		default:
			reduction := 0
			if depth >= 3 && moveNumber > 3 && isQuiet(m) && !inCheck && !givesCheck {
				reduction = lmrReduction(depth, moveNumber)
			}
			score, rem = w.search(ctx, childDepth-reduction, ply+1, -alpha-1, -alpha, false)
			score = -score
			if score > alpha && (reduction > 0 || score < beta) {
				score, rem = w.search(ctx, childDepth, ply+1, -beta, -alpha, pvNode)
				score = -score
			}
		}

		w.b.PopMove()

		if w.shouldStop() {
			return board.ZeroScore, nil
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			pv = append([]board.Move{m}, rem...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if isQuiet(m) {
				w.recordKiller(ply, m)
				w.recordHistory(w.b.Turn(), m, depth)
				w.recordCounterMove(ply, m)
			}
			break
		}
	}

	if !hasLegalMove {
		result := w.b.AdjudicateTerminal()
		if result.Reason == board.Checkmate {
			return board.Score(-int(board.MateScore) + ply), nil
		}
		return w.drawScore(), nil
	}

	kind := tt.AllKind
	switch {
	case bestScore >= beta:
		kind = tt.CutKind
	case bestScore > origAlpha:
		kind = tt.PVKind
	}
	w.shared.TT.Store(w.b.Hash(), depth, bestScore, kind, bestMove, ply)

	return bestScore, pv
}

// drawScore is the score of a draw from the side-to-move's perspective, biased by the configured
// contempt so the engine can be made to seek or avoid draws against weaker opposition.
func (w *worker) drawScore() board.Score {
	return board.DrawScore - w.shared.Contempt
}

// hasNonPawnMaterial reports whether c holds any piece besides pawns and the king, the
// zugzwang-risk guard for null-move pruning.
func (w *worker) hasNonPawnMaterial(c board.Color) bool {
	for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		if w.b.Pieces(c, p) != 0 {
			return true
		}
	}
	return false
}

// lmrReduction is the classic log(depth)*log(moveNumber) late-move-reduction formula, clamped
// to at least one ply and at most depth-1, so a reduced search may drop straight into quiescence.
func lmrReduction(depth, moveNumber int) int {
	r := int(0.5 + math.Log(float64(depth))*math.Log(float64(moveNumber))/2.0)
	if r < 1 {
		return 1
	}
	if r > depth-1 {
		return depth - 1
	}
	return r
}

func maxScore(a, b board.Score) board.Score {
	if a > b {
		return a
	}
	return b
}

func minScore(a, b board.Score) board.Score {
	if a < b {
		return a
	}
	return b
}

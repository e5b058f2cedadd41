// Package eval implements static position evaluation: material, piece-square tables, mobility,
// pawn structure, and king safety, tapered between middlegame and endgame by remaining material.
package eval

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
)

// Evaluator is a static position evaluator.
type Evaluator interface {
	// Evaluate returns the position score in centipawns, from the perspective of the side to move.
	Evaluate(ctx context.Context, b *board.Board) board.Score
}

// Default is the engine's standard tapered evaluator: material + PST + mobility + pawn structure
// + king safety, blended by game phase, plus a tempo bonus for the side to move.
type Default struct{}

func (Default) Evaluate(ctx context.Context, b *board.Board) board.Score {
	return Evaluate(b)
}

// Evaluate returns the static evaluation of b from White's point of view, negated to the side to
// move's point of view to match the negamax convention used throughout search.
func Evaluate(b *board.Board) board.Score {
	if b.HasInsufficientMaterial() {
		return board.DrawScore
	}

	white := sideScore(b, board.White)
	black := sideScore(b, board.Black)
	total := white - black

	phase := gamePhase(b)
	mg := int32(total.Mg())
	eg := int32(total.Eg())
	blended := (mg*int32(phase) + eg*int32(totalPhase-phase)) / int32(totalPhase)

	score := board.Score(blended) + tempoBonus(b)
	if b.Turn() == board.Black {
		score = -score
	}
	return score
}

// sideScore sums every positional term for one side, from that side's own point of view (i.e.
// signed positive for material/placement that side holds, regardless of which side it is).
func sideScore(b *board.Board, us board.Color) packed {
	var score packed
	for p := board.Pawn; p <= board.King; p++ {
		bb := b.Pieces(us, p)
		count := bb.PopCount()
		score += pieceValue[p] * packed(count)

		tmp := bb
		for tmp != 0 {
			sq := tmp.Pop()
			score += pstValue(us, p, sq)
		}
	}
	score += mobilityAndRooks(b, us)
	score += pawnStructure(b, us)
	score += kingSafety(b, us)
	return score
}

// gamePhase returns the current phase weight in [0, totalPhase], totalPhase being the full
// complement of non-pawn, non-king material and 0 being bare kings (and pawns).
func gamePhase(b *board.Board) int {
	phase := 0
	for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		count := b.Pieces(board.White, p).PopCount() + b.Pieces(board.Black, p).PopCount()
		phase += count * phaseWeight(p)
	}
	if phase > totalPhase {
		phase = totalPhase
	}
	return phase
}

// tempoBonus rewards the side to move, from White's point of view, tapered the same way as the
// rest of the evaluation.
func tempoBonus(b *board.Board) board.Score {
	phase := gamePhase(b)
	mg, eg := int32(tempo.Mg()), int32(tempo.Eg())
	blended := (mg*int32(phase) + eg*int32(totalPhase-phase)) / int32(totalPhase)
	if b.Turn() == board.White {
		return board.Score(blended)
	}
	return -board.Score(blended)
}

//go:build evaltrace

package eval

import (
	"context"
	"fmt"

	"github.com/corvidchess/corvid/pkg/board"
)

// Traced wraps an Evaluator and prints the game phase, each side's packed mg/eg totals and the
// final score to stdout on every call. Built only under the evaltrace tag, so it carries no cost
// in normal builds.
type Traced struct {
	Eval Evaluator
}

func (t Traced) Evaluate(ctx context.Context, b *board.Board) board.Score {
	phase := gamePhase(b)
	white := sideScore(b, board.White)
	black := sideScore(b, board.Black)
	score := t.Eval.Evaluate(ctx, b)

	fmt.Printf("eval trace: phase=%d/%d white(mg=%d,eg=%d) black(mg=%d,eg=%d) total=%v\n",
		phase, totalPhase, white.Mg(), white.Eg(), black.Mg(), black.Eg(), score)
	return score
}

package eval

import (
	"context"
	"math/rand"

	"github.com/corvidchess/corvid/pkg/board"
)

// Random adds a small amount of noise to another evaluator's score, in the range
// [-limit/2, limit/2] centipawns. Used to de-correlate self-play games and test positions that
// would otherwise always pick the same move among equally-scored candidates.
type Random struct {
	Eval  Evaluator
	rand  *rand.Rand
	limit int
}

func NewRandom(eval Evaluator, limit int, seed int64) Random {
	return Random{
		Eval:  eval,
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, b *board.Board) board.Score {
	base := n.Eval.Evaluate(ctx, b)
	if n.limit <= 0 {
		return base
	}
	return base + board.Score(n.rand.Intn(n.limit)-n.limit/2)
}

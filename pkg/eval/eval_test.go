package eval_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) *board.Board {
	t.Helper()
	zt := board.NewZobristTable(1)
	b, err := fen.Decode(zt, s)
	require.NoError(t, err)
	return b
}

func TestEvaluateStartPositionIsNearZero(t *testing.T) {
	b := mustDecode(t, fen.Initial)
	score := eval.Evaluate(b)
	// The only asymmetry at the start is the side-to-move tempo bonus, so the magnitude should
	// be small either way.
	assert.Less(t, int(score), 50)
	assert.Greater(t, int(score), -50)
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	// White is up a queen.
	b := mustDecode(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	score := eval.Evaluate(b)
	assert.Greater(t, int(score), 800)
}

func TestEvaluateIsSymmetricUnderColorMirror(t *testing.T) {
	// An asymmetric middlegame position (Black has castled kingside and developed a bishop to b4;
	// White has not yet castled) and its horizontal mirror: ranks flipped top-to-bottom, every
	// piece's color swapped, side to move swapped, castling rights swapped to the other side. This
	// is the same position viewed from the other side of the board, so the two must evaluate to
	// exactly the same score from their respective side to move's perspective — unlike a
	// self-mirror-symmetric FEN, this also exercises PST indexing, king-safety file neighborhoods,
	// and pawn-storm direction asymmetrically for the two colors.
	original := mustDecode(t, "r1bq1rk1/ppp2ppp/2n2n2/3pp3/1b2P3/2NP1N2/PPP2PPP/R1BQKB1R w KQ - 0 7")
	mirror := mustDecode(t, "r1bqkb1r/ppp2ppp/2np1n2/1B2p3/3PP3/2N2N2/PPP2PPP/R1BQ1RK1 b kq - 0 7")

	assert.Equal(t, eval.Evaluate(original), eval.Evaluate(mirror))
}

func TestDefaultEvaluatorMatchesEvaluate(t *testing.T) {
	b := mustDecode(t, fen.Initial)
	var d eval.Default
	assert.Equal(t, eval.Evaluate(b), d.Evaluate(context.Background(), b))
}

func TestRandomEvaluatorStaysWithinLimit(t *testing.T) {
	b := mustDecode(t, fen.Initial)
	base := eval.Evaluate(b)
	r := eval.NewRandom(eval.Default{}, 20, 42)

	got := r.Evaluate(context.Background(), b)
	diff := int(got) - int(base)
	assert.LessOrEqual(t, diff, 10)
	assert.GreaterOrEqual(t, diff, -10)
}

func TestRandomEvaluatorZeroLimitIsNoop(t *testing.T) {
	b := mustDecode(t, fen.Initial)
	base := eval.Evaluate(b)
	r := eval.NewRandom(eval.Default{}, 0, 42)

	assert.Equal(t, base, r.Evaluate(context.Background(), b))
}

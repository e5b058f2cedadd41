package eval_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCapturesBySEEOrdersBestGainFirst(t *testing.T) {
	// White queen on e1 can capture an undefended pawn on e4 (straight up the e-file) or an
	// undefended rook on a5 (up the e1-a5 diagonal); both are undefended wins, but the rook
	// capture should rank first.
	b := mustDecode(t, "4k3/8/8/r7/4p3/8/8/4Q1K1 w - - 0 1")
	pawnCapture := board.NewMove(board.E1, board.E4, board.CaptureFlag)
	rookCapture := board.NewMove(board.E1, board.A5, board.CaptureFlag)

	ranked := eval.RankCapturesBySEE(b, []board.Move{pawnCapture, rookCapture})
	require.Len(t, ranked, 2)
	assert.Equal(t, rookCapture, ranked[0].Move)
	assert.Equal(t, board.Rook.Value(), ranked[0].Gain)
	assert.Equal(t, pawnCapture, ranked[1].Move)
	assert.Equal(t, board.Pawn.Value(), ranked[1].Gain)
}

func TestNonLosingCapturesExcludesNegativeGain(t *testing.T) {
	b := mustDecode(t, "3rk3/8/8/3r4/8/8/8/3QK3 w - - 0 1")
	m := board.NewMove(board.D1, board.D5, board.CaptureFlag)

	ranked := eval.RankCapturesBySEE(b, []board.Move{m})
	assert.Empty(t, eval.NonLosingCaptures(ranked))
}

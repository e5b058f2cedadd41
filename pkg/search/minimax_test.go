package search_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimax has no quiescence search, so it only cross-validates PVS cleanly on positions where the
// best line ends without an unresolved capture - a forced mate is the cleanest case.
func TestMinimaxFindsSameMateAsPVS(t *testing.T) {
	b := mustDecode(t, "5rk1/5ppp/8/6NQ/8/8/8/6K1 w - - 0 1")

	_, pvsScore, pvsMoves, err := (search.PVS{}).Search(context.Background(), newShared(), b.Clone(), 3)
	require.NoError(t, err)

	_, mmScore, mmMoves, err := (search.Minimax{Eval: eval.Default{}}).Search(context.Background(), newShared(), b.Clone(), 2)
	require.NoError(t, err)

	assert.True(t, pvsScore.IsMate())
	assert.True(t, mmScore.IsMate())
	require.NotEmpty(t, pvsMoves)
	require.NotEmpty(t, mmMoves)
	assert.Equal(t, pvsMoves[0], mmMoves[0])
}

func TestMinimaxExploresEntireTreeAtDepth(t *testing.T) {
	// Bare kings: Black's king on h8 has three legal moves (g8, g7, h7); at depth 1 minimax must
	// visit the root plus one node per legal move.
	b := mustDecode(t, "7k/8/8/8/8/8/8/K7 b - - 0 1")

	nodes, _, _, err := (search.Minimax{Eval: eval.Default{}}).Search(context.Background(), newShared(), b, 1)
	require.NoError(t, err)

	legal := b.LegalMoves()
	assert.Equal(t, uint64(len(legal)+1), nodes)
}

package tt_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreThenProbeRoundTrips(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)
	hash := board.ZobristHash(0x1234567890abcdef)
	move := board.NewMove(board.E2, board.E4, board.DoublePawnPush)

	table.Store(hash, 6, board.Score(55), tt.CutKind, move, 3)

	e, ok := table.Probe(hash, 3)
	require.True(t, ok)
	assert.Equal(t, board.Score(55), e.Score)
	assert.Equal(t, move, e.Move)
	assert.Equal(t, tt.CutKind, e.Kind)
	assert.Equal(t, 6, e.Depth)
}

func TestProbeMissesOnDifferentKey(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)
	table.Store(board.ZobristHash(1), 4, board.Score(10), tt.PVKind, board.NullMove, 0)

	_, ok := table.Probe(board.ZobristHash(2), 0)
	assert.False(t, ok)
}

func TestStoreKeepsDeeperEntryOverShallowerSameKeyWrite(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)
	hash := board.ZobristHash(42)

	table.Store(hash, 10, board.Score(100), tt.CutKind, board.NullMove, 0)
	table.Store(hash, 2, board.Score(-100), tt.CutKind, board.NullMove, 0)

	e, ok := table.Probe(hash, 0)
	require.True(t, ok)
	assert.Equal(t, board.Score(100), e.Score)
	assert.Equal(t, 10, e.Depth)
}

func TestStoreOverwritesSameKeyWhenPVRegardlessOfDepth(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)
	hash := board.ZobristHash(42)

	table.Store(hash, 10, board.Score(100), tt.CutKind, board.NullMove, 0)
	table.Store(hash, 2, board.Score(-50), tt.PVKind, board.NullMove, 0)

	e, ok := table.Probe(hash, 0)
	require.True(t, ok)
	assert.Equal(t, board.Score(-50), e.Score)
	assert.Equal(t, tt.PVKind, e.Kind)
}

func TestTwoDistinctHashesCoexistInOneBucket(t *testing.T) {
	// Force both keys into the same bucket by using a table with exactly one bucket.
	table := tt.New(context.Background(), 32)

	table.Store(board.ZobristHash(1), 5, board.Score(11), tt.CutKind, board.NullMove, 0)
	table.Store(board.ZobristHash(2), 5, board.Score(22), tt.CutKind, board.NullMove, 0)

	e1, ok1 := table.Probe(board.ZobristHash(1), 0)
	e2, ok2 := table.Probe(board.ZobristHash(2), 0)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, board.Score(11), e1.Score)
	assert.Equal(t, board.Score(22), e2.Score)
}

func TestMateScoreIsRelativizedAcrossDifferentPly(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)
	hash := board.ZobristHash(7)

	// A mate found 3 plies below this node, stored at ply 2 from the root: search reports it
	// root-relative, as MateScore-(2+3).
	table.Store(hash, 8, board.MateScore-5, tt.PVKind, board.NullMove, 2)

	// Probed from a different root-distance (ply 5): the mate-in-N-from-here distance must stay
	// the same (3) even though the absolute root-relative score differs: MateScore-(5+3).
	e, ok := table.Probe(hash, 5)
	require.True(t, ok)
	assert.Equal(t, board.MateScore-8, e.Score)
}

func TestSameKeyRuleAppliesAcrossGenerationBump(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)
	hash := board.ZobristHash(99)

	table.Store(hash, 10, board.Score(5), tt.CutKind, board.NullMove, 0)
	table.NewSearch()
	table.Store(hash, 2, board.Score(-5), tt.CutKind, board.NullMove, 0)

	// Still the same-key slot: depth 2 < depth 10 and kind isn't PV, so the deeper entry wins
	// even across a generation bump. Generation aging only affects victim selection when no
	// same-key slot exists.
	e, ok := table.Probe(hash, 0)
	require.True(t, ok)
	assert.Equal(t, board.Score(5), e.Score)
}

func TestClearEmptiesTable(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)
	table.Store(board.ZobristHash(5), 5, board.Score(5), tt.PVKind, board.NullMove, 0)
	table.Clear()

	_, ok := table.Probe(board.ZobristHash(5), 0)
	assert.False(t, ok)
}

func TestHashfullReflectsOccupancy(t *testing.T) {
	table := tt.New(context.Background(), 32) // one bucket, two slots.
	assert.Equal(t, 0, table.Hashfull())

	table.Store(board.ZobristHash(1), 1, board.Score(1), tt.PVKind, board.NullMove, 0)
	assert.Equal(t, 500, table.Hashfull())
}

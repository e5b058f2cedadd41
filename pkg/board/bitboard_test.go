package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestBitboard(t *testing.T) {
	t.Run("popcount", func(t *testing.T) {
		tests := []struct {
			bb       board.Bitboard
			expected int
		}{
			{board.EmptyBitboard, 0},
			{board.BitMask(board.G4), 1},
			{board.BitMask(board.G3) | board.BitMask(board.G4), 2},
			{board.FullBitboard, 64},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.bb.PopCount())
		}
	})

	t.Run("lastPopSquareAndPop", func(t *testing.T) {
		bb := board.BitMask(board.C3) | board.BitMask(board.G4)
		assert.Equal(t, board.C3, bb.LastPopSquare())

		sq := bb.Pop()
		assert.Equal(t, board.C3, sq)
		assert.Equal(t, 1, bb.PopCount())
		assert.Equal(t, board.G4, bb.LastPopSquare())

		var empty board.Bitboard
		assert.Equal(t, board.NoSquare, empty.LastPopSquare())
	})

	t.Run("string", func(t *testing.T) {
		tests := []struct {
			bb       board.Bitboard
			expected string
		}{
			{board.EmptyBitboard, "--------/--------/--------/--------/--------/--------/--------/--------"},
			{board.BitMask(board.H1), "--------/--------/--------/--------/--------/--------/--------/-------X"},
			{board.BitMask(board.A8), "X-------/--------/--------/--------/--------/--------/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.bb.String())
		}
	})

	t.Run("bitRankAndFile", func(t *testing.T) {
		assert.Equal(t, 8, board.BitRank(board.Rank1).PopCount())
		assert.Equal(t, 8, board.BitFile(board.FileA).PopCount())
		assert.True(t, board.BitRank(board.Rank1).IsSet(board.A1))
		assert.True(t, board.BitFile(board.FileH).IsSet(board.H8))
	})

	t.Run("pawnCaptureboard", func(t *testing.T) {
		white := board.PawnCaptureboard(board.White, board.BitMask(board.D4))
		assert.True(t, white.IsSet(board.C5))
		assert.True(t, white.IsSet(board.E5))
		assert.Equal(t, 2, white.PopCount())

		black := board.PawnCaptureboard(board.Black, board.BitMask(board.D4))
		assert.True(t, black.IsSet(board.C3))
		assert.True(t, black.IsSet(board.E3))
		assert.Equal(t, 2, black.PopCount())

		// Edge files only yield a single capture target.
		edge := board.PawnCaptureboard(board.White, board.BitMask(board.A4))
		assert.Equal(t, 1, edge.PopCount())
		assert.True(t, edge.IsSet(board.B5))
	})

	t.Run("knightAndKingAttackboard", func(t *testing.T) {
		assert.Equal(t, 2, board.KnightAttackboard(board.A1).PopCount())
		assert.Equal(t, 8, board.KnightAttackboard(board.D4).PopCount())
		assert.Equal(t, 3, board.KingAttackboard(board.A1).PopCount())
		assert.Equal(t, 8, board.KingAttackboard(board.D4).PopCount())
	})

	t.Run("rookAndBishopAttackboardEmptyBoard", func(t *testing.T) {
		// On an otherwise empty board, a rook/bishop on D4 sees all the way to the edges.
		assert.Equal(t, 14, board.RookAttackboard(board.BitMask(board.D4), board.D4).PopCount())
		assert.Equal(t, 13, board.BishopAttackboard(board.BitMask(board.D4), board.D4).PopCount())
	})

	t.Run("rookAttackboardBlocked", func(t *testing.T) {
		occ := board.BitMask(board.D4) | board.BitMask(board.D6) | board.BitMask(board.F4)
		atk := board.RookAttackboard(occ, board.D4)
		assert.True(t, atk.IsSet(board.D5))
		assert.True(t, atk.IsSet(board.D6)) // blocker itself is attacked
		assert.False(t, atk.IsSet(board.D7))
		assert.True(t, atk.IsSet(board.E4))
		assert.True(t, atk.IsSet(board.F4))
		assert.False(t, atk.IsSet(board.G4))
	})
}

package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquare(t *testing.T) {
	t.Run("numbering", func(t *testing.T) {
		assert.Equal(t, board.Square(0), board.A1)
		assert.Equal(t, board.Square(7), board.H1)
		assert.Equal(t, board.Square(56), board.A8)
		assert.Equal(t, board.Square(63), board.H8)
	})

	t.Run("rankAndFile", func(t *testing.T) {
		assert.Equal(t, board.Rank4, board.D4.Rank())
		assert.Equal(t, board.FileD, board.D4.File())
		assert.Equal(t, board.NewSquare(board.FileD, board.Rank4), board.D4)
	})

	t.Run("flip", func(t *testing.T) {
		assert.Equal(t, board.A8, board.A1.Flip())
		assert.Equal(t, board.H1, board.H8.Flip())
		assert.Equal(t, board.D4, board.D5.Flip())
	})

	t.Run("parseAndString", func(t *testing.T) {
		sq, err := board.ParseSquareStr("e4")
		require.NoError(t, err)
		assert.Equal(t, board.E4, sq)
		assert.Equal(t, "e4", sq.String())

		_, err = board.ParseSquareStr("i4")
		assert.Error(t, err)
		_, err = board.ParseSquareStr("e9")
		assert.Error(t, err)
		_, err = board.ParseSquareStr("e")
		assert.Error(t, err)
	})

	t.Run("noSquare", func(t *testing.T) {
		assert.False(t, board.NoSquare.IsValid())
		assert.Equal(t, "-", board.NoSquare.String())
	})
}

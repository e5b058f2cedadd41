package engine_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookFindsKnownLines(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(1)

	book, err := engine.NewBook(zt, []engine.Line{
		{"e2e4", "d7d5", "d2d4"},
		{"e2e4", "d7d6"},
		{"d2d4", "d7d6"},
	})
	require.NoError(t, err)

	tests := []struct {
		pos   string
		moves []string
	}{
		{fen.Initial, []string{"d2d4", "e2e4"}},
		{"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1", []string{"d7d6"}},
	}

	for _, tt := range tests {
		list, err := book.Find(ctx, tt.pos)
		require.NoError(t, err)

		var got []string
		for _, m := range list {
			got = append(got, m.String())
		}
		assert.Equal(t, tt.moves, got)
	}
}

func TestBookIsEmptyPastKnownLines(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(1)

	book, err := engine.NewBook(zt, []engine.Line{{"e2e4", "d7d6"}})
	require.NoError(t, err)

	list, err := book.Find(ctx, "rnbqkbnr/ppp1pppp/3p4/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNoBookNeverRecommendsAMove(t *testing.T) {
	list, err := engine.NoBook.Find(context.Background(), fen.Initial)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewBookRejectsIllegalLine(t *testing.T) {
	zt := board.NewZobristTable(1)
	_, err := engine.NewBook(zt, []engine.Line{{"e2e5"}})
	assert.Error(t, err)
}

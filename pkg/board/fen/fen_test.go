package fen_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"8/8/8/3k4/8/8/3PK3/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
	}

	zt := board.NewZobristTable(1)
	for _, tt := range tests {
		b, err := fen.Decode(zt, tt)
		require.NoError(t, err, tt)
		assert.Equal(t, tt, fen.Encode(b), tt)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1",          // no kings
		"kk6/8/8/8/8/8/8/8 w - - 0 1",        // two black kings, no white king
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPX/RNBQKBNR w KQkq - 0 1",
	}

	zt := board.NewZobristTable(1)
	for _, tt := range tests {
		_, err := fen.Decode(zt, tt)
		assert.Error(t, err, tt)
	}
}

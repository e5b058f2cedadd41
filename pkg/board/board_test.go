package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, zt *board.ZobristTable, f string) *board.Board {
	t.Helper()
	b, err := fen.Decode(zt, f)
	require.NoError(t, err)
	return b
}

func TestNewBoardRejectsIllegalSetups(t *testing.T) {
	zt := board.NewZobristTable(1)

	_, err := board.NewBoard(zt, []board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
	}, board.White, 0, board.NoSquare, 0, 1)
	assert.Error(t, err, "missing black king")

	_, err = board.NewBoard(zt, []board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E2, Color: board.Black, Piece: board.King},
	}, board.White, 0, board.NoSquare, 0, 1)
	assert.Error(t, err, "kings adjacent")

	_, err = board.NewBoard(zt, []board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.E5, Color: board.White, Piece: board.Rook},
	}, board.White, 0, board.NoSquare, 0, 1)
	assert.Error(t, err, "side not to move left in check")
}

func TestPushPopMoveRoundTrip(t *testing.T) {
	zt := board.NewZobristTable(1)

	positions := []string{
		fen.Initial,
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, f := range positions {
		b := mustDecode(t, zt, f)
		before := fen.Encode(b)
		beforeHash := b.Hash()

		moves := b.LegalMoves()
		require.NotEmpty(t, moves, f)

		for _, m := range moves {
			ok := b.PushMove(m)
			require.True(t, ok, "legal move %v rejected in %v", m, f)

			undone, hadMove := b.PopMove()
			require.True(t, hadMove)
			assert.Equal(t, m, undone)
			assert.Equal(t, before, fen.Encode(b), "make/unmake mismatch for %v in %v", m, f)
			assert.Equal(t, beforeHash, b.Hash())
		}
	}
}

func TestCastlingRightsLostOnKingAndRookMoves(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := mustDecode(t, zt, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	require.True(t, b.PushMove(board.NewMove(board.H1, board.H2, board.Quiet)))
	assert.False(t, b.Castling().IsAllowed(board.WhiteKingSideCastle))
	assert.True(t, b.Castling().IsAllowed(board.WhiteQueenSideCastle))

	require.True(t, b.PushMove(board.NewMove(board.A8, board.A7, board.Quiet)))
	assert.False(t, b.Castling().IsAllowed(board.BlackQueenSideCastle))
}

func TestCastlingMoveRelocatesRook(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := mustDecode(t, zt, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	require.True(t, b.PushMove(board.NewMove(board.E1, board.G1, board.KingCastle)))

	_, p, ok := b.PieceAt(board.G1)
	require.True(t, ok)
	assert.Equal(t, board.King, p)

	_, p, ok = b.PieceAt(board.F1)
	require.True(t, ok)
	assert.Equal(t, board.Rook, p)

	_, _, ok = b.PieceAt(board.H1)
	assert.False(t, ok)
}

func TestEnPassantCapture(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := mustDecode(t, zt, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")

	require.True(t, b.PushMove(board.NewMove(board.E5, board.D6, board.EnPassantFlag)))

	_, _, ok := b.PieceAt(board.D5)
	assert.False(t, ok, "captured pawn removed")
	_, p, ok := b.PieceAt(board.D6)
	require.True(t, ok)
	assert.Equal(t, board.Pawn, p)
}

func TestPromotion(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := mustDecode(t, zt, "8/4P1k1/8/8/8/8/6K1/8 w - - 0 1")

	require.True(t, b.PushMove(board.NewMove(board.E7, board.E8, board.QueenPromo)))

	_, p, ok := b.PieceAt(board.E8)
	require.True(t, ok)
	assert.Equal(t, board.Queen, p)
}

func TestCheckmateAdjudication(t *testing.T) {
	zt := board.NewZobristTable(1)
	// Fool's mate final position: White to move, already mated.
	b := mustDecode(t, zt, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")

	assert.False(t, b.HasLegalMove())
	result := b.AdjudicateTerminal()
	assert.Equal(t, board.BlackWins, result.Outcome)
	assert.Equal(t, board.Checkmate, result.Reason)
}

func TestStalemateAdjudication(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := mustDecode(t, zt, "k7/8/1Q6/8/8/8/8/K7 b - - 0 1")

	assert.False(t, b.HasLegalMove())
	result := b.AdjudicateTerminal()
	assert.Equal(t, board.Draw, result.Outcome)
	assert.Equal(t, board.Stalemate, result.Reason)
}

func TestInsufficientMaterial(t *testing.T) {
	zt := board.NewZobristTable(1)

	b := mustDecode(t, zt, "8/8/8/4k3/8/8/4K3/8 w - - 0 1")
	assert.True(t, b.HasInsufficientMaterial())

	b = mustDecode(t, zt, "8/8/8/4k3/8/8/4KN2/8 w - - 0 1")
	assert.True(t, b.HasInsufficientMaterial())

	b = mustDecode(t, zt, "8/8/8/4k3/8/8/4KP2/8 w - - 0 1")
	assert.False(t, b.HasInsufficientMaterial())

	b = mustDecode(t, zt, "8/8/8/4k3/8/8/4KNN1/8 w - - 0 1")
	assert.False(t, b.HasInsufficientMaterial())
}

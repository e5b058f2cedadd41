package eval

import "github.com/corvidchess/corvid/pkg/board"

// mobilityAndRooks returns the packed mobility term (attacked-square count beyond a flat
// per-piece baseline, for knights/bishops/rooks/queens) plus rook open/semi-open file bonuses.
func mobilityAndRooks(b *board.Board, us board.Color) packed {
	occ := b.Occupancy()
	own := b.ColorOccupancy(us)
	ownPawns := b.Pieces(us, board.Pawn)
	oppPawns := b.Pieces(us.Opponent(), board.Pawn)

	pinned := pinnedMask(b, us)

	var score packed
	for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		baseline := mobilityBaseline(p)
		pieces := b.Pieces(us, p)
		for pieces != 0 {
			sq := pieces.Pop()
			count := (board.Attackboard(occ, sq, p) &^ own).PopCount()
			if pinned.IsSet(sq) {
				count /= 2
			}
			v := int16((count - baseline) * mobilityWeight)
			score += pack(v, v)

			if p == board.Rook {
				file := board.BitFile(sq.File())
				switch {
				case ownPawns&file == 0 && oppPawns&file == 0:
					score += rookOpenFileBonus
				case ownPawns&file == 0:
					score += rookSemiOpenFileBonus
				}
			}
		}
	}
	return score
}

// mobilityBaseline is the typical attacked-square count for a piece type on an otherwise open
// board, used so the mobility bonus centers near zero rather than always being positive.
func mobilityBaseline(p board.Piece) int {
	switch p {
	case board.Knight:
		return 4
	case board.Bishop:
		return 6
	case board.Rook:
		return 7
	case board.Queen:
		return 12
	default:
		return 0
	}
}

package eval

import "github.com/corvidchess/corvid/pkg/board"

// pst holds a packed (middlegame, endgame) piece-square bonus per piece type and square, from
// White's point of view; Black's bonus for the mirror-image square is identical (pstValue
// flips the square before indexing). Populated at init from simple, well-known positional
// heuristics (centralization, pawn advancement, rook on the 7th/open files, king safety vs.
// king activity) rather than a literal table transcription, which is easy to get byte-for-byte
// wrong by hand and hard to spot-check without running the engine.
var pst [board.NumPieces][board.NumSquares]packed

func init() {
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		f, r := int(sq.File()), int(sq.Rank())
		pst[board.Pawn][sq] = pawnPST(f, r)
		pst[board.Knight][sq] = knightPST(f, r)
		pst[board.Bishop][sq] = bishopPST(f, r)
		pst[board.Rook][sq] = rookPST(f, r)
		pst[board.Queen][sq] = queenPST(f, r)
		pst[board.King][sq] = kingPST(f, r)
	}
}

// pstValue returns the piece-square bonus for piece p of color c on sq.
func pstValue(c board.Color, p board.Piece, sq board.Square) packed {
	if c == board.Black {
		sq = sq.Flip()
	}
	return pst[p][sq]
}

func centerDistance(f, r int) int {
	fd := min(absInt(f-3), absInt(f-4))
	rd := min(absInt(r-3), absInt(r-4))
	return fd + rd
}

func centerBonus(f, r, scale int) int {
	d := centerDistance(f, r)
	b := (6 - d) * scale
	if b < 0 {
		return 0
	}
	return b
}

func pawnPST(f, r int) packed {
	// Rank is already 0=rank1..7=rank8 in White's frame; a pawn is never on rank1/rank8, but the
	// formula is harmless there since those entries are never read for a real pawn.
	advance := r * r // quadratic: advancing pawns gain value faster near promotion
	central := 0
	if f == 3 || f == 4 {
		central = 6
	}
	return pack(int16(advance+central), int16(advance*2+central/2))
}

func knightPST(f, r int) packed {
	b := centerBonus(f, r, 5)
	rim := 0
	if f == 0 || f == 7 || r == 0 || r == 7 {
		rim = 12
	}
	return pack(int16(b-rim), int16(b-rim/2))
}

func bishopPST(f, r int) packed {
	b := centerBonus(f, r, 3)
	diag := 0
	if f == r || f+r == 7 {
		diag = 6
	}
	return pack(int16(b+diag), int16(b+diag/2))
}

func rookPST(f, r int) packed {
	seventh := 0
	if r == 6 {
		seventh = 20
	}
	central := 0
	if f == 3 || f == 4 {
		central = 4
	}
	return pack(int16(seventh+central), int16(seventh/2+central))
}

func queenPST(f, r int) packed {
	b := centerBonus(f, r, 2)
	return pack(int16(b), int16(b))
}

func kingPST(f, r int) packed {
	// Middlegame: reward tucking away on the back rank, off the center files. Endgame: reward
	// activity toward the center, where the king becomes an attacking piece.
	safety := 0
	if r == 0 {
		safety += 20
		if f <= 2 || f >= 6 {
			safety += 10
		}
	}
	active := centerBonus(f, r, 6)
	return pack(int16(safety), int16(active))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

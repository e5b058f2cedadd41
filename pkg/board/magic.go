package board

import "math/rand"

// Magic holds the perfect-hash parameters for one square's sliding-piece attack table: the
// relevant-occupancy mask, the magic multiplier, the right-shift amount, and the offset of
// this square's slice within the shared attack table.
//
// Lookup is: index = ((occupancy & Mask) * Magic) >> Shift; attacks = table[Offset+index].
type Magic struct {
	Mask   Bitboard
	Magic  Bitboard
	Shift  uint
	Offset uint32
}

var (
	rookMagics   [NumSquares]Magic
	bishopMagics [NumSquares]Magic

	// Capacity is the exact total of 2^(mask bits) over all 64 squares for each piece type.
	rookAttackTable   []Bitboard
	bishopAttackTable []Bitboard
)

func init() {
	rookAttackTable = make([]Bitboard, 0, 102400)
	bishopAttackTable = make([]Bitboard, 0, 5248)

	for sq := ZeroSquare; sq < NumSquares; sq++ {
		rookAttackTable = initMagic(&rookMagics[sq], sq, rookMask(sq), rookAttackTable, rookRayAttacks)
	}
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		bishopAttackTable = initMagic(&bishopMagics[sq], sq, bishopMask(sq), bishopAttackTable, bishopRayAttacks)
	}
}

// initMagic finds a collision-free magic multiplier for the given square and mask by trial
// search over sparse random 64-bit candidates (the classic technique: a magic exists whenever
// the candidate, multiplied against every occupancy subset of mask and shifted, produces a
// unique index per distinct attack set). It appends the square's attack table entries to table
// and returns the extended table.
func initMagic(m *Magic, sq Square, mask Bitboard, table []Bitboard, rays func(Square, Bitboard) Bitboard) []Bitboard {
	bits := mask.PopCount()
	size := 1 << uint(bits)
	shift := uint(64 - bits)

	occupancies := make([]Bitboard, size)
	attacks := make([]Bitboard, size)
	for i := 0; i < size; i++ {
		occ := indexToOccupancy(i, mask)
		occupancies[i] = occ
		attacks[i] = rays(sq, occ)
	}

	rnd := rand.New(rand.NewSource(int64(sq)*2654435761 + int64(bits)))
	used := make([]Bitboard, size)
	seen := make([]bool, size)

	for {
		candidate := sparseRandom(rnd)
		if Bitboard(uint64(candidate*mask)>>56).PopCount() < 6 {
			continue // heuristic: reject magics with poor top-byte distribution
		}

		for i := range seen {
			seen[i] = false
		}

		ok := true
		for i := 0; i < size; i++ {
			idx := (occupancies[i] * candidate) >> shift
			if !seen[idx] {
				seen[idx] = true
				used[idx] = attacks[i]
			} else if used[idx] != attacks[i] {
				ok = false
				break
			}
		}
		if ok {
			m.Mask = mask
			m.Magic = candidate
			m.Shift = shift
			m.Offset = uint32(len(table))
			return append(table, used...)
		}
	}
}

// sparseRandom returns a 64-bit value with relatively few set bits, which empirically yields
// valid magics far faster than uniformly random 64-bit candidates.
func sparseRandom(rnd *rand.Rand) Bitboard {
	return Bitboard(rnd.Uint64()) & Bitboard(rnd.Uint64()) & Bitboard(rnd.Uint64())
}

// indexToOccupancy maps a dense index in [0, 2^popcount(mask)) to the corresponding subset of
// mask's set bits, enumerating every relevant occupancy for a square exactly once.
func indexToOccupancy(index int, mask Bitboard) Bitboard {
	var occ Bitboard
	m := mask
	for i := 0; m != 0; i++ {
		sq := m.Pop()
		if index&(1<<uint(i)) != 0 {
			occ |= BitMask(sq)
		}
	}
	return occ
}

// rookMask returns the relevant-occupancy mask for a rook at sq: the rook's rays along its
// rank and file, excluding the board edge (the edge square is always "occupied" from the
// slider's perspective and never changes whether the ray continues, so excluding it shrinks
// the mask without losing information).
func rookMask(sq Square) Bitboard {
	var b Bitboard
	r, f := int(sq.Rank()), int(sq.File())
	for i := r + 1; i <= 6; i++ {
		b |= BitMask(NewSquare(File(f), Rank(i)))
	}
	for i := r - 1; i >= 1; i-- {
		b |= BitMask(NewSquare(File(f), Rank(i)))
	}
	for i := f + 1; i <= 6; i++ {
		b |= BitMask(NewSquare(File(i), Rank(r)))
	}
	for i := f - 1; i >= 1; i-- {
		b |= BitMask(NewSquare(File(i), Rank(r)))
	}
	return b
}

// bishopMask returns the relevant-occupancy mask for a bishop at sq, analogous to rookMask.
func bishopMask(sq Square) Bitboard {
	var b Bitboard
	r, f := int(sq.Rank()), int(sq.File())
	for dr, df := r+1, f+1; dr <= 6 && df <= 6; dr, df = dr+1, df+1 {
		b |= BitMask(NewSquare(File(df), Rank(dr)))
	}
	for dr, df := r+1, f-1; dr <= 6 && df >= 1; dr, df = dr+1, df-1 {
		b |= BitMask(NewSquare(File(df), Rank(dr)))
	}
	for dr, df := r-1, f+1; dr >= 1 && df <= 6; dr, df = dr-1, df+1 {
		b |= BitMask(NewSquare(File(df), Rank(dr)))
	}
	for dr, df := r-1, f-1; dr >= 1 && df >= 1; dr, df = dr-1, df-1 {
		b |= BitMask(NewSquare(File(df), Rank(dr)))
	}
	return b
}

// rookRayAttacks computes the actual rook attack set for sq given a full occupancy (not just
// the masked relevant occupancy), by ray-tracing in each of the 4 directions and stopping
// (inclusively) at the first occupied square. Used only at init time to populate tables.
func rookRayAttacks(sq Square, occ Bitboard) Bitboard {
	var b Bitboard
	r, f := int(sq.Rank()), int(sq.File())

	for i := r + 1; i <= 7; i++ {
		s := NewSquare(File(f), Rank(i))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	for i := r - 1; i >= 0; i-- {
		s := NewSquare(File(f), Rank(i))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	for i := f + 1; i <= 7; i++ {
		s := NewSquare(File(i), Rank(r))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	for i := f - 1; i >= 0; i-- {
		s := NewSquare(File(i), Rank(r))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	return b
}

// bishopRayAttacks computes the actual bishop attack set for sq given a full occupancy,
// analogous to rookRayAttacks.
func bishopRayAttacks(sq Square, occ Bitboard) Bitboard {
	var b Bitboard
	r, f := int(sq.Rank()), int(sq.File())

	for dr, df := r+1, f+1; dr <= 7 && df <= 7; dr, df = dr+1, df+1 {
		s := NewSquare(File(df), Rank(dr))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	for dr, df := r+1, f-1; dr <= 7 && df >= 0; dr, df = dr+1, df-1 {
		s := NewSquare(File(df), Rank(dr))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	for dr, df := r-1, f+1; dr >= 0 && df <= 7; dr, df = dr-1, df+1 {
		s := NewSquare(File(df), Rank(dr))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	for dr, df := r-1, f-1; dr >= 0 && df >= 0; dr, df = dr-1, df-1 {
		s := NewSquare(File(df), Rank(dr))
		b |= BitMask(s)
		if occ.IsSet(s) {
			break
		}
	}
	return b
}

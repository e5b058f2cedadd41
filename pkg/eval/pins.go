package eval

import "github.com/corvidchess/corvid/pkg/board"

// Pin represents a piece of side that, if moved off the attacker-target line, would expose
// target (normally side's king) to a check from attacker.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns every absolute pin against side's king.
func FindPins(b *board.Board, side board.Color) []Pin {
	target := b.KingSquare(side)
	occ := b.Occupancy()
	opp := side.Opponent()

	var ret []Pin

	rooks := board.RookAttackboard(occ, target)
	pins := rooks & b.ColorOccupancy(side)
	for pins != 0 {
		pinned := pins.Pop()
		attackers := b.Pieces(opp, board.Queen) | b.Pieces(opp, board.Rook)
		candidate := (board.RookAttackboard(occ&^board.BitMask(pinned), target) &^ rooks) & attackers
		if candidate != 0 {
			ret = append(ret, Pin{Attacker: candidate.LastPopSquare(), Pinned: pinned, Target: target})
		}
	}

	bishops := board.BishopAttackboard(occ, target)
	pins = bishops & b.ColorOccupancy(side)
	for pins != 0 {
		pinned := pins.Pop()
		attackers := b.Pieces(opp, board.Queen) | b.Pieces(opp, board.Bishop)
		candidate := (board.BishopAttackboard(occ&^board.BitMask(pinned), target) &^ bishops) & attackers
		if candidate != 0 {
			ret = append(ret, Pin{Attacker: candidate.LastPopSquare(), Pinned: pinned, Target: target})
		}
	}

	return ret
}

// pinnedMask returns the bitboard of side's pieces absolutely pinned against its own king.
func pinnedMask(b *board.Board, side board.Color) board.Bitboard {
	var mask board.Bitboard
	for _, p := range FindPins(b, side) {
		mask |= board.BitMask(p.Pinned)
	}
	return mask
}

package eval

import "github.com/corvidchess/corvid/pkg/board"

// kingSafety returns the packed king-shield term: a bonus for each of the three pawns directly
// in front of the king (or on the adjacent files, same rank) that is still in place.
func kingSafety(b *board.Board, us board.Color) packed {
	sq := b.KingSquare(us)
	pawns := b.Pieces(us, board.Pawn)

	shieldRank := sq.Rank() + 1
	if us == board.Black {
		if sq.Rank() == board.Rank1 {
			return 0
		}
		shieldRank = sq.Rank() - 1
	} else if sq.Rank() == board.Rank8 {
		return 0
	}

	var score packed
	f := sq.File()
	files := []board.File{f}
	if f > board.FileA {
		files = append(files, f-1)
	}
	if f < board.FileH {
		files = append(files, f+1)
	}
	for _, ff := range files {
		if pawns.IsSet(board.NewSquare(ff, shieldRank)) {
			score += kingShieldBonus
		}
	}
	return score
}

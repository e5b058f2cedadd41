package eval

import "github.com/corvidchess/corvid/pkg/board"

// pawnStructure returns the packed doubled/isolated/passed pawn term for color us.
func pawnStructure(b *board.Board, us board.Color) packed {
	opp := us.Opponent()
	ours := b.Pieces(us, board.Pawn)
	theirs := b.Pieces(opp, board.Pawn)

	var score packed
	for f := board.ZeroFile; f < board.NumFiles; f++ {
		file := board.BitFile(f)
		count := (ours & file).PopCount()
		if count > 1 {
			score += doubledPawnPenalty * packed(count-1)
		}
		if count > 0 {
			neighbors := adjacentFiles(f) & ours
			if neighbors == 0 {
				score += isolatedPawnPenalty * packed(count)
			}
		}
	}

	tmp := ours
	for tmp != 0 {
		sq := tmp.Pop()
		if isPassed(us, sq, theirs) {
			r := sq.Rank()
			if us == board.Black {
				r = board.Rank8 - r
			}
			score += passedPawnBonus[r]
		}
	}
	return score
}

func adjacentFiles(f board.File) board.Bitboard {
	var b board.Bitboard
	if f > board.FileA {
		b |= board.BitFile(f - 1)
	}
	if f < board.FileH {
		b |= board.BitFile(f + 1)
	}
	return b
}

// isPassed returns true iff the pawn on sq has no enemy pawn able to stop its advance: none on
// its own file or an adjacent file, at or ahead of its rank.
func isPassed(us board.Color, sq board.Square, enemyPawns board.Bitboard) bool {
	f, r := sq.File(), sq.Rank()

	var front board.Bitboard
	if us == board.White {
		for rr := int(r) + 1; rr <= int(board.Rank8); rr++ {
			front |= board.BitRank(board.Rank(rr))
		}
	} else {
		for rr := int(r) - 1; rr >= int(board.Rank1); rr-- {
			front |= board.BitRank(board.Rank(rr))
		}
	}

	mask := board.BitFile(f) | adjacentFiles(f)
	return enemyPawns&front&mask == 0
}

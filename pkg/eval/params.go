package eval

import "github.com/corvidchess/corvid/pkg/board"

// packed holds a middlegame and an endgame centipawn score folded into one int32 as
// eg*65536 + mg. Adding or subtracting two packed values, or multiplying one by a small integer,
// works on both halves in a single machine op, the classic "SWAR" (SIMD within a register) trick
// used to keep tapered evaluation accumulation cheap. Mg() reads the low 16 bits; a negative mg
// borrows one from the high half, so Eg() adds 0x8000 before shifting to undo that borrow.
type packed int32

func pack(mg, eg int16) packed {
	return packed(int32(eg)<<16 + int32(mg))
}

func (p packed) Mg() int16 { return int16(uint32(p) & 0xffff) }
func (p packed) Eg() int16 { return int16((uint32(p) + 0x8000) >> 16) }

// phase weights follow the common "24 at startpos" convention: each minor is worth 1, each rook
// 2, each queen 4, so a full set of non-pawn, non-king material sums to 24.
const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = 4*knightPhase + 4*bishopPhase + 4*rookPhase + 2*queenPhase
)

func phaseWeight(p board.Piece) int {
	switch p {
	case board.Knight:
		return knightPhase
	case board.Bishop:
		return bishopPhase
	case board.Rook:
		return rookPhase
	case board.Queen:
		return queenPhase
	default:
		return 0
	}
}

// pieceValue holds the material term of each piece type, packed as (middlegame, endgame). Pawns
// and rooks are worth more in the endgame; knights, bishops and queens are worth more in the
// middlegame.
var pieceValue = [board.NumPieces]packed{
	board.NoPiece: pack(0, 0),
	board.Pawn:    pack(82, 94),
	board.Knight:  pack(337, 281),
	board.Bishop:  pack(365, 297),
	board.Rook:    pack(477, 512),
	board.Queen:   pack(1025, 936),
	board.King:    pack(0, 0),
}

// tempo is a small bonus for the side to move, compensating for the first-move advantage so
// search doesn't need to discover it from scratch every time.
var tempo = pack(18, 10)

const mobilityWeight = 4 // centipawns per attacked square beyond the piece-type baseline, flat across mg/eg

// pawnStructure penalties/bonuses, packed (mg, eg). Passed pawns matter far more in the
// endgame, where there is no king-side attack to worry about and promotion is closer; doubled
// and isolated pawns are a liability in both phases but especially once the endgame narrows
// the board down to a pawn race.
var (
	doubledPawnPenalty  = pack(-5, -20)
	isolatedPawnPenalty = pack(-10, -15)
	passedPawnBonus     = [int(board.NumRanks)]packed{
		board.Rank1: pack(0, 0),
		board.Rank2: pack(0, 10),
		board.Rank3: pack(5, 20),
		board.Rank4: pack(10, 35),
		board.Rank5: pack(20, 60),
		board.Rank6: pack(40, 100),
		board.Rank7: pack(70, 150),
		board.Rank8: pack(0, 0), // unreachable: a pawn here has already promoted.
	}
	rookOpenFileBonus     = pack(20, 10)
	rookSemiOpenFileBonus = pack(10, 5)
)

// kingShieldBonus rewards a friendly pawn directly in front of the king, middlegame only: the
// same structure is irrelevant (or even a liability, blocking the king's path to the center)
// once the endgame arrives.
var kingShieldBonus = pack(12, 0)

// Package board contains the chess board representation and move generation: bitboards,
// magic-bitboard sliding attacks, Zobrist hashing, and FEN I/O (in the fen subpackage).
package board

import (
	"fmt"
)

const (
	repetition3Limit   = 3
	repetition5Limit   = 5
	noProgressPlyLimit = 100
)

// undo captures everything needed to reverse one PushMove call. Moves are not self-describing
// (the packed Move carries only from/to/flag), so the moved piece, any captured piece, and the
// prior board metadata are recorded here. This, plus the bitboard xor operations PushMove
// performed, gives O(1) make and unmake with no allocation on the hot path.
type undo struct {
	move     Move
	moved    Piece
	captured Piece
	castling Castling
	ep       Square
	halfmove int
	hash     ZobristHash
	result   Result
}

// Board represents a mutable chess position plus the game-level metadata (side to move,
// castling rights, en passant target, halfmove clock, fullmove number) and an append-only
// history stack enabling O(1) make/unmake (Invariant I3: PushMove followed by PopMove restores
// byte-identical state). Not thread-safe; each search worker operates on its own Board.
type Board struct {
	zt *ZobristTable

	pieces [NumColors][NumPieces]Bitboard // pieces[c][NoPiece] is color c's full occupancy.
	all    Bitboard                       // occupancy of both colors.

	turn        Color
	castling    Castling
	ep          Square // NoSquare if the previous move was not a double pawn push.
	halfmove    int    // halfmove clock since last pawn move or capture (50-move rule).
	fullmove    int
	hash        ZobristHash
	result      Result
	repetitions map[ZobristHash]int

	history []undo
}

// Placement defines a piece placement, used to construct a Board from scratch (e.g. from FEN).
type Placement struct {
	Square Square
	Color  Color
	Piece  Piece
}

func (p Placement) String() string {
	return fmt.Sprintf("%v@%v", printPiece(p.Color, p.Piece), p.Square)
}

func printPiece(c Color, p Piece) string {
	if c == White {
		switch p {
		case Pawn:
			return "P"
		case Knight:
			return "N"
		case Bishop:
			return "B"
		case Rook:
			return "R"
		case Queen:
			return "Q"
		case King:
			return "K"
		}
	}
	return p.String()
}

// NewBoard constructs a board from an explicit piece placement list and game metadata.
func NewBoard(zt *ZobristTable, placements []Placement, turn Color, castling Castling, ep Square, halfmove, fullmove int) (*Board, error) {
	b := &Board{
		zt:          zt,
		turn:        turn,
		castling:    castling,
		ep:          ep,
		halfmove:    halfmove,
		fullmove:    fullmove,
		repetitions: map[ZobristHash]int{},
	}

	seen := make(map[Square]bool)
	for _, p := range placements {
		if seen[p.Square] {
			return nil, fmt.Errorf("duplicate placement: %v", p)
		}
		seen[p.Square] = true
		b.xor(p.Color, p.Piece, p.Square)
	}

	if b.pieces[White][King].PopCount() != 1 || b.pieces[Black][King].PopCount() != 1 {
		return nil, fmt.Errorf("invalid number of kings")
	}
	if KingAttackboard(b.KingSquare(White))&b.pieces[Black][King] != 0 {
		return nil, fmt.Errorf("kings cannot be adjacent")
	}
	if b.IsChecked(turn.Opponent()) {
		return nil, fmt.Errorf("side not to move is in check")
	}

	b.hash = b.computeHash()
	b.repetitions[b.hash] = 1
	return b, nil
}

func (b *Board) xor(c Color, p Piece, sq Square) {
	mask := BitMask(sq)
	b.pieces[c][p] ^= mask
	b.pieces[c][NoPiece] ^= mask
	b.all ^= mask
}

func (b *Board) Turn() Color                      { return b.turn }
func (b *Board) Castling() Castling                { return b.castling }
func (b *Board) EnPassant() (Square, bool)         { return b.ep, b.ep != NoSquare }
func (b *Board) HalfmoveClock() int                { return b.halfmove }
func (b *Board) FullMoveNumber() int               { return b.fullmove }
func (b *Board) Hash() ZobristHash                 { return b.hash }
func (b *Board) Result() Result                    { return b.result }
func (b *Board) Occupancy() Bitboard               { return b.all }
func (b *Board) ColorOccupancy(c Color) Bitboard   { return b.pieces[c][NoPiece] }
func (b *Board) Pieces(c Color, p Piece) Bitboard  { return b.pieces[c][p] }
func (b *Board) KingSquare(c Color) Square         { return b.pieces[c][King].LastPopSquare() }
func (b *Board) Ply() int                          { return len(b.history) }

// PieceAt returns the content of the given square. ok is false if empty.
func (b *Board) PieceAt(sq Square) (Color, Piece, bool) {
	if !b.all.IsSet(sq) {
		return 0, 0, false
	}
	c := White
	if b.pieces[Black][NoPiece].IsSet(sq) {
		c = Black
	}
	for p := Pawn; p <= King; p++ {
		if b.pieces[c][p].IsSet(sq) {
			return c, p, true
		}
	}
	panic("inconsistent occupancy")
}

// IsAttacked returns true iff sq is attacked by the opposing side of c. Not meaningful for
// en passant (handled separately by the move generator).
func (b *Board) IsAttacked(c Color, sq Square) bool {
	opp := c.Opponent()

	if bishops := b.pieces[opp][Bishop] | b.pieces[opp][Queen]; bishops != 0 && BishopAttackboard(b.all, sq)&bishops != 0 {
		return true
	}
	if rooks := b.pieces[opp][Rook] | b.pieces[opp][Queen]; rooks != 0 && RookAttackboard(b.all, sq)&rooks != 0 {
		return true
	}
	if knights := b.pieces[opp][Knight]; knights != 0 && KnightAttackboard(sq)&knights != 0 {
		return true
	}
	if kings := b.pieces[opp][King]; kings != 0 && KingAttackboard(sq)&kings != 0 {
		return true
	}
	return PawnCaptureboard(opp, b.pieces[opp][Pawn])&BitMask(sq) != 0
}

// IsChecked returns true iff the given color's king is in check.
func (b *Board) IsChecked(c Color) bool {
	return b.IsAttacked(c, b.KingSquare(c))
}

// AttackersTo returns all pieces of either color attacking sq, for the given (possibly reduced)
// occupancy. Used by SEE, which removes pieces from the exchange incrementally.
func (b *Board) AttackersTo(sq Square, occ Bitboard) Bitboard {
	var att Bitboard
	att |= KnightAttackboard(sq) & (b.pieces[White][Knight] | b.pieces[Black][Knight])
	att |= KingAttackboard(sq) & (b.pieces[White][King] | b.pieces[Black][King])

	diag := (b.pieces[White][Bishop] | b.pieces[Black][Bishop] | b.pieces[White][Queen] | b.pieces[Black][Queen]) & occ
	att |= BishopAttackboard(occ, sq) & diag

	lines := (b.pieces[White][Rook] | b.pieces[Black][Rook] | b.pieces[White][Queen] | b.pieces[Black][Queen]) & occ
	att |= RookAttackboard(occ, sq) & lines

	att |= PawnCaptureboard(Black, BitMask(sq)) & b.pieces[White][Pawn]
	att |= PawnCaptureboard(White, BitMask(sq)) & b.pieces[Black][Pawn]

	return att & occ
}

func (b *Board) computeHash() ZobristHash {
	var h ZobristHash
	for c := ZeroColor; c < NumColors; c++ {
		for p := Pawn; p <= King; p++ {
			bb := b.pieces[c][p]
			for bb != 0 {
				sq := bb.Pop()
				h ^= b.zt.Piece(c, p, sq)
			}
		}
	}
	h ^= b.zt.Castling(b.castling)
	h ^= b.zt.EnPassant(b.ep)
	if b.turn == Black {
		h ^= b.zt.Turn()
	}
	return h
}

// castlingRightsLost returns the castling rights forfeited as a side effect of a piece leaving
// (or a rook being captured on) one of the privileged squares.
func castlingRightsLost(sq Square) Castling {
	switch sq {
	case E1:
		return WhiteKingSideCastle | WhiteQueenSideCastle
	case E8:
		return BlackKingSideCastle | BlackQueenSideCastle
	case H1:
		return WhiteKingSideCastle
	case A1:
		return WhiteQueenSideCastle
	case H8:
		return BlackKingSideCastle
	case A8:
		return BlackQueenSideCastle
	default:
		return 0
	}
}

func kingCastleRookSquares(c Color) (from, to Square) {
	if c == White {
		return H1, F1
	}
	return H8, F8
}

func queenCastleRookSquares(c Color) (from, to Square) {
	if c == White {
		return A1, D1
	}
	return A8, D8
}

// applyPieceMoves performs the bitboard xor operations for m as color turn. On the forward path
// (reverse=false) it determines and returns the captured piece (NoPiece if none); on the
// reverse path (unmake) the caller supplies that same piece back via capturedHint so it can be
// restored. XOR is its own inverse, so toggling the same squares in either direction is correct;
// only the move-vs-capture ORDER along the from/to squares needs to flip.
func (b *Board) applyPieceMoves(turn Color, m Move, moved Piece, reverse bool, capturedHint Piece) (captured Piece) {
	opp := turn.Opponent()
	from, to, flag := m.From(), m.To(), m.Flag()
	captured = NoPiece

	xorMove := func(p Piece) {
		if reverse {
			b.xor(turn, p, to)
			b.xor(turn, p, from)
		} else {
			b.xor(turn, p, from)
			b.xor(turn, p, to)
		}
	}

	switch flag {
	case Quiet, DoublePawnPush:
		xorMove(moved)

	case KingCastle:
		xorMove(moved)
		rookFrom, rookTo := kingCastleRookSquares(turn)
		if reverse {
			b.xor(turn, Rook, rookTo)
			b.xor(turn, Rook, rookFrom)
		} else {
			b.xor(turn, Rook, rookFrom)
			b.xor(turn, Rook, rookTo)
		}

	case QueenCastle:
		xorMove(moved)
		rookFrom, rookTo := queenCastleRookSquares(turn)
		if reverse {
			b.xor(turn, Rook, rookTo)
			b.xor(turn, Rook, rookFrom)
		} else {
			b.xor(turn, Rook, rookFrom)
			b.xor(turn, Rook, rookTo)
		}

	case CaptureFlag:
		if reverse {
			captured = capturedHint
			xorMove(moved)
			b.xor(opp, captured, to)
		} else {
			_, captured, _ = b.PieceAt(to)
			b.xor(opp, captured, to)
			xorMove(moved)
		}

	case EnPassantFlag:
		captured = Pawn
		capSq := NewSquare(to.File(), from.Rank())
		xorMove(moved)
		b.xor(opp, Pawn, capSq)

	case KnightPromo, BishopPromo, RookPromo, QueenPromo:
		promo, _ := m.PromotionPiece()
		if reverse {
			b.xor(turn, promo, to)
			b.xor(turn, Pawn, from)
		} else {
			b.xor(turn, Pawn, from)
			b.xor(turn, promo, to)
		}

	case KnightPromoCapture, BishopPromoCapture, RookPromoCapture, QueenPromoCapture:
		promo, _ := m.PromotionPiece()
		if reverse {
			captured = capturedHint
			b.xor(turn, promo, to)
			b.xor(turn, Pawn, from)
			b.xor(opp, captured, to)
		} else {
			_, captured, _ = b.PieceAt(to)
			b.xor(opp, captured, to)
			b.xor(turn, Pawn, from)
			b.xor(turn, promo, to)
		}
	}
	return captured
}

// PushMove applies a pseudo-legal move, as produced by PseudoLegalMoves. Returns false (and
// leaves the board unmodified) if the move would leave the mover's own king in check, i.e. is
// not actually legal.
func (b *Board) PushMove(m Move) bool {
	if b.result.IsOver() {
		return false
	}

	turn := b.turn
	from := m.From()
	_, moved, ok := b.PieceAt(from)
	if !ok {
		return false
	}

	u := undo{
		move:     m,
		moved:    moved,
		castling: b.castling,
		ep:       b.ep,
		halfmove: b.halfmove,
		hash:     b.hash,
		result:   b.result,
	}

	captured := b.applyPieceMoves(turn, m, moved, false, NoPiece)
	u.captured = captured

	newCastling := b.castling.Remove(castlingRightsLost(from))
	if m.IsCapture() {
		newCastling = newCastling.Remove(castlingRightsLost(m.To()))
	}

	newEP := Square(NoSquare)
	if m.Flag() == DoublePawnPush {
		newEP = (from + m.To()) / 2
	}

	newHalfmove := b.halfmove + 1
	if moved == Pawn || captured != NoPiece {
		newHalfmove = 0
	}

	b.castling = newCastling
	b.ep = newEP
	b.halfmove = newHalfmove

	if b.IsChecked(turn) {
		// Illegal: own king left in check. Undo the bitboard changes and bail before touching
		// turn/history/repetition bookkeeping.
		b.applyPieceMoves(turn, m, moved, true, captured)
		b.castling = u.castling
		b.ep = u.ep
		b.halfmove = u.halfmove
		return false
	}

	b.turn = turn.Opponent()
	if b.turn == White {
		b.fullmove++
	}
	b.hash = b.computeHash()
	b.history = append(b.history, u)
	b.repetitions[b.hash]++

	b.updateResult()
	return true
}

// updateResult recomputes draw adjudication after a successful PushMove. Checkmate/stalemate are
// adjudicated lazily via AdjudicateTerminal, once the opponent is found to have no legal replies.
func (b *Board) updateResult() {
	if b.halfmove >= noProgressPlyLimit {
		b.result = Result{Outcome: Draw, Reason: NoProgress}
		return
	}
	if n := b.repetitions[b.hash]; n >= repetition3Limit {
		if n >= repetition5Limit {
			b.result = Result{Outcome: Draw, Reason: Repetition5}
		} else {
			b.result = Result{Outcome: Draw, Reason: Repetition3}
		}
		return
	}
	if b.HasInsufficientMaterial() {
		b.result = Result{Outcome: Draw, Reason: InsufficientMaterial}
		return
	}
	b.result = Result{}
}

// RepetitionCount returns how many times the current position's hash has occurred so far, along
// the real game history plus any moves pushed since (search included): 1 for a position seen for
// the first time, 2 the first time it recurs, and so on.
func (b *Board) RepetitionCount() int {
	return b.repetitions[b.hash]
}

// PopMove reverses the most recent PushMove. Returns false if there is no move to undo.
func (b *Board) PopMove() (Move, bool) {
	n := len(b.history)
	if n == 0 {
		return NullMove, false
	}
	u := b.history[n-1]
	b.history = b.history[:n-1]

	b.repetitions[b.hash]--
	if b.repetitions[b.hash] == 0 {
		delete(b.repetitions, b.hash)
	}

	turn := b.turn.Opponent()
	if b.turn == White {
		b.fullmove--
	}

	b.applyPieceMoves(turn, u.move, u.moved, true, u.captured)

	b.turn = turn
	b.castling = u.castling
	b.ep = u.ep
	b.halfmove = u.halfmove
	b.hash = u.hash
	b.result = u.result

	return u.move, true
}

// Clone returns an independent deep copy of b: the two boards share no mutable state, so each may
// be pushed and popped by a different goroutine. Used to hand each Lazy-SMP search worker its own
// board forked from the same root position.
func (b *Board) Clone() *Board {
	c := *b
	c.repetitions = make(map[ZobristHash]int, len(b.repetitions))
	for k, v := range b.repetitions {
		c.repetitions[k] = v
	}
	c.history = append([]undo(nil), b.history...)
	return &c
}

// PushNullMove passes the turn without moving a piece, used by null-move pruning. The caller is
// responsible for not calling this while in check (there is no null move that escapes check).
func (b *Board) PushNullMove() {
	u := undo{
		move:     NullMove,
		castling: b.castling,
		ep:       b.ep,
		halfmove: b.halfmove,
		hash:     b.hash,
		result:   b.result,
	}

	b.ep = NoSquare
	b.halfmove++
	b.turn = b.turn.Opponent()
	if b.turn == White {
		b.fullmove++
	}
	b.hash = b.computeHash()
	b.history = append(b.history, u)
	b.repetitions[b.hash]++
	b.result = Result{}
}

// PopNullMove reverses the most recent PushNullMove.
func (b *Board) PopNullMove() {
	n := len(b.history)
	if n == 0 {
		return
	}
	u := b.history[n-1]
	b.history = b.history[:n-1]

	b.repetitions[b.hash]--
	if b.repetitions[b.hash] == 0 {
		delete(b.repetitions, b.hash)
	}

	if b.turn == White {
		b.fullmove--
	}
	b.turn = b.turn.Opponent()
	b.castling = u.castling
	b.ep = u.ep
	b.halfmove = u.halfmove
	b.hash = u.hash
	b.result = u.result
}

// HasInsufficientMaterial returns true iff neither side has enough material to force mate:
// K vs K, K+N vs K, or K+B vs K (a single minor piece either side, no pawns/rooks/queens).
func (b *Board) HasInsufficientMaterial() bool {
	if b.pieces[White][Pawn] != 0 || b.pieces[Black][Pawn] != 0 {
		return false
	}
	if b.pieces[White][Rook] != 0 || b.pieces[Black][Rook] != 0 || b.pieces[White][Queen] != 0 || b.pieces[Black][Queen] != 0 {
		return false
	}
	whiteMinors := b.pieces[White][Knight].PopCount() + b.pieces[White][Bishop].PopCount()
	blackMinors := b.pieces[Black][Knight].PopCount() + b.pieces[Black][Bishop].PopCount()
	return whiteMinors <= 1 && blackMinors <= 1 && whiteMinors+blackMinors <= 1
}

// AdjudicateTerminal sets and returns the terminal result once the side to move is known to have
// no legal moves: checkmate if in check, stalemate otherwise.
func (b *Board) AdjudicateTerminal() Result {
	result := Result{Outcome: Draw, Reason: Stalemate}
	if b.IsChecked(b.turn) {
		result = Result{Outcome: Loss(b.turn), Reason: Checkmate}
	}
	b.result = result
	return result
}

// LastMove returns the most recently made move, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return NullMove, false
	}
	return b.history[len(b.history)-1].move, true
}

func (b *Board) String() string {
	return fmt.Sprintf("board{turn=%v, hash=%x, castling=%v, ep=%v, halfmove=%v, fullmove=%v, result=%v}",
		b.turn, b.hash, b.castling, b.ep, b.halfmove, b.fullmove, b.result)
}

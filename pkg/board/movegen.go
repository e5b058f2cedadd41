package board

import "fmt"

// PseudoLegalMoves returns all pseudo-legal moves for the side to move, staged as captures
// (including en passant and promotion-captures, plus quiet promotions) followed by quiets
// (including castling and double pawn pushes). Pseudo-legal: a returned move may leave the
// mover's own king in check. PushMove rejects such moves and leaves the board unchanged, so
// callers needing only legal moves should use LegalMoves instead.
func (b *Board) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	moves = b.GenerateCaptures(moves)
	moves = b.GenerateQuiets(moves)
	return moves
}

// LegalMoves returns every legal move for the side to move, verified by make/unmake. When the
// side to move is in check, generation is restricted to the smaller evasion set (king moves,
// capturing the checker, blocking a single sliding checker) rather than the full pseudo-legal
// set.
func (b *Board) LegalMoves() []Move {
	var pseudo []Move
	if b.IsChecked(b.turn) {
		pseudo = b.GenerateEvasions()
	} else {
		pseudo = b.PseudoLegalMoves()
	}

	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if b.PushMove(m) {
			b.PopMove()
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMove returns true iff the side to move has at least one legal move. Used to adjudicate
// checkmate/stalemate without paying for a full LegalMoves slice.
func (b *Board) HasLegalMove() bool {
	var pseudo []Move
	if b.IsChecked(b.turn) {
		pseudo = b.GenerateEvasions()
	} else {
		pseudo = b.PseudoLegalMoves()
	}
	for _, m := range pseudo {
		if b.PushMove(m) {
			b.PopMove()
			return true
		}
	}
	return false
}

// ParseUserMove parses coordinate notation (e.g. "e2e4", "e7e8q") against the board's current
// legal moves, resolving the packed flag (capture/castle/en-passant/promotion) that bare
// coordinates cannot express on their own.
func (b *Board) ParseUserMove(str string) (Move, error) {
	from, to, promo, err := ParseMove(str)
	if err != nil {
		return NullMove, err
	}
	for _, m := range b.LegalMoves() {
		if m.From() != from || m.To() != to {
			continue
		}
		if p, ok := m.PromotionPiece(); ok {
			if p != promo {
				continue
			}
		} else if promo != NoPiece {
			continue
		}
		return m, nil
	}
	return NullMove, fmt.Errorf("illegal move: %v", str)
}

// GenerateCaptures appends all pseudo-legal captures (including en passant and promotion
// captures) and quiet queen/underpromotions to moves. This is the move set quiescence search
// considers: captures and promotions are the only moves that can change a stand-pat verdict.
func (b *Board) GenerateCaptures(moves []Move) []Move {
	us, opp := b.turn, b.turn.Opponent()
	occ := b.all
	enemy := b.pieces[opp][NoPiece]

	moves = b.genPawnCaptures(moves, us, opp)
	moves = b.genPawnQuietPromotions(moves, us)
	moves = b.genPieceMoves(moves, us, Knight, occ, enemy, true)
	moves = b.genPieceMoves(moves, us, Bishop, occ, enemy, true)
	moves = b.genPieceMoves(moves, us, Rook, occ, enemy, true)
	moves = b.genPieceMoves(moves, us, Queen, occ, enemy, true)
	moves = b.genPieceMoves(moves, us, King, occ, enemy, true)
	return moves
}

// GenerateQuiets appends all pseudo-legal non-capturing moves (including castling and double
// pawn pushes, but excluding promotions, which GenerateCaptures already yields) to moves.
func (b *Board) GenerateQuiets(moves []Move) []Move {
	us := b.turn
	occ := b.all
	empty := ^occ

	moves = b.genPawnQuiets(moves, us)
	moves = b.genPieceMoves(moves, us, Knight, occ, empty, false)
	moves = b.genPieceMoves(moves, us, Bishop, occ, empty, false)
	moves = b.genPieceMoves(moves, us, Rook, occ, empty, false)
	moves = b.genPieceMoves(moves, us, Queen, occ, empty, false)
	moves = b.genPieceMoves(moves, us, King, occ, empty, false)
	moves = b.genCastles(moves, us)
	return moves
}

// genPieceMoves generates moves for a single non-pawn piece type, masked to targetMask (enemy
// occupancy for captures, empty squares for quiets).
func (b *Board) genPieceMoves(moves []Move, us Color, p Piece, occ, targetMask Bitboard, capture bool) []Move {
	pieces := b.pieces[us][p]
	flag := Quiet
	if capture {
		flag = CaptureFlag
	}
	for pieces != 0 {
		from := pieces.Pop()
		targets := Attackboard(occ, from, p) & targetMask
		for targets != 0 {
			to := targets.Pop()
			moves = append(moves, NewMove(from, to, flag))
		}
	}
	return moves
}

func (b *Board) genPawnCaptures(moves []Move, us, opp Color) []Move {
	pawns := b.pieces[us][Pawn]
	enemy := b.pieces[opp][NoPiece]
	promoRank := PawnPromotionRank(us)

	tmp := pawns
	for tmp != 0 {
		from := tmp.Pop()
		targets := PawnCaptureboard(us, BitMask(from)) & enemy
		for targets != 0 {
			to := targets.Pop()
			if BitMask(to)&promoRank != 0 {
				moves = append(moves,
					NewMove(from, to, KnightPromoCapture), NewMove(from, to, BishopPromoCapture),
					NewMove(from, to, RookPromoCapture), NewMove(from, to, QueenPromoCapture))
			} else {
				moves = append(moves, NewMove(from, to, CaptureFlag))
			}
		}
	}

	// En passant: a "capture" from ep by an opposing pawn reaches exactly the squares an own
	// pawn could capture from into ep, since the diagonal pattern is symmetric under color flip.
	if ep, ok := b.EnPassant(); ok {
		attackers := PawnCaptureboard(opp, BitMask(ep)) & pawns
		for attackers != 0 {
			from := attackers.Pop()
			moves = append(moves, NewMove(from, ep, EnPassantFlag))
		}
	}
	return moves
}

func (b *Board) genPawnQuietPromotions(moves []Move, us Color) []Move {
	occ := b.all
	promoRank := PawnPromotionRank(us)
	push := PawnMoveboard(occ, us, b.pieces[us][Pawn]) & promoRank
	for push != 0 {
		to := push.Pop()
		from := pawnPushOrigin(us, to)
		moves = append(moves,
			NewMove(from, to, KnightPromo), NewMove(from, to, BishopPromo),
			NewMove(from, to, RookPromo), NewMove(from, to, QueenPromo))
	}
	return moves
}

func (b *Board) genPawnQuiets(moves []Move, us Color) []Move {
	occ := b.all
	promoRank := PawnPromotionRank(us)
	jumpRank := PawnJumpRank(us)

	push := PawnMoveboard(occ, us, b.pieces[us][Pawn])
	single := push &^ promoRank
	tmp := single
	for tmp != 0 {
		to := tmp.Pop()
		moves = append(moves, NewMove(pawnPushOrigin(us, to), to, Quiet))
	}

	double := PawnMoveboard(occ, us, single) & jumpRank
	for double != 0 {
		to := double.Pop()
		var from Square
		if us == White {
			from = to - 16
		} else {
			from = to + 16
		}
		moves = append(moves, NewMove(from, to, DoublePawnPush))
	}
	return moves
}

func pawnPushOrigin(us Color, to Square) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

func (b *Board) genCastles(moves []Move, us Color) []Move {
	occ := b.all

	kingSq, kingSideTo, queenSideTo := E1, G1, C1
	kingSideClear, queenSideClear := Bitboard(0), Bitboard(0)
	kingSideRight, queenSideRight := WhiteKingSideCastle, WhiteQueenSideCastle
	if us == Black {
		kingSq, kingSideTo, queenSideTo = E8, G8, C8
		kingSideRight, queenSideRight = BlackKingSideCastle, BlackQueenSideCastle
	}
	if us == White {
		kingSideClear = BitMask(F1) | BitMask(G1)
		queenSideClear = BitMask(B1) | BitMask(C1) | BitMask(D1)
	} else {
		kingSideClear = BitMask(F8) | BitMask(G8)
		queenSideClear = BitMask(B8) | BitMask(C8) | BitMask(D8)
	}

	if b.castling.IsAllowed(kingSideRight) && occ&kingSideClear == 0 &&
		!b.IsAttacked(us, kingSq) && !b.IsAttacked(us, kingSq+1) && !b.IsAttacked(us, kingSideTo) {
		moves = append(moves, NewMove(kingSq, kingSideTo, KingCastle))
	}
	if b.castling.IsAllowed(queenSideRight) && occ&queenSideClear == 0 &&
		!b.IsAttacked(us, kingSq) && !b.IsAttacked(us, kingSq-1) && !b.IsAttacked(us, queenSideTo) {
		moves = append(moves, NewMove(kingSq, queenSideTo, QueenCastle))
	}
	return moves
}

// GenerateEvasions returns pseudo-legal check-evasion moves only: king moves (to squares not
// attacked once the king itself is removed from occupancy, so a slider cannot be "blocked" by
// the king it is checking), capturing the checking piece, or interposing on the ray between a
// single sliding checker and the king. Under double check, only king moves are generated, since
// no single move can deal with two checkers at once.
func (b *Board) GenerateEvasions() []Move {
	us, opp := b.turn, b.turn.Opponent()
	kingSq := b.KingSquare(us)
	occNoKing := b.all &^ BitMask(kingSq)

	checkers := b.attackersOfColor(kingSq, opp, occNoKing)

	moves := make([]Move, 0, 16)

	kingTargets := KingAttackboard(kingSq) &^ b.pieces[us][NoPiece]
	for kingTargets != 0 {
		to := kingTargets.Pop()
		if b.attackersOfColor(to, opp, occNoKing) != 0 {
			continue
		}
		flag := Quiet
		if b.pieces[opp][NoPiece].IsSet(to) {
			flag = CaptureFlag
		}
		moves = append(moves, NewMove(kingSq, to, flag))
	}

	if checkers.PopCount() > 1 {
		return moves
	}

	checkerSq := checkers.LastPopSquare()
	_, checkerPiece, _ := b.PieceAt(checkerSq)
	promoRank := PawnPromotionRank(us)

	attackers := b.attackersOfColor(checkerSq, us, b.all) &^ b.pieces[us][King]
	for attackers != 0 {
		from := attackers.Pop()
		_, p, _ := b.PieceAt(from)
		if p == Pawn && BitMask(checkerSq)&promoRank != 0 {
			moves = append(moves,
				NewMove(from, checkerSq, KnightPromoCapture), NewMove(from, checkerSq, BishopPromoCapture),
				NewMove(from, checkerSq, RookPromoCapture), NewMove(from, checkerSq, QueenPromoCapture))
		} else {
			moves = append(moves, NewMove(from, checkerSq, CaptureFlag))
		}
	}

	if ep, ok := b.EnPassant(); ok && checkerPiece == Pawn {
		epAttackers := PawnCaptureboard(opp, BitMask(ep)) & b.pieces[us][Pawn]
		for epAttackers != 0 {
			from := epAttackers.Pop()
			moves = append(moves, NewMove(from, ep, EnPassantFlag))
		}
	}

	if checkerPiece == Bishop || checkerPiece == Rook || checkerPiece == Queen {
		between := rayBetween(kingSq, checkerSq)
		for between != 0 {
			to := between.Pop()
			blockers := b.attackersOfColor(to, us, b.all) &^ b.pieces[us][King] &^ b.pieces[us][Pawn]
			for blockers != 0 {
				from := blockers.Pop()
				moves = append(moves, NewMove(from, to, Quiet))
			}
			moves = b.genPawnBlocks(moves, us, to)
		}
	}

	return moves
}

func (b *Board) genPawnBlocks(moves []Move, us Color, to Square) []Move {
	occ := b.all

	from := pawnPushOrigin(us, to)
	if from.IsValid() && b.pieces[us][Pawn].IsSet(from) {
		if BitMask(to)&PawnPromotionRank(us) != 0 {
			moves = append(moves,
				NewMove(from, to, KnightPromo), NewMove(from, to, BishopPromo),
				NewMove(from, to, RookPromo), NewMove(from, to, QueenPromo))
		} else {
			moves = append(moves, NewMove(from, to, Quiet))
		}
		return moves
	}

	if BitMask(to)&PawnJumpRank(us) == 0 {
		return moves
	}
	var origin, mid Square
	if us == White {
		origin, mid = to-16, to-8
	} else {
		origin, mid = to+16, to+8
	}
	if origin.IsValid() && b.pieces[us][Pawn].IsSet(origin) && !occ.IsSet(mid) {
		moves = append(moves, NewMove(origin, to, DoublePawnPush))
	}
	return moves
}

// attackersOfColor returns the pieces of color c attacking sq, given an explicit occupancy (so
// callers can probe "what if this square were empty", as GenerateEvasions does with the king's
// own square).
func (b *Board) attackersOfColor(sq Square, c Color, occ Bitboard) Bitboard {
	var att Bitboard
	att |= KnightAttackboard(sq) & b.pieces[c][Knight]
	att |= KingAttackboard(sq) & b.pieces[c][King]

	diag := (b.pieces[c][Bishop] | b.pieces[c][Queen]) & occ
	att |= BishopAttackboard(occ, sq) & diag

	lines := (b.pieces[c][Rook] | b.pieces[c][Queen]) & occ
	att |= RookAttackboard(occ, sq) & lines

	att |= PawnCaptureboard(c.Opponent(), BitMask(sq)) & b.pieces[c][Pawn]
	return att & occ
}

// rayBetween returns the squares strictly between a and b, exclusive, if they lie on a common
// rank, file or diagonal; otherwise 0.
func rayBetween(a, b Square) Bitboard {
	ar, af := int(a.Rank()), int(a.File())
	br, bf := int(b.Rank()), int(b.File())
	dr, df := sign(br-ar), sign(bf-af)
	if dr == 0 && df == 0 {
		return 0
	}
	if dr != 0 && df != 0 && abs(br-ar) != abs(bf-af) {
		return 0
	}

	var between Bitboard
	for r, f := ar+dr, af+df; r != br || f != bf; r, f = r+dr, f+df {
		between |= BitMask(NewSquare(File(f), Rank(r)))
	}
	return between
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

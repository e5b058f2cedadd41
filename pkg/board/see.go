package board

// StaticExchangeEval estimates the net material gain (in centipawns, from the mover's
// perspective) of playing the capture m on the current position, by simulating the full
// sequence of recaptures on the target square with both sides always recapturing with their
// least valuable attacker. It does not mutate the board.
//
// Grounded on the standard gain-array swap-off algorithm: walk the exchange forward recording
// the value captured at each ply, then fold the array back from the end, negamax-style, so each
// side only continues the exchange when doing so improves its result.
func (b *Board) StaticExchangeEval(m Move) Score {
	if m.IsEnPassant() {
		// The pawn lost in an en passant capture is always recoverable for a pawn's worth;
		// treating it as "always winning" avoids modeling the capture-square/victim-square
		// mismatch in the gain loop below.
		return Pawn.Value()
	}

	from, to := m.From(), m.To()
	_, moved, ok := b.PieceAt(from)
	if !ok {
		return ZeroScore
	}

	var gain [32]Score
	depth := 0

	occ := b.all
	_, captured, hasCapture := b.PieceAt(to)
	if hasCapture {
		gain[depth] = captured.Value()
	}
	if promo, ok := m.PromotionPiece(); ok {
		gain[depth] += promo.Value() - Pawn.Value()
	}

	side := b.turn.Opponent()
	attackers := b.AttackersTo(to, occ)
	occ &^= BitMask(from)
	attackers &^= BitMask(from)
	attackers |= b.revealedAttackers(to, occ)

	lastValue := moved.Value()
	if promo, ok := m.PromotionPiece(); ok {
		lastValue = promo.Value()
	}

	for depth < len(gain)-1 {
		next, p, ok := b.leastValuableAttacker(attackers, side)
		if !ok {
			break
		}

		depth++
		gain[depth] = lastValue - gain[depth-1]
		if max16(-gain[depth-1], gain[depth]) < 0 {
			// Further exchange cannot improve either side's result from here; stop early, as
			// in the reference algorithm.
			depth--
			break
		}

		occ &^= BitMask(next)
		attackers &^= BitMask(next)
		attackers |= b.revealedAttackers(to, occ)

		lastValue = p.Value()
		side = side.Opponent()
	}

	for depth > 0 {
		gain[depth-1] = -max16(-gain[depth-1], gain[depth])
		depth--
	}
	return gain[0]
}

// revealedAttackers returns sliding attackers (either color) to sq newly visible once occ
// reflects a piece having been removed from the exchange; only sliders can be x-rayed this way.
func (b *Board) revealedAttackers(sq Square, occ Bitboard) Bitboard {
	diag := (b.pieces[White][Bishop] | b.pieces[Black][Bishop] | b.pieces[White][Queen] | b.pieces[Black][Queen]) & occ
	lines := (b.pieces[White][Rook] | b.pieces[Black][Rook] | b.pieces[White][Queen] | b.pieces[Black][Queen]) & occ
	return (BishopAttackboard(occ, sq) & diag) | (RookAttackboard(occ, sq) & lines)
}

// leastValuableAttacker returns the square and piece type of color c's cheapest attacker within
// the given attacker set, preferring pawns, then knights/bishops, rooks, queen, king last.
func (b *Board) leastValuableAttacker(attackers Bitboard, c Color) (Square, Piece, bool) {
	for p := Pawn; p <= King; p++ {
		if bb := attackers & b.pieces[c][p]; bb != 0 {
			return bb.LastPopSquare(), p, true
		}
	}
	return NoSquare, NoPiece, false
}

func max16(x, y Score) Score {
	if x > y {
		return x
	}
	return y
}

package board

import "fmt"

// MoveFlag classifies a move's special semantics: capture, castling, en passant, promotion.
// 4 bits, packed into Move alongside the two 6-bit squares.
type MoveFlag uint8

const (
	Quiet MoveFlag = iota
	DoublePawnPush
	KingCastle
	QueenCastle
	CaptureFlag
	EnPassantFlag
	_
	_
	KnightPromo
	BishopPromo
	RookPromo
	QueenPromo
	KnightPromoCapture
	BishopPromoCapture
	RookPromoCapture
	QueenPromoCapture
)

// Move is a packed move: from-square (6 bits), to-square (6 bits), flag (4 bits). 16 bits
// total. It is not self-describing for unmake: the moved piece, any captured piece, and prior
// board metadata (castling rights, en passant target, halfmove clock) are recorded separately
// by Board's history stack. The all-zero value (A1A1, Quiet) is the reserved null move,
// identified by From == To, which the move generator never produces for a real move.
type Move uint16

const NullMove Move = 0

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

func (m Move) From() Square {
	return Square(m & 0x3f)
}

func (m Move) To() Square {
	return Square((m >> 6) & 0x3f)
}

func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 12) & 0xf)
}

func (m Move) IsNull() bool {
	return m.From() == m.To()
}

func (m Move) IsCapture() bool {
	f := m.Flag()
	return f == CaptureFlag || f == EnPassantFlag || (f >= KnightPromoCapture && f <= QueenPromoCapture)
}

func (m Move) IsEnPassant() bool {
	return m.Flag() == EnPassantFlag
}

func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == KingCastle || f == QueenCastle
}

func (m Move) IsPromotion() bool {
	return m.Flag() >= KnightPromo
}

// PromotionPiece returns the desired promotion piece, if any.
func (m Move) PromotionPiece() (Piece, bool) {
	switch m.Flag() {
	case KnightPromo, KnightPromoCapture:
		return Knight, true
	case BishopPromo, BishopPromoCapture:
		return Bishop, true
	case RookPromo, RookPromoCapture:
		return Rook, true
	case QueenPromo, QueenPromoCapture:
		return Queen, true
	default:
		return NoPiece, false
	}
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The flag is left as Quiet/CaptureFlag-agnostic: the caller (Board.ParseUserMove) resolves the
// move's full flag against a legal-move list, since coordinate notation alone is ambiguous
// about castling, en passant and captures.
func ParseMove(str string) (from, to Square, promo Piece, err error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return 0, 0, NoPiece, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err = ParseSquare(runes[0], runes[1])
	if err != nil {
		return 0, 0, NoPiece, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err = ParseSquare(runes[2], runes[3])
	if err != nil {
		return 0, 0, NoPiece, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		p, ok := ParsePiece(runes[4])
		if !ok || p == Pawn || p == King {
			return 0, 0, NoPiece, fmt.Errorf("invalid promotion: '%v'", str)
		}
		promo = p
	}
	return from, to, promo, nil
}

func (m Move) String() string {
	if p, ok := m.PromotionPiece(); ok {
		return fmt.Sprintf("%v%v%v", m.From(), m.To(), p)
	}
	return fmt.Sprintf("%v%v", m.From(), m.To())
}

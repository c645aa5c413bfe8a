package movegen

import (
	"errors"
	"strings"
)

// Move encodes a chess move in a 32-bit value. Moves are immutable; the
// zero Move is not a valid move.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePieceShift   = 12 // 4 bits
	moveCaptureShift = 16 // 4 bits
	movePromoteShift = 20 // 4 bits
	moveKindShift    = 24 // 3 bits
)

// MoveKind tags the structural class of a move. Promotions are indicated by
// a non-zero promotion piece and carry KindQuiet or KindCapture.
type MoveKind uint8

const (
	KindQuiet MoveKind = iota
	KindCapture
	KindDoublePush
	KindEnPassant
	KindCastleKingside
	KindCastleQueenside
)

// NewMove constructs a Move value from components.
func NewMove(from, to Square, piece, captured, promotion Piece, kind MoveKind) Move {
	return Move(uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(piece&0xF) << movePieceShift) |
		(uint32(captured&0xF) << moveCaptureShift) |
		(uint32(promotion&0xF) << movePromoteShift) |
		(uint32(kind&0x7) << moveKindShift))
}

// From returns the origin square of the move.
func (m Move) From() Square { return Square((uint32(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }

// MovedPiece returns the piece that is moved.
func (m Move) MovedPiece() Piece { return Piece((uint32(m) >> movePieceShift) & 0xF) }

// CapturedPiece returns the captured piece, or NoPiece. For en-passant
// captures this is the enemy pawn, which does not sit on To().
func (m Move) CapturedPiece() Piece { return Piece((uint32(m) >> moveCaptureShift) & 0xF) }

// PromotionPiece returns the promotion piece, or NoPiece if not a promotion.
func (m Move) PromotionPiece() Piece { return Piece((uint32(m) >> movePromoteShift) & 0xF) }

// PromotionPieceType returns the colorless type of the promoted piece.
func (m Move) PromotionPieceType() PieceType { return m.PromotionPiece().Type() }

// Kind returns the move-kind tag.
func (m Move) Kind() MoveKind { return MoveKind((uint32(m) >> moveKindShift) & 0x7) }

// IsCapture reports whether the move removes an enemy piece (including en
// passant).
func (m Move) IsCapture() bool {
	k := m.Kind()
	return k == KindCapture || k == KindEnPassant
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.PromotionPiece() != NoPiece }

// String renders the move in coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	from := m.From()
	to := m.To()
	var sb strings.Builder
	sb.WriteByte('a' + byte(from.File()))
	sb.WriteByte('1' + byte(from.Rank()))
	sb.WriteByte('a' + byte(to.File()))
	sb.WriteByte('1' + byte(to.Rank()))
	switch m.PromotionPieceType() {
	case PieceTypeQueen:
		sb.WriteByte('q')
	case PieceTypeRook:
		sb.WriteByte('r')
	case PieceTypeBishop:
		sb.WriteByte('b')
	case PieceTypeKnight:
		sb.WriteByte('n')
	}
	return sb.String()
}

// FindMove looks up the legal move matching a coordinate-notation string in
// the current position. Only moves the generator itself produces are
// representable; anything else yields an error.
func (b *Board) FindMove(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if len(movestr) < 4 || len(movestr) > 5 {
		return 0, errors.New("invalid move length")
	}
	from, err := algebraicToSquare(movestr[0:2])
	if err != nil {
		return 0, err
	}
	to, err := algebraicToSquare(movestr[2:4])
	if err != nil {
		return 0, err
	}
	var promo PieceType
	if len(movestr) == 5 {
		switch movestr[4] {
		case 'q':
			promo = PieceTypeQueen
		case 'r':
			promo = PieceTypeRook
		case 'b':
			promo = PieceTypeBishop
		case 'n':
			promo = PieceTypeKnight
		default:
			return 0, errors.New("invalid promotion piece")
		}
	}
	var ml MoveList
	b.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		if m.From() == from && m.To() == to && m.PromotionPieceType() == promo {
			return m, nil
		}
	}
	return 0, errors.New("no matching legal move")
}

// squareName renders a square in algebraic notation ("e4").
func squareName(sq Square) string {
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

func algebraicToSquare(alg string) (Square, error) {
	if len(alg) != 2 {
		return NoSquare, errors.New("invalid algebraic square length")
	}
	file := alg[0]
	rank := alg[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, errors.New("invalid algebraic square")
	}
	return Square(int(file-'a') + int(rank-'1')*8), nil
}

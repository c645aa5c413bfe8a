package movegen

import "fmt"

// MoveState is one undo-stack frame: the irreversible position state saved
// before a move was made. The captured piece travels in the move itself.
type MoveState struct {
	move          Move
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
}

// castlingRightsMask[sq] keeps the rights that survive a piece moving from
// or to sq. Any move touching e1 drops both white rights, a rook square
// drops its own right, and a capture on a rook home square drops the
// victim's right through the same lookup.
var castlingRightsMask [64]CastlingRights

func init() {
	for sq := range castlingRightsMask {
		castlingRightsMask[sq] = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ
	}
	castlingRightsMask[0] &^= CastlingWhiteQ
	castlingRightsMask[7] &^= CastlingWhiteK
	castlingRightsMask[4] &^= CastlingWhiteK | CastlingWhiteQ
	castlingRightsMask[56] &^= CastlingBlackQ
	castlingRightsMask[63] &^= CastlingBlackK
	castlingRightsMask[60] &^= CastlingBlackK | CastlingBlackQ
}

// castleRookSquares returns the rook's origin and destination for a castle
// of the given kind by the given side.
func castleRookSquares(side Color, kind MoveKind) (from, to Square) {
	if side == White {
		if kind == KindCastleKingside {
			return 7, 5
		}
		return 0, 3
	}
	if kind == KindCastleKingside {
		return 63, 61
	}
	return 56, 59
}

// bitboardFor returns the bitboard holding the given piece.
func (b *Board) bitboardFor(p Piece) *uint64 {
	ci := int(colorOf(p))
	switch typeOf(p) {
	case 1:
		return &b.pawns[ci]
	case 2:
		return &b.knights[ci]
	case 3:
		return &b.bishops[ci]
	case 4:
		return &b.rooks[ci]
	case 5:
		return &b.queens[ci]
	default:
		return &b.kings[ci]
	}
}

// putPiece, liftPiece and relocatePiece keep the mailbox, bitboards,
// occupancy and zobrist key in sync. MakeMove composes them; UnmakeMove
// reuses them and then restores the saved key wholesale.

func (b *Board) putPiece(sq Square, p Piece) {
	bit := bb(sq)
	b.pieces[sq] = p
	*b.bitboardFor(p) |= bit
	b.occupancy[colorOf(p)] |= bit
	b.zobristKey ^= zobristPiece[p][sq]
}

func (b *Board) liftPiece(sq Square, p Piece) {
	bit := bb(sq)
	b.pieces[sq] = NoPiece
	*b.bitboardFor(p) &^= bit
	b.occupancy[colorOf(p)] &^= bit
	b.zobristKey ^= zobristPiece[p][sq]
}

func (b *Board) relocatePiece(from, to Square, p Piece) {
	fromTo := bb(from) | bb(to)
	b.pieces[from] = NoPiece
	b.pieces[to] = p
	*b.bitboardFor(p) ^= fromTo
	b.occupancy[colorOf(p)] ^= fromTo
	b.zobristKey ^= zobristPiece[p][from] ^ zobristPiece[p][to]
}

// MakeMove applies a move and pushes the undo frame. The move is assumed to
// come from the generator (or another trusted source); no legality check is
// performed here.
func (b *Board) MakeMove(m Move) {
	b.undo = append(b.undo, MoveState{
		move:          m,
		prevCastling:  b.castlingRights,
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
	})

	us := b.sideToMove
	them := Color(1 - us)
	from := m.From()
	to := m.To()
	piece := m.MovedPiece()
	kind := m.Kind()

	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
		b.enPassantSquare = NoSquare
	}

	switch kind {
	case KindCapture:
		b.liftPiece(to, m.CapturedPiece())
	case KindEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.liftPiece(capSq, m.CapturedPiece())
	}

	if promo := m.PromotionPiece(); promo != NoPiece {
		b.liftPiece(from, piece)
		b.putPiece(to, promo)
	} else {
		b.relocatePiece(from, to, piece)
	}

	if kind == KindCastleKingside || kind == KindCastleQueenside {
		rFrom, rTo := castleRookSquares(us, kind)
		b.relocatePiece(rFrom, rTo, PieceFromType(us, PieceTypeRook))
	}

	if newRights := b.castlingRights & castlingRightsMask[from] & castlingRightsMask[to]; newRights != b.castlingRights {
		b.zobristKey ^= zobristCastle[b.castlingRights] ^ zobristCastle[newRights]
		b.castlingRights = newRights
	}

	// Record the en-passant square only when an enemy pawn can actually
	// capture on it; the hash then needs no separate capturability test.
	if kind == KindDoublePush {
		ep := (from + to) / 2
		if pawnAttacks[us][ep]&b.pawns[them] != 0 {
			b.enPassantSquare = ep
			b.zobristKey ^= zobristEnPassant[ep.File()]
		}
	}

	if typeOf(piece) == 1 || m.IsCapture() {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}
	b.sideToMove = them
	b.zobristKey ^= zobristSide
}

// UnmakeMove reverses the most recent MakeMove. The move must be the one on
// top of the undo stack; anything else is a caller bug and panics.
func (b *Board) UnmakeMove(m Move) {
	n := len(b.undo)
	if n == 0 {
		panic("movegen: UnmakeMove with empty undo stack")
	}
	st := b.undo[n-1]
	if st.move != m {
		panic(fmt.Sprintf("movegen: UnmakeMove out of order: got %s, expected %s", m, st.move))
	}
	b.undo = b.undo[:n-1]

	them := b.sideToMove
	us := Color(1 - them)
	from := m.From()
	to := m.To()
	piece := m.MovedPiece()
	kind := m.Kind()

	if promo := m.PromotionPiece(); promo != NoPiece {
		b.liftPiece(to, promo)
		b.putPiece(from, piece)
	} else {
		b.relocatePiece(to, from, piece)
	}

	switch kind {
	case KindCapture:
		b.putPiece(to, m.CapturedPiece())
	case KindEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.putPiece(capSq, m.CapturedPiece())
	case KindCastleKingside, KindCastleQueenside:
		rFrom, rTo := castleRookSquares(us, kind)
		b.relocatePiece(rTo, rFrom, PieceFromType(us, PieceTypeRook))
	}

	b.sideToMove = us
	b.castlingRights = st.prevCastling
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.zobristKey = st.prevZobrist
}

// TryMove makes a pseudo-legal move and verifies the mover's king is not
// left in check. Illegal moves are unmade and rejected. Moves from
// GenerateMoves never fail this test; TryMove exists for pseudo-legal
// pipelines.
func (b *Board) TryMove(m Move) bool {
	mover := b.sideToMove
	b.MakeMove(m)
	if b.InCheck(mover) {
		b.UnmakeMove(m)
		return false
	}
	return true
}

// Apply makes the move and returns the matching undo function, for callers
// that want scope-shaped make/unmake.
func (b *Board) Apply(m Move) func() {
	b.MakeMove(m)
	return func() { b.UnmakeMove(m) }
}

// NullState carries what MakeNullMove changed besides the side to move.
type NullState struct {
	prevEnPassant Square
	prevHalfmove  int
	prevZobrist   uint64
}

// MakeNullMove passes the turn without moving a piece. Not legal chess;
// used by search heuristics layered on top of this package.
func (b *Board) MakeNullMove() NullState {
	st := NullState{
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevZobrist:   b.zobristKey,
	}
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
		b.enPassantSquare = NoSquare
	}
	b.halfmoveClock++
	if b.sideToMove == Black {
		b.fullmoveNumber++
	}
	b.sideToMove = Color(1 - b.sideToMove)
	b.zobristKey ^= zobristSide
	return st
}

// UnmakeNullMove reverses MakeNullMove given the state it returned.
func (b *Board) UnmakeNullMove(st NullState) {
	b.sideToMove = Color(1 - b.sideToMove)
	if b.sideToMove == Black {
		b.fullmoveNumber--
	}
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.zobristKey = st.prevZobrist
}

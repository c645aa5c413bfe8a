package movegen

// MaxMoves bounds the number of legal moves in any reachable position. The
// proven worst case is 218; the capacity leaves margin so the buffer never
// grows on the hot path.
const MaxMoves = 256

// MoveList is a fixed-capacity, append-only move buffer. Iteration order is
// generation order, which is stable within a build. A MoveList is owned by a
// single generation call at a time; reuse it by calling Clear.
type MoveList struct {
	items [MaxMoves]Move
	count int
}

// Clear resets the list to empty without releasing storage.
func (ml *MoveList) Clear() { ml.count = 0 }

// Len returns the number of moves appended so far.
func (ml *MoveList) Len() int { return ml.count }

// At returns the i-th move in generation order.
func (ml *MoveList) At(i int) Move { return ml.items[i] }

// Moves returns the appended moves as a slice view into the list's storage.
// The view is invalidated by Clear or further appends.
func (ml *MoveList) Moves() []Move { return ml.items[:ml.count] }

func (ml *MoveList) add(m Move) {
	ml.items[ml.count] = m
	ml.count++
}

// addPromotions appends one move per promotion piece, queen first, matching
// the documented emission order.
func (ml *MoveList) addPromotions(from, to Square, piece, captured Piece, kind MoveKind) {
	color := colorOf(piece)
	ml.add(NewMove(from, to, piece, captured, PieceFromType(color, PieceTypeQueen), kind))
	ml.add(NewMove(from, to, piece, captured, PieceFromType(color, PieceTypeRook), kind))
	ml.add(NewMove(from, to, piece, captured, PieceFromType(color, PieceTypeBishop), kind))
	ml.add(NewMove(from, to, piece, captured, PieceFromType(color, PieceTypeKnight), kind))
}

package movegen

import "math/bits"

// Precomputed attack masks for knights and kings from each square.
var knightMasks [64]uint64
var kingMasks [64]uint64

// pawnAttacks[color][sq] gives the squares a pawn of 'color' attacks from 'sq'.
var pawnAttacks [2][64]uint64

// Directional rays, excluding the origin square.
// Rook directions: 0=N, 1=S, 2=E, 3=W
// Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW
var rookRays [64][4]uint64
var bishopRays [64][4]uint64

// Line unions per square: all rook rays, all bishop rays, and both.
var hvLines [64]uint64
var diagLines [64]uint64
var allLines [64]uint64

// between[a][b] is the set of squares strictly between a and b when they
// share a rank, file or diagonal, else 0.
var between [64][64]uint64

// Relevant-occupancy masks and occupancy-indexed attack tables for the
// emulated-PEXT slider resolver.
var rookMasks [64]uint64
var bishopMasks [64]uint64
var rookTable [64][]uint64
var bishopTable [64][]uint64

func init() {
	initLeaperMasks()
	initRays()
	initBetween()
	initSliderTables()
}

// initLeaperMasks precomputes attack bitboards for knights, kings and pawns.
func initLeaperMasks() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		for _, off := range knightOffsets {
			r, f := rank+off[0], file+off[1]
			if r >= 0 && r < 8 && f >= 0 && f < 8 {
				knightMasks[sq] |= uint64(1) << uint(r*8+f)
			}
		}
		for _, off := range kingOffsets {
			r, f := rank+off[0], file+off[1]
			if r >= 0 && r < 8 && f >= 0 && f < 8 {
				kingMasks[sq] |= uint64(1) << uint(r*8+f)
			}
		}

		// White pawns attack upward, black pawns downward.
		if rank < 7 {
			if file > 0 {
				pawnAttacks[White][sq] |= uint64(1) << uint((rank+1)*8+file-1)
			}
			if file < 7 {
				pawnAttacks[White][sq] |= uint64(1) << uint((rank+1)*8+file+1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttacks[Black][sq] |= uint64(1) << uint((rank-1)*8+file-1)
			}
			if file < 7 {
				pawnAttacks[Black][sq] |= uint64(1) << uint((rank-1)*8+file+1)
			}
		}
	}
}

// Direction deltas indexed as the ray arrays are: rook N,S,E,W then bishop
// NE,NW,SE,SW.
var rookDeltas = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDeltas = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// initRays precomputes directional rays and the per-square line unions.
func initRays() {
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		for d := 0; d < 4; d++ {
			var ray uint64
			for r, f := rank+rookDeltas[d][0], file+rookDeltas[d][1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+rookDeltas[d][0], f+rookDeltas[d][1] {
				ray |= uint64(1) << uint(r*8+f)
			}
			rookRays[sq][d] = ray
		}
		for d := 0; d < 4; d++ {
			var ray uint64
			for r, f := rank+bishopDeltas[d][0], file+bishopDeltas[d][1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+bishopDeltas[d][0], f+bishopDeltas[d][1] {
				ray |= uint64(1) << uint(r*8+f)
			}
			bishopRays[sq][d] = ray
		}
		hvLines[sq] = rookRays[sq][0] | rookRays[sq][1] | rookRays[sq][2] | rookRays[sq][3]
		diagLines[sq] = bishopRays[sq][0] | bishopRays[sq][1] | bishopRays[sq][2] | bishopRays[sq][3]
		allLines[sq] = hvLines[sq] | diagLines[sq]
	}
}

// initBetween fills the between table by walking each of the eight
// directions from each square, accumulating the squares passed over.
func initBetween() {
	deltas := append(append([][2]int{}, rookDeltas[:]...), bishopDeltas[:]...)
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		for _, d := range deltas {
			var acc uint64
			for r, f := rank+d[0], file+d[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+d[0], f+d[1] {
				t := r*8 + f
				between[sq][t] = acc
				acc |= uint64(1) << uint(t)
			}
		}
	}
}

// initSliderTables builds per-square relevant-occupancy masks and, by
// enumerating every subset of each mask with pdep, the full attack tables.
func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8

		// Rook mask excludes the board edge in each direction: a blocker on
		// the edge square cannot shorten the attack set further.
		var rm uint64
		for r := rank + 1; r < 7; r++ {
			rm |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r > 0; r-- {
			rm |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 7; f++ {
			rm |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f > 0; f-- {
			rm |= 1 << uint(rank*8+f)
		}
		rookMasks[sq] = rm

		var bm uint64
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		bishopMasks[sq] = bm

		rBits := bits.OnesCount64(rm)
		bBits := bits.OnesCount64(bm)
		rookTable[sq] = make([]uint64, 1<<rBits)
		bishopTable[sq] = make([]uint64, 1<<bBits)

		for idx := 0; idx < (1 << rBits); idx++ {
			occ := pdep(uint64(idx), rm)
			rookTable[sq][idx] = rookAttacksRef(sq, occ)
		}
		for idx := 0; idx < (1 << bBits); idx++ {
			occ := pdep(uint64(idx), bm)
			bishopTable[sq][idx] = bishopAttacksRef(sq, occ)
		}
	}
}

// pext extracts the bits of x at positions where mask has 1s, packed into
// the low bits of the result. Pure function of (mask, x); this is the
// portable stand-in for the hardware instruction of the same name.
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// pdep deposits the low bits of x into the positions of mask. Inverse of
// pext over the masked bits; used only during table construction.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}

// ==========================
// Sliding attacks
// ==========================

// rookAttacks returns the rook attack bitboard from sq for the given
// occupancy, via the precomputed table. O(1): one pext, one load.
func rookAttacks(sq int, occ uint64) uint64 {
	return rookTable[sq][pext(occ, rookMasks[sq])]
}

// bishopAttacks returns the bishop attack bitboard from sq for the given
// occupancy, via the precomputed table.
func bishopAttacks(sq int, occ uint64) uint64 {
	return bishopTable[sq][pext(occ, bishopMasks[sq])]
}

// queenAttacks combines rook and bishop attacks.
func queenAttacks(sq int, occ uint64) uint64 {
	return rookAttacks(sq, occ) | bishopAttacks(sq, occ)
}

// rookAttacksRef computes rook attacks by walking the four rays and
// truncating at the first blocker. Reference oracle for the table resolver,
// and the builder used to populate it.
func rookAttacksRef(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rookRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			var first int
			if d == 0 || d == 2 { // N, E run toward higher indices
				first = bits.TrailingZeros64(blockers)
			} else {
				first = 63 - bits.LeadingZeros64(blockers)
			}
			ray &^= rookRays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// bishopAttacksRef is the ray-walking reference for bishop attacks.
func bishopAttacksRef(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := bishopRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			var first int
			if d == 0 || d == 1 { // NE, NW run toward higher indices
				first = bits.TrailingZeros64(blockers)
			} else {
				first = 63 - bits.LeadingZeros64(blockers)
			}
			ray &^= bishopRays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// ==========================
// Attack queries
// ==========================

// attackersTo returns the bitboard of pieces of color 'by' attacking square
// s under the given occupancy. The occupancy is a parameter so callers can
// probe hypothetical positions (king moves, en-passant legality).
func (b *Board) attackersTo(s int, by Color, occ uint64) uint64 {
	bi := int(by)
	// Reverse pawn lookup: a pawn of 'by' on p attacks s exactly when a pawn
	// of the opposite color on s would attack p.
	attackers := pawnAttacks[1-by][s] & b.pawns[bi]
	attackers |= knightMasks[s] & b.knights[bi]
	attackers |= kingMasks[s] & b.kings[bi]
	attackers |= bishopAttacks(s, occ) & (b.bishops[bi] | b.queens[bi])
	attackers |= rookAttacks(s, occ) & (b.rooks[bi] | b.queens[bi])
	return attackers
}

// IsSquareAttacked reports whether the given square is attacked by the given color.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.attackersTo(int(sq), by, b.AllOccupancy()) != 0
}

// Checkers returns the bitboard of opposing pieces attacking the
// side-to-move's king.
func (b *Board) Checkers() uint64 {
	ksq := b.KingSquare(b.sideToMove)
	if ksq == NoSquare {
		return 0
	}
	return b.attackersTo(int(ksq), 1-b.sideToMove, b.AllOccupancy())
}

// InCheck reports whether the specified color's king is currently attacked.
func (b *Board) InCheck(color Color) bool {
	ksq := b.KingSquare(color)
	if ksq == NoSquare {
		return false
	}
	return b.attackersTo(int(ksq), 1-color, b.AllOccupancy()) != 0
}

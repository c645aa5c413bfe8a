package movegen

import "math/bits"

// filter modes for selective generation
const (
	genAll = iota
	genCaptures
	genQuiets
)

// checkersAndPins computes, once per generation call, the check and pin
// state for the given side:
//   - checkers: bitboard of enemy pieces attacking the side's king
//   - checkMask: squares a non-king move may go to; all ones when not in
//     check, block-or-capture squares otherwise. Under double check the
//     generator skips non-king moves entirely and the mask is unused.
//   - pinLine: for each own square, the squares a piece there may move to
//     without exposing the king, or 0 when the piece is unrestricted
func (b *Board) checkersAndPins(side Color, occ uint64) (checkers uint64, checkMask uint64, pinLine [64]uint64) {
	us := int(side)
	them := 1 - us

	kingBB := b.kings[us]
	if kingBB == 0 {
		return 0, ^uint64(0), pinLine
	}
	ksq := bits.TrailingZeros64(kingBB)

	// Leaper checkers can only be captured, never blocked.
	checkers = pawnAttacks[side][ksq] & b.pawns[them]
	checkers |= knightMasks[ksq] & b.knights[them]
	checkMask = checkers

	// Scan enemy sliders aligned with the king. Zero blockers between king
	// and slider means check; exactly one own blocker means a pin.
	hv := (b.rooks[them] | b.queens[them]) & hvLines[ksq]
	for s := hv; s != 0; {
		sq := popLSB(&s)
		blockers := between[ksq][sq] & occ
		switch bits.OnesCount64(blockers) {
		case 0:
			checkers |= uint64(1) << uint(sq)
			checkMask |= (uint64(1) << uint(sq)) | between[ksq][sq]
		case 1:
			if blockers&b.occupancy[us] != 0 {
				pinned := bits.TrailingZeros64(blockers)
				pinLine[pinned] = between[ksq][sq] | (uint64(1) << uint(sq))
			}
		}
	}
	diag := (b.bishops[them] | b.queens[them]) & diagLines[ksq]
	for s := diag; s != 0; {
		sq := popLSB(&s)
		blockers := between[ksq][sq] & occ
		switch bits.OnesCount64(blockers) {
		case 0:
			checkers |= uint64(1) << uint(sq)
			checkMask |= (uint64(1) << uint(sq)) | between[ksq][sq]
		case 1:
			if blockers&b.occupancy[us] != 0 {
				pinned := bits.TrailingZeros64(blockers)
				pinLine[pinned] = between[ksq][sq] | (uint64(1) << uint(sq))
			}
		}
	}

	if checkers == 0 {
		checkMask = ^uint64(0)
	}
	return checkers, checkMask, pinLine
}

// epLegal verifies that the en-passant capture from 'from' leaves our king
// safe, probing attacks against an occupancy with both pawns removed and
// the capturer placed on the target square. This catches the horizontal
// discovered check that the pin map cannot see (both pawns leave the rank
// at once), and doubles as the check-evasion test for en passant.
func (b *Board) epLegal(side Color, from, ep, capSq, ksq int, occ uint64) bool {
	them := 1 - int(side)
	occp := occ&^(uint64(1)<<uint(from))&^(uint64(1)<<uint(capSq)) | (uint64(1) << uint(ep))
	if rookAttacks(ksq, occp)&(b.rooks[them]|b.queens[them]) != 0 {
		return false
	}
	if bishopAttacks(ksq, occp)&(b.bishops[them]|b.queens[them]) != 0 {
		return false
	}
	if knightMasks[ksq]&b.knights[them] != 0 {
		return false
	}
	// Mask out the captured pawn; the reverse-mask lookup does not consult
	// the occupancy.
	if pawnAttacks[side][ksq]&(b.pawns[them]&^(uint64(1)<<uint(capSq))) != 0 {
		return false
	}
	return kingMasks[ksq]&b.kings[them] == 0
}

// generate is the core generator. It appends legal moves matching the
// filter to ml, in fixed order: pawns, knights, bishops, rooks, queens,
// king, castling — each piece type by ascending origin square.
func (b *Board) generate(ml *MoveList, filter int) {
	side := b.sideToMove
	us := int(side)
	them := 1 - us

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	ks := -1
	if kingBB := b.kings[us]; kingBB != 0 {
		ks = bits.TrailingZeros64(kingBB)
	}

	checkers, checkMask, pinLine := b.checkersAndPins(side, allOcc)
	inCheck := checkers != 0
	doubleCheck := checkers&(checkers-1) != 0

	// Pawns
	if !doubleCheck {
		// Rank/direction parameters for the side to move.
		push, homeRank, promoRank := 8, 1, 7
		if side == Black {
			push, homeRank, promoRank = -8, 6, 0
		}

		pawns := b.pawns[us]
		for pawns != 0 {
			from := popLSB(&pawns)
			fromSq := Square(from)
			movedPiece := b.pieces[from]

			allowed := checkMask
			if pinLine[from] != 0 {
				allowed &= pinLine[from]
			}

			// Pushes
			one := from + push
			if ((allOcc >> uint(one)) & 1) == 0 {
				oneBB := uint64(1) << uint(one)
				if one/8 == promoRank {
					if filter != genCaptures && (oneBB&allowed) != 0 {
						ml.addPromotions(fromSq, Square(one), movedPiece, NoPiece, KindQuiet)
					}
				} else {
					if filter != genCaptures && (oneBB&allowed) != 0 {
						ml.add(NewMove(fromSq, Square(one), movedPiece, NoPiece, NoPiece, KindQuiet))
					}
					if from/8 == homeRank {
						two := from + 2*push
						twoBB := uint64(1) << uint(two)
						if ((allOcc>>uint(two))&1) == 0 && filter != genCaptures && (twoBB&allowed) != 0 {
							ml.add(NewMove(fromSq, Square(two), movedPiece, NoPiece, NoPiece, KindDoublePush))
						}
					}
				}
			}

			// Captures
			if filter != genQuiets {
				caps := pawnAttacks[side][from] & oppOcc & allowed
				for caps != 0 {
					to := popLSB(&caps)
					capPiece := b.pieces[to]
					if to/8 == promoRank {
						ml.addPromotions(fromSq, Square(to), movedPiece, capPiece, KindCapture)
					} else {
						ml.add(NewMove(fromSq, Square(to), movedPiece, capPiece, NoPiece, KindCapture))
					}
				}

				// En passant, via the dedicated both-pawns-removed probe.
				if b.enPassantSquare != NoSquare {
					ep := int(b.enPassantSquare)
					if (pawnAttacks[side][from]&(uint64(1)<<uint(ep))) != 0 && ks >= 0 {
						capSq := ep - push
						if b.epLegal(side, from, ep, capSq, ks, allOcc) {
							capPawn := PieceFromType(Color(them), PieceTypePawn)
							ml.add(NewMove(fromSq, Square(ep), movedPiece, capPawn, NoPiece, KindEnPassant))
						}
					}
				}
			}
		}
	}

	// Knights
	if !doubleCheck {
		knights := b.knights[us]
		for knights != 0 {
			from := popLSB(&knights)
			movedPiece := b.pieces[from]

			targets := knightMasks[from] &^ ownOcc & checkMask
			if pinLine[from] != 0 {
				// A pinned knight can never stay on the pin line.
				targets &= pinLine[from]
			}
			b.emit(ml, Square(from), movedPiece, targets, oppOcc, filter)
		}
	}

	// Bishops
	if !doubleCheck {
		bishops := b.bishops[us]
		for bishops != 0 {
			from := popLSB(&bishops)
			movedPiece := b.pieces[from]

			targets := bishopAttacks(from, allOcc) &^ ownOcc & checkMask
			if pinLine[from] != 0 {
				targets &= pinLine[from]
			}
			b.emit(ml, Square(from), movedPiece, targets, oppOcc, filter)
		}
	}

	// Rooks
	if !doubleCheck {
		rooks := b.rooks[us]
		for rooks != 0 {
			from := popLSB(&rooks)
			movedPiece := b.pieces[from]

			targets := rookAttacks(from, allOcc) &^ ownOcc & checkMask
			if pinLine[from] != 0 {
				targets &= pinLine[from]
			}
			b.emit(ml, Square(from), movedPiece, targets, oppOcc, filter)
		}
	}

	// Queens
	if !doubleCheck {
		queens := b.queens[us]
		for queens != 0 {
			from := popLSB(&queens)
			movedPiece := b.pieces[from]

			targets := queenAttacks(from, allOcc) &^ ownOcc & checkMask
			if pinLine[from] != 0 {
				targets &= pinLine[from]
			}
			b.emit(ml, Square(from), movedPiece, targets, oppOcc, filter)
		}
	}

	// King
	if ks >= 0 {
		fromSq := Square(ks)
		movedPiece := b.pieces[ks]
		fromBB := uint64(1) << uint(ks)

		targets := kingMasks[ks] &^ ownOcc
		for t := targets; t != 0; {
			to := popLSB(&t)
			toBB := uint64(1) << uint(to)
			isCap := (oppOcc & toBB) != 0
			if (filter == genCaptures && !isCap) || (filter == genQuiets && isCap) {
				continue
			}

			// Probe with the king lifted off its square so slider rays
			// extend through it.
			occp := allOcc&^fromBB | toBB
			if b.attackersTo(to, Color(them), occp) != 0 {
				continue
			}

			cap := NoPiece
			kind := KindQuiet
			if isCap {
				cap = b.pieces[to]
				kind = KindCapture
			}
			ml.add(NewMove(fromSq, Square(to), movedPiece, cap, NoPiece, kind))
		}

		// Castling: right available, path empty, rook on its home square,
		// king not in check, transit and target squares unattacked.
		if filter != genCaptures && !inCheck {
			b.generateCastles(ml, side, allOcc)
		}
	}
}

// emit appends a move per set bit in targets, tagging captures by opponent
// occupancy. Shared by the knight/bishop/rook/queen loops.
func (b *Board) emit(ml *MoveList, from Square, piece Piece, targets, oppOcc uint64, filter int) {
	if filter == genCaptures {
		targets &= oppOcc
	} else if filter == genQuiets {
		targets &^= oppOcc
	}
	for targets != 0 {
		to := popLSB(&targets)
		if ((oppOcc >> uint(to)) & 1) != 0 {
			ml.add(NewMove(from, Square(to), piece, b.pieces[to], NoPiece, KindCapture))
		} else {
			ml.add(NewMove(from, Square(to), piece, NoPiece, NoPiece, KindQuiet))
		}
	}
}

// Castling path squares that must be empty.
const (
	pathF1G1 = uint64(1)<<5 | uint64(1)<<6
	pathB1D1 = uint64(1)<<1 | uint64(1)<<2 | uint64(1)<<3
	pathF8G8 = uint64(1)<<61 | uint64(1)<<62
	pathB8D8 = uint64(1)<<57 | uint64(1)<<58 | uint64(1)<<59
)

func (b *Board) generateCastles(ml *MoveList, side Color, occ uint64) {
	if side == White {
		if b.castlingRights&CastlingWhiteK != 0 && (occ&pathF1G1) == 0 && b.pieces[7] == WhiteRook &&
			b.attackersTo(5, Black, occ) == 0 && b.attackersTo(6, Black, occ) == 0 {
			ml.add(NewMove(4, 6, WhiteKing, NoPiece, NoPiece, KindCastleKingside))
		}
		if b.castlingRights&CastlingWhiteQ != 0 && (occ&pathB1D1) == 0 && b.pieces[0] == WhiteRook &&
			b.attackersTo(3, Black, occ) == 0 && b.attackersTo(2, Black, occ) == 0 {
			ml.add(NewMove(4, 2, WhiteKing, NoPiece, NoPiece, KindCastleQueenside))
		}
	} else {
		if b.castlingRights&CastlingBlackK != 0 && (occ&pathF8G8) == 0 && b.pieces[63] == BlackRook &&
			b.attackersTo(61, White, occ) == 0 && b.attackersTo(62, White, occ) == 0 {
			ml.add(NewMove(60, 62, BlackKing, NoPiece, NoPiece, KindCastleKingside))
		}
		if b.castlingRights&CastlingBlackQ != 0 && (occ&pathB8D8) == 0 && b.pieces[56] == BlackRook &&
			b.attackersTo(59, White, occ) == 0 && b.attackersTo(58, White, occ) == 0 {
			ml.add(NewMove(60, 58, BlackKing, NoPiece, NoPiece, KindCastleQueenside))
		}
	}
}

// GenerateMoves appends all legal moves for the side to move to ml.
// ml is cleared first; its final order is the documented generation order.
func (b *Board) GenerateMoves(ml *MoveList) {
	ml.Clear()
	b.generate(ml, genAll)
}

// GenerateCaptures appends all legal captures, including en passant and
// capture promotions.
func (b *Board) GenerateCaptures(ml *MoveList) {
	ml.Clear()
	b.generate(ml, genCaptures)
}

// GenerateQuiets appends all legal non-capturing moves, including
// non-capturing promotions and castling.
func (b *Board) GenerateQuiets(ml *MoveList) {
	ml.Clear()
	b.generate(ml, genQuiets)
}

// LegalMoves returns the legal moves as a freshly allocated slice. Prefer
// GenerateMoves with a reused MoveList on hot paths.
func (b *Board) LegalMoves() []Move {
	var ml MoveList
	b.GenerateMoves(&ml)
	out := make([]Move, ml.Len())
	copy(out, ml.Moves())
	return out
}

// GeneratePseudoMoves appends all pseudo-legal moves: piece rules and
// blockers are enforced, castling requires rights, an empty path and the
// rook in place, but no king-safety filtering is applied anywhere.
func (b *Board) GeneratePseudoMoves(ml *MoveList) {
	ml.Clear()
	side := b.sideToMove
	us := int(side)
	them := 1 - us

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	push, homeRank, promoRank := 8, 1, 7
	if side == Black {
		push, homeRank, promoRank = -8, 6, 0
	}

	pawns := b.pawns[us]
	for pawns != 0 {
		from := popLSB(&pawns)
		fromSq := Square(from)
		movedPiece := b.pieces[from]

		one := from + push
		if ((allOcc >> uint(one)) & 1) == 0 {
			if one/8 == promoRank {
				ml.addPromotions(fromSq, Square(one), movedPiece, NoPiece, KindQuiet)
			} else {
				ml.add(NewMove(fromSq, Square(one), movedPiece, NoPiece, NoPiece, KindQuiet))
				if from/8 == homeRank {
					two := from + 2*push
					if ((allOcc >> uint(two)) & 1) == 0 {
						ml.add(NewMove(fromSq, Square(two), movedPiece, NoPiece, NoPiece, KindDoublePush))
					}
				}
			}
		}

		caps := pawnAttacks[side][from] & oppOcc
		for caps != 0 {
			to := popLSB(&caps)
			capPiece := b.pieces[to]
			if to/8 == promoRank {
				ml.addPromotions(fromSq, Square(to), movedPiece, capPiece, KindCapture)
			} else {
				ml.add(NewMove(fromSq, Square(to), movedPiece, capPiece, NoPiece, KindCapture))
			}
		}
		if b.enPassantSquare != NoSquare {
			ep := int(b.enPassantSquare)
			if (pawnAttacks[side][from] & (uint64(1) << uint(ep))) != 0 {
				capPawn := PieceFromType(Color(them), PieceTypePawn)
				ml.add(NewMove(fromSq, Square(ep), movedPiece, capPawn, NoPiece, KindEnPassant))
			}
		}
	}

	knights := b.knights[us]
	for knights != 0 {
		from := popLSB(&knights)
		b.emit(ml, Square(from), b.pieces[from], knightMasks[from]&^ownOcc, oppOcc, genAll)
	}
	bishops := b.bishops[us]
	for bishops != 0 {
		from := popLSB(&bishops)
		b.emit(ml, Square(from), b.pieces[from], bishopAttacks(from, allOcc)&^ownOcc, oppOcc, genAll)
	}
	rooks := b.rooks[us]
	for rooks != 0 {
		from := popLSB(&rooks)
		b.emit(ml, Square(from), b.pieces[from], rookAttacks(from, allOcc)&^ownOcc, oppOcc, genAll)
	}
	queens := b.queens[us]
	for queens != 0 {
		from := popLSB(&queens)
		b.emit(ml, Square(from), b.pieces[from], queenAttacks(from, allOcc)&^ownOcc, oppOcc, genAll)
	}
	if kingBB := b.kings[us]; kingBB != 0 {
		from := bits.TrailingZeros64(kingBB)
		b.emit(ml, Square(from), b.pieces[from], kingMasks[from]&^ownOcc, oppOcc, genAll)
		b.generateCastles(ml, side, allOcc)
	}
}

// GivesCheck reports whether the move (assumed legal for the current side
// to move) leaves the opponent's king in check. It simulates occupancy
// without mutating board state.
func (b *Board) GivesCheck(m Move) bool {
	us := int(b.sideToMove)
	them := 1 - us

	kingBB := b.kings[them]
	if kingBB == 0 {
		return false
	}
	ksq := bits.TrailingZeros64(kingBB)
	kBit := uint64(1) << uint(ksq)

	from := int(m.From())
	to := int(m.To())
	fromBB := uint64(1) << uint(from)
	toBB := uint64(1) << uint(to)

	vacated := fromBB
	occp := b.AllOccupancy() &^ fromBB
	switch m.Kind() {
	case KindEnPassant:
		capSq := to - 8
		if b.sideToMove == Black {
			capSq = to + 8
		}
		occp &^= uint64(1) << uint(capSq)
	case KindCastleKingside, KindCastleQueenside:
		rFrom, rTo := castleRookSquares(b.sideToMove, m.Kind())
		vacated |= uint64(1) << uint(rFrom)
		occp = occp&^(uint64(1)<<uint(rFrom)) | (uint64(1) << uint(rTo))
		// The relocated rook may deliver the check.
		if rookAttacks(int(rTo), occp|toBB)&kBit != 0 {
			return true
		}
	}
	occp |= toBB

	// Direct check by the piece landing on 'to'.
	dpiece := m.MovedPiece()
	if promo := m.PromotionPiece(); promo != NoPiece {
		dpiece = promo
	}
	switch typeOf(dpiece) {
	case 1:
		if pawnAttacks[b.sideToMove][to]&kBit != 0 {
			return true
		}
	case 2:
		if knightMasks[to]&kBit != 0 {
			return true
		}
	case 3:
		if bishopAttacks(to, occp)&kBit != 0 {
			return true
		}
	case 4:
		if rookAttacks(to, occp)&kBit != 0 {
			return true
		}
	case 5:
		if queenAttacks(to, occp)&kBit != 0 {
			return true
		}
	}

	// Discovered check: sliders that did not move, seen through the vacated
	// squares. Excluding the vacated origins keeps a ray that reaches an
	// emptied square from reading as a check by the piece that left it.
	rq := (b.rooks[us] | b.queens[us]) &^ vacated
	bq := (b.bishops[us] | b.queens[us]) &^ vacated
	return rookAttacks(ksq, occp)&rq != 0 || bishopAttacks(ksq, occp)&bq != 0
}

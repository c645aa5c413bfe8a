package movegen_test

import (
	"testing"

	"chess-movegen/internal/testutil"
	"chess-movegen/movegen"
)

// Every generated move must be unique and survive the make-and-verify
// probe, and the pseudo-legal set filtered through TryMove must be exactly
// the legal set.
func TestLegalEqualsFilteredPseudo(t *testing.T) {
	for _, fen := range walkFENs {
		board := movegen.MustParseFEN(fen)

		var legal movegen.MoveList
		board.GenerateMoves(&legal)

		seen := make(map[movegen.Move]bool, legal.Len())
		for i := 0; i < legal.Len(); i++ {
			m := legal.At(i)
			if seen[m] {
				t.Fatalf("%q: duplicate move %s", fen, m)
			}
			seen[m] = true
			if !board.TryMove(m) {
				t.Fatalf("%q: generated move %s fails the legality probe", fen, m)
			}
			board.UnmakeMove(m)
		}

		var pseudo movegen.MoveList
		board.GeneratePseudoMoves(&pseudo)
		filtered := 0
		for i := 0; i < pseudo.Len(); i++ {
			m := pseudo.At(i)
			if board.TryMove(m) {
				filtered++
				board.UnmakeMove(m)
				if !seen[m] {
					t.Fatalf("%q: legal move %s missing from generator output", fen, m)
				}
			}
		}
		testutil.AssertEqual(t, filtered, legal.Len(), "legal count for %q", fen)
	}
}

// GenerateCaptures and GenerateQuiets must partition GenerateMoves.
func TestCapturesAndQuietsPartition(t *testing.T) {
	for _, fen := range walkFENs {
		board := movegen.MustParseFEN(fen)

		var all, caps, quiets movegen.MoveList
		board.GenerateMoves(&all)
		board.GenerateCaptures(&caps)
		board.GenerateQuiets(&quiets)

		testutil.AssertEqual(t, caps.Len()+quiets.Len(), all.Len(), "partition size for %q", fen)

		set := make(map[movegen.Move]bool, all.Len())
		for i := 0; i < all.Len(); i++ {
			set[all.At(i)] = true
		}
		for i := 0; i < caps.Len(); i++ {
			m := caps.At(i)
			testutil.AssertTrue(t, m.IsCapture(), "capture flag on %s in %q", m, fen)
			testutil.AssertTrue(t, set[m], "capture %s in full set for %q", m, fen)
		}
		for i := 0; i < quiets.Len(); i++ {
			m := quiets.At(i)
			testutil.AssertFalse(t, m.IsCapture(), "quiet flag on %s in %q", m, fen)
			testutil.AssertTrue(t, set[m], "quiet %s in full set for %q", m, fen)
		}
	}
}

// Under double check only the king may move.
func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	board := movegen.MustParseFEN("4r1k1/8/8/8/8/5n2/8/4K3 w - - 0 1")

	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	testutil.AssertTrue(t, ml.Len() > 0, "king must have an escape")
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		testutil.AssertEqual(t, m.MovedPiece(), movegen.WhiteKing, "non-king move %s under double check", m)
	}
}

// An absolutely pinned piece may only move along the pin line.
func TestPinnedPieceRestrictedToPinLine(t *testing.T) {
	// White rook e4 pinned by the rook on e8: it may slide on the e-file
	// (e2, e3, e5, e6, e7, xe8) but never sideways.
	board := movegen.MustParseFEN("4r1k1/8/8/8/4R3/8/8/4K3 w - - 0 1")

	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		if m.MovedPiece() != movegen.WhiteRook {
			continue
		}
		testutil.AssertEqual(t, m.To().File(), 4, "pinned rook left the e-file with %s", m)
	}

	// The same rook pinned diagonally has no moves at all.
	board = movegen.MustParseFEN("6kb/8/8/8/3R4/8/8/K7 w - - 0 1")
	board.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		testutil.AssertTrue(t, ml.At(i).MovedPiece() != movegen.WhiteRook,
			"diagonally pinned rook moved with %s", ml.At(i))
	}
}

// The horizontal discovered check that only materializes when both pawns
// leave the rank at once must veto the en-passant capture.
func TestEnPassantDiscoveredCheckExcluded(t *testing.T) {
	// White just played d2d4. Capturing exd3 would clear e4 and d4 from
	// the fourth rank, exposing the black king on a4 to the rook on h4.
	board, err := movegen.ParseFEN("4k3/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	testutil.AssertError(t, err, "two black kings must be rejected")

	board, err = movegen.ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	testutil.AssertNoError(t, err)

	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		testutil.AssertTrue(t, ml.At(i).Kind() != movegen.KindEnPassant,
			"illegal en passant %s generated", ml.At(i))
	}

	// Without the rook the capture is legal.
	board = movegen.MustParseFEN("8/8/8/8/k2Pp3/8/8/4K3 b - d3 0 1")
	board.GenerateMoves(&ml)
	found := false
	for i := 0; i < ml.Len(); i++ {
		if ml.At(i).Kind() == movegen.KindEnPassant {
			found = true
		}
	}
	testutil.AssertTrue(t, found, "legal en passant missing")
}

// En passant is the only legal answer to a double-push check.
func TestEnPassantEvadesPawnCheck(t *testing.T) {
	// Black just played c7c5 giving check; bxc6 captures the checker.
	board := movegen.MustParseFEN("4k3/8/8/1Pp5/1K6/8/8/8 w - c6 0 1")

	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	found := false
	for i := 0; i < ml.Len(); i++ {
		if ml.At(i).Kind() == movegen.KindEnPassant {
			found = true
		}
	}
	testutil.AssertTrue(t, found, "en passant evasion missing")
}

func TestCastlingBlockedByAttack(t *testing.T) {
	// The black rook on f8 covers f1, so kingside castling is out;
	// queenside is unaffected.
	board := movegen.MustParseFEN("5r1k/8/8/8/8/8/8/R3K2R w KQ - 0 1")

	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	var kinds []movegen.MoveKind
	for i := 0; i < ml.Len(); i++ {
		k := ml.At(i).Kind()
		if k == movegen.KindCastleKingside || k == movegen.KindCastleQueenside {
			kinds = append(kinds, k)
		}
	}
	testutil.AssertEqual(t, kinds, []movegen.MoveKind{movegen.KindCastleQueenside})
}

func TestNoCastlingOutOfCheck(t *testing.T) {
	board := movegen.MustParseFEN("4r2k/8/8/8/8/8/8/R3K2R w KQ - 0 1")

	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		k := ml.At(i).Kind()
		testutil.AssertTrue(t, k != movegen.KindCastleKingside && k != movegen.KindCastleQueenside,
			"castled out of check with %s", ml.At(i))
	}
}

// A promotion square yields exactly four moves, queen first.
func TestPromotionExpansion(t *testing.T) {
	board := movegen.MustParseFEN("8/P7/8/8/8/8/k7/7K w - - 0 1")

	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	var promos []movegen.PieceType
	for i := 0; i < ml.Len(); i++ {
		if m := ml.At(i); m.IsPromotion() {
			promos = append(promos, m.PromotionPieceType())
		}
	}
	want := []movegen.PieceType{
		movegen.PieceTypeQueen, movegen.PieceTypeRook,
		movegen.PieceTypeBishop, movegen.PieceTypeKnight,
	}
	testutil.AssertEqual(t, promos, want)
}

// Generation output is deterministic and ordered: two runs agree exactly.
func TestGenerationOrderStable(t *testing.T) {
	board := movegen.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	var a, b movegen.MoveList
	board.GenerateMoves(&a)
	board.GenerateMoves(&b)
	testutil.AssertEqual(t, a.Moves(), b.Moves())
}

func TestGivesCheckAgreesWithMake(t *testing.T) {
	for _, fen := range walkFENs {
		board := movegen.MustParseFEN(fen)

		var ml movegen.MoveList
		board.GenerateMoves(&ml)
		for i := 0; i < ml.Len(); i++ {
			m := ml.At(i)
			predicted := board.GivesCheck(m)
			board.MakeMove(m)
			actual := board.InCheck(board.SideToMove())
			board.UnmakeMove(m)
			testutil.AssertEqual(t, predicted, actual, "GivesCheck(%s) on %q", m, fen)
		}
	}
}

func TestGivesCheckCastling(t *testing.T) {
	// The relocated rook checks the king on the d-file.
	board := movegen.MustParseFEN("3k4/8/8/8/8/8/8/R3K2R w Q - 0 1")
	m, err := board.FindMove("e1c1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.Kind(), movegen.KindCastleQueenside)
	testutil.AssertTrue(t, board.GivesCheck(m), "rook lands on the king's file")

	// The enemy king's file ray reaches the rook's vacated corner; that is
	// not a check, and the prediction must agree with the made position.
	board = movegen.MustParseFEN("8/8/8/8/8/k7/8/R3K2R w Q - 0 1")
	m, err = board.FindMove("e1c1")
	testutil.AssertNoError(t, err)
	predicted := board.GivesCheck(m)
	board.MakeMove(m)
	testutil.AssertEqual(t, predicted, board.InCheck(movegen.Black))
	testutil.AssertFalse(t, predicted, "vacated a1 misread as a checker")
}

func TestCheckmateAndStalemate(t *testing.T) {
	mate := movegen.MustParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	testutil.AssertTrue(t, mate.InCheckmate(), "fool's mate")
	testutil.AssertFalse(t, mate.InStalemate())
	testutil.AssertFalse(t, mate.HasLegalMoves())

	stale := movegen.MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	testutil.AssertTrue(t, stale.InStalemate(), "corner stalemate")
	testutil.AssertFalse(t, stale.InCheckmate())

	open := movegen.MustParseFEN(movegen.FENStartPos)
	testutil.AssertFalse(t, open.InCheckmate())
	testutil.AssertFalse(t, open.InStalemate())
	testutil.AssertTrue(t, open.HasLegalMoves())
}

func TestFindMove(t *testing.T) {
	board := movegen.MustParseFEN(movegen.FENStartPos)

	m, err := board.FindMove("e2e4")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.String(), "e2e4")
	testutil.AssertEqual(t, m.Kind(), movegen.KindDoublePush)

	_, err = board.FindMove("e2e5")
	testutil.AssertError(t, err, "illegal move must not resolve")
	_, err = board.FindMove("zz9x")
	testutil.AssertError(t, err, "garbage must not resolve")
}

func TestLegalMovesSlice(t *testing.T) {
	board := movegen.MustParseFEN(movegen.FENStartPos)
	moves := board.LegalMoves()
	testutil.AssertEqual(t, len(moves), 20)
}

func BenchmarkGenerateMoves(b *testing.B) {
	board := movegen.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var ml movegen.MoveList
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		board.GenerateMoves(&ml)
	}
}

func BenchmarkMakeUnmake(b *testing.B) {
	board := movegen.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var ml movegen.MoveList
	board.GenerateMoves(&ml)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := ml.At(i % ml.Len())
		board.MakeMove(m)
		board.UnmakeMove(m)
	}
}

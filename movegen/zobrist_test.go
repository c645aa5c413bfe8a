package movegen_test

import (
	"testing"

	"chess-movegen/internal/testutil"
	"chess-movegen/movegen"
)

// Two move orders reaching the same position must hash identically.
func TestHashTransposition(t *testing.T) {
	a := movegen.MustParseFEN(movegen.FENStartPos)
	for _, mv := range []string{"g1f3", "g8f6", "b1c3", "b8c6"} {
		m, err := a.FindMove(mv)
		testutil.AssertNoError(t, err, mv)
		a.MakeMove(m)
	}

	b := movegen.MustParseFEN(movegen.FENStartPos)
	for _, mv := range []string{"b1c3", "b8c6", "g1f3", "g8f6"} {
		m, err := b.FindMove(mv)
		testutil.AssertNoError(t, err, mv)
		b.MakeMove(m)
	}

	testutil.AssertEqual(t, a.Hash(), b.Hash())
	testutil.AssertEqual(t, a.ToFEN(), b.ToFEN())
}

// Positions differing only in the side to move must hash differently.
func TestHashDistinguishesSideToMove(t *testing.T) {
	w := movegen.MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	b := movegen.MustParseFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	testutil.AssertTrue(t, w.Hash() != b.Hash())
}

func TestHashDistinguishesCastlingRights(t *testing.T) {
	full := movegen.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	none := movegen.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	partial := movegen.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1")
	testutil.AssertTrue(t, full.Hash() != none.Hash())
	testutil.AssertTrue(t, full.Hash() != partial.Hash())
	testutil.AssertTrue(t, none.Hash() != partial.Hash())
}

// The en-passant key participates exactly when the square is recorded,
// which by construction means exactly when the capture is playable.
func TestHashEnPassantKey(t *testing.T) {
	with := movegen.MustParseFEN("8/8/8/8/k2Pp3/8/8/4K3 b - d3 0 1")
	without := movegen.MustParseFEN("8/8/8/8/k2Pp3/8/8/4K3 b - - 0 1")
	testutil.AssertTrue(t, with.Hash() != without.Hash())

	// A dead en-passant square hashes like no square at all.
	dead := movegen.MustParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	plain := movegen.MustParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	testutil.AssertEqual(t, dead.Hash(), plain.Hash())
}

// The clocks do not participate in the hash.
func TestHashIgnoresClocks(t *testing.T) {
	a := movegen.MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	b := movegen.MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 17 53")
	testutil.AssertEqual(t, a.Hash(), b.Hash())
}

// Keys are stable across process runs, so hashes can be persisted.
func TestHashDeterministic(t *testing.T) {
	a := movegen.MustParseFEN(movegen.FENStartPos)
	b := movegen.MustParseFEN(movegen.FENStartPos)
	testutil.AssertEqual(t, a.Hash(), b.Hash())
	testutil.AssertEqual(t, a.Hash(), a.ComputeZobrist())
}

func TestRepetitionDetection(t *testing.T) {
	board := movegen.MustParseFEN(movegen.FENStartPos)
	var history []uint64

	// Shuffle the knights out and back twice.
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	for i, mv := range shuffle {
		history = append(history, board.Hash())
		m, err := board.FindMove(mv)
		testutil.AssertNoError(t, err, mv)
		board.MakeMove(m)
		if i < len(shuffle)-1 {
			testutil.AssertFalse(t, board.IsDrawByRepetition(history), "premature repetition after %s", mv)
		}
	}
	testutil.AssertTrue(t, board.IsDrawByRepetition(history), "threefold not detected")
}

func TestDrawBy50(t *testing.T) {
	testutil.AssertFalse(t, movegen.MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 99 80").IsDrawBy50())
	testutil.AssertTrue(t, movegen.MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 100 80").IsDrawBy50())
}

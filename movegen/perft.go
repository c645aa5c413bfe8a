package movegen

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It is the standard correctness oracle for a move generator: any wrong,
// missing or duplicated move at any depth changes the count.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var ml MoveList
	b.GenerateMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		b.MakeMove(m)
		nodes += b.Perft(depth - 1)
		b.UnmakeMove(m)
	}
	return nodes
}

// PerftDivide returns the subtree count below each root move, keyed by the
// move in coordinate notation, along with the total. Comparing the split
// against a trusted engine localizes a perft mismatch to one root move.
func (b *Board) PerftDivide(depth int) (map[string]uint64, uint64) {
	split := make(map[string]uint64)
	if depth <= 0 {
		return split, 1
	}
	var ml MoveList
	b.GenerateMoves(&ml)
	var total uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		b.MakeMove(m)
		n := b.Perft(depth - 1)
		b.UnmakeMove(m)
		split[m.String()] = n
		total += n
	}
	return split, total
}

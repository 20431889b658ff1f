package deck

// NumHolePairs is the number of unordered 2-card combinations of 52 cards:
// C(52,2) = 1326.
const NumHolePairs = NumCards * (NumCards - 1) / 2

// HolePairIndex maps an unordered pair {i,j}, i<j, of card ids to its
// canonical index in [0, 1326). Callers pass ids in either order.
func HolePairIndex(a, b Card) int {
	i, j := int(a), int(b)
	if i > j {
		i, j = j, i
	}
	const n = NumCards
	return n*(n-1)/2 - (n-i)*(n-i-1)/2 + j - i - 1
}

// HoleCardIDs is the inverse of HolePairIndex: given idx in [0,1326) it
// returns the (low, high) card ids with low < high.
func HoleCardIDs(idx int) (Card, Card) {
	const n = NumCards
	for i := 0; i < n-1; i++ {
		rowStart := n*(n-1)/2 - (n-i)*(n-i-1)/2
		rowSize := n - i - 1
		if idx < rowStart+rowSize {
			j := idx - rowStart + i + 1
			return Card(i), Card(j)
		}
	}
	return -1, -1
}

// SharesCard reports whether hole-pair idx contains any of the given public
// cards, i.e. the hole-pair is no longer board-consistent.
func SharesCard(idx int, public []Card) bool {
	a, b := HoleCardIDs(idx)
	for _, c := range public {
		if a == c || b == c {
			return true
		}
	}
	return false
}

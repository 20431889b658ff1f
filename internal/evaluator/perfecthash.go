package evaluator

import (
	"sync"

	chd "github.com/opencoff/go-chd"

	"github.com/lox/resolvecore/internal/deck"
)

// suitWeight gives each suit a distinct power-of-eight digit so that summing
// a hand's per-card weights yields a base-8 number whose digits are exactly
// the per-suit card counts (no digit can carry since at most 7 cards are
// ever summed). SUITBIT_BY_ID is this per-card weight; SUITS decodes the sum.
var suitWeight = [deck.NumSuits]uint32{1, 8, 64, 512}

// suitbitByID maps card id -> suit weight.
var suitbitByID [deck.NumCards]uint32

// binariesByID maps card id -> 13-bit rank bitmask.
var binariesByID [deck.NumCards]uint32

// suits is the flush-detection perfect hash: suit-weight sum -> flush suit index
// (deck.Suit), or -1 if no suit reaches 5 cards. Built with go-chd over the
// (small, enumerable) set of sums that do contain a flush; any sum outside
// that key set is verified against the stored key and treated as "no flush".
var (
	suitsHash   *chd.Chd
	suitsValues []int8
	suitsKeys   []uint64
)

// flush maps a 13-bit same-suit rank mask (0..8191) to the
// best straight-flush/flush rank achievable from that mask.
var flush [8192]HandRank

// noFlush5/6/7 map hashQuinary(counts) -> rank for 5-, 6- and 7-card hands.
var (
	noFlush5 = map[uint32]HandRank{}
	noFlush6 = map[uint32]HandRank{}
	noFlush7 = map[uint32]HandRank{}
)

var tablesOnce sync.Once

func ensureTables() {
	tablesOnce.Do(buildTables)
}

func buildTables() {
	buildCardTables()
	buildSuitsPerfectHash()
	buildFlushTable()
	buildNoFlushTable(5, noFlush5)
	buildNoFlushTable(6, noFlush6)
	buildNoFlushTable(7, noFlush7)
}

func buildCardTables() {
	for id := 0; id < deck.NumCards; id++ {
		c := deck.Card(id)
		suitbitByID[id] = suitWeight[int(c.Suit())]
		binariesByID[id] = 1 << uint(int(c.Rank()))
	}
}

// decodeSuitSum reverses the base-8 packing to recover per-suit counts.
func decodeSuitSum(sum uint32) [deck.NumSuits]int {
	var counts [deck.NumSuits]int
	for s := 0; s < deck.NumSuits; s++ {
		counts[s] = int(sum % 8)
		sum /= 8
	}
	return counts
}

// buildSuitsPerfectHash enumerates every reachable suit-count sum for 5-,
// 6- and 7-card hands that contains a flush (i.e. some suit count >= 5),
// and builds a minimal perfect hash from those sums to the flush suit.
func buildSuitsPerfectHash() {
	seen := map[uint32]int8{}
	for total := 5; total <= 7; total++ {
		enumerateSuitCounts(total, func(counts [deck.NumSuits]int) {
			flushSuit := int8(-1)
			for s, c := range counts {
				if c >= 5 {
					flushSuit = int8(s)
					break
				}
			}
			if flushSuit < 0 {
				return
			}
			var sum uint32
			for s, c := range counts {
				sum += uint32(c) * suitWeight[s]
			}
			seen[sum] = flushSuit
		})
	}

	keys := make([]uint64, 0, len(seen))
	values := make([]int8, 0, len(seen))
	for sum, suit := range seen {
		keys = append(keys, uint64(sum))
		values = append(values, suit)
	}

	if len(keys) == 0 {
		return
	}

	builder, err := chd.New()
	if err != nil {
		// Fall back to a linear
		// scan rather than propagating a startup error for a table that
		// is purely a performance optimisation.
		suitsHash = nil
		suitsKeys = keys
		suitsValues = values
		return
	}
	for _, k := range keys {
		if err := builder.Add(k); err != nil {
			suitsHash = nil
			suitsKeys = keys
			suitsValues = values
			return
		}
	}
	h, err := builder.Freeze(0.9)
	if err != nil {
		suitsHash = nil
		suitsKeys = keys
		suitsValues = values
		return
	}

	// Find() only guarantees a unique slot per key among the set the MPH
	// was built over, and that slot space is larger than len(keys) (it's
	// sized by load factor). Re-index keys/values into slot order so
	// lookupFlushSuit can verify a hit by comparing the stored key.
	slotKeys := make([]uint64, h.Len())
	slotValues := make([]int8, h.Len())
	for i, k := range keys {
		idx := h.Find(k)
		slotKeys[idx] = k
		slotValues[idx] = values[i]
	}

	suitsHash = h
	suitsKeys = slotKeys
	suitsValues = slotValues
}

// enumerateSuitCounts calls fn for every (c0,c1,c2,c3) with each ci in
// [0,total] summing to total.
func enumerateSuitCounts(total int, fn func(counts [deck.NumSuits]int)) {
	var counts [deck.NumSuits]int
	var rec func(suit, remaining int)
	rec = func(suit, remaining int) {
		if suit == deck.NumSuits-1 {
			counts[suit] = remaining
			fn(counts)
			return
		}
		for c := 0; c <= remaining; c++ {
			counts[suit] = c
			rec(suit+1, remaining-c)
		}
	}
	rec(0, total)
}

// lookupFlushSuit returns the flush suit for a given suit-weight sum, or -1.
func lookupFlushSuit(sum uint32) int {
	key := uint64(sum)
	if suitsHash != nil {
		idx := suitsHash.Find(key)
		if int(idx) < len(suitsKeys) && suitsKeys[idx] == key {
			return int(suitsValues[idx])
		}
		return -1
	}
	for i, k := range suitsKeys {
		if k == key {
			return int(suitsValues[i])
		}
	}
	return -1
}

func buildFlushTable() {
	for mask := 0; mask < 8192; mask++ {
		if popcount13(mask) < 5 {
			continue
		}
		flush[mask] = evaluateFlushMask(uint32(mask))
	}
}

func popcount13(mask int) int {
	n := 0
	for i := 0; i < 13; i++ {
		if mask&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}

// hashQuinary packs a per-rank count vector (each digit 0..4) into a dense
// base-5 key. The two-plus-two/phevaluator scheme further compresses this
// via a combinatorial DP table into a contiguous array index; this module
// keeps the same contract (counts in, small integer out, O(1) lookup) but
// stores the no-flush tables as maps keyed on the packed digits, which
// avoids shipping the precomputed DP blobs.
func hashQuinary(counts [13]int) uint32 {
	var key uint32
	for r := 0; r < 13; r++ {
		key = key*5 + uint32(counts[r])
	}
	return key
}

func buildNoFlushTable(total int, table map[uint32]HandRank) {
	var counts [13]int
	var rec func(rank, remaining int)
	rec = func(rank, remaining int) {
		if rank == 12 {
			if remaining > 4 {
				return
			}
			counts[rank] = remaining
			table[hashQuinary(counts)] = classifyCounts(counts)
			return
		}
		maxHere := remaining
		if maxHere > 4 {
			maxHere = 4
		}
		for c := 0; c <= maxHere; c++ {
			counts[rank] = c
			rec(rank+1, remaining-c)
		}
	}
	rec(0, total)
}

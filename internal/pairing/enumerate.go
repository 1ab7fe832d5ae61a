package pairing

import "fmt"

// Hypothesis enumeration: every partial bijection between an island's
// A-sources and B-sources, the all-field (empty) assignment included.
// Candidate pairings for each A-source are tried before its field option, so
// hypotheses arrive most-paired first; the resolver's strict-maximum
// selection relies on this order, picking the most-paired hypothesis on
// exact ties.

// ErrOversizedIsland marks an island exceeding the tractable-enumeration
// bound. Island construction upstream is meant to keep groups small; a
// violation surfaces as an error rather than a truncated enumeration.
type ErrOversizedIsland struct {
	Island int
	Size   int
	Limit  int
}

func (e *ErrOversizedIsland) Error() string {
	return fmt.Sprintf("pairing: island %d has %d sources, exceeding the enumeration bound of %d",
		e.Island, e.Size, e.Limit)
}

// enumeratePairings visits every partial bijection between m A-slots and n
// B-slots. pairs holds (aSlot, bSlot) index pairs and is reused between
// visits; visitors must not retain it.
func enumeratePairings(m, n int, visit func(pairs [][2]int)) {
	used := make([]bool, n)
	pairs := make([][2]int, 0, min(m, n))
	var rec func(a int)
	rec = func(a int) {
		if a == m {
			visit(pairs)
			return
		}
		for b := 0; b < n; b++ {
			if used[b] {
				continue
			}
			used[b] = true
			pairs = append(pairs, [2]int{a, b})
			rec(a + 1)
			pairs = pairs[:len(pairs)-1]
			used[b] = false
		}
		// A-slot a as field.
		rec(a + 1)
	}
	rec(0)
}

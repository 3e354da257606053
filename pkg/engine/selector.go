package engine

// SelectNext decides which unordered pair to combine next. It is a pure
// function of its inputs: identical inventory, goals, memory, and library
// always produce the same pair, with no hidden randomness.
//
// The decision policy, in strict priority order:
//
//  1. Goal-directed: for each pending goal in declaration order, pick an
//     untried known recipe producing that goal whose ingredients are both in
//     the inventory. Among qualifying recipes the pair whose later ingredient
//     entered the inventory earliest wins, keeping behavior deterministic.
//  2. Recipe-directed: pick the first untried pair, in canonical order, that
//     appears in the recipe library. A known recipe is preferred over blind
//     exploration because it is guaranteed to confirm an element.
//  3. Blind exploration: pick the first untried pair in canonical order
//     (alphabetical by first name, then second).
//
// The second return is false when no untried pair remains among the current
// inventory, or the inventory holds fewer than two elements. That is a
// normal terminal condition, not an error.
func SelectNext(inv *Inventory, tracker *Tracker, mem *Memory, lib *Library) (Pair, bool) {
	if inv.Len() < 2 {
		return Pair{}, false
	}

	if pair, ok := selectGoalDirected(inv, tracker, mem, lib); ok {
		return pair, true
	}

	// Rules 2 and 3 share one scan over the canonical pair order: the first
	// untried library pair wins outright, and the first untried pair of any
	// kind is kept as the blind fallback.
	names := inv.Names()
	var blind Pair
	haveBlind := false
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			pair := NewPair(names[i], names[j])
			if mem.Tried(pair) {
				continue
			}
			if _, known := lib.Lookup(pair); known {
				return pair, true
			}
			if !haveBlind {
				blind = pair
				haveBlind = true
			}
		}
	}
	return blind, haveBlind
}

// selectGoalDirected implements the first policy rule.
func selectGoalDirected(inv *Inventory, tracker *Tracker, mem *Memory, lib *Library) (Pair, bool) {
	for _, goal := range tracker.Pending() {
		var best Pair
		bestLater, bestEarlier := -1, -1
		for _, pair := range lib.ProducersOf(goal.Name) {
			firstSeq, ok := inv.Seq(pair.First)
			if !ok {
				continue
			}
			secondSeq, ok := inv.Seq(pair.Second)
			if !ok {
				continue
			}
			if mem.Tried(pair) {
				continue
			}
			later, earlier := firstSeq, secondSeq
			if later < earlier {
				later, earlier = earlier, later
			}
			if bestLater == -1 || later < bestLater ||
				(later == bestLater && earlier < bestEarlier) {
				best = pair
				bestLater, bestEarlier = later, earlier
			}
		}
		if bestLater != -1 {
			return best, true
		}
	}
	return Pair{}, false
}

package tunadice

import "sort"

// file selector.go implements SetSelector matching (spec.md section 4.4):
// given the current values of a dice or number set's elements, which
// indices does a selector such as "l3", "h1", "<3", ">15", or a bare "2"
// pick out. Selection always considers the full candidate slice passed in;
// callers decide ahead of time whether that slice is "every element" (k/p)
// or "every currently-kept element" (rr/ro/ra/e).

// selectMatches returns the indices into vals chosen by sel.
func selectMatches(vals []float64, sel SetSelector) []int {
	switch sel.Cat {
	case SelNone:
		var out []int
		for i, v := range vals {
			if v == float64(sel.N) {
				out = append(out, i)
			}
		}
		return out
	case SelLT:
		var out []int
		for i, v := range vals {
			if v < float64(sel.N) {
				out = append(out, i)
			}
		}
		return out
	case SelGT:
		var out []int
		for i, v := range vals {
			if v > float64(sel.N) {
				out = append(out, i)
			}
		}
		return out
	case SelLow, SelHigh:
		order := make([]int, len(vals))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			if sel.Cat == SelLow {
				return vals[order[a]] < vals[order[b]]
			}
			return vals[order[a]] > vals[order[b]]
		})
		n := sel.N
		if n < 0 {
			n = 0
		}
		if n > len(order) {
			n = len(order)
		}
		return order[:n]
	default:
		return nil
	}
}

// unionMatches returns the deduplicated, ascending union of selectMatches
// across every selector in sels, which is how a same-op merged SetOperator
// (e.g. "k1k2" merging to a single "k" with two selectors) resolves: keep
// anything any one of its selectors would have kept.
func unionMatches(vals []float64, sels []SetSelector) []int {
	seen := make(map[int]bool)
	for _, sel := range sels {
		for _, i := range selectMatches(vals, sel) {
			seen[i] = true
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

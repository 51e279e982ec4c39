package tunadice

// file operators.go applies a parsed SetOperator (k, p, rr, ro, ra, e, mi,
// ma) to an already-rolled ExprDice or ExprSet, drawing whatever additional
// dice rr/ro/ra/e need through the same Source and RollContext the initial
// roll used. This is the dice-operator algebra from spec.md section 4.5.

// applySetOperator mutates target in place (flipping Kept() on elements,
// clamping die values, or growing an ExprDice's Dies) and recomputes its
// cached Number().
func applySetOperator(rc *RollContext, src Source, target ExprNode, op SetOperator) error {
	switch t := target.(type) {
	case *ExprDice:
		return applyDiceOperator(rc, src, t, op)
	case *ExprSet:
		return applySetOpOnSet(t, op)
	default:
		return newValueError("operator %q cannot be applied here", op.Op)
	}
}

func applySetOpOnSet(t *ExprSet, op SetOperator) error {
	switch op.Op {
	case "k":
		vals := nodeValues(t.Values)
		keep := unionMatches(vals, op.Sels)
		keepOnly(t.Values, keep)
	case "p":
		vals := nodeValues(t.Values)
		drop := unionMatches(vals, op.Sels)
		dropOnly(t.Values, drop)
	default:
		return newValueError("operator %q requires a dice set, not a plain number set", op.Op)
	}
	t.recompute()
	return nil
}

func applyDiceOperator(rc *RollContext, src Source, t *ExprDice, op SetOperator) error {
	var err error
	switch op.Op {
	case "k":
		vals := dieValues(t.Dies)
		keep := unionMatches(vals, op.Sels)
		keepOnlyDies(t.Dies, keep)
	case "p":
		vals := dieValues(t.Dies)
		drop := unionMatches(vals, op.Sels)
		dropOnlyDies(t.Dies, drop)
	case "rr":
		err = rerollWhile(rc, src, t, op.Sels)
	case "ro":
		err = rerollOnce(rc, src, t, op.Sels)
	case "ra":
		err = explodeOnce(rc, src, t, op.Sels)
	case "e":
		err = explodeWhile(rc, src, t, op.Sels)
	case "mi":
		err = clampDice(t, op.Sels, true)
	case "ma":
		err = clampDice(t, op.Sels, false)
	default:
		return newValueError("unknown set operator %q", op.Op)
	}
	if err != nil {
		return err
	}
	t.recompute()
	return nil
}

// clampDice forces every kept die below (mi) or above (ma) n to n, per
// spec.md section 4.4: the force_value that results extends the triggering
// die's own literal history rather than overwriting it.
func clampDice(t *ExprDice, sels []SetSelector, isMin bool) error {
	for _, sel := range sels {
		if sel.Cat != SelNone {
			op := "mi"
			if !isMin {
				op = "ma"
			}
			return newValueError("%q takes a plain integer bound, not a categorized selector", op)
		}
		for _, d := range t.Dies {
			if !d.Kept() {
				continue
			}
			if isMin && d.Number() < float64(sel.N) {
				d.forceValue(float64(sel.N))
			}
			if !isMin && d.Number() > float64(sel.N) {
				d.forceValue(float64(sel.N))
			}
		}
	}
	return nil
}

// rerollWhile redraws every kept die matching sels, repeating until none do,
// bounded only by the roll budget (spec.md section 4.5: "rr" is the
// canonical open-ended operator).
func rerollWhile(rc *RollContext, src Source, t *ExprDice, sels []SetSelector) error {
	for {
		idx, vals := keptDieIndex(t.Dies)
		match := unionMatches(vals, sels)
		if len(match) == 0 {
			return nil
		}
		for _, rel := range match {
			if err := rc.countRoll(1); err != nil {
				return err
			}
			t.Dies[idx[rel]].reroll(src)
		}
	}
}

// rerollOnce redraws every kept die matching sels exactly once, without
// re-checking the replacement value against sels.
func rerollOnce(rc *RollContext, src Source, t *ExprDice, sels []SetSelector) error {
	idx, vals := keptDieIndex(t.Dies)
	match := unionMatches(vals, sels)
	for _, rel := range match {
		if err := rc.countRoll(1); err != nil {
			return err
		}
		t.Dies[idx[rel]].reroll(src)
	}
	return nil
}

// explodeOnce adds one extra die for every kept die matching sels, leaving
// the originals untouched beyond flagging them as the trigger.
func explodeOnce(rc *RollContext, src Source, t *ExprDice, sels []SetSelector) error {
	idx, vals := keptDieIndex(t.Dies)
	match := unionMatches(vals, sels)
	for _, rel := range match {
		if err := rc.countRoll(1); err != nil {
			return err
		}
		t.Dies[idx[rel]].explode()
		t.Dies = append(t.Dies, newExprDie(src, t.Size, t.IsPercent))
	}
	return nil
}

// explodeWhile adds an extra die for every kept die matching sels, and then
// keeps chaining off each newly added die as long as it also matches,
// bounded only by the roll budget. A die is flagged exploded exactly when it
// is the one that caused the next draw.
func explodeWhile(rc *RollContext, src Source, t *ExprDice, sels []SetSelector) error {
	idx, vals := keptDieIndex(t.Dies)
	match := unionMatches(vals, sels)
	frontier := make([]*ExprDie, 0, len(match))
	for _, rel := range match {
		d := t.Dies[idx[rel]]
		d.explode()
		frontier = append(frontier, d)
	}

	for len(frontier) > 0 {
		frontier[0] = nil // aid GC before popping
		frontier = frontier[1:]
		if err := rc.countRoll(1); err != nil {
			return err
		}
		nd := newExprDie(src, t.Size, t.IsPercent)
		t.Dies = append(t.Dies, nd)
		if len(unionMatches([]float64{nd.Number()}, sels)) > 0 {
			nd.explode()
			frontier = append(frontier, nd)
		}
	}
	return nil
}

func rollValue(src Source, size int, isPercent bool) int {
	if isPercent {
		return rollPercentile(src)
	}
	return rollDie(src, size)
}

func dieValues(dies []*ExprDie) []float64 {
	out := make([]float64, len(dies))
	for i, d := range dies {
		out[i] = d.Number()
	}
	return out
}

// keptDieIndex returns the currently-kept dies' values, plus a slice mapping
// each returned value's position back to its index in dies.
func keptDieIndex(dies []*ExprDie) ([]int, []float64) {
	var idx []int
	var vals []float64
	for i, d := range dies {
		if d.Kept() {
			idx = append(idx, i)
			vals = append(vals, d.Number())
		}
	}
	return idx, vals
}

func keepOnlyDies(dies []*ExprDie, keep []int) {
	keepSet := indexSet(keep)
	for i, d := range dies {
		d.SetKept(keepSet[i])
	}
}

func dropOnlyDies(dies []*ExprDie, drop []int) {
	dropSet := indexSet(drop)
	for i, d := range dies {
		if dropSet[i] {
			d.SetKept(false)
		}
	}
}

func nodeValues(nodes []ExprNode) []float64 {
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = n.Number()
	}
	return out
}

func keepOnly(nodes []ExprNode, keep []int) {
	keepSet := indexSet(keep)
	for i, n := range nodes {
		n.SetKept(keepSet[i])
	}
}

func dropOnly(nodes []ExprNode, drop []int) {
	dropSet := indexSet(drop)
	for i, n := range nodes {
		if dropSet[i] {
			n.SetKept(false)
		}
	}
}

func indexSet(idx []int) map[int]bool {
	m := make(map[int]bool, len(idx))
	for _, i := range idx {
		m[i] = true
	}
	return m
}

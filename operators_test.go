package tunadice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedSource cycles through a fixed sequence of Intn results, so operator
// tests can pin down exactly which die values get drawn without touching
// math/rand.
type fixedSource struct {
	vals []int
	i    int
}

func (f *fixedSource) Intn(n int) int {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

// newLiteralDie builds a die slot already showing value, with no reroll
// history, for tests that need to pin down a starting roll without touching
// a Source.
func newLiteralDie(size, value int) *ExprDie {
	return &ExprDie{nodeAttrs: newNodeAttrs(), Size: size, Values: []*ExprLiteral{newExprLiteral(float64(value), false)}}
}

func newDice(size int, values ...int) *ExprDice {
	dies := make([]*ExprDie, len(values))
	for i, v := range values {
		dies[i] = newLiteralDie(size, v)
	}
	d := &ExprDice{nodeAttrs: newNodeAttrs(), Size: size, Dies: dies}
	d.recompute()
	return d
}

func Test_applyDiceOperator_keepHighest(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1, 4, 6, 2)
	rc := NewRollContext(0)
	op := SetOperator{Op: "k", Sels: []SetSelector{{Cat: SelHigh, N: 2}}}

	assert.NoError(applyDiceOperator(rc, nil, dice, op))
	assert.Equal(float64(10), dice.Number(), "keep-highest-2 of {1,4,6,2} keeps 6 and 4")
	assert.True(dice.Dies[1].Kept())
	assert.True(dice.Dies[2].Kept())
	assert.False(dice.Dies[0].Kept())
	assert.False(dice.Dies[3].Kept())
}

func Test_applyDiceOperator_dropLowest(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1, 4, 6, 2)
	rc := NewRollContext(0)
	op := SetOperator{Op: "p", Sels: []SetSelector{{Cat: SelLow, N: 1}}}

	assert.NoError(applyDiceOperator(rc, nil, dice, op))
	assert.Equal(float64(12), dice.Number(), "dropping the lowest (1) leaves 4+6+2=12")
	assert.False(dice.Dies[0].Kept())
}

func Test_applyDiceOperator_rerollWhile_terminatesWhenNoLongerMatching(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1)
	// First reroll draws a 5 (Intn returns 4), which no longer matches "==1"
	// so the loop must stop there.
	src := &fixedSource{vals: []int{4}}
	rc := NewRollContext(0)
	op := SetOperator{Op: "rr", Sels: []SetSelector{{Cat: SelNone, N: 1}}}

	assert.NoError(applyDiceOperator(rc, src, dice, op))
	assert.Equal(float64(5), dice.Number())
	assert.Equal(1, rc.Rolls())
}

func Test_applyDiceOperator_rerollWhile_exhaustsBudget(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1)
	// Every redraw comes back as a 1, which always matches, so this can only
	// ever terminate via the roll budget.
	src := &fixedSource{vals: []int{0}}
	rc := NewRollContext(5)
	op := SetOperator{Op: "rr", Sels: []SetSelector{{Cat: SelNone, N: 1}}}

	err := applyDiceOperator(rc, src, dice, op)
	assert.Error(err)
	var tme TooManyRollsError
	assert.True(errors.As(err, &tme))
}

func Test_applyDiceOperator_rerollOnce_doesNotRecheckReplacement(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1)
	src := &fixedSource{vals: []int{0}} // replacement also comes back as 1
	rc := NewRollContext(0)
	op := SetOperator{Op: "ro", Sels: []SetSelector{{Cat: SelNone, N: 1}}}

	assert.NoError(applyDiceOperator(rc, src, dice, op))
	assert.Equal(float64(1), dice.Number())
	assert.Equal(1, rc.Rolls(), "ro draws exactly once even though the replacement still matches")
}

func Test_applyDiceOperator_explodeOnce_addsOneDiePerMatch(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 6, 3)
	src := &fixedSource{vals: []int{2}} // new die comes back as 3, doesn't chain
	rc := NewRollContext(0)
	op := SetOperator{Op: "ra", Sels: []SetSelector{{Cat: SelNone, N: 6}}}

	assert.NoError(applyDiceOperator(rc, src, dice, op))
	assert.Len(dice.Dies, 3)
	assert.Equal(float64(6+3+3), dice.Number())
}

func Test_applyDiceOperator_explodeWhile_chainsUntilNoMatch(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 6)
	// First explosion also rolls a 6 (chains again), second rolls a 2 (stops).
	src := &fixedSource{vals: []int{5, 1}}
	rc := NewRollContext(0)
	op := SetOperator{Op: "e", Sels: []SetSelector{{Cat: SelNone, N: 6}}}

	assert.NoError(applyDiceOperator(rc, src, dice, op))
	assert.Len(dice.Dies, 3)
	assert.Equal(float64(6+6+2), dice.Number())
}

func Test_applyDiceOperator_explodeWhile_exhaustsBudget(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 6)
	src := &fixedSource{vals: []int{5}} // always rolls another 6
	rc := NewRollContext(3)
	op := SetOperator{Op: "e", Sels: []SetSelector{{Cat: SelNone, N: 6}}}

	err := applyDiceOperator(rc, src, dice, op)
	assert.Error(err)
	var tme TooManyRollsError
	assert.True(errors.As(err, &tme))
}

func Test_clampDice_min(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1, 4, 6)
	rc := NewRollContext(0)
	op := SetOperator{Op: "mi", Sels: []SetSelector{{Cat: SelNone, N: 3}}}

	assert.NoError(applyDiceOperator(rc, nil, dice, op))
	assert.Equal(float64(3+4+6), dice.Number())
}

func Test_clampDice_max(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1, 4, 6)
	rc := NewRollContext(0)
	op := SetOperator{Op: "ma", Sels: []SetSelector{{Cat: SelNone, N: 4}}}

	assert.NoError(applyDiceOperator(rc, nil, dice, op))
	assert.Equal(float64(1+4+4), dice.Number())
}

func Test_clampDice_rejectsCategorizedSelector(t *testing.T) {
	assert := assert.New(t)

	dice := newDice(6, 1, 4, 6)
	rc := NewRollContext(0)
	op := SetOperator{Op: "mi", Sels: []SetSelector{{Cat: SelHigh, N: 1}}}

	err := applyDiceOperator(rc, nil, dice, op)
	assert.Error(err)
	var ve ValueError
	assert.True(errors.As(err, &ve))
}

func Test_applySetOperator_plainSetRejectsDiceOnlyOps(t *testing.T) {
	assert := assert.New(t)

	set := &ExprSet{nodeAttrs: newNodeAttrs(), Values: []ExprNode{
		newExprLiteral(1, false),
	}}
	set.recompute()
	rc := NewRollContext(0)

	for _, opName := range []string{"rr", "ro", "ra", "e", "mi", "ma"} {
		op := SetOperator{Op: opName, Sels: []SetSelector{{Cat: SelNone, N: 1}}}
		err := applySetOperator(rc, nil, set, op)
		assert.Error(err, "operator %q must be rejected against a plain set", opName)
		var ve ValueError
		assert.True(errors.As(err, &ve))
	}
}

func Test_applySetOperator_plainSetAllowsKeepDrop(t *testing.T) {
	assert := assert.New(t)

	set := &ExprSet{nodeAttrs: newNodeAttrs(), Values: []ExprNode{
		newExprLiteral(1, false),
		newExprLiteral(9, false),
	}}
	set.recompute()
	rc := NewRollContext(0)

	op := SetOperator{Op: "k", Sels: []SetSelector{{Cat: SelHigh, N: 1}}}
	assert.NoError(applySetOperator(rc, nil, set, op))
	assert.Equal(float64(9), set.Number())
}

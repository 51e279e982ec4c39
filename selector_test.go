package tunadice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_selectMatches_bareValueSelectsExactMatches(t *testing.T) {
	assert := assert.New(t)

	vals := []float64{1, 3, 3, 5}
	got := selectMatches(vals, SetSelector{Cat: SelNone, N: 3})
	assert.Equal([]int{1, 2}, got)
}

func Test_selectMatches_lowAndHigh(t *testing.T) {
	assert := assert.New(t)

	vals := []float64{4, 1, 6, 2}

	low2 := selectMatches(vals, SetSelector{Cat: SelLow, N: 2})
	assert.ElementsMatch([]int{1, 3}, low2, "lowest two values are 1 (idx1) and 2 (idx3)")

	high1 := selectMatches(vals, SetSelector{Cat: SelHigh, N: 1})
	assert.Equal([]int{2}, high1, "highest value is 6 at idx2")
}

func Test_selectMatches_lowHigh_clampsOutOfRangeN(t *testing.T) {
	assert := assert.New(t)

	vals := []float64{1, 2, 3}
	assert.Len(selectMatches(vals, SetSelector{Cat: SelHigh, N: 10}), 3)
	assert.Len(selectMatches(vals, SetSelector{Cat: SelLow, N: -1}), 0)
}

func Test_selectMatches_ltGt(t *testing.T) {
	assert := assert.New(t)

	vals := []float64{1, 5, 10, 15}
	assert.Equal([]int{0, 1}, selectMatches(vals, SetSelector{Cat: SelLT, N: 10}))
	assert.Equal([]int{3}, selectMatches(vals, SetSelector{Cat: SelGT, N: 10}))
}

func Test_unionMatches_dedupesAcrossSelectors(t *testing.T) {
	assert := assert.New(t)

	vals := []float64{1, 2, 3, 2}
	got := unionMatches(vals, []SetSelector{
		{Cat: SelNone, N: 2},
		{Cat: SelNone, N: 3},
	})
	assert.Equal([]int{1, 2, 3}, got)
}

func Test_unionMatches_emptyWhenNoSelectorsMatch(t *testing.T) {
	assert := assert.New(t)

	vals := []float64{1, 2, 3}
	got := unionMatches(vals, []SetSelector{{Cat: SelNone, N: 99}})
	assert.Empty(got)
}

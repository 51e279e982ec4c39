package tunadice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Roller_Roll_basicArithmetic(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{0}})
	result, err := r.Roll("1 + 2 * 3")
	assert.NoError(err)
	assert.Equal(float64(7), result.Total())
}

func Test_Roller_Roll_drawsFromSource(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{19}}) // rollDie -> 20
	result, err := r.Roll("1d20")
	assert.NoError(err)
	assert.Equal(float64(20), result.Total())
	assert.Equal(1, r.RollsUsed())
}

func Test_Roller_Roll_parsesTrailingComment(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{0}})
	result, err := r.Roll("1d20 for initiative")
	assert.NoError(err)
	assert.True(result.HasComment)
	assert.Equal("for initiative", result.Comment)
}

func Test_Roller_RollAdvantage_keepsHigher(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{2, 15}}) // values 3, 16
	result, err := r.RollAdvantage("1d20", true)
	assert.NoError(err)
	assert.Equal(float64(16), result.Total())
}

func Test_Roller_RollAdvantage_disadvantageKeepsLower(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{2, 15}}) // values 3, 16
	result, err := r.RollAdvantage("1d20", false)
	assert.NoError(err)
	assert.Equal(float64(3), result.Total())
}

func Test_RollResult_Crit_naturalTwentyIsCritSuccess(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{19}})
	result, err := r.Roll("1d20")
	assert.NoError(err)
	assert.Equal(CritSuccess, result.Crit())
}

func Test_RollResult_Crit_naturalOneIsCritFail(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{0}})
	result, err := r.Roll("1d20")
	assert.NoError(err)
	assert.Equal(CritFail, result.Crit())
}

func Test_RollResult_Crit_ignoresDroppedDies(t *testing.T) {
	assert := assert.New(t)

	// 2d20kl1 rolls two d20s and keeps only the lower; a dropped natural 20
	// must not register as a crit.
	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{19, 0}}) // values 20, 1
	result, err := r.Roll("2d20kl1")
	assert.NoError(err)
	assert.Equal(CritFail, result.Crit(), "the kept (lower) die is a natural 1; the dropped natural 20 must be ignored")
}

func Test_RollResult_Crit_percentileDiceNeverCrit(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{0}})
	result, err := r.Roll("1d%")
	assert.NoError(err)
	assert.Equal(CritNone, result.Crit())
}

func Test_RollResult_Crit_noneWhenNoD20Present(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), &fixedSource{vals: []int{5}})
	result, err := r.Roll("1d6")
	assert.NoError(err)
	assert.Equal(CritNone, result.Crit())
}

func Test_Roller_Parse_usesCache(t *testing.T) {
	assert := assert.New(t)

	r := NewRoller(DefaultConfig(), nil)
	first, err := r.Parse("1d20 + 3", true)
	assert.NoError(err)
	second, err := r.Parse("1d20 + 3", true)
	assert.NoError(err)
	assert.True(first.Equal(second))
}

func Test_package_Roll_convenienceFunction(t *testing.T) {
	assert := assert.New(t)

	result, err := Roll("2 + 2")
	assert.NoError(err)
	assert.Equal(float64(4), result.Total())
}

package tunadice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_roundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "bare int", input: "3"},
		{name: "bare float", input: "3.5"},
		{name: "negative literal", input: "-3"},
		{name: "simple dice", input: "1d20"},
		{name: "implicit count", input: "d20"},
		{name: "percentile", input: "1d%"},
		{name: "arithmetic precedence", input: "1d20 + 3"},
		{name: "multiplicative over additive", input: "1 + 2 * 3"},
		{name: "floor division", input: "7 // 2"},
		{name: "comparison", input: "1d20 >= 15"},
		{name: "parenthetical", input: "(1 + 2) * 3"},
		{name: "number set", input: "(1, 2, 3)"},
		{name: "single element tuple", input: "(5,)"},
		{name: "keep highest", input: "4d6k3"},
		{name: "keep highest selector", input: "4d6kh3"},
		{name: "reroll while", input: "2d6rr1"},
		{name: "explode while", input: "1d6e6"},
		{name: "clamp min", input: "2d6mi2"},
		{name: "annotation", input: "1d20 [crit]"},
		{name: "multiple annotations", input: "1d20 [crit][fire]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ast, err := Parse(tc.input, false)
			assert.NoError(err)

			reparsed, err := Parse(ast.String(), false)
			assert.NoError(err)
			assert.True(ast.Equal(reparsed), "expected %q to round-trip, got %q", ast.String(), reparsed.String())
		})
	}
}

func Test_Parse_precedenceAndAssociativity(t *testing.T) {
	assert := assert.New(t)

	ast, err := Parse("1 + 2 * 3", false)
	assert.NoError(err)

	expect := ExpressionNode{Roll: BinOpNode{
		Left:  LiteralNode{IntVal: 1},
		Op:    "+",
		Right: BinOpNode{Left: LiteralNode{IntVal: 2}, Op: "*", Right: LiteralNode{IntVal: 3}},
	}}
	assert.True(expect.Equal(ast))

	ast, err = Parse("10 - 3 - 2", false)
	assert.NoError(err)
	expect = ExpressionNode{Roll: BinOpNode{
		Left:  BinOpNode{Left: LiteralNode{IntVal: 10}, Op: "-", Right: LiteralNode{IntVal: 3}},
		Op:    "-",
		Right: LiteralNode{IntVal: 2},
	}}
	assert.True(expect.Equal(ast), "subtraction must be left-associative")
}

func Test_Parse_unaryBindsTighterThanMultiplication(t *testing.T) {
	assert := assert.New(t)

	ast, err := Parse("-2*3", false)
	assert.NoError(err)

	expect := ExpressionNode{Roll: BinOpNode{
		Left:  UnOpNode{Op: "-", Operand: LiteralNode{IntVal: 2}},
		Op:    "*",
		Right: LiteralNode{IntVal: 3},
	}}
	assert.True(expect.Equal(ast), "expected (-2)*3, got %s", ast.String())
}

func Test_Parse_singleElementTupleRequiresTrailingComma(t *testing.T) {
	assert := assert.New(t)

	ast, err := Parse("(5,)", false)
	assert.NoError(err)
	assert.Equal(NodeNumberSet, ast.Roll.Type())

	ast, err = Parse("(5)", false)
	assert.NoError(err)
	assert.Equal(NodeParenthetical, ast.Roll.Type())
}

func Test_Parse_noCommentsRejectsTrailingInput(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("1d20 keep something", false)
	assert.Error(err)

	var synErr SyntaxError
	assert.ErrorAs(err, &synErr)
}

func Test_Parse_commentRescue(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		wantComment string
	}{
		{name: "free text comment, clean stop", input: "1d20 keep something", wantComment: "keep something"},
		{name: "markdown bold ambiguity", input: "1d20 **bold**", wantComment: "**bold**"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ast, err := Parse(tc.input, true)
			assert.NoError(err)
			assert.True(ast.HasComment)
			assert.Equal(tc.wantComment, ast.Comment)
		})
	}
}

func Test_Parse_commentRescue_failsWithoutAllowComments(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("1d20 **bold**", false)
	assert.Error(err)
}

func Test_Parse_syntaxErrorHasExpectedTokens(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("1 +", false)
	assert.Error(err)

	var synErr SyntaxError
	assert.ErrorAs(err, &synErr)
	assert.NotEmpty(synErr.Expected())
}

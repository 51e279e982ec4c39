package tunadice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SimpleStringifier_rendersDroppedDiesWithoutMarkup(t *testing.T) {
	assert := assert.New(t)

	kept := newLiteralDie(6, 6)
	dropped := newLiteralDie(6, 1)
	dropped.SetKept(false)
	dice := &ExprDice{nodeAttrs: newNodeAttrs(), Size: 6, Dies: []*ExprDie{kept, dropped}}
	dice.recompute()

	got := SimpleStringifier{}.StringifyNode(dice)
	assert.Equal("2d6 (6, 1)", got)
}

func Test_MarkdownStringifier_strikesThroughDroppedNode(t *testing.T) {
	assert := assert.New(t)

	dropped := newExprLiteral(3, false)
	dropped.SetKept(false)

	got := MarkdownStringifier{}.StringifyNode(dropped)
	assert.Equal("~~3~~", got)
}

func Test_MarkdownStringifier_doesNotDoubleWrapDroppedSubtree(t *testing.T) {
	assert := assert.New(t)

	innerDie := newLiteralDie(6, 2)
	dice := &ExprDice{nodeAttrs: newNodeAttrs(), Size: 6, Dies: []*ExprDie{innerDie}}
	dice.recompute()
	dice.SetKept(false)

	got := MarkdownStringifier{}.StringifyNode(dice)
	assert.Equal("~~1d6 (2)~~", got, "a kept die inside an already-dropped dice set must not get its own strikethrough")
}

func Test_MarkdownStringifier_Stringify_appendsTotalAndComment(t *testing.T) {
	assert := assert.New(t)

	lit := newExprLiteral(7, false)
	e := Expression{Roll: lit, Comment: "for initiative", HasComment: true}

	got := MarkdownStringifier{}.Stringify(e)
	assert.Equal("7 = `7` for initiative", got)
}

func Test_stringifyNode_appendsAnnotation(t *testing.T) {
	assert := assert.New(t)

	lit := newExprLiteral(10, false)
	lit.SetAnnotation("[fire]")

	got := SimpleStringifier{}.StringifyNode(lit)
	assert.Equal("10 [fire]", got)
}

func Test_DebugTree_includesCommentLine(t *testing.T) {
	assert := assert.New(t)

	lit := newExprLiteral(1, false)
	e := Expression{Roll: lit, Comment: "test note", HasComment: true}

	got := DebugTree(e)
	assert.Contains(got, "test note")
	assert.Contains(got, "Literal")
}

package tunadice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MarshalUnmarshalNode_roundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "literal", input: "3"},
		{name: "float literal", input: "3.5"},
		{name: "parenthetical", input: "(3)"},
		{name: "unop", input: "-3"},
		{name: "binop", input: "1 + 2 * 3"},
		{name: "annotated number", input: "3[crit][fire]"},
		{name: "number set", input: "(1, 2, 3)"},
		{name: "operated set", input: "(1, 2, 3)k2"},
		{name: "dice", input: "4d6"},
		{name: "percentile dice", input: "1d%"},
		{name: "operated dice", input: "4d6k3"},
		{name: "operated dice with selector", input: "4d6kh3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ast, err := Parse(tc.input, false)
			assert.NoError(err)

			data := MarshalNode(ast)
			got, err := UnmarshalNode(data)
			assert.NoError(err)
			assert.True(ast.Equal(got), "expected %q, got %q", ast.String(), got.String())
		})
	}
}

func Test_UnmarshalNode_unknownTagErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := UnmarshalNode([]byte{255})
	assert.Error(err)
	var ve ValueError
	assert.ErrorAs(err, &ve)
}

func Test_UnmarshalNode_truncatedDataErrors(t *testing.T) {
	assert := assert.New(t)

	ast, err := Parse("4d6k3", false)
	assert.NoError(err)
	data := MarshalNode(ast)

	_, err = UnmarshalNode(data[:len(data)-2])
	assert.Error(err)
}

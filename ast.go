package tunadice

import (
	"fmt"
	"strconv"
	"strings"
)

// file ast.go holds the AST data model (spec section 3): a pure syntactic
// tree produced by the parser, with no numeric values realized yet. The
// tagged-union shape (NodeType plus panicking As*Node accessors) mirrors
// tunascript/syntax.ASTNode, the teacher's own solution to modeling a closed
// set of concrete node variants behind one interface.

// NodeType identifies which concrete AST node variant a Node holds.
type NodeType int

const (
	NodeExpression NodeType = iota
	NodeLiteral
	NodeParenthetical
	NodeUnOp
	NodeBinOp
	NodeAnnotatedNumber
	NodeNumberSet
	NodeOperatedSet
	NodeDice
	NodeOperatedDice
)

func (t NodeType) String() string {
	switch t {
	case NodeExpression:
		return "EXPRESSION"
	case NodeLiteral:
		return "LITERAL"
	case NodeParenthetical:
		return "PARENTHETICAL"
	case NodeUnOp:
		return "UNOP"
	case NodeBinOp:
		return "BINOP"
	case NodeAnnotatedNumber:
		return "ANNOTATED_NUMBER"
	case NodeNumberSet:
		return "NUMBER_SET"
	case NodeOperatedSet:
		return "OPERATED_SET"
	case NodeDice:
		return "DICE"
	case NodeOperatedDice:
		return "OPERATED_DICE"
	default:
		return "UNKNOWN_NODE_TYPE"
	}
}

// Node is a member of the AST. Exactly one of the As*() accessors may be
// called on any given Node, selected by Type(); calling the wrong one panics.
type Node interface {
	Type() NodeType

	AsExpression() ExpressionNode
	AsLiteral() LiteralNode
	AsParenthetical() ParentheticalNode
	AsUnOp() UnOpNode
	AsBinOp() BinOpNode
	AsAnnotatedNumber() AnnotatedNumberNode
	AsNumberSet() NumberSetNode
	AsOperatedSet() OperatedSetNode
	AsDice() DiceNode
	AsOperatedDice() OperatedDiceNode

	// String renders tunadice source text that, if parsed, produces a node
	// equal to this one. It is not necessarily the exact source that
	// produced this node (whitespace is not preserved), which is what makes
	// it suitable for the round-trip property in spec.md section 8.
	String() string

	// Equal reports whether o is a Node with the same structure. It ignores
	// any source-position bookkeeping.
	Equal(o any) bool
}

// ExpressionNode is the AST root: a roll, plus an optional trailing free-text
// comment.
type ExpressionNode struct {
	Roll    Node
	Comment string
	HasComment bool
}

func (n ExpressionNode) Type() NodeType { return NodeExpression }
func (n ExpressionNode) AsExpression() ExpressionNode { return n }
func (n ExpressionNode) AsLiteral() LiteralNode { panic("Type() is not NodeLiteral") }
func (n ExpressionNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n ExpressionNode) AsUnOp() UnOpNode { panic("Type() is not NodeUnOp") }
func (n ExpressionNode) AsBinOp() BinOpNode { panic("Type() is not NodeBinOp") }
func (n ExpressionNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n ExpressionNode) AsNumberSet() NumberSetNode { panic("Type() is not NodeNumberSet") }
func (n ExpressionNode) AsOperatedSet() OperatedSetNode {
	panic("Type() is not NodeOperatedSet")
}
func (n ExpressionNode) AsDice() DiceNode { panic("Type() is not NodeDice") }
func (n ExpressionNode) AsOperatedDice() OperatedDiceNode {
	panic("Type() is not NodeOperatedDice")
}

func (n ExpressionNode) String() string {
	s := n.Roll.String()
	if n.HasComment {
		s += " " + n.Comment
	}
	return s
}

func (n ExpressionNode) Equal(o any) bool {
	other, ok := o.(ExpressionNode)
	if !ok {
		return false
	}
	return n.Roll.Equal(other.Roll) && n.HasComment == other.HasComment && n.Comment == other.Comment
}

// LiteralNode is a bare numeric literal: an int or a float.
type LiteralNode struct {
	IsFloat  bool
	IntVal   int
	FloatVal float64

	src token
}

func (n LiteralNode) Type() NodeType                   { return NodeLiteral }
func (n LiteralNode) AsExpression() ExpressionNode     { panic("Type() is not NodeExpression") }
func (n LiteralNode) AsLiteral() LiteralNode           { return n }
func (n LiteralNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n LiteralNode) AsUnOp() UnOpNode { panic("Type() is not NodeUnOp") }
func (n LiteralNode) AsBinOp() BinOpNode { panic("Type() is not NodeBinOp") }
func (n LiteralNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n LiteralNode) AsNumberSet() NumberSetNode { panic("Type() is not NodeNumberSet") }
func (n LiteralNode) AsOperatedSet() OperatedSetNode {
	panic("Type() is not NodeOperatedSet")
}
func (n LiteralNode) AsDice() DiceNode                   { panic("Type() is not NodeDice") }
func (n LiteralNode) AsOperatedDice() OperatedDiceNode { panic("Type() is not NodeOperatedDice") }

func (n LiteralNode) String() string {
	if n.IsFloat {
		return formatFloat(n.FloatVal)
	}
	return strconv.Itoa(n.IntVal)
}

func (n LiteralNode) Equal(o any) bool {
	other, ok := o.(LiteralNode)
	if !ok {
		return false
	}
	if n.IsFloat != other.IsFloat {
		return false
	}
	if n.IsFloat {
		return n.FloatVal == other.FloatVal
	}
	return n.IntVal == other.IntVal
}

// ParentheticalNode is a single parenthesized expression, '(' e ')'. A
// single-element NumberSet without a trailing comma collapses to this node
// at parse time (spec.md section 3 invariant).
type ParentheticalNode struct {
	Inner Node
}

func (n ParentheticalNode) Type() NodeType               { return NodeParenthetical }
func (n ParentheticalNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n ParentheticalNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n ParentheticalNode) AsParenthetical() ParentheticalNode { return n }
func (n ParentheticalNode) AsUnOp() UnOpNode             { panic("Type() is not NodeUnOp") }
func (n ParentheticalNode) AsBinOp() BinOpNode           { panic("Type() is not NodeBinOp") }
func (n ParentheticalNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n ParentheticalNode) AsNumberSet() NumberSetNode { panic("Type() is not NodeNumberSet") }
func (n ParentheticalNode) AsOperatedSet() OperatedSetNode {
	panic("Type() is not NodeOperatedSet")
}
func (n ParentheticalNode) AsDice() DiceNode { panic("Type() is not NodeDice") }
func (n ParentheticalNode) AsOperatedDice() OperatedDiceNode {
	panic("Type() is not NodeOperatedDice")
}

func (n ParentheticalNode) String() string {
	return "(" + n.Inner.String() + ")"
}

func (n ParentheticalNode) Equal(o any) bool {
	other, ok := o.(ParentheticalNode)
	if !ok {
		return false
	}
	return n.Inner.Equal(other.Inner)
}

// UnOpNode is a prefix '+' or '-' applied to an operand.
type UnOpNode struct {
	Op      string
	Operand Node
}

func (n UnOpNode) Type() NodeType               { return NodeUnOp }
func (n UnOpNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n UnOpNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n UnOpNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n UnOpNode) AsUnOp() UnOpNode { return n }
func (n UnOpNode) AsBinOp() BinOpNode { panic("Type() is not NodeBinOp") }
func (n UnOpNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n UnOpNode) AsNumberSet() NumberSetNode         { panic("Type() is not NodeNumberSet") }
func (n UnOpNode) AsOperatedSet() OperatedSetNode     { panic("Type() is not NodeOperatedSet") }
func (n UnOpNode) AsDice() DiceNode                   { panic("Type() is not NodeDice") }
func (n UnOpNode) AsOperatedDice() OperatedDiceNode   { panic("Type() is not NodeOperatedDice") }

func (n UnOpNode) String() string {
	return n.Op + n.Operand.String()
}

func (n UnOpNode) Equal(o any) bool {
	other, ok := o.(UnOpNode)
	if !ok {
		return false
	}
	return n.Op == other.Op && n.Operand.Equal(other.Operand)
}

// BinOpNode is a left-associative binary operation. Op is one of
// "+" "-" "*" "/" "//" "%" "==" "!=" "<" "<=" ">" ">=".
type BinOpNode struct {
	Left  Node
	Op    string
	Right Node
}

func (n BinOpNode) Type() NodeType               { return NodeBinOp }
func (n BinOpNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n BinOpNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n BinOpNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n BinOpNode) AsUnOp() UnOpNode   { panic("Type() is not NodeUnOp") }
func (n BinOpNode) AsBinOp() BinOpNode { return n }
func (n BinOpNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n BinOpNode) AsNumberSet() NumberSetNode       { panic("Type() is not NodeNumberSet") }
func (n BinOpNode) AsOperatedSet() OperatedSetNode   { panic("Type() is not NodeOperatedSet") }
func (n BinOpNode) AsDice() DiceNode                 { panic("Type() is not NodeDice") }
func (n BinOpNode) AsOperatedDice() OperatedDiceNode { panic("Type() is not NodeOperatedDice") }

func (n BinOpNode) String() string {
	return fmt.Sprintf("%s %s %s", n.Left.String(), n.Op, n.Right.String())
}

func (n BinOpNode) Equal(o any) bool {
	other, ok := o.(BinOpNode)
	if !ok {
		return false
	}
	return n.Op == other.Op && n.Left.Equal(other.Left) && n.Right.Equal(other.Right)
}

// isMultiplicative reports whether op is one of the multiplicative-level
// binary operators, used by simplifyAnnotations in treeutil.go to avoid inheriting an
// annotation onto the right operand of a product (spec.md section 4.8).
func isMultiplicative(op string) bool {
	switch op {
	case "*", "/", "//", "%":
		return true
	default:
		return false
	}
}

// AnnotatedNumberNode is `e [tag1][tag2]...`; multiple bracket tags
// concatenate at evaluation time.
type AnnotatedNumberNode struct {
	Inner       Node
	Annotations []string
}

func (n AnnotatedNumberNode) Type() NodeType               { return NodeAnnotatedNumber }
func (n AnnotatedNumberNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n AnnotatedNumberNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n AnnotatedNumberNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n AnnotatedNumberNode) AsUnOp() UnOpNode     { panic("Type() is not NodeUnOp") }
func (n AnnotatedNumberNode) AsBinOp() BinOpNode   { panic("Type() is not NodeBinOp") }
func (n AnnotatedNumberNode) AsAnnotatedNumber() AnnotatedNumberNode { return n }
func (n AnnotatedNumberNode) AsNumberSet() NumberSetNode {
	panic("Type() is not NodeNumberSet")
}
func (n AnnotatedNumberNode) AsOperatedSet() OperatedSetNode {
	panic("Type() is not NodeOperatedSet")
}
func (n AnnotatedNumberNode) AsDice() DiceNode { panic("Type() is not NodeDice") }
func (n AnnotatedNumberNode) AsOperatedDice() OperatedDiceNode {
	panic("Type() is not NodeOperatedDice")
}

func (n AnnotatedNumberNode) String() string {
	var sb strings.Builder
	sb.WriteString(n.Inner.String())
	for _, a := range n.Annotations {
		sb.WriteString(" [")
		sb.WriteString(a)
		sb.WriteString("]")
	}
	return sb.String()
}

func (n AnnotatedNumberNode) Equal(o any) bool {
	other, ok := o.(AnnotatedNumberNode)
	if !ok {
		return false
	}
	if !n.Inner.Equal(other.Inner) {
		return false
	}
	if len(n.Annotations) != len(other.Annotations) {
		return false
	}
	for i := range n.Annotations {
		if n.Annotations[i] != other.Annotations[i] {
			return false
		}
	}
	return true
}

// NumberSetNode is a parenthesized, comma-separated tuple of expressions,
// `(a, b, c)`. A length-1 tuple requires a trailing comma; without one, the
// parser collapses it to a ParentheticalNode instead (spec.md section 3).
type NumberSetNode struct {
	Values []Node
}

func (n NumberSetNode) Type() NodeType               { return NodeNumberSet }
func (n NumberSetNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n NumberSetNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n NumberSetNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n NumberSetNode) AsUnOp() UnOpNode   { panic("Type() is not NodeUnOp") }
func (n NumberSetNode) AsBinOp() BinOpNode { panic("Type() is not NodeBinOp") }
func (n NumberSetNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n NumberSetNode) AsNumberSet() NumberSetNode { return n }
func (n NumberSetNode) AsOperatedSet() OperatedSetNode {
	panic("Type() is not NodeOperatedSet")
}
func (n NumberSetNode) AsDice() DiceNode { panic("Type() is not NodeDice") }
func (n NumberSetNode) AsOperatedDice() OperatedDiceNode {
	panic("Type() is not NodeOperatedDice")
}

func (n NumberSetNode) String() string {
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = v.String()
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (n NumberSetNode) Equal(o any) bool {
	other, ok := o.(NumberSetNode)
	if !ok {
		return false
	}
	if len(n.Values) != len(other.Values) {
		return false
	}
	for i := range n.Values {
		if !n.Values[i].Equal(other.Values[i]) {
			return false
		}
	}
	return true
}

// OperatedSetNode is a NumberSet followed by one or more k/p operator
// applications.
type OperatedSetNode struct {
	Inner NumberSetNode
	Ops   []SetOperator
}

func (n OperatedSetNode) Type() NodeType               { return NodeOperatedSet }
func (n OperatedSetNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n OperatedSetNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n OperatedSetNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n OperatedSetNode) AsUnOp() UnOpNode   { panic("Type() is not NodeUnOp") }
func (n OperatedSetNode) AsBinOp() BinOpNode { panic("Type() is not NodeBinOp") }
func (n OperatedSetNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n OperatedSetNode) AsNumberSet() NumberSetNode     { panic("Type() is not NodeNumberSet") }
func (n OperatedSetNode) AsOperatedSet() OperatedSetNode { return n }
func (n OperatedSetNode) AsDice() DiceNode               { panic("Type() is not NodeDice") }
func (n OperatedSetNode) AsOperatedDice() OperatedDiceNode {
	panic("Type() is not NodeOperatedDice")
}

func (n OperatedSetNode) String() string {
	var sb strings.Builder
	sb.WriteString(n.Inner.String())
	for _, op := range n.Ops {
		sb.WriteString(op.String())
	}
	return sb.String()
}

func (n OperatedSetNode) Equal(o any) bool {
	other, ok := o.(OperatedSetNode)
	if !ok {
		return false
	}
	if !n.Inner.Equal(other.Inner) {
		return false
	}
	if len(n.Ops) != len(other.Ops) {
		return false
	}
	for i := range n.Ops {
		if !n.Ops[i].Equal(other.Ops[i]) {
			return false
		}
	}
	return true
}

// DiceNode is `NdS`: Num dice of Size sides. IsPercent marks the '%'
// sentinel size (d100 that yields multiples of 10 in [0, 90]).
type DiceNode struct {
	Num       int
	Size      int
	IsPercent bool

	src token
}

func (n DiceNode) Type() NodeType               { return NodeDice }
func (n DiceNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n DiceNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n DiceNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n DiceNode) AsUnOp() UnOpNode   { panic("Type() is not NodeUnOp") }
func (n DiceNode) AsBinOp() BinOpNode { panic("Type() is not NodeBinOp") }
func (n DiceNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n DiceNode) AsNumberSet() NumberSetNode { panic("Type() is not NodeNumberSet") }
func (n DiceNode) AsOperatedSet() OperatedSetNode {
	panic("Type() is not NodeOperatedSet")
}
func (n DiceNode) AsDice() DiceNode { return n }
func (n DiceNode) AsOperatedDice() OperatedDiceNode {
	panic("Type() is not NodeOperatedDice")
}

func (n DiceNode) String() string {
	size := strconv.Itoa(n.Size)
	if n.IsPercent {
		size = "%"
	}
	return fmt.Sprintf("%dd%s", n.Num, size)
}

func (n DiceNode) Equal(o any) bool {
	other, ok := o.(DiceNode)
	if !ok {
		return false
	}
	return n.Num == other.Num && n.Size == other.Size && n.IsPercent == other.IsPercent
}

// OperatedDiceNode is a Dice followed by one or more operator applications
// (k, p, rr, ro, ra, e, mi, ma).
type OperatedDiceNode struct {
	Inner DiceNode
	Ops   []SetOperator
}

func (n OperatedDiceNode) Type() NodeType               { return NodeOperatedDice }
func (n OperatedDiceNode) AsExpression() ExpressionNode { panic("Type() is not NodeExpression") }
func (n OperatedDiceNode) AsLiteral() LiteralNode       { panic("Type() is not NodeLiteral") }
func (n OperatedDiceNode) AsParenthetical() ParentheticalNode {
	panic("Type() is not NodeParenthetical")
}
func (n OperatedDiceNode) AsUnOp() UnOpNode   { panic("Type() is not NodeUnOp") }
func (n OperatedDiceNode) AsBinOp() BinOpNode { panic("Type() is not NodeBinOp") }
func (n OperatedDiceNode) AsAnnotatedNumber() AnnotatedNumberNode {
	panic("Type() is not NodeAnnotatedNumber")
}
func (n OperatedDiceNode) AsNumberSet() NumberSetNode { panic("Type() is not NodeNumberSet") }
func (n OperatedDiceNode) AsOperatedSet() OperatedSetNode {
	panic("Type() is not NodeOperatedSet")
}
func (n OperatedDiceNode) AsDice() DiceNode                   { panic("Type() is not NodeDice") }
func (n OperatedDiceNode) AsOperatedDice() OperatedDiceNode { return n }

func (n OperatedDiceNode) String() string {
	var sb strings.Builder
	sb.WriteString(n.Inner.String())
	for _, op := range n.Ops {
		sb.WriteString(op.String())
	}
	return sb.String()
}

func (n OperatedDiceNode) Equal(o any) bool {
	other, ok := o.(OperatedDiceNode)
	if !ok {
		return false
	}
	if !n.Inner.Equal(other.Inner) {
		return false
	}
	if len(n.Ops) != len(other.Ops) {
		return false
	}
	for i := range n.Ops {
		if !n.Ops[i].Equal(other.Ops[i]) {
			return false
		}
	}
	return true
}

// SetOperator is one op applied to one or more selectors, e.g. the "k(1,2,3)"
// in "k1k2k3" after simplification. Op is one of
// "k" "p" "rr" "ro" "ra" "e" "mi" "ma".
type SetOperator struct {
	Op   string
	Sels []SetSelector
}

func (op SetOperator) String() string {
	var sb strings.Builder
	sb.WriteString(op.Op)
	for i, s := range op.Sels {
		if i > 0 {
			sb.WriteString(op.Op)
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

func (op SetOperator) Equal(o SetOperator) bool {
	if op.Op != o.Op {
		return false
	}
	if len(op.Sels) != len(o.Sels) {
		return false
	}
	for i := range op.Sels {
		if op.Sels[i] != o.Sels[i] {
			return false
		}
	}
	return true
}

// SelectorCategory distinguishes the five selector kinds from spec.md
// section 4.4.
type SelectorCategory byte

const (
	SelNone SelectorCategory = 0
	SelLow  SelectorCategory = 'l'
	SelHigh SelectorCategory = 'h'
	SelLT   SelectorCategory = '<'
	SelGT   SelectorCategory = '>'
)

// SetSelector chooses a subset of a target's keptset: the N lowest/highest,
// or all elements satisfying a comparison against N, or (SelNone) all
// elements exactly equal to N.
type SetSelector struct {
	Cat SelectorCategory
	N   int
}

func (s SetSelector) String() string {
	if s.Cat == SelNone {
		return strconv.Itoa(s.N)
	}
	return string(rune(s.Cat)) + strconv.Itoa(s.N)
}

// appendSetOp appends op to ops, applying the AST-construction-time
// simplification from spec.md section 3: adjacent operators with the same Op
// merge their selector lists, except for "mi"/"ma" which are never merged
// (each retains its own immediate clamp).
func appendSetOp(ops []SetOperator, op SetOperator) []SetOperator {
	if len(ops) > 0 {
		last := &ops[len(ops)-1]
		if last.Op == op.Op && op.Op != "mi" && op.Op != "ma" {
			last.Sels = append(last.Sels, op.Sels...)
			return ops
		}
	}
	return append(ops, op)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

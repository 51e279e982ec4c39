package tunadice

import "math"

// file evaluator.go walks an AST produced by parser.go and realizes it into
// the expression tree from expr.go, drawing dice through src and charging
// every draw against rc. This is the dispatch table from spec.md section
// 4.3: one function per Node variant, switched on Node.Type().

// evaluate realizes a parsed roll. The AST is never mutated; every node in
// the returned tree is fresh.
func evaluate(rc *RollContext, src Source, n Node) (ExprNode, error) {
	switch n.Type() {
	case NodeLiteral:
		return evalLiteral(n.AsLiteral()), nil
	case NodeParenthetical:
		return evalParenthetical(rc, src, n.AsParenthetical())
	case NodeUnOp:
		return evalUnOp(rc, src, n.AsUnOp())
	case NodeBinOp:
		return evalBinOp(rc, src, n.AsBinOp())
	case NodeAnnotatedNumber:
		return evalAnnotatedNumber(rc, src, n.AsAnnotatedNumber())
	case NodeNumberSet:
		return evalNumberSet(rc, src, n.AsNumberSet())
	case NodeOperatedSet:
		return evalOperatedSet(rc, src, n.AsOperatedSet())
	case NodeDice:
		return evalDice(rc, src, n.AsDice())
	case NodeOperatedDice:
		return evalOperatedDice(rc, src, n.AsOperatedDice())
	default:
		return nil, newValueError("cannot evaluate node of type %s", n.Type())
	}
}

// Evaluate realizes a full parsed roll expression into its Expression tree,
// which is what Roller.Roll calls after Parse.
func Evaluate(rc *RollContext, src Source, e ExpressionNode) (Expression, error) {
	roll, err := evaluate(rc, src, e.Roll)
	if err != nil {
		return Expression{}, err
	}
	return Expression{Roll: roll, Comment: e.Comment, HasComment: e.HasComment}, nil
}

func evalLiteral(n LiteralNode) ExprNode {
	if n.IsFloat {
		return newExprLiteral(n.FloatVal, true)
	}
	return newExprLiteral(float64(n.IntVal), false)
}

func evalParenthetical(rc *RollContext, src Source, n ParentheticalNode) (ExprNode, error) {
	inner, err := evaluate(rc, src, n.Inner)
	if err != nil {
		return nil, err
	}
	return &ExprParenthetical{nodeAttrs: newNodeAttrs(), Inner: inner}, nil
}

func evalUnOp(rc *RollContext, src Source, n UnOpNode) (ExprNode, error) {
	operand, err := evaluate(rc, src, n.Operand)
	if err != nil {
		return nil, err
	}
	v := operand.Number()
	if n.Op == "-" {
		v = -v
	}
	return &ExprUnOp{
		nodeAttrs: newNodeAttrs(), Op: n.Op, Operand: operand,
		Value: v, IsFloatVal: !operand.IsInt(),
	}, nil
}

func evalBinOp(rc *RollContext, src Source, n BinOpNode) (ExprNode, error) {
	left, err := evaluate(rc, src, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := evaluate(rc, src, n.Right)
	if err != nil {
		return nil, err
	}

	val, isFloat, err := computeBinOp(n.Op, left.Number(), right.Number(), !left.IsInt(), !right.IsInt())
	if err != nil {
		return nil, err
	}
	return &ExprBinOp{
		nodeAttrs: newNodeAttrs(), Left: left, Right: right, Op: n.Op,
		Value: val, IsFloatVal: isFloat,
	}, nil
}

func computeBinOp(op string, l, r float64, lFloat, rFloat bool) (float64, bool, error) {
	switch op {
	case "+":
		return l + r, lFloat || rFloat, nil
	case "-":
		return l - r, lFloat || rFloat, nil
	case "*":
		return l * r, lFloat || rFloat, nil
	case "/":
		if r == 0 {
			return 0, false, newValueError("division by zero")
		}
		return l / r, true, nil
	case "//":
		if r == 0 {
			return 0, false, newValueError("division by zero")
		}
		return math.Floor(l / r), false, nil
	case "%":
		if r == 0 {
			return 0, false, newValueError("modulo by zero")
		}
		return math.Mod(l, r), lFloat || rFloat, nil
	case "==":
		return boolNum(l == r), false, nil
	case "!=":
		return boolNum(l != r), false, nil
	case "<":
		return boolNum(l < r), false, nil
	case "<=":
		return boolNum(l <= r), false, nil
	case ">":
		return boolNum(l > r), false, nil
	case ">=":
		return boolNum(l >= r), false, nil
	default:
		return 0, false, newValueError("unknown operator %q", op)
	}
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func evalAnnotatedNumber(rc *RollContext, src Source, n AnnotatedNumberNode) (ExprNode, error) {
	inner, err := evaluate(rc, src, n.Inner)
	if err != nil {
		return nil, err
	}
	concat := ""
	for _, a := range n.Annotations {
		concat += "[" + a + "]"
	}
	inner.SetAnnotation(concat)
	return inner, nil
}

func evalNumberSet(rc *RollContext, src Source, n NumberSetNode) (*ExprSet, error) {
	values := make([]ExprNode, len(n.Values))
	for i, v := range n.Values {
		ev, err := evaluate(rc, src, v)
		if err != nil {
			return nil, err
		}
		values[i] = ev
	}
	set := &ExprSet{nodeAttrs: newNodeAttrs(), Values: values}
	set.recompute()
	return set, nil
}

func evalOperatedSet(rc *RollContext, src Source, n OperatedSetNode) (ExprNode, error) {
	set, err := evalNumberSet(rc, src, n.Inner)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		if err := applySetOperator(rc, src, set, op); err != nil {
			return nil, err
		}
		set.Operations = append(set.Operations, op)
	}
	return set, nil
}

func evalDice(rc *RollContext, src Source, n DiceNode) (*ExprDice, error) {
	if n.Num < 0 {
		return nil, newValueError("dice count cannot be negative: %d", n.Num)
	}
	if !n.IsPercent && n.Size < 1 {
		return nil, newValueError("die size must be at least 1, got %d", n.Size)
	}

	if err := rc.countRoll(n.Num); err != nil {
		return nil, err
	}

	dies := make([]*ExprDie, n.Num)
	for i := 0; i < n.Num; i++ {
		dies[i] = newExprDie(src, n.Size, n.IsPercent)
	}

	dice := &ExprDice{nodeAttrs: newNodeAttrs(), Size: n.Size, IsPercent: n.IsPercent, Dies: dies}
	dice.recompute()
	return dice, nil
}

func evalOperatedDice(rc *RollContext, src Source, n OperatedDiceNode) (ExprNode, error) {
	dice, err := evalDice(rc, src, n.Inner)
	if err != nil {
		return nil, err
	}
	for _, op := range n.Ops {
		if err := applySetOperator(rc, src, dice, op); err != nil {
			return nil, err
		}
		dice.Operations = append(dice.Operations, op)
	}
	return dice, nil
}

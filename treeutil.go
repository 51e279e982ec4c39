package tunadice

// file treeutil.go holds the tree utilities from spec.md sections 4.7-4.9:
// the AST-level advantage/disadvantage rewrite, a generic bottom-up map, a
// pre-order walk, and the leftmost/rightmost spine walks, all operating on
// the pure AST (ast.go) before evaluation and side-effect-free (every one
// returns a new tree rather than mutating its argument, since AST node
// variants are plain structs passed by value through the Node interface).
//
// The annotation/literal simplifications (section 4.8) and the crit walk
// (section 4.9) instead operate on the realized expression tree (expr.go),
// after evaluation. The crit walk only reads it; the simplifications mutate it
// in place - ExprNode variants are always pointers, so there's no value-copy
// to thread back out the way the AST utilities above do.

// AdvantageCopy rewrites n to roll twice and keep only the highest (or, if
// !advantage, the lowest) result, but only for the first dice expression
// reachable by walking the leftmost child at every level (Expression.Roll,
// Parenthetical.Inner, UnOp.Operand, BinOp.Left, AnnotatedNumber.Inner).
// Everything off that spine, and everything below the dice expression it
// finds, is structurally shared with n rather than copied - only the nodes
// actually on the spine are rebuilt. If the spine doesn't reach a Dice or
// OperatedDice before terminating (a NumberSet, OperatedSet, or Literal),
// n is returned unchanged: advantage only ever touches one NdS.
func AdvantageCopy(n Node, advantage bool) Node {
	sel := SetSelector{Cat: SelHigh, N: 1}
	if !advantage {
		sel = SetSelector{Cat: SelLow, N: 1}
	}
	kOp := SetOperator{Op: "k", Sels: []SetSelector{sel}}

	switch n.Type() {
	case NodeExpression:
		e := n.AsExpression()
		e.Roll = AdvantageCopy(e.Roll, advantage)
		return e
	case NodeParenthetical:
		p := n.AsParenthetical()
		p.Inner = AdvantageCopy(p.Inner, advantage)
		return p
	case NodeUnOp:
		u := n.AsUnOp()
		u.Operand = AdvantageCopy(u.Operand, advantage)
		return u
	case NodeBinOp:
		b := n.AsBinOp()
		b.Left = AdvantageCopy(b.Left, advantage)
		return b
	case NodeAnnotatedNumber:
		a := n.AsAnnotatedNumber()
		a.Inner = AdvantageCopy(a.Inner, advantage)
		return a
	case NodeDice:
		d := n.AsDice()
		d.Num *= 2
		return OperatedDiceNode{Inner: d, Ops: []SetOperator{kOp}}
	case NodeOperatedDice:
		od := n.AsOperatedDice()
		od.Inner.Num *= 2
		ops := make([]SetOperator, len(od.Ops))
		copy(ops, od.Ops)
		od.Ops = appendSetOp(ops, kOp)
		return od
	default:
		// NumberSet, OperatedSet, Literal: no dice on the spine to double.
		return n
	}
}

// TreeMap rebuilds n bottom-up, calling f on every node after its children
// have already been rebuilt (and had f applied to them in turn). f must
// return a node of a shape compatible with wherever it's being substituted
// back in - the generic container fields (BinOp.Left/Right, Parenthetical
// and AnnotatedNumber's Inner, Expression.Roll, the elements of a
// NumberSet/OperatedSet) all hold a Node and accept anything; swapping out
// a Dice or a NumberSet's own internals for something of a different shape
// is fine so long as the surrounding structure stays well-formed.
func TreeMap(n Node, f func(Node) Node) Node {
	switch n.Type() {
	case NodeExpression:
		e := n.AsExpression()
		e.Roll = TreeMap(e.Roll, f)
		return f(e)
	case NodeParenthetical:
		p := n.AsParenthetical()
		p.Inner = TreeMap(p.Inner, f)
		return f(p)
	case NodeUnOp:
		u := n.AsUnOp()
		u.Operand = TreeMap(u.Operand, f)
		return f(u)
	case NodeBinOp:
		b := n.AsBinOp()
		b.Left = TreeMap(b.Left, f)
		b.Right = TreeMap(b.Right, f)
		return f(b)
	case NodeAnnotatedNumber:
		a := n.AsAnnotatedNumber()
		a.Inner = TreeMap(a.Inner, f)
		return f(a)
	case NodeNumberSet:
		s := n.AsNumberSet()
		vals := make([]Node, len(s.Values))
		for i, v := range s.Values {
			vals[i] = TreeMap(v, f)
		}
		s.Values = vals
		return f(s)
	case NodeOperatedSet:
		o := n.AsOperatedSet()
		vals := make([]Node, len(o.Inner.Values))
		for i, v := range o.Inner.Values {
			vals[i] = TreeMap(v, f)
		}
		o.Inner = NumberSetNode{Values: vals}
		return f(o)
	default:
		// Literal, Dice, OperatedDice: leaves with no Node-typed children.
		return f(n)
	}
}

// Dfs visits n and every descendant in pre-order (parent before children,
// left before right).
func Dfs(n Node, visit func(Node)) {
	visit(n)
	switch n.Type() {
	case NodeExpression:
		Dfs(n.AsExpression().Roll, visit)
	case NodeParenthetical:
		Dfs(n.AsParenthetical().Inner, visit)
	case NodeUnOp:
		Dfs(n.AsUnOp().Operand, visit)
	case NodeBinOp:
		b := n.AsBinOp()
		Dfs(b.Left, visit)
		Dfs(b.Right, visit)
	case NodeAnnotatedNumber:
		Dfs(n.AsAnnotatedNumber().Inner, visit)
	case NodeNumberSet:
		for _, v := range n.AsNumberSet().Values {
			Dfs(v, visit)
		}
	case NodeOperatedSet:
		for _, v := range n.AsOperatedSet().Inner.Values {
			Dfs(v, visit)
		}
	}
}

func leftmostChild(n Node) (Node, bool) {
	switch n.Type() {
	case NodeExpression:
		return n.AsExpression().Roll, true
	case NodeParenthetical:
		return n.AsParenthetical().Inner, true
	case NodeUnOp:
		return n.AsUnOp().Operand, true
	case NodeBinOp:
		return n.AsBinOp().Left, true
	case NodeAnnotatedNumber:
		return n.AsAnnotatedNumber().Inner, true
	default:
		return nil, false
	}
}

func rightmostChild(n Node) (Node, bool) {
	switch n.Type() {
	case NodeExpression:
		return n.AsExpression().Roll, true
	case NodeParenthetical:
		return n.AsParenthetical().Inner, true
	case NodeUnOp:
		return n.AsUnOp().Operand, true
	case NodeBinOp:
		return n.AsBinOp().Right, true
	case NodeAnnotatedNumber:
		return n.AsAnnotatedNumber().Inner, true
	default:
		return nil, false
	}
}

// Leftmost walks n's leftmost-child spine to its end.
func Leftmost(n Node) Node {
	for {
		c, ok := leftmostChild(n)
		if !ok {
			return n
		}
		n = c
	}
}

// Rightmost walks n's rightmost-child spine to its end.
func Rightmost(n Node) Node {
	for {
		c, ok := rightmostChild(n)
		if !ok {
			return n
		}
		n = c
	}
}

func exprLeftmostChild(n ExprNode) (ExprNode, bool) {
	switch t := n.(type) {
	case *ExprUnOp:
		return t.Operand, true
	case *ExprBinOp:
		return t.Left, true
	case *ExprParenthetical:
		return t.Inner, true
	default:
		return nil, false
	}
}

// ExprLeftmost walks n's leftmost-child spine to its end, the expression-
// tree counterpart of Leftmost used by the crit walk (spec.md section 4.9).
func ExprLeftmost(n ExprNode) ExprNode {
	for {
		c, ok := exprLeftmostChild(n)
		if !ok {
			return n
		}
		n = c
	}
}

// exprChildren returns n's annotatable sub-expressions for the simplify
// walks below - distinct from elements(), which scopes selector matching
// instead. A Dice's own Dies never carry an independent annotation (the
// grammar only ever tags an entire numexpr), so ExprDice has none here; a
// Set's Values are themselves arbitrary numexprs and do.
func exprChildren(n ExprNode) []ExprNode {
	switch t := n.(type) {
	case *ExprUnOp:
		return []ExprNode{t.Operand}
	case *ExprBinOp:
		return []ExprNode{t.Left, t.Right}
	case *ExprParenthetical:
		return []ExprNode{t.Inner}
	case *ExprSet:
		return t.Values
	default:
		return nil
	}
}

func setExprChild(n ExprNode, i int, c ExprNode) {
	switch t := n.(type) {
	case *ExprUnOp:
		t.Operand = c
	case *ExprBinOp:
		if i == 0 {
			t.Left = c
		} else {
			t.Right = c
		}
	case *ExprParenthetical:
		t.Inner = c
	case *ExprSet:
		t.Values[i] = c
	}
}

// AmbigInherit controls what simplifyAnnotations does with a node whose
// children carry more than one distinct annotation between them (spec.md
// section 4.8): AmbigNone leaves them as they are, AmbigLeft/AmbigRight fill
// in any child that has neither its own annotation nor a nested ambiguity.
type AmbigInherit int

const (
	AmbigNone AmbigInherit = iota
	AmbigLeft
	AmbigRight
)

// SimplifyExprAnnotations hoists a shared annotation up to the lowest common
// ancestor of the nodes that carry it, bottom-up: a node whose children
// between them carry exactly one distinct annotation takes that annotation
// itself and has it cleared from every child, so "1d20 [crit] + 3 [crit]"
// ends up tagged once, on the BinOp, rather than on each operand. ambig
// controls what happens when children disagree; isMultiplicative ops never
// inherit an ambiguous annotation onto their right operand, since "2d6*3
// [dmg]" scales the 2d6, it isn't itself a second independently-tagged term.
func SimplifyExprAnnotations(n ExprNode, ambig AmbigInherit) {
	simplifyAnnotations(n, ambig)
}

func simplifyAnnotations(n ExprNode, ambig AmbigInherit) []string {
	children := exprChildren(n)
	childPoss := make([][]string, len(children))
	var possible []string
	for i, c := range children {
		p := simplifyAnnotations(c, ambig)
		childPoss[i] = p
		for _, t := range p {
			if !containsStr(possible, t) {
				possible = append(possible, t)
			}
		}
	}
	if ann := n.Annotation(); ann != "" && !containsStr(possible, ann) {
		possible = append(possible, ann)
	}

	switch {
	case len(possible) == 1:
		n.SetAnnotation(possible[0])
		for _, c := range children {
			c.SetAnnotation("")
		}
	case len(possible) > 1 && ambig != AmbigNone:
		skipRight := false
		if b, ok := n.(*ExprBinOp); ok {
			skipRight = isMultiplicative(b.Op)
		}
		for i, c := range children {
			if len(childPoss[i]) > 0 {
				continue
			}
			if skipRight && i == 1 {
				continue
			}
			if ambig == AmbigLeft {
				c.SetAnnotation(possible[0])
			} else {
				c.SetAnnotation(possible[len(possible)-1])
			}
		}
	}
	return possible
}

func containsStr(haystack []string, s string) bool {
	for _, h := range haystack {
		if h == s {
			return true
		}
	}
	return false
}

// SimplifyExpr first runs SimplifyExprAnnotations on e's tree, then collapses
// every annotated subtree into a plain Literal carrying that annotation and
// the subtree's total (spec.md section 4.8) - dice are collapsed to numbers
// while the annotation structure survives. Any sibling left without an
// annotation of its own is collapsed the same way, minus the annotation, so
// the whole tree ends up built from nothing but Literals and the original
// BinOps/UnOps/Parentheticals/Sets connecting them.
func SimplifyExpr(e *Expression, ambig AmbigInherit) {
	SimplifyExprAnnotations(e.Roll, ambig)
	e.Roll, _ = collapseAnnotated(e.Roll, true)
}

func collapseAnnotated(n ExprNode, first bool) (ExprNode, bool) {
	if ann := n.Annotation(); ann != "" {
		return newCollapsedLiteral(n, ann), true
	}

	children := exprChildren(n)
	hadReplacement := make([]bool, len(children))
	anyReplacement := false
	for i, c := range children {
		replacement, had := collapseAnnotated(c, false)
		hadReplacement[i] = had
		if had {
			anyReplacement = true
		}
		if replacement != c {
			setExprChild(n, i, replacement)
			children[i] = replacement
		}
	}

	for i, c := range children {
		if !hadReplacement[i] && (anyReplacement || first) {
			setExprChild(n, i, newCollapsedLiteral(c, ""))
		}
	}

	return n, anyReplacement
}

func newCollapsedLiteral(n ExprNode, annotation string) *ExprLiteral {
	lit := newExprLiteral(nodeTotal(n), !n.IsInt())
	lit.SetAnnotation(annotation)
	return lit
}

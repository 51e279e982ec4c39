package tunadice

import (
	"strconv"
	"strings"
)

// file parser.go is a hand-written Pratt (operator-precedence) parser, same
// shape as internal/tunascript's nud/led dispatch over a tokenStream. Binary
// arithmetic and comparison go through the generic nud/led loop; dice
// expressions, set operators, selectors, and annotations are grammar
// features the generic loop doesn't model cleanly, so they're each handled
// by a small dedicated recursive-descent helper called from within nud.

// maxBindingPower is higher than every defined token class's lbp. Passing it
// as the rbp to a recursive parseExpr call forces that call to stop after a
// single nud, with no led extension — exactly what a unary operator's
// operand needs, so that "-2*3" parses as (-2)*3 and not -(2*3).
const maxBindingPower = 1 << 30

// commentAmbiguitySuffixes is the default set of trailing lexemes that, when
// they immediately precede a parse failure, mark the failure as a
// "greedy-arithmetic" false positive rather than a genuine syntax error
// (spec.md section 4.2). "*" is the only one known to occur in practice
// (Markdown bold markers colliding with the multiplication operator); the
// set is plain data so a Roller can extend it through
// Config.CommentAmbiguitySuffixes.
var commentAmbiguitySuffixes = map[string]bool{
	"*": true,
}

// tokErr is the internal error type returned by nud/led. It carries the
// stream index of the offending token, which the comment-ambiguity rescue in
// Parse needs but a public SyntaxError doesn't expose. Parse converts every
// tokErr that escapes to a SyntaxError before returning it.
type tokErr struct {
	tok      token
	idx      int
	message  string
	expected []string
}

func (e *tokErr) Error() string { return e.toSyntaxError().Error() }

func (e *tokErr) toSyntaxError() SyntaxError {
	return newSyntaxError(e.message, e.tok, e.expected)
}

func newTokErr(ts *tokenStream, tok token, msg string, expected []string) *tokErr {
	idx := ts.pos - 1
	if ts.toks[ts.pos].srcOffset == tok.srcOffset {
		// tok was only peeked, or it is the EOF sentinel Next never moves past.
		idx = ts.pos
	}
	return &tokErr{tok: tok, idx: idx, message: msg, expected: expected}
}

// Parse parses a single dice expression. When allowComments is false, the
// entire input must be consumed by the roll grammar or a SyntaxError is
// returned. When true, anything left over after a valid roll is taken
// verbatim as a trailing comment (spec.md section 4.2), including rescuing
// inputs where greedy arithmetic parsing first swallows a comment character
// that turns out to be ambiguous, such as a leading Markdown "*".
func Parse(text string, allowComments bool) (ExpressionNode, error) {
	return parseWithSuffixes(text, allowComments, commentAmbiguitySuffixes)
}

func parseWithSuffixes(text string, allowComments bool, suffixes map[string]bool) (ExpressionNode, error) {
	toks, err := lex(text)
	if err != nil {
		return ExpressionNode{}, err
	}

	ts := newTokenStream(toks)
	roll, perr := parseExpr(ts, 0)

	if perr == nil {
		if !allowComments {
			if ts.Peek().class != tcEOF {
				return ExpressionNode{}, newSyntaxError(
					"unexpected trailing input after expression", ts.Peek(), []string{"end of input"})
			}
			return ExpressionNode{Roll: roll}, nil
		}
		comment := strings.TrimLeft(rawTextFrom(text, ts.Peek().srcOffset), " \t\r\n")
		if comment == "" {
			return ExpressionNode{Roll: roll}, nil
		}
		return ExpressionNode{Roll: roll, Comment: comment, HasComment: true}, nil
	}

	te, ok := perr.(*tokErr)
	if !ok || !allowComments {
		if ok {
			return ExpressionNode{}, te.toSyntaxError()
		}
		return ExpressionNode{}, perr
	}

	if rescued, ok := tryRescueComment(text, toks, te, suffixes); ok {
		return rescued, nil
	}
	return ExpressionNode{}, te.toSyntaxError()
}

// tryRescueComment implements the recovery described in spec.md section 4.2:
// if the token immediately before the offending one is a registered
// ambiguity suffix, re-parse everything before that suffix as the roll, and
// fold the suffix plus all raw, unlexed text after it into the comment.
func tryRescueComment(text string, toks []token, te *tokErr, suffixes map[string]bool) (ExpressionNode, bool) {
	if te.idx <= 0 || te.idx >= len(toks) {
		return ExpressionNode{}, false
	}
	prev := toks[te.idx-1]
	if !suffixes[prev.lexeme] {
		return ExpressionNode{}, false
	}

	truncated := make([]token, te.idx-1, te.idx)
	copy(truncated, toks[:te.idx-1])
	truncated = append(truncated, token{
		class: tcEOF, pos: prev.pos, line: prev.line, fullLine: prev.fullLine,
		srcOffset: prev.srcOffset, srcEnd: prev.srcOffset,
	})

	ts := newTokenStream(truncated)
	roll, err := parseExpr(ts, 0)
	if err != nil || ts.Peek().class != tcEOF {
		return ExpressionNode{}, false
	}

	comment := prev.lexeme + rawTextFrom(text, toks[te.idx].srcOffset)
	return ExpressionNode{Roll: roll, Comment: comment, HasComment: true}, true
}

func rawTextFrom(text string, runeOffset int) string {
	runes := []rune(text)
	if runeOffset >= len(runes) {
		return ""
	}
	return string(runes[runeOffset:])
}

// parseExpr is the generic Pratt loop: one nud, then leds while the next
// token binds tighter than rbp.
func parseExpr(ts *tokenStream, rbp int) (Node, error) {
	tok := ts.Next()
	left, err := nud(ts, tok)
	if err != nil {
		return nil, err
	}
	for rbp < ts.Peek().class.lbp {
		tok = ts.Next()
		left, err = led(ts, left, tok)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func nud(ts *tokenStream, tok token) (Node, error) {
	switch tok.class.name {
	case tcInt.name, tcFloat.name:
		return parseNumexprFromLiteral(ts, tok)
	case tcD.name:
		return parseNumexprFromD(ts, tok)
	case tcLParen.name:
		return parseNumexprFromParen(ts, tok)
	case tcPlus.name, tcMinus.name:
		operand, err := parseExpr(ts, maxBindingPower)
		if err != nil {
			return nil, err
		}
		return UnOpNode{Op: tok.lexeme, Operand: operand}, nil
	default:
		return nil, newTokErr(ts, tok, "unexpected "+tok.class.name,
			[]string{"a number", "a dice expression", "'('", "'+'", "'-'"})
	}
}

func led(ts *tokenStream, left Node, tok token) (Node, error) {
	switch tok.class.name {
	case tcPlus.name, tcMinus.name, tcStar.name, tcSlash.name, tcSlashSlash.name, tcPercent.name,
		tcEq.name, tcNe.name, tcLt.name, tcLe.name, tcGt.name, tcGe.name:
		right, err := parseExpr(ts, tok.class.lbp)
		if err != nil {
			return nil, err
		}
		return BinOpNode{Left: left, Op: tok.lexeme, Right: right}, nil
	default:
		return nil, newTokErr(ts, tok, "unexpected "+tok.class.name, []string{"an operator"})
	}
}

// parseNumexprFromLiteral handles the "INTEGER|DECIMAL, optionally followed
// by 'd' SIZE" production: a bare literal, or the leading count of a dice
// expression.
func parseNumexprFromLiteral(ts *tokenStream, numTok token) (Node, error) {
	if ts.Peek().class.name != tcD.name {
		lit, err := literalFromToken(numTok)
		if err != nil {
			return nil, err
		}
		return finishNumexpr(ts, lit)
	}

	if numTok.class.name == tcFloat.name {
		return nil, newTokErr(ts, numTok, "a dice count must be a whole number", []string{"integer"})
	}
	num, _ := strconv.Atoi(numTok.lexeme)
	dTok := ts.Next() // consume 'd'
	dice, err := parseDiceSize(ts, dTok, num)
	if err != nil {
		return nil, err
	}
	return finishDiceOrSet(ts, dice)
}

// parseNumexprFromD handles dice expressions with an implicit count of 1,
// such as "d20".
func parseNumexprFromD(ts *tokenStream, dTok token) (Node, error) {
	dice, err := parseDiceSize(ts, dTok, 1)
	if err != nil {
		return nil, err
	}
	return finishDiceOrSet(ts, dice)
}

func parseDiceSize(ts *tokenStream, dTok token, num int) (DiceNode, error) {
	sizeTok := ts.Peek()
	if sizeTok.class.name == tcPercent.name {
		ts.Next()
		return DiceNode{Num: num, IsPercent: true, src: dTok}, nil
	}
	if sizeTok.class.name != tcInt.name {
		return DiceNode{}, newTokErr(ts, sizeTok, "expected a die size after 'd'",
			[]string{"an integer", "'%'"})
	}
	ts.Next()
	size, _ := strconv.Atoi(sizeTok.lexeme)
	return DiceNode{Num: num, Size: size, src: dTok}, nil
}

func finishDiceOrSet(ts *tokenStream, dice DiceNode) (Node, error) {
	ops, err := parseSetOps(ts)
	if err != nil {
		return nil, err
	}
	var base Node = dice
	if len(ops) > 0 {
		base = OperatedDiceNode{Inner: dice, Ops: ops}
	}
	return finishNumexpr(ts, base)
}

func parseNumexprFromParen(ts *tokenStream, lparen token) (Node, error) {
	first, err := parseExpr(ts, 0)
	if err != nil {
		return nil, err
	}
	elems := []Node{first}
	sawComma := false

	for ts.Peek().class.name == tcComma.name {
		sawComma = true
		ts.Next()
		if ts.Peek().class.name == tcRParen.name {
			break
		}
		next, err := parseExpr(ts, 0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}

	if ts.Peek().class.name != tcRParen.name {
		return nil, newTokErr(ts, ts.Peek(), "expected ')'", []string{"')'", "','"})
	}
	ts.Next()

	var base Node
	if sawComma {
		set := NumberSetNode{Values: elems}
		ops, err := parseSetOps(ts)
		if err != nil {
			return nil, err
		}
		if len(ops) > 0 {
			base = OperatedSetNode{Inner: set, Ops: ops}
		} else {
			base = set
		}
	} else {
		base = ParentheticalNode{Inner: elems[0]}
	}
	return finishNumexpr(ts, base)
}

// finishNumexpr wraps base in an AnnotatedNumberNode if one or more bracket
// annotations immediately follow.
func finishNumexpr(ts *tokenStream, base Node) (Node, error) {
	anns := parseAnnotations(ts)
	if len(anns) == 0 {
		return base, nil
	}
	return AnnotatedNumberNode{Inner: base, Annotations: anns}, nil
}

func parseAnnotations(ts *tokenStream) []string {
	var anns []string
	for ts.Peek().class.name == tcAnnotation.name {
		anns = append(anns, ts.Next().lexeme)
	}
	return anns
}

// parseSetOps consumes zero or more "<op><selector>" suffixes, merging
// adjacent same-op applications per the AST-construction invariant in
// ast.go's appendSetOp.
func parseSetOps(ts *tokenStream) ([]SetOperator, error) {
	var ops []SetOperator
	for {
		opStr, ok := setOpLexeme(ts.Peek())
		if !ok {
			return ops, nil
		}
		ts.Next()
		sel, err := parseSelector(ts)
		if err != nil {
			return nil, err
		}
		ops = appendSetOp(ops, SetOperator{Op: opStr, Sels: []SetSelector{sel}})
	}
}

func setOpLexeme(tok token) (string, bool) {
	switch tok.class.name {
	case tcOpK.name:
		return "k", true
	case tcOpP.name:
		return "p", true
	case tcOpRr.name:
		return "rr", true
	case tcOpRo.name:
		return "ro", true
	case tcOpRa.name:
		return "ra", true
	case tcOpE.name:
		return "e", true
	case tcOpMi.name:
		return "mi", true
	case tcOpMa.name:
		return "ma", true
	default:
		return "", false
	}
}

func parseSelector(ts *tokenStream) (SetSelector, error) {
	tok := ts.Peek()
	cat := SelNone
	switch tok.class.name {
	case tcSelLow.name:
		cat = SelLow
		ts.Next()
	case tcSelHigh.name:
		cat = SelHigh
		ts.Next()
	case tcLt.name:
		cat = SelLT
		ts.Next()
	case tcGt.name:
		cat = SelGT
		ts.Next()
	}

	numTok := ts.Peek()
	if numTok.class.name != tcInt.name {
		return SetSelector{}, newTokErr(ts, numTok, "expected an integer selector count",
			[]string{"integer"})
	}
	ts.Next()
	n, _ := strconv.Atoi(numTok.lexeme)
	return SetSelector{Cat: cat, N: n}, nil
}

func literalFromToken(tok token) (LiteralNode, error) {
	if tok.class.name == tcFloat.name {
		f, err := strconv.ParseFloat(tok.lexeme, 64)
		if err != nil {
			return LiteralNode{}, newValueError("malformed decimal literal %q", tok.lexeme)
		}
		return LiteralNode{IsFloat: true, FloatVal: f, src: tok}, nil
	}
	n, err := strconv.Atoi(tok.lexeme)
	if err != nil {
		return LiteralNode{}, newValueError("malformed integer literal %q", tok.lexeme)
	}
	return LiteralNode{IntVal: n, src: tok}, nil
}

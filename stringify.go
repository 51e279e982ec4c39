package tunadice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
)

// file stringify.go renders a realized Expression tree to text (spec.md
// section 4.6). Two Stringifiers are provided: Simple, for plain text, and
// Markdown, which additionally strikes through dropped elements and bolds
// crit-like extremes. Both thread an "in a dropped subtree" flag explicitly
// through the recursion rather than through package state, since a
// Stringifier is reused across concurrent Roll calls on different Rollers.

// Stringifier renders a realized Expression or bare ExprNode to text.
type Stringifier interface {
	Stringify(e Expression) string
	StringifyNode(n ExprNode) string
}

// SimpleStringifier renders plain text with no markup: dropped elements are
// rendered like kept ones, with no marker, and nothing is bolded.
type SimpleStringifier struct{}

func (SimpleStringifier) Stringify(e Expression) string {
	s := (SimpleStringifier{}).StringifyNode(e.Roll)
	if e.HasComment {
		s += " " + e.Comment
	}
	return s
}

func (s SimpleStringifier) StringifyNode(n ExprNode) string {
	return stringifyNode(n, false, false)
}

// MarkdownStringifier renders Discord/GitHub-flavored Markdown: elements
// dropped by an operator are wrapped in "~~...~~", and the final total is
// wrapped in a single backtick span.
type MarkdownStringifier struct{}

func (m MarkdownStringifier) Stringify(e Expression) string {
	s := stringifyNode(e.Roll, true, false)
	total := formatNumber(e.Roll.Number(), !e.Roll.IsInt())
	s += " = `" + total + "`"
	if e.HasComment {
		s += " " + e.Comment
	}
	return s
}

func (m MarkdownStringifier) StringifyNode(n ExprNode) string {
	return stringifyNode(n, true, false)
}

// stringifyNode renders n. markdown selects Markdown-flavored markup;
// inDropped is threaded down explicitly (never through package state) so
// that an already-struck-through ancestor doesn't double-wrap its children.
func stringifyNode(n ExprNode, markdown, inDropped bool) string {
	body := stringifyBody(n, markdown, inDropped)
	if ann := n.Annotation(); ann != "" {
		body += " " + ann
	}
	if markdown && !n.Kept() && !inDropped {
		return "~~" + body + "~~"
	}
	return body
}

func stringifyBody(n ExprNode, markdown, inDropped bool) string {
	dropped := inDropped || !n.Kept()

	switch t := n.(type) {
	case *ExprLiteral:
		return t.String()

	case *ExprDie:
		parts := make([]string, len(t.Values))
		for i, lit := range t.Values {
			inside := stringifyNode(lit, markdown, dropped)
			if markdown && (lit.Number() == 1 || lit.Number() == float64(t.Size)) {
				inside = "**" + inside + "**"
			}
			parts[i] = inside
		}
		return strings.Join(parts, ", ")

	case *ExprUnOp:
		return t.Op + stringifyNode(t.Operand, markdown, dropped)

	case *ExprBinOp:
		return fmt.Sprintf("%s %s %s",
			stringifyNode(t.Left, markdown, dropped), t.Op, stringifyNode(t.Right, markdown, dropped))

	case *ExprParenthetical:
		return "(" + stringifyNode(t.Inner, markdown, dropped) + ")"

	case *ExprDice:
		parts := make([]string, len(t.Dies))
		for i, d := range t.Dies {
			parts[i] = stringifyNode(d, markdown, dropped)
		}
		size := strconv.Itoa(t.Size)
		if t.IsPercent {
			size = "%"
		}
		return fmt.Sprintf("%dd%s%s (%s)", len(t.Dies), size, opsString(t.Operations), strings.Join(parts, ", "))

	case *ExprSet:
		parts := make([]string, len(t.Values))
		for i, v := range t.Values {
			parts[i] = stringifyNode(v, markdown, dropped)
		}
		var body string
		if len(parts) == 1 {
			body = "(" + parts[0] + ",)"
		} else {
			body = "(" + strings.Join(parts, ", ") + ")"
		}
		return body + opsString(t.Operations)

	default:
		return n.String()
	}
}

// DebugTree pretty-prints the structure of an Expression for diagnostics and
// tests: one indented line per node, wrapped to a reasonable terminal width
// via rosed the same way tunascript wraps its own debug dumps.
func DebugTree(e Expression) string {
	var sb strings.Builder
	debugTreeNode(&sb, e.Roll, 0)
	if e.HasComment {
		sb.WriteString(fmt.Sprintf("comment: %q\n", e.Comment))
	}
	return rosed.Edit(sb.String()).Wrap(100).String()
}

func debugTreeNode(sb *strings.Builder, n ExprNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s = %s (kept=%v annotation=%q)\n",
		indent, nodeKindName(n), formatNumber(n.Number(), !n.IsInt()), n.Kept(), n.Annotation())

	switch t := n.(type) {
	case *ExprDie:
		for _, lit := range t.Values {
			debugTreeNode(sb, lit, depth+1)
		}
	case *ExprUnOp:
		debugTreeNode(sb, t.Operand, depth+1)
	case *ExprBinOp:
		debugTreeNode(sb, t.Left, depth+1)
		debugTreeNode(sb, t.Right, depth+1)
	case *ExprParenthetical:
		debugTreeNode(sb, t.Inner, depth+1)
	case *ExprDice:
		for _, d := range t.Dies {
			debugTreeNode(sb, d, depth+1)
		}
	case *ExprSet:
		for _, v := range t.Values {
			debugTreeNode(sb, v, depth+1)
		}
	}
}

func nodeKindName(n ExprNode) string {
	switch n.(type) {
	case *ExprLiteral:
		return "Literal"
	case *ExprDie:
		return "Die"
	case *ExprUnOp:
		return "UnOp"
	case *ExprBinOp:
		return "BinOp"
	case *ExprParenthetical:
		return "Parenthetical"
	case *ExprDice:
		return "Dice"
	case *ExprSet:
		return "Set"
	default:
		return "?"
	}
}

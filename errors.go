package tunadice

// file errors.go contains the typed error kinds raised by parsing, evaluation,
// and rolling. All of them satisfy RollError so callers that don't care about
// the distinction can catch everything with errors.As and a RollError target.

import (
	"errors"
	"fmt"

	"github.com/dekarrin/tunadice/internal/util"
)

// RollError is the supertype of every error this package can return from
// Parse or Roll. It exists purely so callers can do a broad
//
//	var rerr tunadice.RollError
//	if errors.As(err, &rerr) { ... }
//
// without caring which of SyntaxError, ValueError, or TooManyRollsError they
// got back.
type RollError interface {
	error
	rollError()
}

// base error values usable with errors.Is. They are never returned directly;
// each is wrapped into one of the three taxonomy types below so that Error()
// still carries positional/contextual detail.
var (
	errSyntax       = errors.New("syntax error")
	errValue        = errors.New("value error")
	errTooManyRolls = errors.New("too many rolls")
)

// SyntaxError is raised when the parser encounters an unexpected token or
// character. It carries the position of the offending token along with the
// set of token kinds that would have been accepted there, modeled on
// tunascript's own SyntaxError.
type SyntaxError struct {
	sourceLine string
	source     string

	// Line the error occurred on, 1-indexed. 0 means unknown. The lexer's
	// end-of-input token carries a line too, so unexpected-EOF errors have one.
	line int

	// Pos is the 1-indexed column of the offending token within Line.
	pos int

	message  string
	expected []string
}

func (se SyntaxError) rollError() {}

func (se SyntaxError) Error() string {
	msg := se.message
	if len(se.expected) > 0 {
		msg = fmt.Sprintf("%s (expected %s)", msg, util.MakeTextList(se.expected))
	}
	if se.line == 0 {
		return fmt.Sprintf("syntax error: %s", msg)
	}
	return fmt.Sprintf("syntax error: around line %d, char %d: %s", se.line, se.pos, msg)
}

func (se SyntaxError) Is(target error) bool {
	return target == errSyntax
}

// Line returns the 1-indexed line the error occurred on, or 0 if unknown.
func (se SyntaxError) Line() int { return se.line }

// Position returns the 1-indexed column the error occurred on, or 0 if
// unknown.
func (se SyntaxError) Position() int { return se.pos }

// Source returns the exact offending token text, or "" if there was none
// (such as for an unexpected-end-of-input error).
func (se SyntaxError) Source() string { return se.source }

// Expected returns the human-readable names of the token kinds that would
// have been accepted in place of the offending token.
func (se SyntaxError) Expected() []string {
	cp := make([]string, len(se.expected))
	copy(cp, se.expected)
	return cp
}

// FullMessage renders the offending source line with a cursor under the
// offending column, followed by the error message, matching the format
// tunascript uses for its own syntax errors.
func (se SyntaxError) FullMessage() string {
	msg := se.Error()
	if se.line != 0 && se.sourceLine != "" {
		msg = se.sourceLineWithCursor() + "\n" + msg
	}
	return msg
}

func (se SyntaxError) sourceLineWithCursor() string {
	cursor := ""
	for i := 0; i < se.pos-1; i++ {
		cursor += " "
	}
	cursor += "^"
	return se.sourceLine + "\n" + cursor
}

func newSyntaxError(msg string, tok token, expected []string) SyntaxError {
	return SyntaxError{
		message:    msg,
		sourceLine: tok.fullLine,
		source:     tok.lexeme,
		pos:        tok.pos,
		line:       tok.line,
		expected:   expected,
	}
}

// ValueError is raised when a syntactically valid expression can't actually
// be evaluated: division/modulo by zero, a die size less than 1, an unknown
// operator symbol, or a mi/ma operator given a categorized selector.
type ValueError struct {
	message string
}

func (ve ValueError) rollError()    {}
func (ve ValueError) Error() string { return "value error: " + ve.message }
func (ve ValueError) Is(target error) bool {
	return target == errValue
}

func newValueError(format string, args ...interface{}) ValueError {
	return ValueError{message: fmt.Sprintf(format, args...)}
}

// TooManyRollsError is raised by a RollContext when a roll call exceeds its
// configured roll budget. It is the sole cancellation signal for open-ended
// reroll/explode loops; see context.go.
type TooManyRollsError struct {
	max int
}

func (te TooManyRollsError) rollError() {}
func (te TooManyRollsError) Error() string {
	return fmt.Sprintf("too many rolls: exceeded budget of %d", te.max)
}
func (te TooManyRollsError) Is(target error) bool {
	return target == errTooManyRolls
}

// Max returns the roll budget that was exceeded.
func (te TooManyRollsError) Max() int { return te.max }

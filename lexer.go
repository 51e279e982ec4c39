package tunadice

import (
	"unicode"
	"unicode/utf8"
)

// file lexer.go turns dice-expression source text into a token slice, the
// same rune-by-rune, longest-match-wins approach tunascript's lexer uses
// (regularModeMatchRules there, lexRules here). The one
// addition is a fallback "word" token class (lbp 0) for any run of letters
// that doesn't match a reserved operator/selector keyword: that's what lets
// the parser stop cleanly, instead of erroring, when it runs into trailing
// free-text comment like "keep the dragon grappled".

// lexRule is one candidate literal and the class it produces. Rules are
// tried longest-literal-first so that e.g. "//" wins over "/" and "<=" wins
// over "<".
type lexRule struct {
	lit   string
	class tokenClass
	// alpha marks a rule whose literal is made of letters, so it requires a
	// word-boundary check: it only matches if the following rune doesn't
	// continue an identifier (otherwise "ra" would wrongly fire inside
	// "rage"). A following digit is fine - that's always the start of the
	// operator's selector, e.g. "rr1" - and so is an 'l'/'h' selector prefix
	// that is itself followed by a digit, e.g. "kh3" (see alphaRuleBoundaryOK).
	alpha bool
}

var lexRules = []lexRule{
	{lit: "==", class: tcEq},
	{lit: "!=", class: tcNe},
	{lit: "<=", class: tcLe},
	{lit: ">=", class: tcGe},
	{lit: "//", class: tcSlashSlash},
	{lit: "<", class: tcLt},
	{lit: ">", class: tcGt},
	{lit: "+", class: tcPlus},
	{lit: "-", class: tcMinus},
	{lit: "*", class: tcStar},
	{lit: "/", class: tcSlash},
	{lit: "%", class: tcPercent},
	{lit: "(", class: tcLParen},
	{lit: ")", class: tcRParen},
	{lit: ",", class: tcComma},

	{lit: "rr", class: tcOpRr, alpha: true},
	{lit: "ro", class: tcOpRo, alpha: true},
	{lit: "ra", class: tcOpRa, alpha: true},
	{lit: "mi", class: tcOpMi, alpha: true},
	{lit: "ma", class: tcOpMa, alpha: true},
	{lit: "k", class: tcOpK, alpha: true},
	{lit: "p", class: tcOpP, alpha: true},
	{lit: "e", class: tcOpE, alpha: true},
	{lit: "d", class: tcD, alpha: true},
	{lit: "D", class: tcD, alpha: true},
	{lit: "l", class: tcSelLow, alpha: true},
	{lit: "h", class: tcSelHigh, alpha: true},
}

// lex tokenizes the whole of text, always appending a trailing tcEOF. It
// returns a SyntaxError only for lexical errors with no sensible recovery,
// such as an unterminated annotation bracket.
func lex(text string) ([]token, error) {
	runes := []rune(text)
	var toks []token

	line := 1
	lineStartOffset := 0

	lineOf := func(startOffset int) string {
		end := startOffset
		for end < len(runes) && runes[end] != '\n' {
			end++
		}
		start := lineStartOffset
		return string(runes[start:end])
	}

	i := 0
	for i < len(runes) {
		r := runes[i]

		if r == '\n' {
			i++
			line++
			lineStartOffset = i
			continue
		}
		if unicode.IsSpace(r) {
			i++
			continue
		}

		col := i - lineStartOffset + 1
		startOffset := i

		if r == '[' {
			j := i + 1
			for j < len(runes) && runes[j] != ']' && runes[j] != '\n' {
				j++
			}
			if j >= len(runes) || runes[j] != ']' {
				fullLine := lineOf(startOffset)
				return nil, newSyntaxError("unterminated annotation, expected ']'", token{
					lexeme: string(runes[i:j]), pos: col, line: line, fullLine: fullLine,
				}, []string{"']'"})
			}
			inner := trimSpace(string(runes[i+1 : j]))
			toks = append(toks, token{
				lexeme: inner, class: tcAnnotation,
				pos: col, line: line, fullLine: lineOf(startOffset),
				srcOffset: startOffset, srcEnd: j + 1,
			})
			i = j + 1
			continue
		}

		if unicode.IsDigit(r) {
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			isFloat := false
			if j < len(runes) && runes[j] == '.' && j+1 < len(runes) && unicode.IsDigit(runes[j+1]) {
				isFloat = true
				j++
				for j < len(runes) && unicode.IsDigit(runes[j]) {
					j++
				}
			}
			class := tcInt
			if isFloat {
				class = tcFloat
			}
			toks = append(toks, token{
				lexeme: string(runes[i:j]), class: class,
				pos: col, line: line, fullLine: lineOf(startOffset),
				srcOffset: startOffset, srcEnd: j,
			})
			i = j
			continue
		}

		matched := false
		for _, rule := range lexRules {
			rl := utf8.RuneCountInString(rule.lit)
			if i+rl > len(runes) {
				continue
			}
			if string(runes[i:i+rl]) != rule.lit {
				continue
			}
			if rule.alpha && !alphaRuleBoundaryOK(runes, i+rl) {
				continue
			}
			toks = append(toks, token{
				lexeme: rule.lit, class: rule.class,
				pos: col, line: line, fullLine: lineOf(startOffset),
				srcOffset: startOffset, srcEnd: i + rl,
			})
			i += rl
			matched = true
			break
		}
		if matched {
			continue
		}

		// Fallback: a run of word runes (letters, digits, '_', '\'') becomes
		// one opaque "word" token; any other unmatched rune becomes a
		// one-rune "word" token of its own.
		// This is what lets free-text comments (section 4.2) lex without
		// erroring: an unrecognized word simply has lbp 0, so the expression
		// parser stops cleanly instead of trying to consume it.
		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		if j == i {
			j = i + 1
		}
		toks = append(toks, token{
			lexeme: string(runes[i:j]), class: tcWord,
			pos: col, line: line, fullLine: lineOf(startOffset),
			srcOffset: startOffset, srcEnd: j,
		})
		i = j
	}

	toks = append(toks, token{
		class: tcEOF, pos: i - lineStartOffset + 1, line: line, fullLine: lineOf(i),
		srcOffset: len(runes), srcEnd: len(runes),
	})
	return toks, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}

// alphaRuleBoundaryOK reports whether an alpha keyword rule matched just
// before position p may actually be taken as that keyword, rather than as
// the start of an ordinary word (so "ra" doesn't fire inside "rage", but
// still fires in "4d6ra1"). A keyword is always immediately followed by
// either nothing, a digit (the selector count), or a selector-type prefix
// ('l'/'h') that is itself immediately followed by a digit; anything else -
// in particular, any other letter - means the run of letters starting here
// is an ordinary word, which the fallback case below will swallow whole.
func alphaRuleBoundaryOK(runes []rune, p int) bool {
	if p >= len(runes) {
		return true
	}
	r := runes[p]
	if unicode.IsDigit(r) {
		return true
	}
	if r == 'l' || r == 'h' {
		return p+1 < len(runes) && unicode.IsDigit(runes[p+1])
	}
	return !isWordRune(r)
}

func trimSpace(s string) string {
	rs := []rune(s)
	start, end := 0, len(rs)
	for start < end && unicode.IsSpace(rs[start]) {
		start++
	}
	for end > start && unicode.IsSpace(rs[end-1]) {
		end--
	}
	return string(rs[start:end])
}

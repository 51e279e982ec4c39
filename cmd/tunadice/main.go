/*
Tunadice rolls a single dice expression and prints the result.

It is a thin, single-shot demonstration of the tunadice package: it parses
the expression given on the command line (or via -e/--expr), evaluates it
once, and prints the roll to stdout. It does not implement a REPL - a
line-at-a-time interactive session, with its own readline integration and
exit-code policy, is a separate concern left to callers of this package.

Usage:

	tunadice [flags] [expression]

The flags are:

	-e, --expr EXPR
		The dice expression to roll. If omitted, the expression is taken
		from the first non-flag argument instead.

	-a, --allow-comments
		Allow (and print) a trailing free-text comment after the roll,
		per the comment-rescue rules. Defaults to true.

	--advantage
		Reroll the first dice expression on the leftmost spine with
		advantage (roll twice, keep the higher).

	--disadvantage
		Reroll the first dice expression on the leftmost spine with
		disadvantage (roll twice, keep the lower).

	-s, --seed SEED
		Seed the random source for a reproducible roll. Defaults to the
		unseeded global math/rand source.

	-m, --markdown
		Render the result with Markdown strikethrough/backtick markup
		instead of plain text.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/tunadice"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates no expression was given.
	ExitUsageError

	// ExitRollError indicates the expression failed to parse or evaluate.
	ExitRollError
)

var (
	returnCode = ExitSuccess

	flagExpr          = pflag.StringP("expr", "e", "", "The dice expression to roll")
	flagAllowComments = pflag.BoolP("allow-comments", "a", true, "Allow a trailing free-text comment after the roll")
	flagAdvantage     = pflag.Bool("advantage", false, "Roll the leftmost dice expression with advantage")
	flagDisadvantage  = pflag.Bool("disadvantage", false, "Roll the leftmost dice expression with disadvantage")
	flagSeed          = pflag.Int64P("seed", "s", 0, "Seed the random source for a reproducible roll")
	flagMarkdown      = pflag.BoolP("markdown", "m", false, "Render the result with Markdown markup")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	expr := *flagExpr
	if expr == "" && pflag.NArg() > 0 {
		expr = pflag.Arg(0)
	}
	if expr == "" {
		fmt.Fprintln(os.Stderr, "ERROR: no expression given")
		returnCode = ExitUsageError
		return
	}

	var src tunadice.Source
	if *flagSeed != 0 {
		src = tunadice.NewSeededSource(*flagSeed)
	}

	roller := tunadice.NewRoller(tunadice.DefaultConfig(), src)

	var (
		result tunadice.RollResult
		err    error
	)
	switch {
	case *flagAdvantage:
		result, err = roller.RollAdvantage(expr, true)
	case *flagDisadvantage:
		result, err = roller.RollAdvantage(expr, false)
	default:
		if _, parseErr := roller.Parse(expr, *flagAllowComments); parseErr != nil {
			err = parseErr
			break
		}
		result, err = roller.Roll(expr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRollError
		return
	}

	if *flagMarkdown {
		fmt.Println(result.Markdown())
	} else {
		fmt.Println(result.String())
	}
	if crit := result.Crit(); crit != tunadice.CritNone {
		fmt.Printf("(%s)\n", crit)
	}
}

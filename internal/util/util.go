// Package util holds small formatting helpers shared across the dice engine
// that don't belong to any one component.
package util

import "strings"

// MakeTextList gives a nice list of things based on their display name. Used
// to render the "expected one of ..." portion of a SyntaxError.
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " or " + items[1]
	} else {
		// if its more than two, use an oxford comma
		cp := make([]string, len(items))
		copy(cp, items)
		cp[len(cp)-1] = "or " + cp[len(cp)-1]
		output += strings.Join(cp, ", ")
	}

	return output
}

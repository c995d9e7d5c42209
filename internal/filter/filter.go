// Package filter builds the column search expression used to restrict the
// results table to the model names a user has selected.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Separator joins the per-token patterns of an expression.
const Separator = "|"

// Options controls how a search expression is evaluated against a column.
type Options struct {
	// Regex evaluates the expression as a regular expression. When false the
	// expression is matched as literal text.
	Regex bool
	// Smart splits the expression on whitespace and requires every word to
	// match somewhere in the cell.
	Smart bool
	// CaseInsensitive ignores letter case while matching.
	CaseInsensitive bool
}

// ExactMatch are the options an expression from BuildExpression is meant to
// be applied with.
var ExactMatch = Options{Regex: true}

// BuildExpression returns an anchored alternation that matches a cell value
// only when it equals one of tokens exactly. Tokens are quoted so characters
// such as '(' or '.' match literally. Patterns keep the order of tokens.
//
// An empty token set yields "", which the table search treats as no filter.
func BuildExpression(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	patterns := make([]string, 0, len(tokens))
	for _, t := range tokens {
		patterns = append(patterns, anchor(t))
	}
	return strings.Join(patterns, Separator)
}

func anchor(token string) string {
	return "^" + regexp.QuoteMeta(token) + "$"
}

// Compile compiles expr for matching against single cell values. The empty
// expression compiles to a pattern that matches everything.
func Compile(expr string, caseInsensitive bool) (*regexp.Regexp, error) {
	if caseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile filter expression %q: %w", expr, err)
	}
	return re, nil
}

// Matches reports whether value passes the filter built from tokens using
// case-sensitive matching.
func Matches(tokens []string, value string) bool {
	if len(tokens) == 0 {
		return true
	}
	for _, t := range tokens {
		if t == value {
			return true
		}
	}
	return false
}

package table

import (
	"regexp"
	"strings"

	"github.com/oakwood-commons/picaview/internal/filter"
)

// SearchOptions controls how a column search expression is interpreted.
type SearchOptions = filter.Options

// columnSearch is a compiled per-column search.
type columnSearch struct {
	expr     string
	opts     SearchOptions
	patterns []*regexp.Regexp
}

func compileSearch(expr string, opts SearchOptions) (columnSearch, error) {
	cs := columnSearch{expr: expr, opts: opts}
	var parts []string
	if opts.Smart {
		parts = strings.Fields(expr)
	} else if expr != "" {
		parts = []string{expr}
	}
	for _, p := range parts {
		if !opts.Regex {
			p = regexp.QuoteMeta(p)
		}
		re, err := filter.Compile(p, opts.CaseInsensitive)
		if err != nil {
			return columnSearch{}, err
		}
		cs.patterns = append(cs.patterns, re)
	}
	return cs, nil
}

// match reports whether cell satisfies every pattern of the search.
func (cs columnSearch) match(cell string) bool {
	for _, re := range cs.patterns {
		if !re.MatchString(cell) {
			return false
		}
	}
	return true
}

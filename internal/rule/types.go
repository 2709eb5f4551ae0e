package rule

import (
	"regexp"
	"strings"
)

// Rule is a compiled title pattern, optionally scoped to a set of languages.
// Build one with Compile.
type Rule struct {
	Pattern   string
	Languages []string

	re        *regexp.Regexp
	foldedPat string
	foldedLng map[string]struct{}
}

// Literal reports whether the pattern failed to compile as a regular
// expression and is matched as plain text only.
func (r Rule) Literal() bool {
	return r.re == nil
}

func (r Rule) String() string {
	if len(r.Languages) == 0 {
		return r.Pattern
	}
	return r.Pattern + " [" + strings.Join(r.Languages, ", ") + "]"
}

// Rules is an ordered rule list; order decides which rule wins.
type Rules []Rule

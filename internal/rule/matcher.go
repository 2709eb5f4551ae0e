package rule

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/MimeLyc/sonarr-nudger/internal/sonarr"
)

// fold case-folds s. Casers keep state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Compile builds a Rule. Patterns that are not valid regular expressions
// are kept as literal rules (see Rule.Literal) instead of failing.
func Compile(pattern string, languages []string) (Rule, error) {
	if strings.TrimSpace(pattern) == "" {
		return Rule{}, fmt.Errorf("pattern is required")
	}

	r := Rule{
		Pattern:   pattern,
		foldedPat: fold(pattern),
	}

	for _, lang := range languages {
		if strings.TrimSpace(lang) == "" {
			return Rule{}, fmt.Errorf("pattern %q: empty language name", pattern)
		}
		if r.foldedLng == nil {
			r.foldedLng = make(map[string]struct{})
		}
		r.Languages = append(r.Languages, lang)
		r.foldedLng[fold(strings.TrimSpace(lang))] = struct{}{}
	}

	if re, err := regexp.Compile("(?i)" + pattern); err == nil {
		r.re = re
	}

	return r, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string, languages ...string) Rule {
	r, err := Compile(pattern, languages)
	if err != nil {
		panic(fmt.Sprintf("rule %q: %v", pattern, err))
	}
	return r
}

// Matches reports whether rec satisfies the rule. A language-scoped rule
// never matches a record without a shared language, whatever its title.
func (r Rule) Matches(rec sonarr.QueueRecord) bool {
	if len(r.foldedLng) > 0 && !r.sharesLanguage(rec.Languages) {
		return false
	}
	return r.matchTitle(rec.Title)
}

func (r Rule) sharesLanguage(languages []sonarr.Language) bool {
	for _, l := range languages {
		if _, ok := r.foldedLng[fold(strings.TrimSpace(l.Name))]; ok {
			return true
		}
	}
	return false
}

func (r Rule) matchTitle(title string) bool {
	if strings.Contains(title, r.Pattern) {
		return true
	}
	if r.re != nil {
		return r.re.MatchString(title)
	}
	return strings.Contains(fold(title), r.foldedPat)
}

// FirstMatch returns the first rule in order that matches rec.
func (rs Rules) FirstMatch(rec sonarr.QueueRecord) (Rule, bool) {
	for _, r := range rs {
		if r.Matches(rec) {
			return r, true
		}
	}
	return Rule{}, false
}

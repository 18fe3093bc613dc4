package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxNameLength bounds player names in runes.
const MaxNameLength = 32

// DefaultName is used when a name is empty after cleaning.
const DefaultName = "Adventurer"

// replacements maps words that should not appear in a displayed player
// name to family-friendly alternatives.
var replacements = map[string]string{
	"damn":     "dang",
	"hell":     "heck",
	"crap":     "crud",
	"ass":      "donkey",
	"jerk":     "pal",
	"idiot":    "friend",
	"stupid":   "silly",
	"bastard":  "rascal",
	"bullshit": "baloney",
}

// NameFilter cleans player-entered names for display.
type NameFilter struct {
	regexes map[string]*regexp.Regexp
	title   cases.Caser
}

// NewNameFilter creates a filter with precompiled word patterns.
func NewNameFilter() *NameFilter {
	nf := &NameFilter{
		regexes: make(map[string]*regexp.Regexp, len(replacements)),
		title:   cases.Title(language.English),
	}
	for word := range replacements {
		nf.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return nf
}

// Clean trims control characters, collapses whitespace, replaces
// unwanted words, title-cases the result and caps its length.
func (nf *NameFilter) Clean(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")

	for word, re := range nf.regexes {
		name = re.ReplaceAllString(name, replacements[word])
	}

	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	if name == "" {
		return DefaultName
	}
	return nf.title.String(name)
}

// ContainsFiltered checks if the name contains a replaced word.
func (nf *NameFilter) ContainsFiltered(name string) bool {
	for _, re := range nf.regexes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

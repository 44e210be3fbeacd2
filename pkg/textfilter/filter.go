package textfilter

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps words that should not appear in narration to
// table-friendly alternatives.
var replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"cock":         "[censored]",
	"dick":         "jerk",
	"pussy":        "[censored]",
	"tits":         "[censored]",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"fag":          "[censored]",
	"retard":       "[censored]",
	"nigger":       "[censored]",
	"nigga":        "[censored]",
	"spic":         "[censored]",
	"chink":        "[censored]",
	"kike":         "[censored]",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"dipshit":      "dummy",
	"shithead":     "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
	"douchebag":    "jerk",
	"douche":       "jerk",
}

type rule struct {
	word        string
	replacement string
	re          *regexp.Regexp
}

// ProfanityFilter replaces profanity while keeping the original casing
// and any plural suffix.
type ProfanityFilter struct {
	rules []rule
}

// NewProfanityFilter compiles the word list. Longer words are matched first.
func NewProfanityFilter() *ProfanityFilter {
	words := make([]string, 0, len(replacements))
	for w := range replacements {
		words = append(words, w)
	}
	slices.SortFunc(words, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	pf := &ProfanityFilter{rules: make([]rule, 0, len(words))}
	for _, w := range words {
		pf.rules = append(pf.rules, rule{
			word:        w,
			replacement: replacements[w],
			re:          regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `(?:es|s)?\b`),
		})
	}
	return pf
}

// FilterText returns text with every listed word replaced.
func (pf *ProfanityFilter) FilterText(text string) string {
	for _, r := range pf.rules {
		text = r.re.ReplaceAllStringFunc(text, func(m string) string {
			base, suffix := m[:len(r.word)], m[len(r.word):]
			return preserveCase(base, r.replacement) + suffix
		})
	}
	return text
}

// ContainsProfanity reports whether any listed word appears in text.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	for _, r := range pf.rules {
		if r.re.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of original to replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	title := cases.Title(language.English)
	if title.String(strings.ToLower(original)) == original {
		return title.String(replacement)
	}

	// mixed case: copy casing rune by rune
	orig := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

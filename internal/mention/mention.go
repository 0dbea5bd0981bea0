// Package mention decides whether a free-text answer mentions a business.
//
// Matching is conservative string containment over a set of name
// variations, not semantic matching. That misses pronouns-only references
// and indirect descriptions; accepted limitation.
package mention

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minVariationLen drops variations too short to match safely. Two-letter
// tokens false-positive on ordinary prose.
const minVariationLen = 3

// Detection is the outcome of a mention check.
type Detection struct {
	Mentioned  bool     `json:"mentioned"`
	Variations []string `json:"variations"`
}

// brandAliases adds hand-curated nicknames when the business name contains
// the trigger substring.
var brandAliases = []struct {
	trigger string
	aliases []string
}{
	{"coca-cola", []string{"coke", "coca cola"}},
	{"coca cola", []string{"coke", "coca-cola"}},
	{"mcdonald", []string{"mcdonald's", "mcdonalds", "mickey d's"}},
	{"volkswagen", []string{"vw"}},
	{"international business machines", []string{"ibm"}},
	{"procter & gamble", []string{"p&g", "procter and gamble"}},
	{"johnson & johnson", []string{"j&j", "johnson and johnson"}},
	{"federal express", []string{"fedex"}},
}

// Variations builds the lowercase name-variation set used for matching:
// the original, hyphen/space swaps, a non-alphanumeric-stripped form, a
// diacritic-folded form, and any curated brand aliases. Variations shorter
// than minVariationLen are discarded.
func Variations(businessName string) []string {
	base := strings.ToLower(strings.TrimSpace(businessName))
	if base == "" {
		return nil
	}

	candidates := []string{
		base,
		strings.ReplaceAll(base, "-", " "),
		strings.ReplaceAll(base, " ", "-"),
		stripNonAlnum(base),
		foldDiacritics(base),
	}

	for _, entry := range brandAliases {
		if strings.Contains(base, entry.trigger) {
			candidates = append(candidates, entry.aliases...)
		}
	}

	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, v := range candidates {
		v = strings.TrimSpace(v)
		if len(v) < minVariationLen || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Detect reports whether answerText contains any variation of the business
// name as a substring.
func Detect(businessName, answerText string) Detection {
	variations := Variations(businessName)
	if len(variations) == 0 || answerText == "" {
		return Detection{Variations: variations}
	}

	haystack := foldDiacritics(strings.ToLower(answerText))
	for _, v := range variations {
		if strings.Contains(haystack, v) {
			return Detection{Mentioned: true, Variations: variations}
		}
	}
	return Detection{Variations: variations}
}

// stripNonAlnum removes every non-alphanumeric rune.
func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldDiacritics maps accented characters to their base form so that
// "Café Río" matches "cafe rio". Falls back to the input on transform error.
func foldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

package fuzzy

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so that accented and unaccented
// spellings of the same name compare as equal.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and diacritic-folds a string prior to
// similarity scoring
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		// Fold failure leaves the string comparable, just accent-sensitive
		return s
	}
	return folded
}

// Ratio computes a 0-100 similarity score between two strings using
// Damerau-Levenshtein edit distance (adjacent transpositions count as a
// single edit) normalized by the longer string's rune count.
func Ratio(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)

	if a == b {
		if a == "" {
			return 0.0
		}
		return 100.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	distance := edlib.DamerauLevenshteinDistance(a, b)
	longest := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > longest {
		longest = l
	}

	return 100.0 * (1.0 - float64(distance)/float64(longest))
}

// TokenSortRatio computes Ratio after sorting the whitespace-separated
// tokens of both strings, making the score insensitive to word order
// ("Smith John" vs "John Smith")
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(Normalize(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

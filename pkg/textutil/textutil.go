package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases name and removes every whitespace character.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Similarity returns the Jaro-Winkler similarity of the normalized forms of a
// and b, 1 means equal.
func Similarity(a, b string) float64 {
	a = NormalizeName(a)
	b = NormalizeName(b)
	if a == b {
		return 1
	}
	return matchr.JaroWinkler(a, b, false)
}

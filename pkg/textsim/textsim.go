// Package textsim scores how alike two short texts are.
package textsim

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Normalize lowercases s and collapses runs of whitespace to one space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0,1],
// computed over runes after Normalize. Two empty texts are identical.
func Ratio(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" && nb == "" {
		return 1
	}
	return difflib.NewMatcher(runes(na), runes(nb)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Package extract pulls product codes and brand names out of free text.
// The dialogue layer calls these; the classifier does not.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// productCodeRe matches one ASCII letter followed by three digits. Word
// boundaries are checked separately: regexp's \b is ASCII-only, so "mãA009"
// would otherwise yield a code.
var productCodeRe = regexp.MustCompile(`[A-Za-z][0-9]{3}`)

// Brands lists the brands carried by the shop, in match priority order.
var Brands = []string{"Balenciaga", "Gucci", "Coolmate"}

// ProductCodes returns every product code in text, in order of appearance.
// A code must not touch a letter, digit or underscore of any script.
func ProductCodes(text string) []string {
	var codes []string
	for _, loc := range productCodeRe.FindAllStringIndex(text, -1) {
		before, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
		after, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if isWordRune(before) || isWordRune(after) {
			continue
		}
		codes = append(codes, text[loc[0]:loc[1]])
	}
	return codes
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Brand returns the first brand in Brands that occurs in text, ignoring case.
func Brand(text string) (string, bool) {
	return matchBrand(text, Brands)
}

func matchBrand(text string, brands []string) (string, bool) {
	fold := cases.Fold()
	haystack := fold.String(text)
	for _, brand := range brands {
		if strings.Contains(haystack, fold.String(brand)) {
			return brand, true
		}
	}
	return "", false
}

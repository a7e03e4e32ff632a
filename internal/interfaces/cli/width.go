package cli

import (
	"golang.org/x/text/width"
)

// displayWidth counts terminal cells: wide and fullwidth runes (Hangul
// syllables, the 【】 brackets) take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

//Personal.AI order the ending

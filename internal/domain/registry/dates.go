package registry

import (
	"fmt"
	"regexp"
	"strconv"
)

// Acceptance dates are kept as strings in the canonical "YYYY.MM.DD" form and
// compared lexically.  Partial or unreadable dates are common in registry
// extracts, so no calendar parsing happens here.  The empty string (unknown)
// sorts before every known date.

// DateLayout documents the canonical date form.
const DateLayout = "YYYY.MM.DD"

var datePattern = regexp.MustCompile(`(\d{4})\s*(?:년|\.|-|/)\s*(\d{1,2})\s*(?:월|\.|-|/)\s*(\d{1,2})\s*일?`)

// FindDate locates the first date in s and returns it in canonical form
// together with the byte span it occupied.  ok is false when s holds no date.
func FindDate(s string) (date string, start, end int, ok bool) {
	loc := datePattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return "", 0, 0, false
	}
	y := s[loc[2]:loc[3]]
	m, _ := strconv.Atoi(s[loc[4]:loc[5]])
	d, _ := strconv.Atoi(s[loc[6]:loc[7]])
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return "", 0, 0, false
	}
	return fmt.Sprintf("%s.%02d.%02d", y, m, d), loc[0], loc[1], true
}

// NormalizeDate converts any supported date rendering ("2020.1.1",
// "2020-01-01", "2020/1/1", "2020년 1월 1일") into canonical form.  Input that
// contains no recognizable date yields "".
func NormalizeDate(s string) string {
	date, _, _, ok := FindDate(s)
	if !ok {
		return ""
	}
	return date
}

// CompareDates orders two canonical dates lexically: -1, 0 or +1.
func CompareDates(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DateBefore reports whether a is strictly earlier than b.
func DateBefore(a, b string) bool { return CompareDates(a, b) < 0 }

// DateAfter reports whether a is strictly later than b.
func DateAfter(a, b string) bool { return CompareDates(a, b) > 0 }

//Personal.AI order the ending

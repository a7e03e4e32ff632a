package registry

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeywordRule maps a literal fragment of a stated purpose to an event kind.
type KeywordRule struct {
	Keyword string
	Kind    EventKind
}

// KeywordTable is an ordered purpose→kind lookup.  Lookup picks the longest
// keyword contained in the purpose; among equally long matches the entry
// declared first wins, so the table is declared most-specific-first.
type KeywordTable []KeywordRule

// CancellationKeyword marks a purpose as striking an earlier entry.
const CancellationKeyword = "말소"

// DefaultKeywordTable returns the built-in Korean registry purpose table.
// The returned slice is a fresh copy.
func DefaultKeywordTable() KeywordTable {
	out := make(KeywordTable, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}

var defaultKeywords = KeywordTable{
	// cancellations
	{"근저당권설정등기말소", KindMortgageCancel},
	{"저당권설정등기말소", KindMortgageCancel},
	{"근저당권말소", KindMortgageCancel},
	{"저당권말소", KindMortgageCancel},
	{"설정등기말소", KindCancel},
	{"이전등기말소", KindCancel},
	{"변경등기말소", KindCancel},
	{"등기말소", KindCancel},
	{"말소", KindCancel},

	// provisional registrations
	{"소유권이전청구권가등기", KindProvisionalRegistration},
	{"소유권이전담보가등기", KindProvisionalRegistration},
	{"담보가등기", KindProvisionalRegistration},
	{"가등기", KindProvisionalRegistration},

	// procedural / auction
	{"임의경매개시결정", KindAuctionStart},
	{"강제경매개시결정", KindAuctionStart},
	{"경매개시결정", KindAuctionStart},
	{"예고등기", KindPreliminaryNotice},

	// attachments
	{"가압류", KindProvisionalSeizure},
	{"가처분", KindProvisionalDisposition},
	{"압류", KindSeizure},

	// security rights
	{"근저당권이전", KindMortgageTransfer},
	{"저당권이전", KindMortgageTransfer},
	{"근저당권설정", KindMortgage},
	{"저당권설정", KindMortgage},
	{"근저당권", KindMortgage},
	{"저당권", KindMortgage},

	// usufructuary rights
	{"주택임차권", KindLeaseRight},
	{"임차권설정", KindLeaseRight},
	{"임차권", KindLeaseRight},
	{"전세권설정", KindLeaseRight},
	{"전세권", KindLeaseRight},
	{"구분지상권", KindSuperficies},
	{"지상권설정", KindSuperficies},
	{"지상권", KindSuperficies},
	{"지역권설정", KindEasement},
	{"지역권", KindEasement},

	// ownership
	{"소유권보존", KindOwnershipPreservation},
	{"소유권이전", KindOwnershipTransfer},
	{"소유권일부이전", KindOwnershipTransfer},
	{"지분이전", KindOwnershipTransfer},
	{"신탁", KindTrust},
	{"환매특약", KindRepurchaseOption},
	{"환매", KindRepurchaseOption},

	// corrections
	{"근저당권변경", KindCorrection},
	{"저당권변경", KindCorrection},
	{"주택임차권변경", KindCorrection},
	{"임차권변경", KindCorrection},
	{"전세권변경", KindCorrection},
	{"구분지상권변경", KindCorrection},
	{"지상권변경", KindCorrection},
	{"지역권변경", KindCorrection},
	{"경정", KindCorrection},
	{"변경", KindCorrection},
}

// Lookup returns the kind for purpose and whether any keyword matched.
// Whitespace inside the purpose is ignored.  An unmatched purpose yields
// (KindOther, false) and callers are expected to surface the gap.
func (t KeywordTable) Lookup(purpose string) (EventKind, bool) {
	compact := CompactPurpose(purpose)
	if compact == "" {
		return KindOther, false
	}
	best := -1
	bestLen := 0
	for i, rule := range t {
		if rule.Keyword == "" || !strings.Contains(compact, rule.Keyword) {
			continue
		}
		if n := utf8.RuneCountInString(rule.Keyword); n > bestLen {
			best, bestLen = i, n
		}
	}
	if best < 0 {
		return KindOther, false
	}
	return t[best].Kind, true
}

// CompactPurpose strips every whitespace rune from purpose.
func CompactPurpose(purpose string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, purpose)
}

// IsCancellationPurpose reports whether the purpose itself strikes an entry.
// Mentions of cancellation in other cells do not count.
func IsCancellationPurpose(purpose string) bool {
	return strings.Contains(CompactPurpose(purpose), CancellationKeyword)
}

//Personal.AI order the ending

// Package registry defines the value objects of a Korean real-property register
// (등기사항전부증명서) as consumed by the legal-risk classification engine:
// sections, canonical event kinds, recorded events, normalized documents and
// classification results.
//
// Every type in this package is an immutable value once constructed.  Slices
// handed out by constructors are owned by the receiver and must not be
// modified by callers.
package registry

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Section
// ─────────────────────────────────────────────────────────────────────────────

// Section identifies which part of the register an event was recorded in.
type Section string

const (
	// SectionTitle is the 표제부: parcel / building description.
	SectionTitle Section = "TITLE"
	// SectionGapgu is the 갑구: ownership and ownership-adjacent claims.
	SectionGapgu Section = "GAPGU"
	// SectionEulgu is the 을구: secured and usufructuary rights.
	SectionEulgu Section = "EULGU"
)

// Literal section markers as printed in registry text.
const (
	MarkerTitle = "【표제부】"
	MarkerGapgu = "【갑구】"
	MarkerEulgu = "【을구】"
)

// Section name fragments used to tag structured payload blocks.
const (
	SectionNameTitle = "표제부"
	SectionNameGapgu = "갑구"
	SectionNameEulgu = "을구"
)

func (s Section) String() string { return string(s) }

// IsValid reports whether s is one of the three register sections.
func (s Section) IsValid() bool {
	switch s {
	case SectionTitle, SectionGapgu, SectionEulgu:
		return true
	default:
		return false
	}
}

// SectionFromName maps a free-text section label (e.g. "【갑구】 (소유권에 관한 사항)")
// to a Section.  The second return value is false when no fragment matched.
func SectionFromName(name string) (Section, bool) {
	switch {
	case strings.Contains(name, SectionNameTitle):
		return SectionTitle, true
	case strings.Contains(name, SectionNameGapgu):
		return SectionGapgu, true
	case strings.Contains(name, SectionNameEulgu):
		return SectionEulgu, true
	default:
		return "", false
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// EventKind
// ─────────────────────────────────────────────────────────────────────────────

// EventKind is the canonical, closed classification of a registry entry's
// stated purpose.  KindOther is the explicit fallback for purposes the keyword
// table does not recognise; it is a known coverage gap, not a wildcard.
type EventKind string

const (
	KindOwnershipTransfer       EventKind = "ownership-transfer"
	KindOwnershipPreservation   EventKind = "ownership-preservation"
	KindSeizure                 EventKind = "seizure"
	KindProvisionalSeizure      EventKind = "provisional-seizure"
	KindProvisionalDisposition  EventKind = "provisional-disposition"
	KindMortgage                EventKind = "mortgage"
	KindMortgageTransfer        EventKind = "mortgage-transfer"
	KindMortgageCancel          EventKind = "mortgage-cancel"
	KindLeaseRight              EventKind = "lease-right"
	KindAuctionStart            EventKind = "auction-start"
	KindPreliminaryNotice       EventKind = "preliminary-notice"
	KindTrust                   EventKind = "trust"
	KindRepurchaseOption        EventKind = "repurchase-option"
	KindProvisionalRegistration EventKind = "provisional-registration"
	KindSuperficies             EventKind = "superficies"
	KindEasement                EventKind = "easement"
	KindCancel                  EventKind = "cancel"
	KindCorrection              EventKind = "correction"
	KindOther                   EventKind = "other"
)

// AllEventKinds lists every member of the closed enum in declaration order.
var AllEventKinds = []EventKind{
	KindOwnershipTransfer, KindOwnershipPreservation, KindSeizure,
	KindProvisionalSeizure, KindProvisionalDisposition, KindMortgage,
	KindMortgageTransfer, KindMortgageCancel, KindLeaseRight, KindAuctionStart,
	KindPreliminaryNotice, KindTrust, KindRepurchaseOption,
	KindProvisionalRegistration, KindSuperficies, KindEasement, KindCancel,
	KindCorrection, KindOther,
}

func (k EventKind) String() string { return string(k) }

// IsValid reports whether k is a member of the closed enum.
func (k EventKind) IsValid() bool {
	for _, known := range AllEventKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsProcedural reports whether k is bookkeeping noise that never carries a
// right of its own (auction starts, cancellations, corrections, unknowns).
func (k EventKind) IsProcedural() bool {
	switch k {
	case KindAuctionStart, KindCancel, KindMortgageCancel, KindCorrection, KindOther:
		return true
	default:
		return false
	}
}

// ParseEventKind converts a canonical kind string into an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("registry: unknown event kind %q", s)
	}
	return k, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RegistryEvent
// ─────────────────────────────────────────────────────────────────────────────

// RegistryEvent is one recorded legal act.  Optional attributes use empty
// strings (text) or nil pointers (numbers) for "absent".
type RegistryEvent struct {
	// Seq is the 1-based position of the event in source order.  It identifies
	// the event within its document and is stable across date sorting.
	Seq              int       `json:"seq"`
	Section          Section   `json:"section"`
	Rank             *int      `json:"rank,omitempty"`
	StatedPurpose    string    `json:"stated_purpose"`
	Kind             EventKind `json:"event_kind"`
	AcceptedOn       string    `json:"accepted_on,omitempty"`
	ReceiptReference string    `json:"receipt_reference,omitempty"`
	CauseText        string    `json:"cause_text,omitempty"`
	Holder           string    `json:"holder,omitempty"`
	Amount           *int64    `json:"amount,omitempty"`
	IsCancelled      bool      `json:"is_cancelled"`
	SourceText       string    `json:"source_text"`
}

// NewRegistryEvent returns ev with its audit snippet guaranteed non-empty.
// When SourceText is blank it falls back to the stated purpose, and failing
// that to a synthetic "<section>#<rank>" marker, so an event can never lose
// its provenance.
func NewRegistryEvent(ev RegistryEvent) RegistryEvent {
	if strings.TrimSpace(ev.SourceText) != "" {
		return ev
	}
	switch {
	case strings.TrimSpace(ev.StatedPurpose) != "":
		ev.SourceText = ev.StatedPurpose
	case ev.Rank != nil:
		ev.SourceText = fmt.Sprintf("%s#%d", ev.Section, *ev.Rank)
	default:
		ev.SourceText = fmt.Sprintf("%s#?", ev.Section)
	}
	return ev
}

// Label renders a compact one-line description used in summaries and logs.
func (e RegistryEvent) Label() string {
	date := e.AcceptedOn
	if date == "" {
		date = "date unknown"
	}
	purpose := e.StatedPurpose
	if purpose == "" {
		purpose = string(e.Kind)
	}
	return fmt.Sprintf("%s %s [%s]", purpose, date, e.Kind)
}

// IntPtr and Int64Ptr are small helpers for building optional fields.
func IntPtr(v int) *int       { return &v }
func Int64Ptr(v int64) *int64 { return &v }

//Personal.AI order the ending

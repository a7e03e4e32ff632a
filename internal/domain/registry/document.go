package registry

import (
	"slices"
)

// Confidence is a three-level trust grade shared by parse quality and the
// overall classification result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

func (c Confidence) String() string { return string(c) }

// IsValid reports whether c is one of the three grades.
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

// DocumentSource records how a document was produced.
type DocumentSource string

const (
	// SourceText marks a document parsed from free registry text.
	SourceText DocumentSource = "text"
	// SourceStructured marks a document mapped from a third-party payload.
	SourceStructured DocumentSource = "structured"
)

func (s DocumentSource) String() string { return string(s) }

// TitleBlock is the best-effort parcel description from the 표제부.
type TitleBlock struct {
	Address   string `json:"address,omitempty"`
	Structure string `json:"structure,omitempty"`
	Area      string `json:"area,omitempty"`
}

// IsEmpty reports whether nothing could be extracted.
func (t *TitleBlock) IsEmpty() bool {
	return t == nil || (t.Address == "" && t.Structure == "" && t.Area == "")
}

// RegistryDocument is the normalized form of one register extract.
type RegistryDocument struct {
	Title           *TitleBlock     `json:"title,omitempty"`
	Events          []RegistryEvent `json:"events"`
	ParseConfidence Confidence      `json:"parse_confidence"`
	ParseWarnings   []string        `json:"parse_warnings"`
	Source          DocumentSource  `json:"source"`
}

// NewDocument assembles a RegistryDocument.  Events without a sequence number
// are numbered in the order given, every event is passed through
// NewRegistryEvent, and the list is stably sorted by acceptance date so that
// same-day entries keep their source order.  The inputs are copied.
func NewDocument(title *TitleBlock, events []RegistryEvent, confidence Confidence, warnings []string, source DocumentSource) RegistryDocument {
	evs := make([]RegistryEvent, len(events))
	for i, ev := range events {
		if ev.Seq == 0 {
			ev.Seq = i + 1
		}
		evs[i] = NewRegistryEvent(ev)
	}
	slices.SortStableFunc(evs, func(a, b RegistryEvent) int {
		return CompareDates(a.AcceptedOn, b.AcceptedOn)
	})

	var tb *TitleBlock
	if !title.IsEmpty() {
		cp := *title
		tb = &cp
	}
	if !confidence.IsValid() {
		confidence = ConfidenceLow
	}
	return RegistryDocument{
		Title:           tb,
		Events:          evs,
		ParseConfidence: confidence,
		ParseWarnings:   slices.Clone(warnings),
		Source:          source,
	}
}

// Address returns the title address or "" when unknown.
func (d RegistryDocument) Address() string {
	if d.Title == nil {
		return ""
	}
	return d.Title.Address
}

// KindCounts tallies events by kind, cancelled entries included.
func (d RegistryDocument) KindCounts() map[EventKind]int {
	out := make(map[EventKind]int, len(d.Events))
	for _, ev := range d.Events {
		out[ev.Kind]++
	}
	return out
}

//Personal.AI order the ending

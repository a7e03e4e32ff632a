package normalizer

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// WarningNoMarkers is emitted when text carries none of the section markers.
const WarningNoMarkers = "no section markers found"

// cellSplitPattern separates columns in pipe-less renderings, where PDF
// converters leave runs of spaces between columns.
var cellSplitPattern = regexp.MustCompile(`\s{2,}|\t+`)

var sectionMarkers = []struct {
	marker  string
	section registry.Section
}{
	{registry.MarkerTitle, registry.SectionTitle},
	{registry.MarkerGapgu, registry.SectionGapgu},
	{registry.MarkerEulgu, registry.SectionEulgu},
}

type markerHit struct {
	pos     int
	end     int
	section registry.Section
}

// NormalizeText parses a flat register extract.  The input is NFC-normalized
// first so that decomposed Hangul from PDF converters still matches markers
// and keywords.
func (n *Normalizer) NormalizeText(raw string) registry.RegistryDocument {
	text := norm.NFC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	hits := findMarkers(text)
	if len(hits) == 0 {
		return n.assemble(nil, registry.SourceText, []string{WarningNoMarkers})
	}

	sections := make([]sectionRows, 0, len(hits))
	for i, h := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].pos
		}
		sections = append(sections, sectionRows{
			section: h.section,
			rows:    splitRows(text[h.end:end]),
		})
	}
	return n.assemble(sections, registry.SourceText, nil)
}

// findMarkers returns every marker occurrence in source order.
func findMarkers(text string) []markerHit {
	var hits []markerHit
	for _, m := range sectionMarkers {
		offset := 0
		for {
			idx := strings.Index(text[offset:], m.marker)
			if idx < 0 {
				break
			}
			pos := offset + idx
			hits = append(hits, markerHit{pos: pos, end: pos + len(m.marker), section: m.section})
			offset = pos + len(m.marker)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	return hits
}

// splitRows turns section text into rows.  The remainder of the marker line
// (e.g. "(소유권에 관한 사항)") is dropped.
func splitRows(body string) []row {
	lines := strings.Split(body, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	out := make([]row, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, row{cells: splitCells(line), raw: strings.TrimRight(line, " \t")})
	}
	return out
}

// splitCells splits on pipes when present, otherwise on column gaps.  A single
// leading pipe is a table border, not an empty first column, only when the
// line also ends with one.
func splitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	if strings.Contains(trimmed, "|") {
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1 {
			trimmed = trimmed[1 : len(trimmed)-1]
		}
		parts := strings.Split(trimmed, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return cellSplitPattern.Split(trimmed, -1)
}

//Personal.AI order the ending

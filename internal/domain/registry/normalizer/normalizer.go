// Package normalizer converts raw register extracts into canonical
// registry.RegistryDocument values.  Two input shapes are accepted: flat text
// carrying the 【표제부】/【갑구】/【을구】 markers with pipe-delimited rows, and a
// third-party structured payload whose rows are keyed by column index.  Both
// shapes are reduced to the same row representation and share one extraction
// path, so classification never depends on where a document came from.
//
// The normalizer never returns an error for bad content: malformed blocks are
// skipped with a warning and an unreadable document yields zero events with
// LOW parse confidence.
package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// Column layout of 갑구/을구 rows.
const (
	colRank = iota
	colPurpose
	colReceipt
	colCause
	colHolder
)

// Column layout of 표제부 rows.
const (
	titleColRank = iota
	titleColReceipt
	titleColAddress
	titleColBuilding
)

// continuationSep joins fragments of one cell that were spread over several
// physical rows.  Two spaces keep holder trimming working across lines.
const continuationSep = "  "

// WarningNoEvents is emitted when a document yields zero events.
const WarningNoEvents = "no events parsed"

var (
	rankPattern       = regexp.MustCompile(`^(\d+)(?:-\d+)?$`)
	receiptPattern    = regexp.MustCompile(`제\s*(\d+)\s*호`)
	amountPattern     = regexp.MustCompile(`금\s*([0-9][0-9,]*)\s*원`)
	areaPattern       = regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?:㎡|m2|제곱미터)`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
	residentNoPattern = regexp.MustCompile(`\s*\d{6}-[0-9*]{7}`)
	headerRowKeywords = []string{"순위번호", "표시번호"}
)

// holderRoles are the role prefixes that introduce a right holder's name,
// longest first so that 근저당권자 is not read as 저당권자.
var holderRoles = []string{
	"근저당권자", "가등기권자", "저당권자", "임차권자", "전세권자",
	"지상권자", "지역권자", "채권자", "수탁자", "소유자", "권리자",
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithKeywordTable replaces the purpose→kind table.
func WithKeywordTable(t registry.KeywordTable) Option {
	return func(n *Normalizer) {
		if len(t) > 0 {
			n.keywords = t
		}
	}
}

// WithLogger sets the logger used to report unrecognised purposes.
func WithLogger(l logging.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// Normalizer is safe for concurrent use; it holds only read-only tables.
type Normalizer struct {
	keywords registry.KeywordTable
	logger   logging.Logger
}

// New returns a Normalizer using the default keyword table.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		keywords: registry.DefaultKeywordTable(),
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared row model
// ─────────────────────────────────────────────────────────────────────────────

// row is one physical line (text) or one data row (structured).
type row struct {
	cells []string
	raw   string
}

// sectionRows holds the rows of one register section in source order.
type sectionRows struct {
	section registry.Section
	label   string
	rows    []row
}

// block is one logical entry: a rank row plus its continuation rows.
type block struct {
	section registry.Section
	rank    string
	rows    []row
}

// assemble groups rows into blocks, extracts events and builds the document.
func (n *Normalizer) assemble(sections []sectionRows, source registry.DocumentSource, warnings []string) registry.RegistryDocument {
	var (
		events []registry.RegistryEvent
		title  *registry.TitleBlock
		failed bool
	)

	for _, sec := range sections {
		if sec.section == registry.SectionTitle {
			title = mergeTitle(title, extractTitle(sec.rows))
			continue
		}
		for _, b := range groupBlocks(sec) {
			ev, problems, ok := n.extractEvent(b)
			if len(problems) > 0 {
				failed = true
				warnings = append(warnings, problems...)
			}
			if !ok {
				continue
			}
			events = append(events, ev)
		}
	}

	confidence := registry.ConfidenceHigh
	switch {
	case len(events) == 0:
		confidence = registry.ConfidenceLow
		warnings = append(warnings, WarningNoEvents)
	case failed || len(warnings) > 0:
		confidence = registry.ConfidenceMedium
	}

	doc := registry.NewDocument(title, events, confidence, warnings, source)
	n.logger.Debug("registry document normalized",
		logging.String("source", source.String()),
		logging.Int("events", len(doc.Events)),
		logging.Int("warnings", len(doc.ParseWarnings)),
		logging.String("parse_confidence", doc.ParseConfidence.String()),
	)
	return doc
}

// groupBlocks starts a new block at every row whose leading token is a rank
// number.  Rows before the first rank row are preamble and dropped.
func groupBlocks(sec sectionRows) []block {
	var (
		out     []block
		current *block
	)
	for _, r := range sec.rows {
		if isHeaderRow(r) {
			continue
		}
		if rank, cells, ok := splitRank(r.cells); ok {
			out = append(out, block{section: sec.section, rank: rank})
			current = &out[len(out)-1]
			current.rows = append(current.rows, row{cells: cells, raw: r.raw})
			continue
		}
		if current != nil {
			current.rows = append(current.rows, r)
		}
	}
	return out
}

// splitRank checks whether the first cell starts with a rank number.  When the
// rank shares its cell with further text ("3 근저당권설정") the remainder is
// shifted into the purpose column.
func splitRank(cells []string) (string, []string, bool) {
	if len(cells) == 0 {
		return "", nil, false
	}
	first := strings.TrimSpace(cells[0])
	fields := strings.Fields(first)
	if len(fields) == 0 || !rankPattern.MatchString(fields[0]) {
		return "", nil, false
	}
	rank := fields[0]
	if len(fields) == 1 {
		out := make([]string, len(cells))
		copy(out, cells)
		out[0] = rank
		return rank, out, true
	}
	rest := strings.TrimSpace(strings.TrimPrefix(first, rank))
	out := make([]string, 0, len(cells)+1)
	out = append(out, rank, rest)
	out = append(out, cells[1:]...)
	return rank, out, true
}

func isHeaderRow(r row) bool {
	for _, kw := range headerRowKeywords {
		if strings.Contains(r.raw, kw) {
			return true
		}
	}
	return false
}

// mergeCells folds continuation rows column-wise into one cell list.
func mergeCells(rows []row) []string {
	width := 0
	for _, r := range rows {
		if len(r.cells) > width {
			width = len(r.cells)
		}
	}
	parts := make([][]string, width)
	for _, r := range rows {
		for i, c := range r.cells {
			if c = strings.TrimSpace(c); c != "" {
				parts[i] = append(parts[i], c)
			}
		}
	}
	out := make([]string, width)
	for i, p := range parts {
		out[i] = strings.Join(p, continuationSep)
	}
	return out
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Event extraction
// ─────────────────────────────────────────────────────────────────────────────

// extractEvent decomposes one block.  problems lists extraction failures for
// the block; ok is false when the block had to be skipped entirely.
func (n *Normalizer) extractEvent(b block) (registry.RegistryEvent, []string, bool) {
	cells := mergeCells(b.rows)
	raws := make([]string, 0, len(b.rows))
	for _, r := range b.rows {
		raws = append(raws, r.raw)
	}
	source := strings.Join(raws, "\n")
	where := fmt.Sprintf("%s rank %s", b.section, b.rank)

	purpose := strings.TrimSpace(cell(cells, colPurpose))
	if purpose == "" {
		return registry.RegistryEvent{}, []string{where + ": missing stated purpose, block skipped"}, false
	}

	var problems []string
	ev := registry.RegistryEvent{
		Section:       b.section,
		StatedPurpose: purpose,
		CauseText:     strings.TrimSpace(cell(cells, colCause)),
		IsCancelled:   registry.IsCancellationPurpose(purpose),
		SourceText:    source,
	}
	if m := rankPattern.FindStringSubmatch(b.rank); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			ev.Rank = registry.IntPtr(v)
		}
	}

	kind, known := n.keywords.Lookup(purpose)
	ev.Kind = kind
	if !known {
		n.logger.Warn("unrecognized registry purpose, falling back to other",
			logging.String("purpose", purpose),
			logging.String("section", b.section.String()),
			logging.String("rank", b.rank),
		)
	}

	receipt := cell(cells, colReceipt)
	if date, _, _, ok := registry.FindDate(receipt); ok {
		ev.AcceptedOn = date
	} else {
		problems = append(problems, where+": acceptance date not found")
	}
	if m := receiptPattern.FindStringSubmatch(receipt); m != nil {
		ev.ReceiptReference = "제" + m[1] + "호"
	}

	holderText := strings.Join(cells[min(colHolder, len(cells)):], continuationSep)
	ev.Holder = extractHolder(holderText)
	ev.Amount = extractAmount(holderText + " " + ev.CauseText)

	return registry.NewRegistryEvent(ev), problems, true
}

// extractHolder returns the name following the first known role prefix, with
// multi-space separated trailing columns and resident numbers trimmed.
func extractHolder(text string) string {
	for _, role := range holderRoles {
		idx := strings.Index(text, role)
		if idx < 0 {
			continue
		}
		rest := strings.TrimLeft(text[idx+len(role):], " \t:")
		if loc := multiSpacePattern.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]]
		}
		rest = residentNoPattern.ReplaceAllString(rest, "")
		return strings.TrimSpace(rest)
	}
	return ""
}

// extractAmount returns the first 금…원 figure in text.
func extractAmount(text string) *int64 {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	return registry.Int64Ptr(v)
}

// ─────────────────────────────────────────────────────────────────────────────
// Title block
// ─────────────────────────────────────────────────────────────────────────────

// extractTitle keeps the latest non-empty value of each title attribute.
func extractTitle(rows []row) *registry.TitleBlock {
	tb := &registry.TitleBlock{}
	for _, b := range groupBlocks(sectionRows{section: registry.SectionTitle, rows: rows}) {
		cells := mergeCells(b.rows)
		if addr := strings.TrimSpace(cell(cells, titleColAddress)); addr != "" {
			tb.Address = multiSpacePattern.ReplaceAllString(addr, " ")
		}
		building := strings.TrimSpace(cell(cells, titleColBuilding))
		if building == "" {
			continue
		}
		if m := areaPattern.FindStringSubmatchIndex(building); m != nil {
			tb.Area = building[m[2]:m[3]] + "㎡"
			if s := strings.TrimSpace(building[:m[0]]); s != "" {
				tb.Structure = multiSpacePattern.ReplaceAllString(s, " ")
			}
		} else {
			tb.Structure = multiSpacePattern.ReplaceAllString(building, " ")
		}
	}
	if tb.IsEmpty() {
		return nil
	}
	return tb
}

func mergeTitle(prev, next *registry.TitleBlock) *registry.TitleBlock {
	if prev == nil {
		return next
	}
	if next == nil {
		return prev
	}
	out := *prev
	if next.Address != "" {
		out.Address = next.Address
	}
	if next.Structure != "" {
		out.Structure = next.Structure
	}
	if next.Area != "" {
		out.Area = next.Area
	}
	return &out
}

//Personal.AI order the ending

package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// Row type discriminator values of the structured payload.
const (
	RowTypeHeader = "header"
	RowTypeData   = "data"
)

// rowTypeKey is the discriminator key inside a structured row object.
const rowTypeKey = "type"

// StructuredPayload is the third-party register shape: section blocks tagged
// by name, each holding rows keyed by zero-based column index.
type StructuredPayload struct {
	Sections []StructuredSection `json:"sections"`
}

// StructuredSection is one tagged block; Name contains 표제부, 갑구 or 을구.
type StructuredSection struct {
	Name string          `json:"name"`
	Rows []StructuredRow `json:"rows"`
}

// StructuredRow maps column index to cell text.  On the wire it is a flat
// object: {"type":"header","0":"순위번호","1":"등기목적",...}.
type StructuredRow struct {
	Type  string
	Cells map[int]string
}

// IsHeader reports whether the row is a column header.
func (r StructuredRow) IsHeader() bool {
	return strings.EqualFold(strings.TrimSpace(r.Type), RowTypeHeader)
}

// MaxColumns bounds the column index of a structured row.  Register tables
// have five columns; cells at or beyond this index are dropped.
const MaxColumns = 64

// CellSlice returns the cells as a dense slice; missing indexes become "".
// Cells at or beyond MaxColumns are left out.
func (r StructuredRow) CellSlice() []string {
	maxIdx := -1
	for idx := range r.Cells {
		if idx > maxIdx && idx < MaxColumns {
			maxIdx = idx
		}
	}
	out := make([]string, maxIdx+1)
	for idx, v := range r.Cells {
		if idx >= 0 && idx < MaxColumns {
			out[idx] = v
		}
	}
	return out
}

// DroppedCells counts the cells CellSlice leaves out.
func (r StructuredRow) DroppedCells() int {
	n := 0
	for idx := range r.Cells {
		if idx >= MaxColumns {
			n++
		}
	}
	return n
}

// UnmarshalJSON decodes the flat row object.  Non-numeric keys other than the
// discriminator are ignored; non-string cell values keep their JSON text.
func (r *StructuredRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Cells = make(map[int]string, len(raw))
	for key, val := range raw {
		if key == rowTypeKey {
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("row %s: %w", rowTypeKey, err)
			}
			r.Type = s
			continue
		}
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			continue
		}
		r.Cells[idx] = rawCellText(val)
	}
	return nil
}

// MarshalJSON encodes the row back into the flat object form.
func (r StructuredRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(r.Cells)+1)
	if r.Type != "" {
		out[rowTypeKey] = r.Type
	}
	for idx, v := range r.Cells {
		out[strconv.Itoa(idx)] = v
	}
	return json.Marshal(out)
}

func rawCellText(val json.RawMessage) string {
	var s string
	if err := json.Unmarshal(val, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(val)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	return string(trimmed)
}

// ParseStructuredJSON decodes a structured payload.
func ParseStructuredJSON(data []byte) (StructuredPayload, error) {
	var p StructuredPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return StructuredPayload{}, fmt.Errorf("normalizer: decode structured payload: %w", err)
	}
	return p, nil
}

// NormalizeStructured maps a structured payload through the same extraction
// path as NormalizeText.  Header rows are skipped and sections whose name
// matches none of the three register sections are reported and ignored.
func (n *Normalizer) NormalizeStructured(p StructuredPayload) registry.RegistryDocument {
	var (
		warnings []string
		sections []sectionRows
	)
	for _, s := range p.Sections {
		name := norm.NFC.String(s.Name)
		sec, ok := registry.SectionFromName(name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unrecognized section %q skipped", s.Name))
			continue
		}
		rows := make([]row, 0, len(s.Rows))
		for i, r := range s.Rows {
			if r.IsHeader() {
				continue
			}
			if dropped := r.DroppedCells(); dropped > 0 {
				warnings = append(warnings, fmt.Sprintf("%s row %d: %d cell(s) beyond column %d dropped", name, i+1, dropped, MaxColumns))
			}
			cells := r.CellSlice()
			for i := range cells {
				cells[i] = strings.TrimSpace(norm.NFC.String(cells[i]))
			}
			if isBlank(cells) {
				continue
			}
			rows = append(rows, row{cells: cells, raw: strings.Join(cells, " | ")})
		}
		sections = append(sections, sectionRows{section: sec, label: name, rows: rows})
	}
	return n.assemble(sections, registry.SourceStructured, warnings)
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

//Personal.AI order the ending

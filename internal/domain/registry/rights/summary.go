package rights

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// SummaryInput is everything BuildSummary renders.
type SummaryInput struct {
	Address      string
	Base         BaseResolution
	Extinguished []registry.ClassifiedRight
	Surviving    []registry.ClassifiedRight
	Uncertain    []registry.ClassifiedRight
	HardStops    []registry.HardStopFlag
	Confidence   registry.Confidence
}

// UnknownAddress stands in when the title section has no address.
const UnknownAddress = "주소 미상"

// amountPrinter groups digits; message.Printer is safe for concurrent use.
var amountPrinter = message.NewPrinter(language.Korean)

// BuildSummary renders the audit summary.  The output is a pure function of
// in: identical input yields byte-identical output, suitable for snapshots.
func BuildSummary(in SummaryInput) string {
	var b strings.Builder

	address := in.Address
	if address == "" {
		address = UnknownAddress
	}
	fmt.Fprintf(&b, "address: %s\n", address)

	if in.Base.Found() {
		fmt.Fprintf(&b, "cancellation base: %s (%s)\n", describe(*in.Base.Event), in.Base.Reason)
	} else {
		fmt.Fprintf(&b, "cancellation base: undeterminable (%s)\n", in.Base.Reason)
	}

	writeRights(&b, "extinguished", in.Extinguished)
	writeRights(&b, "surviving", in.Surviving)
	fmt.Fprintf(&b, "uncertain: %d\n", len(in.Uncertain))

	names := make([]string, 0, len(in.HardStops))
	for _, hs := range in.HardStops {
		names = append(names, hs.Name)
	}
	if len(names) == 0 {
		b.WriteString("hard stops: none\n")
	} else {
		fmt.Fprintf(&b, "hard stops: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintf(&b, "confidence: %s", in.Confidence)
	return b.String()
}

func writeRights(b *strings.Builder, label string, rights []registry.ClassifiedRight) {
	fmt.Fprintf(b, "%s: %d\n", label, len(rights))
	for _, cr := range rights {
		fmt.Fprintf(b, "  - %s\n", describe(cr.Event))
	}
}

func describe(ev registry.RegistryEvent) string {
	s := ev.Label()
	if ev.Amount != nil {
		s += amountPrinter.Sprintf(" amount %d원", *ev.Amount)
	}
	return s
}

//Personal.AI order the ending

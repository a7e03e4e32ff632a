package rights

import (
	"fmt"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// Classification reasons.
const (
	ReasonAfterBase         = "recorded after cancellation base"
	ReasonSecurityExtinct   = "security/attachment right extinguished by sale"
	ReasonUsufructInherited = "usufructuary right predates base, inherited by purchaser"
	ReasonOwnershipReview   = "ownership-related entry requires manual review"
)

// Partition is the three-way split of eligible events.
type Partition struct {
	Extinguished []registry.ClassifiedRight
	Surviving    []registry.ClassifiedRight
	Uncertain    []registry.ClassifiedRight
}

// Classify assigns every eligible event a fate relative to base.  Cancelled
// events, the base itself and procedural kinds are not eligible.  With no
// base nothing is classified; the confidence grade carries that gap.
func Classify(events []registry.RegistryEvent, base *registry.RegistryEvent) Partition {
	var p Partition
	if base == nil {
		return p
	}
	for _, ev := range events {
		if ev.IsCancelled || sameEvent(ev, *base) || ev.Kind.IsProcedural() {
			continue
		}
		fate, reason := fateOf(ev, base.AcceptedOn)
		cr := registry.ClassifiedRight{Event: ev, Reason: reason}
		switch fate {
		case registry.FateExtinguished:
			p.Extinguished = append(p.Extinguished, cr)
		case registry.FateSurviving:
			p.Surviving = append(p.Surviving, cr)
		default:
			p.Uncertain = append(p.Uncertain, cr)
		}
	}
	return p
}

// sameEvent compares by Seq; unnumbered events fall back to their content.
func sameEvent(a, b registry.RegistryEvent) bool {
	if a.Seq != 0 || b.Seq != 0 {
		return a.Seq == b.Seq
	}
	return a.Section == b.Section && a.Kind == b.Kind &&
		a.AcceptedOn == b.AcceptedOn && a.SourceText == b.SourceText
}

func fateOf(ev registry.RegistryEvent, baseDate string) (registry.Fate, string) {
	if registry.DateAfter(ev.AcceptedOn, baseDate) {
		return registry.FateExtinguished, ReasonAfterBase
	}
	switch ev.Kind {
	case registry.KindMortgage, registry.KindMortgageTransfer, registry.KindSeizure,
		registry.KindProvisionalSeizure, registry.KindProvisionalDisposition:
		return registry.FateExtinguished, ReasonSecurityExtinct
	case registry.KindLeaseRight, registry.KindSuperficies, registry.KindEasement:
		return registry.FateSurviving, ReasonUsufructInherited
	case registry.KindOwnershipTransfer, registry.KindOwnershipPreservation:
		return registry.FateUncertain, ReasonOwnershipReview
	default:
		return registry.FateUncertain, fmt.Sprintf("%s entry at or before base requires manual review", ev.Kind)
	}
}

//Personal.AI order the ending

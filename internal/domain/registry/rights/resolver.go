// Package rights holds the pure decision stages of the classification engine:
// cancellation base resolution, extinguish/survive classification, hard-stop
// evaluation, and confidence grading with summary generation.  Every function
// here is a deterministic function of its inputs; none performs I/O or keeps
// state between calls.
package rights

import (
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// Fixed justification vocabulary for the cancellation base.
const (
	ReasonNoAuctionStart         = "no auction-start event found"
	ReasonNoPriorEncumbrance     = "no prior encumbrance found"
	ReasonEarliestMortgage       = "earliest mortgage recorded before auction start"
	ReasonEarliestProvisionalSzr = "earliest provisional seizure recorded before auction start"
	ReasonEarliestSeizure        = "earliest seizure recorded before auction start"
)

// basePriority is the legal ranking of base candidates: secured credit ranks
// above unsecured attachment.  The order must not change.
var basePriority = []struct {
	kind   registry.EventKind
	rule   registry.BaseRule
	reason string
}{
	{registry.KindMortgage, registry.BaseRuleMortgage, ReasonEarliestMortgage},
	{registry.KindProvisionalSeizure, registry.BaseRuleProvisionalSeizure, ReasonEarliestProvisionalSzr},
	{registry.KindSeizure, registry.BaseRuleSeizure, ReasonEarliestSeizure},
}

// BaseResolution is the resolver's output.  Event is nil when no anchor exists.
type BaseResolution struct {
	Event  *registry.RegistryEvent
	Rule   registry.BaseRule
	Reason string
}

// Found reports whether a base was resolved.
func (b BaseResolution) Found() bool { return b.Event != nil }

// ResolveBase finds the cancellation base right.
//
// The earliest non-cancelled auction start anchors the search.  Among
// non-cancelled mortgages, provisional seizures and seizures recorded strictly
// before it, the earliest of the highest-priority kind present wins.  With no
// such candidate the auction start itself is the base.  Ties on date go to the
// event that appears first in the slice.
func ResolveBase(events []registry.RegistryEvent) BaseResolution {
	auction := earliest(events, func(ev registry.RegistryEvent) bool {
		return ev.Kind == registry.KindAuctionStart
	})
	if auction == nil {
		return BaseResolution{Rule: registry.BaseRuleNone, Reason: ReasonNoAuctionStart}
	}

	for _, p := range basePriority {
		kind := p.kind
		candidate := earliest(events, func(ev registry.RegistryEvent) bool {
			return ev.Kind == kind && registry.DateBefore(ev.AcceptedOn, auction.AcceptedOn)
		})
		if candidate != nil {
			return BaseResolution{Event: candidate, Rule: p.rule, Reason: p.reason}
		}
	}
	return BaseResolution{Event: auction, Rule: registry.BaseRuleAuctionStart, Reason: ReasonNoPriorEncumbrance}
}

// earliest returns a copy of the earliest non-cancelled event satisfying
// match, or nil.
func earliest(events []registry.RegistryEvent, match func(registry.RegistryEvent) bool) *registry.RegistryEvent {
	var best *registry.RegistryEvent
	for i := range events {
		ev := events[i]
		if ev.IsCancelled || !match(ev) {
			continue
		}
		if best == nil || registry.DateBefore(ev.AcceptedOn, best.AcceptedOn) {
			cp := ev
			best = &cp
		}
	}
	return best
}

//Personal.AI order the ending

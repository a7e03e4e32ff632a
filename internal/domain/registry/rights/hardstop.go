package rights

import (
	"strings"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// HardStopRule is a declarative red-flag definition.  An event matches when
// its kind is in Kinds or any Keywords substring occurs in its source text;
// any ExcludeKeywords hit in purpose+source text vetoes the match.  Rules with
// MustPredateBase only fire on dated events strictly earlier than the base.
type HardStopRule struct {
	ID              string               `json:"id" mapstructure:"id"`
	Name            string               `json:"name" mapstructure:"name"`
	Description     string               `json:"description" mapstructure:"description"`
	Kinds           []registry.EventKind `json:"kinds,omitempty" mapstructure:"kinds"`
	Keywords        []string             `json:"keywords,omitempty" mapstructure:"keywords"`
	ExcludeKeywords []string             `json:"exclude_keywords,omitempty" mapstructure:"exclude_keywords"`
	MustPredateBase bool                 `json:"must_predate_base" mapstructure:"must_predate_base"`
}

// Hard-stop rule identifiers.
const (
	RulePreliminaryNotice        = "HS001"
	RuleTrust                    = "HS002"
	RuleProvisionalDisposition   = "HS003"
	RuleRepurchaseOption         = "HS004"
	RuleStatutorySuperficies     = "HS005"
	RuleOwnershipProvisionalReg  = "HS006"
	RuleSuperficiesPredatingBase = "HS007"
	RuleEasementPredatingBase    = "HS008"
)

// DefaultHardStopRules returns the eight statutory hard stops.  Each call
// returns fresh slices.
func DefaultHardStopRules() []HardStopRule {
	return []HardStopRule{
		{
			ID:          RulePreliminaryNotice,
			Name:        "예고등기",
			Description: "preliminary notice of a pending suit over the registration itself",
			Kinds:       []registry.EventKind{registry.KindPreliminaryNotice},
			Keywords:    []string{"예고등기"},
		},
		{
			ID:          RuleTrust,
			Name:        "신탁등기",
			Description: "title is held in trust; the trustee, not the debtor, owns the parcel",
			Kinds:       []registry.EventKind{registry.KindTrust},
			Keywords:    []string{"신탁"},
		},
		{
			ID:          RuleProvisionalDisposition,
			Name:        "가처분",
			Description: "provisional disposition may void the purchaser's title",
			Kinds:       []registry.EventKind{registry.KindProvisionalDisposition},
			Keywords:    []string{"가처분"},
		},
		{
			ID:          RuleRepurchaseOption,
			Name:        "환매특약",
			Description: "registered repurchase option lets the former owner buy back the parcel",
			Kinds:       []registry.EventKind{registry.KindRepurchaseOption},
			Keywords:    []string{"환매"},
		},
		{
			ID:          RuleStatutorySuperficies,
			Name:        "법정지상권",
			Description: "statutory superficies may burden the land regardless of registration",
			Keywords:    []string{"법정지상권"},
		},
		{
			ID:              RuleOwnershipProvisionalReg,
			Name:            "소유권이전청구권가등기",
			Description:     "ownership-transfer provisional registration can override the sale",
			Kinds:           []registry.EventKind{registry.KindProvisionalRegistration},
			Keywords:        []string{"소유권이전청구권"},
			ExcludeKeywords: []string{"담보"},
		},
		{
			ID:              RuleSuperficiesPredatingBase,
			Name:            "선순위 지상권",
			Description:     "superficies recorded before the cancellation base is inherited",
			Kinds:           []registry.EventKind{registry.KindSuperficies},
			MustPredateBase: true,
		},
		{
			ID:              RuleEasementPredatingBase,
			Name:            "선순위 지역권",
			Description:     "easement recorded before the cancellation base is inherited",
			Kinds:           []registry.EventKind{registry.KindEasement},
			MustPredateBase: true,
		},
	}
}

// EvaluateHardStops runs every rule over the non-cancelled events.  Each rule
// fires at most once, on its first matching event; the output follows rule
// order.  Rules are independent, so the set of fired ids does not depend on
// event order.
func EvaluateHardStops(events []registry.RegistryEvent, base *registry.RegistryEvent, rules []HardStopRule) []registry.HardStopFlag {
	var flags []registry.HardStopFlag
	for _, rule := range rules {
		if rule.MustPredateBase && base == nil {
			continue
		}
		for _, ev := range events {
			if ev.IsCancelled || !rule.matches(ev, base) {
				continue
			}
			flags = append(flags, registry.HardStopFlag{
				RuleID:      rule.ID,
				Name:        rule.Name,
				Description: rule.Description,
				Event:       ev,
			})
			break
		}
	}
	return flags
}

func (r HardStopRule) matches(ev registry.RegistryEvent, base *registry.RegistryEvent) bool {
	if !r.kindMatches(ev.Kind) && !containsAny(ev.SourceText, r.Keywords) {
		return false
	}
	if len(r.ExcludeKeywords) > 0 && containsAny(ev.StatedPurpose+" "+ev.SourceText, r.ExcludeKeywords) {
		return false
	}
	if r.MustPredateBase {
		if base == nil || ev.AcceptedOn == "" || base.AcceptedOn == "" {
			return false
		}
		return registry.DateBefore(ev.AcceptedOn, base.AcceptedOn)
	}
	return true
}

func (r HardStopRule) kindMatches(k registry.EventKind) bool {
	for _, want := range r.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending

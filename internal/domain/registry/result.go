package registry

// Fate is the three-way outcome of a right after a forced sale.
type Fate string

const (
	FateExtinguished Fate = "EXTINGUISHED"
	FateSurviving    Fate = "SURVIVING"
	FateUncertain    Fate = "UNCERTAIN"
)

// ClassifiedRight pairs an event with the reason it landed in its bucket.
type ClassifiedRight struct {
	Event  RegistryEvent `json:"event"`
	Reason string        `json:"reason"`
}

// HardStopFlag is one fired hard-stop rule and the event that triggered it.
type HardStopFlag struct {
	RuleID      string        `json:"rule_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Event       RegistryEvent `json:"event"`
}

// BaseRule names which resolver branch chose the cancellation base.
type BaseRule string

const (
	BaseRuleNone               BaseRule = "none"
	BaseRuleAuctionStart       BaseRule = "auction-start"
	BaseRuleMortgage           BaseRule = "earliest-mortgage"
	BaseRuleProvisionalSeizure BaseRule = "earliest-provisional-seizure"
	BaseRuleSeizure            BaseRule = "earliest-seizure"
)

// ClassificationResult is the engine's complete answer for one document.
type ClassificationResult struct {
	Document         RegistryDocument  `json:"document"`
	CancellationBase *RegistryEvent    `json:"cancellation_base_event"`
	BaseRule         BaseRule          `json:"base_rule"`
	BaseReason       string            `json:"base_reason"`
	Extinguished     []ClassifiedRight `json:"extinguished"`
	Surviving        []ClassifiedRight `json:"surviving"`
	Uncertain        []ClassifiedRight `json:"uncertain"`
	HardStops        []HardStopFlag    `json:"hard_stops"`
	HasHardStop      bool              `json:"has_hard_stop"`
	Confidence       Confidence        `json:"confidence"`
	Warnings         []string          `json:"warnings"`
	Summary          string            `json:"summary"`
}

// HardStopIDs returns the fired rule ids in result order.
func (r ClassificationResult) HardStopIDs() []string {
	ids := make([]string, 0, len(r.HardStops))
	for _, hs := range r.HardStops {
		ids = append(ids, hs.RuleID)
	}
	return ids
}

// FateOf reports the bucket an event (by Seq) was placed in.  ok is false for
// the base itself and for events that were never classified.
func (r ClassificationResult) FateOf(seq int) (Fate, bool) {
	for _, group := range []struct {
		fate   Fate
		rights []ClassifiedRight
	}{
		{FateExtinguished, r.Extinguished},
		{FateSurviving, r.Surviving},
		{FateUncertain, r.Uncertain},
	} {
		for _, cr := range group.rights {
			if cr.Event.Seq == seq {
				return group.fate, true
			}
		}
	}
	return "", false
}

//Personal.AI order the ending

package rights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

func run(events []registry.RegistryEvent) (BaseResolution, Partition, []registry.HardStopFlag) {
	base := ResolveBase(events)
	return base, Classify(events, base.Event), EvaluateHardStops(events, base.Event, DefaultHardStopRules())
}

func scenarioA() []registry.RegistryEvent {
	return []registry.RegistryEvent{mortgage("2020.01.01"), auction("2024.01.01")}
}

func TestScenarioA_BaseExcludesItself(t *testing.T) {
	base, part, flags := run(doc(scenarioA()...))

	require.True(t, base.Found())
	assert.Equal(t, registry.KindMortgage, base.Event.Kind)
	assert.Empty(t, part.Extinguished)
	assert.Empty(t, part.Surviving)
	assert.Empty(t, part.Uncertain)
	assert.Empty(t, flags)
	assert.Equal(t, registry.ConfidenceHigh, GradeConfidence(ConfidenceInput{
		ParseConfidence: registry.ConfidenceHigh,
		BaseResolved:    base.Found(),
		UncertainCount:  len(part.Uncertain),
	}))
}

func TestScenarioB_EarlierLeaseSurvives(t *testing.T) {
	events := append(scenarioA(), ev(registry.SectionEulgu, "임차권설정", registry.KindLeaseRight, "2019.06.01"))
	base, part, _ := run(doc(events...))

	require.Len(t, part.Surviving, 1)
	assert.Equal(t, registry.KindLeaseRight, part.Surviving[0].Event.Kind)
	assert.Equal(t, ReasonUsufructInherited, part.Surviving[0].Reason)
	assert.Contains(t, part.Surviving[0].Reason, "inherited")
	assert.Equal(t, registry.ConfidenceHigh, GradeConfidence(ConfidenceInput{
		ParseConfidence: registry.ConfidenceHigh,
		BaseResolved:    base.Found(),
		UncertainCount:  len(part.Uncertain),
	}))
}

func TestScenarioC_OwnershipProvisionalRegistrationFires(t *testing.T) {
	events := append(scenarioA(),
		ev(registry.SectionGapgu, "소유권이전청구권가등기", registry.KindProvisionalRegistration, "2018.01.01"))
	_, part, flags := run(doc(events...))

	require.Len(t, flags, 1)
	assert.Equal(t, RuleOwnershipProvisionalReg, flags[0].RuleID)
	assert.Equal(t, "소유권이전청구권가등기", flags[0].Name)
	require.Len(t, part.Uncertain, 1)
	assert.Equal(t, "provisional-registration entry at or before base requires manual review", part.Uncertain[0].Reason)
}

func TestScenarioD_SecurityProvisionalRegistrationExcluded(t *testing.T) {
	events := append(scenarioA(),
		ev(registry.SectionGapgu, "소유권이전청구권담보가등기", registry.KindProvisionalRegistration, "2018.01.01"))
	_, _, flags := run(doc(events...))

	for _, f := range flags {
		assert.NotEqual(t, RuleOwnershipProvisionalReg, f.RuleID)
	}
}

func TestScenarioE_LateSuperficiesExtinguishedWithoutHardStop(t *testing.T) {
	events := append(scenarioA(),
		ev(registry.SectionEulgu, "지상권설정", registry.KindSuperficies, "2021.03.01"))
	_, part, flags := run(doc(events...))

	require.Len(t, part.Extinguished, 1)
	assert.Equal(t, registry.KindSuperficies, part.Extinguished[0].Event.Kind)
	assert.Equal(t, ReasonAfterBase, part.Extinguished[0].Reason)
	assert.Empty(t, flags)
}

func TestScenarioE_EarlySuperficiesSurvivesAndFires(t *testing.T) {
	events := append(scenarioA(),
		ev(registry.SectionEulgu, "지상권설정", registry.KindSuperficies, "2019.03.01"))
	_, part, flags := run(doc(events...))

	require.Len(t, part.Surviving, 1)
	require.Len(t, flags, 1)
	assert.Equal(t, RuleSuperficiesPredatingBase, flags[0].RuleID)
}

func TestScenarioF_ThreeUncertainForceLow(t *testing.T) {
	events := append(scenarioA(),
		ev(registry.SectionGapgu, "소유권보존", registry.KindOwnershipPreservation, "2009.01.01"),
		ev(registry.SectionGapgu, "소유권이전", registry.KindOwnershipTransfer, "2010.01.01"),
		ev(registry.SectionEulgu, "담보가등기", registry.KindProvisionalRegistration, "2015.01.01"),
	)
	base, part, _ := run(doc(events...))

	require.Len(t, part.Uncertain, 3)
	assert.Equal(t, registry.ConfidenceLow, GradeConfidence(ConfidenceInput{
		ParseConfidence: registry.ConfidenceHigh,
		BaseResolved:    base.Found(),
		UncertainCount:  len(part.Uncertain),
	}))
}

func TestClassify_Reasons(t *testing.T) {
	events := doc(
		mortgage("2020.01.01"),
		auction("2024.01.01"),
		ev(registry.SectionGapgu, "압류", registry.KindSeizure, "2019.01.01"),
		ev(registry.SectionGapgu, "가처분", registry.KindProvisionalDisposition, "2019.02.01"),
		ev(registry.SectionEulgu, "지역권설정", registry.KindEasement, "2019.03.01"),
		ev(registry.SectionGapgu, "소유권이전", registry.KindOwnershipTransfer, "2019.04.01"),
		ev(registry.SectionEulgu, "전세권설정", registry.KindOther, "2019.05.01"),
		ev(registry.SectionEulgu, "근저당권설정", registry.KindMortgage, "2022.01.01"),
	)
	base := ResolveBase(events)
	part := Classify(events, base.Event)

	reasons := map[registry.EventKind]string{}
	for _, list := range [][]registry.ClassifiedRight{part.Extinguished, part.Surviving, part.Uncertain} {
		for _, cr := range list {
			if cr.Event.AcceptedOn < "2020.01.01" {
				reasons[cr.Event.Kind] = cr.Reason
			}
		}
	}
	assert.Equal(t, ReasonSecurityExtinct, reasons[registry.KindSeizure])
	assert.Equal(t, ReasonSecurityExtinct, reasons[registry.KindProvisionalDisposition])
	assert.Equal(t, ReasonUsufructInherited, reasons[registry.KindEasement])
	assert.Equal(t, ReasonOwnershipReview, reasons[registry.KindOwnershipTransfer])
	_, otherClassified := reasons[registry.KindOther]
	assert.False(t, otherClassified, "procedural kinds are skipped")

	require.Len(t, part.Extinguished, 3)
	assert.Equal(t, ReasonAfterBase, part.Extinguished[2].Reason)
}

func TestClassify_NoBaseClassifiesNothing(t *testing.T) {
	part := Classify(doc(mortgage("2020.01.01")), nil)
	assert.Empty(t, part.Extinguished)
	assert.Empty(t, part.Surviving)
	assert.Empty(t, part.Uncertain)
}

func TestClassify_SkipsCancelled(t *testing.T) {
	cancelledLease := ev(registry.SectionEulgu, "임차권설정", registry.KindLeaseRight, "2019.01.01")
	cancelledLease.IsCancelled = true
	events := doc(mortgage("2020.01.01"), auction("2024.01.01"), cancelledLease)
	base := ResolveBase(events)
	part := Classify(events, base.Event)
	assert.Empty(t, part.Surviving)
}

func TestClassify_EventsAfterBaseAlwaysExtinguished(t *testing.T) {
	kinds := []registry.EventKind{
		registry.KindLeaseRight, registry.KindSuperficies, registry.KindEasement,
		registry.KindOwnershipTransfer, registry.KindTrust, registry.KindProvisionalRegistration,
		registry.KindMortgage, registry.KindSeizure,
	}
	events := []registry.RegistryEvent{mortgage("2020.01.01"), auction("2024.01.01")}
	for _, k := range kinds {
		events = append(events, ev(registry.SectionEulgu, string(k), k, "2021.01.01"))
	}
	events = doc(events...)
	base := ResolveBase(events)
	part := Classify(events, base.Event)

	assert.Len(t, part.Extinguished, len(kinds))
	assert.Empty(t, part.Surviving)
	assert.Empty(t, part.Uncertain)
	for _, cr := range part.Extinguished {
		assert.Equal(t, ReasonAfterBase, cr.Reason)
	}
}

func TestClassify_SameDaySiblingOfBaseIsClassified(t *testing.T) {
	events := doc(mortgage("2020.01.01"), mortgage("2020.01.01"), auction("2024.01.01"))
	base := ResolveBase(events)
	require.True(t, base.Found())
	assert.Equal(t, 1, base.Event.Seq)

	part := Classify(events, base.Event)
	require.Len(t, part.Extinguished, 1)
	assert.Equal(t, 2, part.Extinguished[0].Event.Seq)
	assert.Equal(t, ReasonSecurityExtinct, part.Extinguished[0].Reason)
}

func TestSameEvent_FallsBackToContent(t *testing.T) {
	a := mortgage("2020.01.01")
	a.SourceText = "근저당권설정"
	b := a
	assert.True(t, sameEvent(a, b))
	b.AcceptedOn = "2020.01.02"
	assert.False(t, sameEvent(a, b))

	a.Seq, b.Seq = 3, 3
	assert.True(t, sameEvent(a, b))
}

//Personal.AI order the ending

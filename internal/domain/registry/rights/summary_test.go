package rights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

func TestGradeConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   ConfidenceInput
		want registry.Confidence
	}{
		{"clean", ConfidenceInput{ParseConfidence: registry.ConfidenceHigh, BaseResolved: true}, registry.ConfidenceHigh},
		{"low parse", ConfidenceInput{ParseConfidence: registry.ConfidenceLow, BaseResolved: true}, registry.ConfidenceLow},
		{"no base", ConfidenceInput{ParseConfidence: registry.ConfidenceHigh}, registry.ConfidenceLow},
		{"three uncertain", ConfidenceInput{ParseConfidence: registry.ConfidenceHigh, BaseResolved: true, UncertainCount: 3}, registry.ConfidenceLow},
		{"warnings", ConfidenceInput{ParseConfidence: registry.ConfidenceMedium, HasParseWarnings: true, BaseResolved: true}, registry.ConfidenceMedium},
		{"one uncertain", ConfidenceInput{ParseConfidence: registry.ConfidenceHigh, BaseResolved: true, UncertainCount: 1}, registry.ConfidenceMedium},
		{"two uncertain", ConfidenceInput{ParseConfidence: registry.ConfidenceHigh, BaseResolved: true, UncertainCount: 2}, registry.ConfidenceMedium},
		{"low dominates warnings", ConfidenceInput{ParseConfidence: registry.ConfidenceMedium, HasParseWarnings: true, BaseResolved: true, UncertainCount: 4}, registry.ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeConfidence(tt.in))
		})
	}
}

func TestBuildSummary_Snapshot(t *testing.T) {
	m := mortgage("2020.01.01")
	m.Amount = registry.Int64Ptr(120000000)
	events := doc(
		ev(registry.SectionGapgu, "소유권보존", registry.KindOwnershipPreservation, "2015.03.02"),
		m,
		ev(registry.SectionEulgu, "임차권설정", registry.KindLeaseRight, "2019.06.01"),
		auction("2024.01.01"),
		ev(registry.SectionGapgu, "가압류", registry.KindProvisionalSeizure, "2022.05.05"),
	)
	base := ResolveBase(events)
	part := Classify(events, base.Event)
	require.Len(t, part.Uncertain, 1)

	got := BuildSummary(SummaryInput{
		Address:      "서울특별시 강남구 역삼동 1",
		Base:         base,
		Extinguished: part.Extinguished,
		Surviving:    part.Surviving,
		Uncertain:    part.Uncertain,
		Confidence:   registry.ConfidenceMedium,
	})

	want := "address: 서울특별시 강남구 역삼동 1\n" +
		"cancellation base: 근저당권설정 2020.01.01 [mortgage] amount 120,000,000원 (earliest mortgage recorded before auction start)\n" +
		"extinguished: 1\n" +
		"  - 가압류 2022.05.05 [provisional-seizure]\n" +
		"surviving: 1\n" +
		"  - 임차권설정 2019.06.01 [lease-right]\n" +
		"uncertain: 1\n" +
		"hard stops: none\n" +
		"confidence: MEDIUM"
	assert.Equal(t, want, got)

	again := BuildSummary(SummaryInput{
		Address:      "서울특별시 강남구 역삼동 1",
		Base:         base,
		Extinguished: part.Extinguished,
		Surviving:    part.Surviving,
		Uncertain:    part.Uncertain,
		Confidence:   registry.ConfidenceMedium,
	})
	assert.Equal(t, got, again)
}

func TestBuildSummary_Undeterminable(t *testing.T) {
	got := BuildSummary(SummaryInput{
		Base:       ResolveBase(nil),
		HardStops:  []registry.HardStopFlag{{RuleID: RuleTrust, Name: "신탁등기"}, {RuleID: RuleProvisionalDisposition, Name: "가처분"}},
		Confidence: registry.ConfidenceLow,
	})
	want := "address: 주소 미상\n" +
		"cancellation base: undeterminable (no auction-start event found)\n" +
		"extinguished: 0\n" +
		"surviving: 0\n" +
		"uncertain: 0\n" +
		"hard stops: 신탁등기, 가처분\n" +
		"confidence: LOW"
	assert.Equal(t, want, got)
}

//Personal.AI order the ending

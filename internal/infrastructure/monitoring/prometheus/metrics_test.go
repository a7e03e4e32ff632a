package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

func newRegistryMetrics(t *testing.T) (*RegistryMetrics, MetricsCollector) {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "regrisk"}, logging.NewNopLogger())
	require.NoError(t, err)
	return NewRegistryMetrics(c), c
}

func TestRegistryMetrics_ObserveClassification(t *testing.T) {
	m, c := newRegistryMetrics(t)

	doc := registry.NewDocument(nil, []registry.RegistryEvent{
		{Section: registry.SectionEulgu, Kind: registry.KindMortgage, AcceptedOn: "2020.01.01"},
		{Section: registry.SectionGapgu, Kind: registry.KindOther, AcceptedOn: "2021.01.01"},
	}, registry.ConfidenceHigh, nil, registry.SourceText)
	m.ObserveClassification(registry.ClassificationResult{
		Document:   doc,
		BaseRule:   registry.BaseRuleMortgage,
		Confidence: registry.ConfidenceMedium,
		HardStops:  []registry.HardStopFlag{{RuleID: "HS002"}, {RuleID: "HS003"}},
	}, 3*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `regrisk_classifications_total{confidence="MEDIUM",source="text"} 1`)
	assert.Contains(t, out, `regrisk_hard_stops_total{rule_id="HS002"} 1`)
	assert.Contains(t, out, `regrisk_hard_stops_total{rule_id="HS003"} 1`)
	assert.Contains(t, out, `regrisk_unknown_purposes_total{section="GAPGU"} 1`)
	assert.Contains(t, out, `regrisk_base_rules_total{rule="earliest-mortgage"} 1`)
	assert.Contains(t, out, `regrisk_events_per_document_sum{source="text"} 2`)
}

func TestRegistryMetrics_Helpers(t *testing.T) {
	m, c := newRegistryMetrics(t)

	m.RecordHTTPRequest("POST", "/api/v1/classifications", 201, 10*time.Millisecond)
	m.RecordCacheAccess("results", true)
	m.RecordCacheAccess("results", false)
	m.RecordCacheAccess("results", false)
	m.RecordDBQuery("insert_result", time.Millisecond, errors.New("boom"))
	m.RecordMessage("registry.classification.requests", "ok", time.Millisecond)
	m.RecordError("kafka", "COMMON_014")

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `regrisk_http_requests_total{method="POST",path="/api/v1/classifications",status_code="201"} 1`)
	assert.Contains(t, out, `regrisk_cache_hits_total{cache="results"} 1`)
	assert.Contains(t, out, `regrisk_cache_misses_total{cache="results"} 2`)
	assert.Contains(t, out, `regrisk_errors_total{code="insert_result",component="database"} 1`)
	assert.Contains(t, out, `regrisk_errors_total{code="COMMON_014",component="kafka"} 1`)
	assert.Contains(t, out, `regrisk_messages_total{status="ok",topic="registry.classification.requests"} 1`)
}

//Personal.AI order the ending

package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
)

// RegistryMetrics holds every metric of the registry risk service.
type RegistryMetrics struct {
	// Classification
	ClassificationsTotal   CounterVec
	HardStopsTotal         CounterVec
	UnknownPurposesTotal   CounterVec
	ClassificationDuration HistogramVec
	EventsPerDocument      HistogramVec
	BaseRulesTotal         CounterVec

	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Infrastructure
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	DBQueryDuration        HistogramVec
	MessagesTotal          CounterVec
	MessageProcessDuration HistogramVec
	ErrorsTotal            CounterVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultClassifyDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultEventCountBuckets       = []float64{0, 1, 2, 5, 10, 20, 50, 100}
)

// NewRegistryMetrics registers all metrics on collector.
func NewRegistryMetrics(collector MetricsCollector) *RegistryMetrics {
	m := &RegistryMetrics{}

	m.ClassificationsTotal = collector.RegisterCounter("classifications_total", "Classified registry documents", "source", "confidence")
	m.HardStopsTotal = collector.RegisterCounter("hard_stops_total", "Fired hard-stop rules", "rule_id")
	m.UnknownPurposesTotal = collector.RegisterCounter("unknown_purposes_total", "Events whose purpose fell back to the other kind", "section")
	m.ClassificationDuration = collector.RegisterHistogram("classification_duration_seconds", "Normalize and classify duration", DefaultClassifyDurationBuckets, "source")
	m.EventsPerDocument = collector.RegisterHistogram("events_per_document", "Events extracted per document", DefaultEventCountBuckets, "source")
	m.BaseRulesTotal = collector.RegisterCounter("base_rules_total", "Cancellation base resolutions by branch", "rule")

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.MessagesTotal = collector.RegisterCounter("messages_total", "Kafka messages handled", "topic", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("message_process_duration_seconds", "Kafka message processing duration", DefaultHTTPDurationBuckets, "topic")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// ObserveClassification records one classified document.
func (m *RegistryMetrics) ObserveClassification(result registry.ClassificationResult, elapsed time.Duration) {
	source := result.Document.Source.String()
	m.ClassificationsTotal.WithLabelValues(source, result.Confidence.String()).Inc()
	m.ClassificationDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.EventsPerDocument.WithLabelValues(source).Observe(float64(len(result.Document.Events)))
	m.BaseRulesTotal.WithLabelValues(string(result.BaseRule)).Inc()
	for _, hs := range result.HardStops {
		m.HardStopsTotal.WithLabelValues(hs.RuleID).Inc()
	}
	for _, ev := range result.Document.Events {
		if ev.Kind == registry.KindOther {
			m.UnknownPurposesTotal.WithLabelValues(ev.Section.String()).Inc()
		}
	}
}

// RecordHTTPRequest records one served request.
func (m *RegistryMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheAccess counts a cache hit or miss.
func (m *RegistryMetrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordDBQuery observes one database operation.
func (m *RegistryMetrics) RecordDBQuery(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("database", operation).Inc()
	}
}

// RecordMessage counts one consumed message by outcome ("ok", "retry", "dlq").
func (m *RegistryMetrics) RecordMessage(topic, status string, duration time.Duration) {
	m.MessagesTotal.WithLabelValues(topic, status).Inc()
	m.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordError counts an error by component and code.
func (m *RegistryMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending

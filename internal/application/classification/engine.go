// Package classification wires the pure registry stages into one engine and
// exposes the application service that the HTTP API, CLI and Kafka worker
// drive.  The engine itself is synchronous and side-effect free apart from
// logging and metric observation.
package classification

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry/normalizer"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry/rights"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// WarningBaseUndated is attached when the resolved base carries no date, so
// every date comparison against it is unreliable.
const WarningBaseUndated = "cancellation base has no acceptance date"

// Observer receives one notification per classified document.  The
// prometheus adapter implements it; nil disables observation.
type Observer interface {
	ObserveClassification(result registry.ClassificationResult, elapsed time.Duration)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger; it is also handed to the normalizer.
func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithKeywordTable overrides the purpose→kind table.
func WithKeywordTable(t registry.KeywordTable) EngineOption {
	return func(e *Engine) { e.keywords = t }
}

// WithHardStopRules overrides the hard-stop rule set.
func WithHardStopRules(rules []rights.HardStopRule) EngineOption {
	return func(e *Engine) {
		if len(rules) > 0 {
			e.rules = slices.Clone(rules)
		}
	}
}

// WithObserver registers a classification observer.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithBatchConcurrency bounds ClassifyBatch fan-out.
func WithBatchConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.batchConcurrency = n
		}
	}
}

// Engine runs Normalizer → Resolver → Classifier → Hard-Stop → Confidence.
// It holds only read-only configuration and is safe for concurrent use.
type Engine struct {
	normalizer       *normalizer.Normalizer
	keywords         registry.KeywordTable
	rules            []rights.HardStopRule
	logger           logging.Logger
	observer         Observer
	batchConcurrency int
}

// NewEngine builds an engine with the default tables.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		rules:            rights.DefaultHardStopRules(),
		logger:           logging.NewNopLogger(),
		batchConcurrency: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("classification")
	e.normalizer = normalizer.New(
		normalizer.WithLogger(e.logger),
		normalizer.WithKeywordTable(e.keywords),
	)
	return e
}

// ClassifyText normalizes free register text and classifies it.
func (e *Engine) ClassifyText(raw string) registry.ClassificationResult {
	start := time.Now()
	return e.classify(e.normalizer.NormalizeText(raw), start)
}

// ClassifyStructured normalizes a structured payload and classifies it.
func (e *Engine) ClassifyStructured(p normalizer.StructuredPayload) registry.ClassificationResult {
	start := time.Now()
	return e.classify(e.normalizer.NormalizeStructured(p), start)
}

// ClassifyJSON decodes a structured payload and classifies it.  A payload
// that does not decode is treated as an empty document.
func (e *Engine) ClassifyJSON(data []byte) registry.ClassificationResult {
	start := time.Now()
	p, err := normalizer.ParseStructuredJSON(data)
	if err != nil {
		e.logger.Warn("structured payload rejected, classifying as empty document", logging.Err(err))
		doc := registry.NewDocument(nil, nil, registry.ConfidenceLow,
			[]string{"structured payload could not be decoded", normalizer.WarningNoEvents},
			registry.SourceStructured)
		return e.classify(doc, start)
	}
	return e.classify(e.normalizer.NormalizeStructured(p), start)
}

// Classify runs the decision stages over an already normalized document.
func (e *Engine) Classify(doc registry.RegistryDocument) registry.ClassificationResult {
	return e.classify(doc, time.Now())
}

func (e *Engine) classify(doc registry.RegistryDocument, start time.Time) registry.ClassificationResult {
	base := rights.ResolveBase(doc.Events)
	part := rights.Classify(doc.Events, base.Event)
	flags := rights.EvaluateHardStops(doc.Events, base.Event, e.rules)

	confidence := rights.GradeConfidence(rights.ConfidenceInput{
		ParseConfidence:  doc.ParseConfidence,
		HasParseWarnings: len(doc.ParseWarnings) > 0,
		BaseResolved:     base.Found(),
		UncertainCount:   len(part.Uncertain),
	})

	warnings := slices.Clone(doc.ParseWarnings)
	if len(doc.Events) == 0 && !slices.Contains(warnings, normalizer.WarningNoEvents) {
		warnings = append(warnings, normalizer.WarningNoEvents)
	}
	if !base.Found() {
		warnings = append(warnings, "cancellation base undeterminable: "+base.Reason)
	} else if base.Event.AcceptedOn == "" {
		warnings = append(warnings, WarningBaseUndated)
	}

	result := registry.ClassificationResult{
		Document:         doc,
		CancellationBase: base.Event,
		BaseRule:         base.Rule,
		BaseReason:       base.Reason,
		Extinguished:     emptyIfNil(part.Extinguished),
		Surviving:        emptyIfNil(part.Surviving),
		Uncertain:        emptyIfNil(part.Uncertain),
		HardStops:        flags,
		HasHardStop:      len(flags) > 0,
		Confidence:       confidence,
		Warnings:         warnings,
	}
	if result.HardStops == nil {
		result.HardStops = []registry.HardStopFlag{}
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	result.Summary = rights.BuildSummary(rights.SummaryInput{
		Address:      doc.Address(),
		Base:         base,
		Extinguished: result.Extinguished,
		Surviving:    result.Surviving,
		Uncertain:    result.Uncertain,
		HardStops:    result.HardStops,
		Confidence:   confidence,
	})

	elapsed := time.Since(start)
	e.logger.Info("registry classified",
		logging.String("source", doc.Source.String()),
		logging.Int("events", len(doc.Events)),
		logging.String("base_rule", string(base.Rule)),
		logging.Int("extinguished", len(result.Extinguished)),
		logging.Int("surviving", len(result.Surviving)),
		logging.Int("uncertain", len(result.Uncertain)),
		logging.Bool("has_hard_stop", result.HasHardStop),
		logging.String(logging.FieldConfidence, confidence.String()),
		logging.Duration("elapsed", elapsed),
	)
	if e.observer != nil {
		e.observer.ObserveClassification(result, elapsed)
	}
	return result
}

func emptyIfNil(in []registry.ClassifiedRight) []registry.ClassifiedRight {
	if in == nil {
		return []registry.ClassifiedRight{}
	}
	return in
}

// ─────────────────────────────────────────────────────────────────────────────
// Batch
// ─────────────────────────────────────────────────────────────────────────────

// Format selects how Input.Content is interpreted.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Input is one raw document for batch classification.
type Input struct {
	Format  Format
	Content []byte
}

// ClassifyInput dispatches on the input format; unknown formats are read as text.
func (e *Engine) ClassifyInput(in Input) registry.ClassificationResult {
	if in.Format == FormatJSON {
		return e.ClassifyJSON(in.Content)
	}
	return e.ClassifyText(string(in.Content))
}

// ClassifyBatch classifies inputs concurrently.  Results keep input order.
// The only error is ctx cancellation; documents never fail individually.
func (e *Engine) ClassifyBatch(ctx context.Context, inputs []Input) ([]registry.ClassificationResult, error) {
	results := make([]registry.ClassificationResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchConcurrency)
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.ClassifyInput(inputs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

//Personal.AI order the ending

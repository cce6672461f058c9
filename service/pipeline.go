// Package service wires the pipeline stages together: ingestion,
// normalization, classification, behavior extraction, generation, and
// coverage, producing the batch output consumed by the report writers
// and the API.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tcgen/behavior"
	"tcgen/classify"
	"tcgen/config"
	"tcgen/core"
	"tcgen/coverage"
	"tcgen/generate"
	"tcgen/ingest"
	"tcgen/metrics"
	"tcgen/normalize"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// classificationCacheSize bounds the per-service memo of classifications.
// Requirement documents repeat boilerplate lines often enough that the
// memo pays for itself in batch mode.
const classificationCacheSize = 256

// ErrEmptyText is returned when a caller submits empty requirement text.
// Validating non-empty input is a caller responsibility; the pipeline
// itself never fails on any non-empty text.
var ErrEmptyText = errors.New("requirement text must not be empty")

// Pipeline runs the full requirement-to-test-case pipeline. Stages are
// pure; the only state here is configuration, the rule tables, and the
// classification memo.
type Pipeline struct {
	cfg        *config.Config
	rules      *config.RuleTables
	ingestor   *ingest.Service
	classifier *classify.Classifier
	extractor  *behavior.Extractor
	generator  *generate.Generator
	calculator *coverage.Calculator
	classCache *lru.Cache[string, core.Classification]
	logger     *zap.SugaredLogger
	now        func() time.Time
}

// NewPipeline constructs a Pipeline with all stages sharing one rule
// table revision.
func NewPipeline(cfg *config.Config, rules *config.RuleTables, logger *zap.SugaredLogger) (*Pipeline, error) {
	cache, err := lru.New[string, core.Classification](classificationCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification cache: %w", err)
	}
	return &Pipeline{
		cfg:        cfg,
		rules:      rules,
		ingestor:   ingest.NewService(logger),
		classifier: classify.New(rules, cfg.Classifier.SecondaryThreshold, logger),
		extractor:  behavior.New(rules, logger),
		generator:  generate.New(cfg, rules, logger),
		calculator: coverage.NewCalculator(rules, logger),
		classCache: cache,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Process runs the pipeline over one requirement text. The only input it
// rejects is empty text; everything else degrades gracefully into
// low-confidence output with issues recorded.
func (p *Pipeline) Process(text string) (*core.BatchOutput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return p.ProcessBatch([]string{text})
}

// ProcessBatch runs the pipeline over multiple requirement texts,
// producing one combined batch output. Requirement IDs are unique across
// the whole batch.
func (p *Pipeline) ProcessBatch(texts []string) (*core.BatchOutput, error) {
	started := p.now()
	if len(texts) == 0 {
		return nil, ErrEmptyText
	}

	var warnings []string
	var allText []string
	for _, text := range texts {
		res := p.ingestor.Ingest(text)
		warnings = append(warnings, res.SanitizationWarnings...)
		allText = append(allText, res.Chunks...)
	}
	if len(allText) == 0 {
		return nil, ErrEmptyText
	}

	// One normalizer per batch keeps requirement IDs unique within it.
	normalizer := normalize.New(p.rules, p.logger)

	var records []core.RequirementRecord
	var behaviors []core.AtomicBehavior
	var testCases []core.GeneratedTestCase
	var testCaseRecords []core.TestCaseRecord

	for _, chunk := range allText {
		for _, norm := range normalizer.Normalize(chunk) {
			norm := norm
			metrics.RequirementsProcessed.Inc()
			if norm.IsAmbiguous {
				metrics.AmbiguousRequirements.Inc()
			}

			cls := p.classifyCached(norm.OriginalText, &norm)
			extraction := p.extractor.Extract(norm.RequirementID(), &norm, string(cls.PrimaryClass))
			behaviors = append(behaviors, extraction.Behaviors...)

			generated := p.generator.Generate(&norm, &cls, norm.AmbiguitySummary())
			testCases = append(testCases, generated...)
			for _, tc := range generated {
				metrics.TestCasesGenerated.WithLabelValues(tc.TestType).Inc()
				testCaseRecords = append(testCaseRecords, p.toRecord(tc))
			}

			records = append(records, p.toRequirementRecord(&norm, &cls))
		}
	}

	cov := p.calculator.Calculate(testCases, records, behaviors)

	output := &core.BatchOutput{
		NormalizedRequirements: records,
		TestCases:              testCaseRecords,
		Coverage:               cov,
		AuditLog:               p.auditLog(warnings),
	}

	metrics.PipelineDuration.Observe(p.now().Sub(started).Seconds())
	if p.logger != nil {
		p.logger.Infow("pipeline batch complete",
			"requirements", len(records),
			"behaviors", len(behaviors),
			"test_cases", len(testCaseRecords),
			"overall_coverage", cov.OverallCoverage)
	}
	return output, nil
}

// classifyCached memoizes classification by requirement text. The
// classifier is pure, so identical lines always classify identically.
func (p *Pipeline) classifyCached(text string, norm *core.NormalizedRequirement) core.Classification {
	if cached, ok := p.classCache.Get(text); ok {
		return cached
	}
	cls := p.classifier.Classify(text, norm)
	p.classCache.Add(text, cls)
	return cls
}

func (p *Pipeline) toRequirementRecord(norm *core.NormalizedRequirement, cls *core.Classification) core.RequirementRecord {
	ambiguity := core.AmbiguityInfo{Issues: []string{}, ClarifyingQuestions: []string{}}
	if summary := norm.AmbiguitySummary(); summary != nil {
		ambiguity = *summary
	}
	return core.RequirementRecord{
		RequirementID:  norm.RequirementID(),
		SourceText:     norm.OriginalText,
		Normalized:     *norm,
		Classification: cls.Classes(),
		PriorityHint:   cls.PriorityHint,
		Ambiguity:      ambiguity,
		Provenance:     norm.Provenance,
	}
}

// toRecord converts a generated test case into its serialized form with
// the external test case ID and explainability block.
func (p *Pipeline) toRecord(tc core.GeneratedTestCase) core.TestCaseRecord {
	return core.TestCaseRecord{
		TestCaseID:          core.TestCaseID(tc.RequirementID, core.TypeCode(tc.TestType)),
		Title:               tc.Title,
		MappedRequirementID: tc.RequirementID,
		TestType:            tc.TestType,
		Preconditions:       tc.Preconditions,
		Steps:               tc.Steps,
		TestData:            tc.TestData,
		ExpectedResult:      tc.ExpectedResult,
		Priority:            tc.Priority,
		AutomationFeasibility: core.AutomationFeasibility{
			Feasible:        true,
			Notes:           "Standard templated test case",
			EstimatedEffort: "Medium",
		},
		DeterminismSeed: tc.DeterminismSeed,
		Explainability: core.ExplainabilityBlock{
			GenerationTemplateID: tc.TemplateID,
			RulesApplied:         tc.RulesApplied,
			Confidence:           tc.Confidence,
		},
	}
}

// auditLog stamps the batch with generation metadata. Sanitization
// warnings are recorded as change history entries from the ingestion
// actor; the errors list stays empty because the pipeline has no fatal
// error class.
func (p *Pipeline) auditLog(warnings []string) core.AuditLog {
	ts := core.Timestamp(p.now())
	history := []core.ChangeRecord{{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Actor:     "system",
		Change:    "Generated via pipeline",
	}}
	for _, w := range warnings {
		history = append(history, core.ChangeRecord{
			ID:        uuid.NewString(),
			Timestamp: ts,
			Actor:     "ingestion",
			Change:    "Sanitization warning: " + w,
		})
	}
	return core.AuditLog{
		GenerationTimestamp: ts,
		GeneratorVersion:    p.cfg.Generator.Version,
		ModelReference:      p.cfg.Generator.ModelReference,
		ValidationStatus:    "passed",
		Errors:              []string{},
		ChangeHistory:       history,
	}
}

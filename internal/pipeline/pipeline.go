// Package pipeline orchestrates a full case analysis: load evidence,
// merge the timeline, run the rule batteries and persist the artifacts.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nvaldes/custodia/internal/behavior"
	"github.com/nvaldes/custodia/internal/evidence"
	"github.com/nvaldes/custodia/internal/metrics"
	"github.com/nvaldes/custodia/internal/model"
	"github.com/nvaldes/custodia/internal/report"
	"github.com/nvaldes/custodia/internal/rules"
	"github.com/nvaldes/custodia/internal/timeline"
)

// Options pins the non-deterministic inputs of a run. With Now and
// AnalysisID set, two runs over identical evidence produce
// byte-identical artifacts.
type Options struct {
	// Now is the reference instant for detection stamps and the
	// future-timestamp rule. Zero means wall clock.
	Now time.Time

	// AnalysisID pins the report identifier. Empty means a fresh UUID
	// per report.
	AnalysisID string
}

// Result collects the in-memory outcome of one pipeline run
type Result struct {
	Case            model.Case
	Timeline        []model.TimelineEvent
	AnomalyReport   *model.Report
	BehaviourReport *model.Report
	Findings        *model.Findings
	LoadStatuses    []evidence.LoadStatus
}

// Pipeline wires the analysis stages together
type Pipeline struct {
	cfg       *model.Config
	log       *zap.Logger
	loader    *evidence.Loader
	rules     *rules.Battery
	behaviour *behavior.Battery
}

// New builds a pipeline from configuration
func New(cfg *model.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		log:       log,
		loader:    evidence.NewLoader(log),
		rules:     rules.NewBattery(cfg.Rules, cfg.Output.RuleWorkers),
		behaviour: behavior.NewBattery(cfg.Behavior),
	}
}

// Invalidate drops cached evidence so the next run re-reads from disk
func (p *Pipeline) Invalidate() {
	p.loader.Invalidate()
}

// Analyze runs the full pipeline for a case and persists every
// artifact: timeline, both analysis reports and the merged findings.
func (p *Pipeline) Analyze(ctx context.Context, cs model.Case, opts Options) (*Result, error) {
	started := time.Now()

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	res, err := p.analyze(ctx, cs, now, opts.AnalysisID)

	metrics.PipelineDuration.Observe(float64(time.Since(started).Milliseconds()))
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PipelineRuns.WithLabelValues("ok").Inc()
	return res, nil
}

func (p *Pipeline) analyze(ctx context.Context, cs model.Case, now time.Time, analysisID string) (*Result, error) {
	set, statuses := p.loader.LoadCase(cs)

	events := timeline.Merge(set)
	if err := report.WriteJSON(cs.TimelinePath(), events); err != nil {
		return nil, fmt.Errorf("failed to persist timeline: %w", err)
	}
	metrics.EventsProcessed.Add(float64(len(events)))
	p.log.Info("timeline merged",
		zap.String("case", cs.ID), zap.Int("events", len(events)))

	assembler := report.NewAssembler()
	if analysisID != "" {
		assembler = report.NewPinnedAssembler(analysisID)
	}

	anomalies := p.rules.Run(ctx, set, now)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	anomalyReport := assembler.Assemble(model.AnalysisAnomaly, cs.ID, anomalies, now)
	if err := report.WriteJSON(cs.AnomalyReportPath(), anomalyReport); err != nil {
		return nil, fmt.Errorf("failed to persist anomaly report: %w", err)
	}

	suspicious := p.behaviour.Run(set, now)
	behaviourReport := assembler.Assemble(model.AnalysisBehaviour, cs.ID, suspicious, now)
	if err := report.WriteJSON(cs.BehaviourReportPath(), behaviourReport); err != nil {
		return nil, fmt.Errorf("failed to persist behaviour report: %w", err)
	}

	for _, finding := range anomalyReport.Findings {
		metrics.AnomaliesDetected.WithLabelValues(string(finding.Type)).Inc()
	}
	for _, finding := range behaviourReport.Findings {
		metrics.AnomaliesDetected.WithLabelValues(string(finding.Type)).Inc()
	}

	findings := report.MergeFindings(cs.ID, anomalyReport, behaviourReport, now)
	if err := report.WriteJSON(cs.FindingsPath(), findings); err != nil {
		return nil, fmt.Errorf("failed to persist findings: %w", err)
	}

	p.log.Info("analysis complete",
		zap.String("case", cs.ID),
		zap.Int("anomalies", anomalyReport.TotalAnomalies),
		zap.Int("behavioural", behaviourReport.TotalAnomalies))

	return &Result{
		Case:            cs,
		Timeline:        events,
		AnomalyReport:   anomalyReport,
		BehaviourReport: behaviourReport,
		Findings:        findings,
		LoadStatuses:    statuses,
	}, nil
}

// BuildTimeline runs only the load and merge stages, persisting the
// timeline artifact.
func (p *Pipeline) BuildTimeline(cs model.Case) ([]model.TimelineEvent, []evidence.LoadStatus, error) {
	set, statuses := p.loader.LoadCase(cs)

	events := timeline.Merge(set)
	if err := report.WriteJSON(cs.TimelinePath(), events); err != nil {
		return nil, nil, fmt.Errorf("failed to persist timeline: %w", err)
	}
	return events, statuses, nil
}

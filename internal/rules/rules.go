// Package rules implements the deterministic anomaly rule battery.
//
// Every rule is a stateless function from the normalized evidence set to
// a list of findings. Rules never mutate the evidence, never depend on
// each other, and iterate sources in the fixed precedence order, so the
// combined finding list is reproducible run over run. The only external
// input is the reference instant passed by the caller; wall-clock time
// is never read inside a rule.
package rules

import (
	"context"
	"time"

	"github.com/nvaldes/custodia/internal/model"
	"github.com/nvaldes/custodia/internal/worker"
)

// Rule is one deterministic anomaly detector
type Rule interface {
	// Name returns the anomaly type vocabulary entry the rule emits
	Name() string

	// Evaluate runs the rule over the full evidence set. The reference
	// instant stamps findings and anchors the future-timestamp check.
	Evaluate(set model.EvidenceSet, now time.Time) []model.Anomaly
}

// Battery runs the fixed rule sequence: gap, post-deletion,
// future-timestamp, data-integrity. The concatenation order of per-rule
// findings is part of the determinism contract and holds whether the
// rules run sequentially or on the worker pool.
type Battery struct {
	rules []Rule
	pool  *worker.Pool
}

// NewBattery assembles the standard battery. workers > 1 enables
// parallel rule evaluation; output order is unaffected.
func NewBattery(cfg model.RulesConfig, workers int) *Battery {
	return &Battery{
		rules: []Rule{
			NewGapRule(cfg.GapThreshold),
			NewPostDeletionRule(),
			NewFutureTimestampRule(),
			NewIntegrityRule(cfg.DuplicatePreviewLen),
		},
		pool: worker.NewPool(workers),
	}
}

// Rules exposes the battery's rule sequence
func (b *Battery) Rules() []Rule {
	return b.rules
}

// Run evaluates every rule and concatenates the findings in fixed rule
// order. An empty evidence set yields an empty finding list, never an
// error.
func (b *Battery) Run(ctx context.Context, set model.EvidenceSet, now time.Time) []model.Anomaly {
	if b.pool.Workers() > 1 {
		return b.runParallel(ctx, set, now)
	}

	var findings []model.Anomaly
	for _, rule := range b.rules {
		findings = append(findings, rule.Evaluate(set, now)...)
	}
	return findings
}

type ruleJob struct {
	rule Rule
	set  model.EvidenceSet
	now  time.Time
}

type ruleResult struct {
	findings []model.Anomaly
}

func (r ruleResult) GetError() error { return nil }

func (j ruleJob) Execute(ctx context.Context) worker.Result {
	return ruleResult{findings: j.rule.Evaluate(j.set, j.now)}
}

func (b *Battery) runParallel(ctx context.Context, set model.EvidenceSet, now time.Time) []model.Anomaly {
	jobs := make([]worker.Job, len(b.rules))
	for i, rule := range b.rules {
		jobs[i] = ruleJob{rule: rule, set: set, now: now}
	}

	results := b.pool.Map(ctx, jobs)

	var findings []model.Anomaly
	for _, res := range results {
		if res == nil {
			continue
		}
		findings = append(findings, res.(ruleResult).findings...)
	}
	return findings
}

// detectionStamp formats the reference instant as the finding timestamp
func detectionStamp(now time.Time) string {
	return now.Format(model.TimestampLayout)
}

// validRecords returns the subset of a source's records that carry a
// valid parsed timestamp, preserving input order.
func validRecords(records []model.NormalizedRecord) []model.NormalizedRecord {
	var valid []model.NormalizedRecord
	for _, rec := range records {
		if rec.TimestampValid {
			valid = append(valid, rec)
		}
	}
	return valid
}

package rules

import (
	"fmt"
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// FutureTimestampRule flags events recorded after the reference instant.
// A device cannot legitimately log the future; such records point at
// clock manipulation or forged entries.
//
// The reference instant is supplied by the caller and defaults to wall
// clock only at the outermost entry point, so analyses can be replayed
// with a pinned instant for reproducible artifacts.
type FutureTimestampRule struct{}

// NewFutureTimestampRule creates the future-timestamp rule
func NewFutureTimestampRule() *FutureTimestampRule {
	return &FutureTimestampRule{}
}

// Name implements Rule
func (r *FutureTimestampRule) Name() string { return string(model.AnomalyFutureTimestamp) }

// Evaluate flags every valid-timestamp record strictly after now
func (r *FutureTimestampRule) Evaluate(set model.EvidenceSet, now time.Time) []model.Anomaly {
	var findings []model.Anomaly

	for _, src := range model.SourceOrder() {
		for _, rec := range set[src] {
			if !rec.TimestampValid || !rec.ParsedTimestamp.After(now) {
				continue
			}
			findings = append(findings, model.Anomaly{
				Timestamp: detectionStamp(now),
				Source:    src,
				Type:      model.AnomalyFutureTimestamp,
				Details:   fmt.Sprintf("Event timestamp %s is in the future", rec.Timestamp),
			})
		}
	}

	return findings
}

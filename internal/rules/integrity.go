package rules

import (
	"fmt"
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// signature is the structured duplicate-detection key. A composite key
// cannot be confused by field values containing the display delimiter,
// unlike a concatenated string.
type signature struct {
	timestamp string
	eventType string
	details   string
}

// preview renders the signature for display in finding details,
// truncated to limit.
func (s signature) preview(limit int) string {
	joined := s.timestamp + "_" + s.eventType + "_" + s.details
	if len(joined) > limit {
		joined = joined[:limit]
	}
	return joined
}

// IntegrityRule covers the two data-integrity checks: duplicate events
// (identical timestamp/type/details) and records missing mandatory
// fields. Invalid-timestamp records participate fully here.
type IntegrityRule struct {
	previewLen int
}

// NewIntegrityRule creates the data-integrity rule
func NewIntegrityRule(previewLen int) *IntegrityRule {
	if previewLen <= 0 {
		previewLen = 50
	}
	return &IntegrityRule{previewLen: previewLen}
}

// Name implements Rule
func (r *IntegrityRule) Name() string { return string(model.AnomalyDuplicateEvent) }

// Evaluate emits, per source, one missing_fields finding per offending
// record (in record order) followed by one duplicate_event finding per
// distinct duplicated signature, in first-seen order. One finding per
// signature, not per duplicate instance.
func (r *IntegrityRule) Evaluate(set model.EvidenceSet, now time.Time) []model.Anomaly {
	var findings []model.Anomaly

	for _, src := range model.SourceOrder() {
		records := set[src]

		counts := make(map[signature]int, len(records))
		var firstSeen []signature

		for _, rec := range records {
			sig := signature{
				timestamp: rec.Timestamp,
				eventType: rec.Type,
				details:   rec.Details,
			}
			if counts[sig] == 0 {
				firstSeen = append(firstSeen, sig)
			}
			counts[sig]++

			if missing := rec.MissingFields(); len(missing) > 0 {
				findings = append(findings, model.Anomaly{
					Timestamp: detectionStamp(now),
					Source:    src,
					Type:      model.AnomalyMissingFields,
					Details: fmt.Sprintf("Missing required fields: %v in event %s",
						missing, rec.TimestampOrUnknown()),
				})
			}
		}

		for _, sig := range firstSeen {
			if counts[sig] < 2 {
				continue
			}
			findings = append(findings, model.Anomaly{
				Timestamp: detectionStamp(now),
				Source:    src,
				Type:      model.AnomalyDuplicateEvent,
				Details: fmt.Sprintf("Duplicate event detected %d times: %s...",
					counts[sig], sig.preview(r.previewLen)),
			})
		}
	}

	return findings
}

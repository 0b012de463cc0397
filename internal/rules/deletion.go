package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// deletedType is the event type marking a deletion record
const deletedType = "deleted"

// PostDeletionRule flags activity recorded after a deletion event in the
// same source. Events that postdate a deletion indicate data recovery,
// tampering or system inconsistency, and are critical for establishing
// timeline integrity.
type PostDeletionRule struct{}

// NewPostDeletionRule creates the post-deletion activity rule
func NewPostDeletionRule() *PostDeletionRule {
	return &PostDeletionRule{}
}

// Name implements Rule
func (r *PostDeletionRule) Name() string { return string(model.AnomalyPostDeletion) }

// Evaluate inspects every deletion instant per source. Each deletion is
// evaluated independently: overlapping post-deletion windows are allowed
// and reported separately.
func (r *PostDeletionRule) Evaluate(set model.EvidenceSet, now time.Time) []model.Anomaly {
	var findings []model.Anomaly

	for _, src := range model.SourceOrder() {
		records := set[src]

		var deletions []time.Time
		for _, rec := range records {
			if rec.TimestampValid && rec.Type == deletedType {
				deletions = append(deletions, *rec.ParsedTimestamp)
			}
		}
		sort.Slice(deletions, func(i, j int) bool { return deletions[i].Before(deletions[j]) })

		for _, deletedAt := range deletions {
			count := 0
			for _, rec := range records {
				if rec.TimestampValid && rec.ParsedTimestamp.After(deletedAt) && rec.Type != deletedType {
					count++
				}
			}
			if count == 0 {
				continue
			}
			findings = append(findings, model.Anomaly{
				Timestamp: detectionStamp(now),
				Source:    src,
				Type:      model.AnomalyPostDeletion,
				Details: fmt.Sprintf("%d events detected after deletion at %s",
					count, deletedAt.Format(model.TimestampLayout)),
			})
		}
	}

	return findings
}

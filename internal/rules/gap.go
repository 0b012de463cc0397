package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// GapRule flags unusual silences: consecutive same-source events whose
// elapsed time reaches the threshold. Large gaps can indicate missing or
// deleted data.
type GapRule struct {
	threshold time.Duration
}

// NewGapRule creates the gap rule with the given threshold. A gap of
// exactly the threshold is flagged.
func NewGapRule(threshold time.Duration) *GapRule {
	return &GapRule{threshold: threshold}
}

// Name implements Rule
func (r *GapRule) Name() string { return string(model.AnomalyTimestampGap) }

// Evaluate compares each consecutive pair within every source's
// valid-timestamp subsequence, sorted ascending. Sources with fewer than
// two valid records produce no findings.
func (r *GapRule) Evaluate(set model.EvidenceSet, now time.Time) []model.Anomaly {
	var findings []model.Anomaly

	for _, src := range model.SourceOrder() {
		valid := validRecords(set[src])
		if len(valid) < 2 {
			continue
		}

		sort.SliceStable(valid, func(i, j int) bool {
			return valid[i].ParsedTimestamp.Before(*valid[j].ParsedTimestamp)
		})

		for i := 1; i < len(valid); i++ {
			prev, curr := valid[i-1], valid[i]
			gap := curr.ParsedTimestamp.Sub(*prev.ParsedTimestamp)
			if gap < r.threshold {
				continue
			}
			days := int(gap.Hours() / 24)
			findings = append(findings, model.Anomaly{
				Timestamp: detectionStamp(now),
				Source:    src,
				Type:      model.AnomalyTimestampGap,
				Details: fmt.Sprintf("Gap of %d days detected between %s and %s",
					days, prev.Timestamp, curr.Timestamp),
			})
		}
	}

	return findings
}

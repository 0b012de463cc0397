// Package severity maps anomaly types onto the fixed severity scale and
// aggregates finding lists into an assessment.
package severity

import (
	"github.com/nvaldes/custodia/internal/model"
)

// byType is the complete classification table. Types not listed here
// fall back to LOW so an unknown finding never inflates the assessment.
var byType = map[model.AnomalyType]model.Severity{
	model.AnomalyFutureTimestamp: model.SeverityCritical,
	model.AnomalyPostDeletion:    model.SeverityHigh,
	model.AnomalyTimestampGap:    model.SeverityMedium,
	model.AnomalyMissingFields:   model.SeverityMedium,
	model.AnomalyDuplicateEvent:  model.SeverityLow,

	model.AnomalyExcessiveCalls:     model.SeverityMedium,
	model.AnomalyUnusualHours:       model.SeverityHigh,
	model.AnomalyExcessiveMessaging: model.SeverityMedium,
	model.AnomalyUnusualHoursUsage:  model.SeverityHigh,
}

// Classify returns the severity for an anomaly type
func Classify(t model.AnomalyType) model.Severity {
	if s, ok := byType[t]; ok {
		return s
	}
	return model.SeverityLow
}

// Assess builds the severity assessment for a finding list. The
// distribution always carries all four levels so the report shape is
// stable even when a level has no findings.
func Assess(findings []model.Anomaly) model.SeverityAssessment {
	dist := map[model.Severity]int{
		model.SeverityCritical: 0,
		model.SeverityHigh:     0,
		model.SeverityMedium:   0,
		model.SeverityLow:      0,
	}
	for _, f := range findings {
		dist[Classify(f.Type)]++
	}
	return model.SeverityAssessment{
		Distribution:      dist,
		TotalAnomalies:    len(findings),
		CriticalAnomalies: dist[model.SeverityCritical],
		HighAnomalies:     dist[model.SeverityHigh],
	}
}

package report

import (
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// MergeFindings folds the per-battery reports into the unified findings
// artifact. A nil report contributes an empty category rather than
// failing, so a case analyzed with only one battery still merges.
func MergeFindings(caseID string, anomaly, behaviour *model.Report, now time.Time) *model.Findings {
	merged := &model.Findings{
		CaseID:              caseID,
		AnalysisTimestamp:   now.Format(model.TimestampLayout),
		TimestampAnomalies:  []model.Anomaly{},
		SuspiciousBehaviour: []model.Anomaly{},
	}
	if anomaly != nil {
		merged.TimestampAnomalies = append(merged.TimestampAnomalies, anomaly.Findings...)
	}
	if behaviour != nil {
		merged.SuspiciousBehaviour = append(merged.SuspiciousBehaviour, behaviour.Findings...)
	}
	return merged
}

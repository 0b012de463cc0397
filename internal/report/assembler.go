// Package report assembles, persists and renders analysis artifacts.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/nvaldes/custodia/internal/model"
	"github.com/nvaldes/custodia/internal/severity"
)

// Assembler turns finding lists into persisted report structures.
// The analysis ID generator is injectable so reproduction runs can pin
// it; by default every assembled report gets a fresh UUID.
type Assembler struct {
	newID func() string
}

// NewAssembler returns an assembler with random analysis IDs
func NewAssembler() *Assembler {
	return &Assembler{newID: uuid.NewString}
}

// NewPinnedAssembler returns an assembler that stamps every report with
// the given analysis ID. Used for byte-for-byte reproduction runs.
func NewPinnedAssembler(analysisID string) *Assembler {
	return &Assembler{newID: func() string { return analysisID }}
}

// Assemble builds a report from a finding list. The aggregate maps are
// tallied from the findings; the finding order is preserved verbatim.
// Findings is always non-nil so the artifact serializes as [] and not
// null when nothing was flagged.
func (a *Assembler) Assemble(analysisType model.AnalysisType, caseID string, findings []model.Anomaly, now time.Time) *model.Report {
	byType := make(map[model.AnomalyType]int)
	bySource := make(map[model.Source]int)
	for _, f := range findings {
		byType[f.Type]++
		bySource[f.Source]++
	}
	if findings == nil {
		findings = []model.Anomaly{}
	}

	// Only the anomaly battery carries a severity scale; behavioural
	// findings are reported without one.
	var assessment *model.SeverityAssessment
	if analysisType == model.AnalysisAnomaly {
		assessed := severity.Assess(findings)
		assessment = &assessed
	}

	return &model.Report{
		AnalysisID:         a.newID(),
		CaseID:             caseID,
		AnalysisTimestamp:  now.Format(model.TimestampLayout),
		AnalysisType:       analysisType,
		SeverityAssessment: assessment,
		TotalAnomalies:     len(findings),
		AnomaliesByType:    byType,
		AnomaliesBySource:  bySource,
		Findings:           findings,
	}
}

package model

// AnalysisType names the battery that produced a report
type AnalysisType string

const (
	AnalysisAnomaly   AnalysisType = "anomaly_analysis"
	AnalysisBehaviour AnalysisType = "behaviour_analysis"
)

// Report is the immutable analysis artifact persisted by the engine.
// Findings preserve detector-emission order verbatim; the aggregate maps
// are derived purely by tallying finding type and source.
type Report struct {
	AnalysisID         string              `json:"analysis_id"`
	CaseID             string              `json:"case_id,omitempty"`
	AnalysisTimestamp  string              `json:"analysis_timestamp"`
	AnalysisType       AnalysisType        `json:"analysis_type"`
	SeverityAssessment *SeverityAssessment `json:"severity_assessment,omitempty"`
	TotalAnomalies     int                 `json:"total_anomalies"`
	AnomaliesByType    map[AnomalyType]int `json:"anomalies_by_type"`
	AnomaliesBySource  map[Source]int      `json:"anomalies_by_source"`
	Findings           []Anomaly           `json:"findings"`
}

// Findings is the unified per-case view merged from the individual
// analysis reports, consumed by report rendering and case review.
type Findings struct {
	CaseID              string    `json:"case_id"`
	AnalysisTimestamp   string    `json:"analysis_timestamp"`
	TimestampAnomalies  []Anomaly `json:"timestamp_anomalies"`
	SuspiciousBehaviour []Anomaly `json:"suspicious_behaviour"`
}

// TotalFindings returns the finding count across all categories
func (f *Findings) TotalFindings() int {
	return len(f.TimestampAnomalies) + len(f.SuspiciousBehaviour)
}

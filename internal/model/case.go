package model

import "path/filepath"

// Artifact file names within a case directory
const (
	TimelineFileName        = "timeline.json"
	AnomalyReportFileName   = "anomaly_analysis_report.json"
	BehaviourReportFileName = "behaviour_analysis_report.json"
	FindingsFileName        = "findings.json"
	EvidenceHashesFileName  = "hashes.json"
	AnalysisHashesFileName  = "analysis_hashes.json"
	FinalReportFileName     = "final_report.txt"
)

// Per-source evidence file names in the processed evidence directory
var sourceFiles = map[Source]string{
	SourceSMS:   "sms.json",
	SourceCall:  "calls.json",
	SourceMedia: "media.json",
	SourceApp:   "apps.json",
}

// SourceFileName returns the processed evidence file name for a source
func SourceFileName(s Source) string {
	return sourceFiles[s]
}

// Case addresses the on-disk layout of one investigation case:
//
//	<root>/<id>/evidence/raw        raw pulls, read-only, hash ledger input
//	<root>/<id>/evidence/processed  canonical per-source JSON
//	<root>/<id>/timeline            timeline artifact
//	<root>/<id>/analysis            analysis reports and merged findings
//	<root>/<id>/reports             rendered investigation reports
type Case struct {
	Root string
	ID   string
}

// NewCase addresses a case directory under the given root
func NewCase(root, id string) Case {
	return Case{Root: root, ID: id}
}

// Dir returns the case directory
func (c Case) Dir() string {
	return filepath.Join(c.Root, c.ID)
}

// RawDir returns the raw evidence directory (never written by this tool)
func (c Case) RawDir() string {
	return filepath.Join(c.Dir(), "evidence", "raw")
}

// ProcessedDir returns the canonical per-source evidence directory
func (c Case) ProcessedDir() string {
	return filepath.Join(c.Dir(), "evidence", "processed")
}

// TimelineDir returns the timeline artifact directory
func (c Case) TimelineDir() string {
	return filepath.Join(c.Dir(), "timeline")
}

// AnalysisDir returns the analysis artifact directory
func (c Case) AnalysisDir() string {
	return filepath.Join(c.Dir(), "analysis")
}

// ReportsDir returns the rendered report directory
func (c Case) ReportsDir() string {
	return filepath.Join(c.Dir(), "reports")
}

// SourcePath returns the processed evidence file for a source
func (c Case) SourcePath(s Source) string {
	return filepath.Join(c.ProcessedDir(), SourceFileName(s))
}

// TimelinePath returns the timeline artifact path
func (c Case) TimelinePath() string {
	return filepath.Join(c.TimelineDir(), TimelineFileName)
}

// HashesDir returns the evidence hash ledger directory
func (c Case) HashesDir() string {
	return filepath.Join(c.Dir(), "evidence", "hashes")
}

// EvidenceHashesPath returns the evidence hash manifest path
func (c Case) EvidenceHashesPath() string {
	return filepath.Join(c.HashesDir(), EvidenceHashesFileName)
}

// AnalysisHashesPath returns the analysis-output hash manifest path
func (c Case) AnalysisHashesPath() string {
	return filepath.Join(c.ReportsDir(), AnalysisHashesFileName)
}

// AnomalyReportPath returns the anomaly analysis report path
func (c Case) AnomalyReportPath() string {
	return filepath.Join(c.AnalysisDir(), AnomalyReportFileName)
}

// BehaviourReportPath returns the behaviour analysis report path
func (c Case) BehaviourReportPath() string {
	return filepath.Join(c.AnalysisDir(), BehaviourReportFileName)
}

// FindingsPath returns the merged findings artifact path
func (c Case) FindingsPath() string {
	return filepath.Join(c.AnalysisDir(), FindingsFileName)
}

// FinalReportPath returns the rendered investigation report path
func (c Case) FinalReportPath() string {
	return filepath.Join(c.ReportsDir(), FinalReportFileName)
}

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldes/custodia/internal/model"
)

var reportTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleFindings() []model.Anomaly {
	return []model.Anomaly{
		{Timestamp: "2024-03-01 12:00:00", Source: model.SourceSMS, Type: model.AnomalyTimestampGap, Details: "gap one"},
		{Timestamp: "2024-03-01 12:00:00", Source: model.SourceSMS, Type: model.AnomalyTimestampGap, Details: "gap two"},
		{Timestamp: "2024-03-01 12:00:00", Source: model.SourceCall, Type: model.AnomalyFutureTimestamp, Details: "future one"},
	}
}

func TestAssemble_Tallies(t *testing.T) {
	rep := NewPinnedAssembler("fixed-id").Assemble(model.AnalysisAnomaly, "case_002", sampleFindings(), reportTime)

	assert.Equal(t, "fixed-id", rep.AnalysisID)
	assert.Equal(t, "case_002", rep.CaseID)
	assert.Equal(t, "2024-03-01 12:00:00", rep.AnalysisTimestamp)
	assert.Equal(t, model.AnalysisAnomaly, rep.AnalysisType)
	assert.Equal(t, 3, rep.TotalAnomalies)
	assert.Equal(t, map[model.AnomalyType]int{
		model.AnomalyTimestampGap:    2,
		model.AnomalyFutureTimestamp: 1,
	}, rep.AnomaliesByType)
	assert.Equal(t, map[model.Source]int{
		model.SourceSMS:  2,
		model.SourceCall: 1,
	}, rep.AnomaliesBySource)

	require.NotNil(t, rep.SeverityAssessment)
	assert.Equal(t, 1, rep.SeverityAssessment.CriticalAnomalies)
	assert.Equal(t, 0, rep.SeverityAssessment.HighAnomalies)
}

func TestAssemble_PreservesFindingOrder(t *testing.T) {
	rep := NewPinnedAssembler("fixed-id").Assemble(model.AnalysisAnomaly, "", sampleFindings(), reportTime)

	assert.Equal(t, "gap one", rep.Findings[0].Details)
	assert.Equal(t, "gap two", rep.Findings[1].Details)
	assert.Equal(t, "future one", rep.Findings[2].Details)
}

func TestAssemble_NoFindingsYieldsEmptySlice(t *testing.T) {
	rep := NewPinnedAssembler("fixed-id").Assemble(model.AnalysisAnomaly, "case_002", nil, reportTime)

	assert.NotNil(t, rep.Findings)
	assert.Empty(t, rep.Findings)
	assert.Equal(t, 0, rep.TotalAnomalies)
	require.NotNil(t, rep.SeverityAssessment)
	assert.Equal(t, 0, rep.SeverityAssessment.TotalAnomalies)
}

func TestAssemble_BehaviourReportCarriesNoSeverity(t *testing.T) {
	rep := NewPinnedAssembler("fixed-id").Assemble(model.AnalysisBehaviour, "case_002", []model.Anomaly{
		{Source: model.SourceCall, Type: model.AnomalyExcessiveCalls, Details: "51 calls to 555-0100 (threshold: 50)"},
	}, reportTime)

	assert.Nil(t, rep.SeverityAssessment)
	assert.Equal(t, 1, rep.TotalAnomalies)
}

func TestAssemble_RandomIDsDiffer(t *testing.T) {
	a := NewAssembler()
	first := a.Assemble(model.AnalysisAnomaly, "", nil, reportTime)
	second := a.Assemble(model.AnalysisAnomaly, "", nil, reportTime)

	assert.NotEmpty(t, first.AnalysisID)
	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)
}

func TestMergeFindings(t *testing.T) {
	anomaly := NewPinnedAssembler("a").Assemble(model.AnalysisAnomaly, "case_002", sampleFindings(), reportTime)
	behaviour := NewPinnedAssembler("b").Assemble(model.AnalysisBehaviour, "case_002", []model.Anomaly{
		{Source: model.SourceCall, Type: model.AnomalyExcessiveCalls, Details: "52 calls to 555-0100 (threshold: 50)"},
	}, reportTime)

	merged := MergeFindings("case_002", anomaly, behaviour, reportTime)

	assert.Equal(t, "case_002", merged.CaseID)
	assert.Equal(t, "2024-03-01 12:00:00", merged.AnalysisTimestamp)
	assert.Len(t, merged.TimestampAnomalies, 3)
	assert.Len(t, merged.SuspiciousBehaviour, 1)
	assert.Equal(t, 4, merged.TotalFindings())
}

func TestMergeFindings_NilReportsTolerated(t *testing.T) {
	merged := MergeFindings("case_002", nil, nil, reportTime)

	assert.NotNil(t, merged.TimestampAnomalies)
	assert.NotNil(t, merged.SuspiciousBehaviour)
	assert.Equal(t, 0, merged.TotalFindings())
}

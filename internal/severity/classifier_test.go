package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvaldes/custodia/internal/model"
)

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		anomaly model.AnomalyType
		want    model.Severity
	}{
		{model.AnomalyFutureTimestamp, model.SeverityCritical},
		{model.AnomalyPostDeletion, model.SeverityHigh},
		{model.AnomalyTimestampGap, model.SeverityMedium},
		{model.AnomalyMissingFields, model.SeverityMedium},
		{model.AnomalyDuplicateEvent, model.SeverityLow},
		{model.AnomalyUnusualHours, model.SeverityHigh},
		{model.AnomalyUnusualHoursUsage, model.SeverityHigh},
		{model.AnomalyExcessiveCalls, model.SeverityMedium},
		{model.AnomalyExcessiveMessaging, model.SeverityMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.anomaly), string(tt.anomaly))
	}
}

func TestClassify_UnknownTypeFallsBackToLow(t *testing.T) {
	assert.Equal(t, model.SeverityLow, Classify(model.AnomalyType("made_up_rule")))
}

func TestAssess_Aggregation(t *testing.T) {
	findings := []model.Anomaly{
		{Type: model.AnomalyFutureTimestamp},
		{Type: model.AnomalyTimestampGap},
		{Type: model.AnomalyTimestampGap},
	}

	got := Assess(findings)

	assert.Equal(t, 3, got.TotalAnomalies)
	assert.Equal(t, 1, got.CriticalAnomalies)
	assert.Equal(t, 0, got.HighAnomalies)
	assert.Equal(t, map[model.Severity]int{
		model.SeverityCritical: 1,
		model.SeverityHigh:     0,
		model.SeverityMedium:   2,
		model.SeverityLow:      0,
	}, got.Distribution)
}

func TestAssess_EmptyFindingsKeepStableShape(t *testing.T) {
	got := Assess(nil)

	assert.Equal(t, 0, got.TotalAnomalies)
	assert.Len(t, got.Distribution, 4)
	for level, count := range got.Distribution {
		assert.Zero(t, count, string(level))
	}
}

package timeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldes/custodia/internal/evidence"
	"github.com/nvaldes/custodia/internal/model"
)

func normRecord(t *testing.T, raw string) model.NormalizedRecord {
	t.Helper()
	var rec model.EvidenceRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return evidence.Normalize(rec)
}

func normRecords(t *testing.T, raws ...string) []model.NormalizedRecord {
	t.Helper()
	records := make([]model.NormalizedRecord, 0, len(raws))
	for i, raw := range raws {
		rec := normRecord(t, raw)
		rec.SourceIndex = i
		records = append(records, rec)
	}
	return records
}

func TestMerge_ChronologicalOrderAcrossSources(t *testing.T) {
	set := model.EvidenceSet{
		model.SourceSMS: normRecords(t,
			`{"timestamp":"2023-06-01 12:00:00","source":"SMS","type":"incoming","details":"b"}`,
		),
		model.SourceCall: normRecords(t,
			`{"timestamp":"2023-06-01 09:00:00","source":"CALL","type":"outgoing","details":"a"}`,
			`{"timestamp":"2023-06-01 15:00:00","source":"CALL","type":"missed","details":"c"}`,
		),
	}

	merged := Merge(set)

	require.Len(t, merged, 3)
	assert.Equal(t, model.SourceCall, merged[0].Source)
	assert.Equal(t, model.SourceSMS, merged[1].Source)
	assert.Equal(t, model.SourceCall, merged[2].Source)
	for i, ev := range merged {
		assert.Equal(t, i+1, ev.TimelineOrder)
	}
	assert.Empty(t, Validate(merged))
}

func TestMerge_TieBreakFollowsSourcePrecedence(t *testing.T) {
	same := "2023-06-01 10:00:00"
	set := model.EvidenceSet{
		model.SourceApp:   normRecords(t, `{"timestamp":"`+same+`","source":"APP","type":"installed","details":"app"}`),
		model.SourceSMS:   normRecords(t, `{"timestamp":"`+same+`","source":"SMS","type":"incoming","details":"sms"}`),
		model.SourceMedia: normRecords(t, `{"timestamp":"`+same+`","source":"MEDIA","type":"created","details":"media"}`),
		model.SourceCall:  normRecords(t, `{"timestamp":"`+same+`","source":"CALL","type":"incoming","details":"call"}`),
	}

	merged := Merge(set)

	require.Len(t, merged, 4)
	assert.Equal(t, model.SourceSMS, merged[0].Source)
	assert.Equal(t, model.SourceCall, merged[1].Source)
	assert.Equal(t, model.SourceMedia, merged[2].Source)
	assert.Equal(t, model.SourceApp, merged[3].Source)
}

func TestMerge_InvalidTimestampsSortLastInInsertionOrder(t *testing.T) {
	set := model.EvidenceSet{
		model.SourceSMS: normRecords(t,
			`{"timestamp":"broken-one","source":"SMS","type":"incoming","details":"i1"}`,
			`{"timestamp":"2023-06-01 10:00:00","source":"SMS","type":"incoming","details":"v1"}`,
			`{"source":"SMS","type":"incoming","details":"i2"}`,
		),
		model.SourceCall: normRecords(t,
			`{"timestamp":"also broken","source":"CALL","type":"missed","details":"i3"}`,
		),
	}

	merged := Merge(set)

	require.Len(t, merged, 4)
	assert.Equal(t, "v1", merged[0].Details)
	assert.Equal(t, "i1", merged[1].Details)
	assert.Equal(t, "i2", merged[2].Details)
	assert.Equal(t, "i3", merged[3].Details)
	assert.Empty(t, Validate(merged))
}

func TestMerge_NoDataLoss(t *testing.T) {
	set := model.EvidenceSet{
		model.SourceSMS: normRecords(t,
			`{"timestamp":"2023-06-01 10:00:00","source":"SMS","type":"incoming","details":"a"}`,
			`{"timestamp":"bad","source":"SMS"}`,
			`{}`,
		),
		model.SourceCall:  normRecords(t, `{"timestamp":"2023-06-02 10:00:00","source":"CALL","type":"missed","details":"b"}`),
		model.SourceMedia: nil,
		model.SourceApp:   normRecords(t, `{"source":"APP"}`),
	}

	merged := Merge(set)

	assert.Equal(t, set.Total(), len(merged))
	assert.Len(t, merged, 5)
}

func TestMerge_EmptySet(t *testing.T) {
	merged := Merge(model.EvidenceSet{})
	assert.Empty(t, merged)
	assert.Empty(t, Validate(merged))
}

func TestMerge_SourceInjectedWhenAbsent(t *testing.T) {
	set := model.EvidenceSet{
		model.SourceMedia: normRecords(t, `{"timestamp":"2023-06-01 10:00:00","type":"created","details":"photo"}`),
	}

	merged := Merge(set)

	require.Len(t, merged, 1)
	assert.Equal(t, model.SourceMedia, merged[0].Source)
	// Injection is display-level: the field stays reported as missing
	assert.Contains(t, merged[0].MissingFields(), "source")
}

func TestMerge_DeterministicAcrossRuns(t *testing.T) {
	set := model.EvidenceSet{
		model.SourceSMS: normRecords(t,
			`{"timestamp":"2023-06-01 10:00:00","source":"SMS","type":"incoming","details":"a"}`,
			`{"timestamp":"2023-06-01 10:00:00","source":"SMS","type":"incoming","details":"b"}`,
			`{"timestamp":"junk","source":"SMS","type":"incoming","details":"c"}`,
		),
		model.SourceApp: normRecords(t,
			`{"timestamp":"2023-06-01 10:00:00","source":"APP","type":"installed","details":"d"}`,
		),
	}

	first := Merge(set)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Merge(set))
	}
}

func TestStatistics(t *testing.T) {
	set := model.EvidenceSet{
		model.SourceSMS: normRecords(t,
			`{"timestamp":"2023-06-01 10:00:00","source":"SMS","type":"incoming","details":"a"}`,
			`{"timestamp":"2023-06-03 18:30:00","source":"SMS","type":"outgoing","details":"b"}`,
			`{"timestamp":"nope","source":"SMS","type":"incoming","details":"c"}`,
		),
		model.SourceCall: normRecords(t,
			`{"timestamp":"2023-06-02 11:00:00","source":"CALL","type":"missed","details":"d"}`,
		),
	}

	stats := Statistics(Merge(set))

	assert.Equal(t, 4, stats.TotalEvents)
	assert.Equal(t, "2023-06-01 10:00:00", stats.DateRange.Start)
	assert.Equal(t, "2023-06-03 18:30:00", stats.DateRange.End)
	assert.Equal(t, 3, stats.SourceDistribution[model.SourceSMS])
	assert.Equal(t, 1, stats.SourceDistribution[model.SourceCall])
	assert.Equal(t, 2, stats.TypeDistribution["incoming"])
	assert.Equal(t, 1, stats.InvalidTimestamps)
}

package evidence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldes/custodia/internal/model"
)

func record(t *testing.T, raw string) model.EvidenceRecord {
	t.Helper()
	var rec model.EvidenceRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func TestNormalize_ValidTimestamp(t *testing.T) {
	rec := record(t, `{"timestamp":"2023-06-01 14:22:03","source":"SMS","type":"incoming","details":"x"}`)

	norm := Normalize(rec)

	require.True(t, norm.TimestampValid)
	require.NotNil(t, norm.ParsedTimestamp)
	want := time.Date(2023, 6, 1, 14, 22, 3, 0, time.UTC)
	assert.True(t, norm.ParsedTimestamp.Equal(want))
}

func TestNormalize_InvalidTimestamps(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"wrong format", `{"timestamp":"01/06/2023 14:22","source":"SMS"}`},
		{"iso8601", `{"timestamp":"2023-06-01T14:22:03Z","source":"SMS"}`},
		{"garbage", `{"timestamp":"not a time","source":"SMS"}`},
		{"empty", `{"timestamp":"","source":"SMS"}`},
		{"missing field", `{"source":"SMS","type":"incoming"}`},
		{"impossible date", `{"timestamp":"2023-13-45 99:00:00","source":"SMS"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record(t, tt.raw)
			norm := Normalize(rec)

			assert.False(t, norm.TimestampValid)
			assert.Nil(t, norm.ParsedTimestamp)
			// The original record survives unmodified
			assert.Equal(t, rec, norm.EvidenceRecord)
		})
	}
}

func TestNormalize_IsPure(t *testing.T) {
	rec := record(t, `{"timestamp":"2024-01-15 08:30:00","source":"CALL","type":"outgoing","details":"y"}`)

	first := Normalize(rec)
	second := Normalize(rec)

	assert.Equal(t, first, second)
}

func TestNormalizeAll_AssignsSourceIndex(t *testing.T) {
	records := []model.EvidenceRecord{
		record(t, `{"timestamp":"2023-06-01 10:00:00","source":"SMS"}`),
		record(t, `{"timestamp":"bad","source":"SMS"}`),
		record(t, `{"timestamp":"2023-06-01 11:00:00","source":"SMS"}`),
	}

	normalized := NormalizeAll(records)

	require.Len(t, normalized, 3)
	for i, norm := range normalized {
		assert.Equal(t, i, norm.SourceIndex)
	}
	assert.True(t, normalized[0].TimestampValid)
	assert.False(t, normalized[1].TimestampValid)
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceRecord_UnmarshalTracksPresence(t *testing.T) {
	var rec EvidenceRecord
	err := json.Unmarshal([]byte(`{"timestamp":"2023-06-01 14:22:03","source":"SMS","type":"incoming"}`), &rec)
	require.NoError(t, err)

	assert.True(t, rec.Has(FieldTimestamp))
	assert.True(t, rec.Has(FieldSource))
	assert.True(t, rec.Has(FieldType))
	assert.False(t, rec.Has(FieldDetails))
	assert.Equal(t, []string{"details"}, rec.MissingFields())
}

func TestEvidenceRecord_EmptyValueIsPresent(t *testing.T) {
	var rec EvidenceRecord
	err := json.Unmarshal([]byte(`{"timestamp":"","source":"CALL","type":"missed","details":""}`), &rec)
	require.NoError(t, err)

	// Present-but-empty is not missing
	assert.Empty(t, rec.MissingFields())
	assert.Equal(t, "", rec.Timestamp)
}

func TestEvidenceRecord_AllFieldsMissing(t *testing.T) {
	var rec EvidenceRecord
	require.NoError(t, json.Unmarshal([]byte(`{}`), &rec))

	assert.Equal(t, MandatoryFields(), rec.MissingFields())
	assert.Equal(t, "unknown", rec.TimestampOrUnknown())
}

func TestSourceOrderPrecedence(t *testing.T) {
	assert.Equal(t, []Source{SourceSMS, SourceCall, SourceMedia, SourceApp}, SourceOrder())
	assert.Equal(t, 0, SourceSMS.PrecedenceIndex())
	assert.Equal(t, 3, SourceApp.PrecedenceIndex())
	assert.Equal(t, 4, Source("BLUETOOTH").PrecedenceIndex())
	assert.False(t, Source("BLUETOOTH").Valid())
}

func TestEvidenceSetTotal(t *testing.T) {
	set := EvidenceSet{
		SourceSMS:  make([]NormalizedRecord, 3),
		SourceCall: make([]NormalizedRecord, 2),
	}
	assert.Equal(t, 5, set.Total())
}

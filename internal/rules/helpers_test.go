package rules

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nvaldes/custodia/internal/evidence"
	"github.com/nvaldes/custodia/internal/model"
)

// analysisTime is the pinned reference instant used across rule tests
var analysisTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustRecord(t *testing.T, raw string) model.NormalizedRecord {
	t.Helper()
	var rec model.EvidenceRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return evidence.Normalize(rec)
}

func sourceSet(t *testing.T, src model.Source, raws ...string) model.EvidenceSet {
	t.Helper()
	records := make([]model.NormalizedRecord, 0, len(raws))
	for i, raw := range raws {
		rec := mustRecord(t, raw)
		rec.SourceIndex = i
		records = append(records, rec)
	}
	return model.EvidenceSet{src: records}
}

func smsEvent(ts, typ, details string) string {
	b, _ := json.Marshal(map[string]string{
		"timestamp": ts,
		"source":    "SMS",
		"type":      typ,
		"details":   details,
	})
	return string(b)
}

package evidence

import (
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// Normalize attempts to parse the record's timestamp against the
// canonical layout. On success the parsed instant is attached and the
// record is tagged valid; on any failure (absent field, wrong format)
// the record is tagged invalid and retained otherwise unmodified.
//
// Normalize is pure: the same record always yields the same output,
// independent of execution order or wall-clock time.
func Normalize(rec model.EvidenceRecord) model.NormalizedRecord {
	norm := model.NormalizedRecord{EvidenceRecord: rec}

	if !rec.Has(model.FieldTimestamp) {
		return norm
	}

	parsed, err := time.Parse(model.TimestampLayout, rec.Timestamp)
	if err != nil {
		return norm
	}

	norm.ParsedTimestamp = &parsed
	norm.TimestampValid = true
	return norm
}

// NormalizeAll normalizes a source's records in order, recording each
// record's original position as an explicit merge tie-break key.
func NormalizeAll(records []model.EvidenceRecord) []model.NormalizedRecord {
	normalized := make([]model.NormalizedRecord, 0, len(records))
	for i, rec := range records {
		norm := Normalize(rec)
		norm.SourceIndex = i
		normalized = append(normalized, norm)
	}
	return normalized
}

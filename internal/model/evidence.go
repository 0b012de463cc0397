package model

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the canonical evidence timestamp format.
// All extractors emit this layout with no timezone suffix.
const TimestampLayout = "2006-01-02 15:04:05"

// Source identifies the origin category of a device-derived record
type Source string

const (
	SourceSMS   Source = "SMS"
	SourceCall  Source = "CALL"
	SourceMedia Source = "MEDIA"
	SourceApp   Source = "APP"
)

// SourceOrder returns the fixed source precedence used for timeline
// merging and for every per-source iteration in the rule battery.
// The order is part of the determinism contract, not a convenience.
func SourceOrder() []Source {
	return []Source{SourceSMS, SourceCall, SourceMedia, SourceApp}
}

// PrecedenceIndex returns the position of s in the fixed source order,
// or len(order) for unknown sources so they sort after the known ones.
func (s Source) PrecedenceIndex() int {
	for i, known := range SourceOrder() {
		if s == known {
			return i
		}
	}
	return len(SourceOrder())
}

// Valid reports whether s is one of the four known evidence sources
func (s Source) Valid() bool {
	return s.PrecedenceIndex() < len(SourceOrder())
}

// Field names checked by the missing-fields integrity rule
const (
	FieldTimestamp = "timestamp"
	FieldSource    = "source"
	FieldType      = "type"
	FieldDetails   = "details"
)

// MandatoryFields lists the fields every evidence record is expected to
// carry, in the order they are reported when absent.
func MandatoryFields() []string {
	return []string{FieldTimestamp, FieldSource, FieldType, FieldDetails}
}

type fieldMask uint8

const (
	maskTimestamp fieldMask = 1 << iota
	maskSource
	maskType
	maskDetails
)

// EvidenceRecord is one observed device event in the canonical schema
// shared by all extractors. Any field may be absent in the raw JSON;
// absence is tracked separately from the zero value because the
// integrity rules distinguish a missing key from an empty string.
type EvidenceRecord struct {
	Timestamp string `json:"timestamp,omitempty"`
	Source    Source `json:"source,omitempty"`
	Type      string `json:"type,omitempty"`
	Details   string `json:"details,omitempty"`

	present fieldMask
}

// NewEvidenceRecord builds a record with all four fields marked present.
// Extractors use this; the loader goes through UnmarshalJSON instead.
func NewEvidenceRecord(timestamp string, source Source, typ, details string) EvidenceRecord {
	return EvidenceRecord{
		Timestamp: timestamp,
		Source:    source,
		Type:      typ,
		Details:   details,
		present:   maskTimestamp | maskSource | maskType | maskDetails,
	}
}

// UnmarshalJSON decodes a record while remembering which keys were
// actually present in the source document.
func (r *EvidenceRecord) UnmarshalJSON(data []byte) error {
	var aux struct {
		Timestamp *string `json:"timestamp"`
		Source    *Source `json:"source"`
		Type      *string `json:"type"`
		Details   *string `json:"details"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = EvidenceRecord{}
	if aux.Timestamp != nil {
		r.Timestamp = *aux.Timestamp
		r.present |= maskTimestamp
	}
	if aux.Source != nil {
		r.Source = *aux.Source
		r.present |= maskSource
	}
	if aux.Type != nil {
		r.Type = *aux.Type
		r.present |= maskType
	}
	if aux.Details != nil {
		r.Details = *aux.Details
		r.present |= maskDetails
	}
	return nil
}

// Has reports whether the named field was present in the raw record
func (r EvidenceRecord) Has(field string) bool {
	switch field {
	case FieldTimestamp:
		return r.present&maskTimestamp != 0
	case FieldSource:
		return r.present&maskSource != 0
	case FieldType:
		return r.present&maskType != 0
	case FieldDetails:
		return r.present&maskDetails != 0
	}
	return false
}

// MissingFields returns the mandatory fields absent from the raw record,
// in canonical order. Empty result means the record is complete.
func (r EvidenceRecord) MissingFields() []string {
	var missing []string
	for _, f := range MandatoryFields() {
		if !r.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// TimestampOrUnknown returns the raw timestamp string, or "unknown" when
// the field is absent. Used when composing finding details.
func (r EvidenceRecord) TimestampOrUnknown() string {
	if r.Has(FieldTimestamp) {
		return r.Timestamp
	}
	return "unknown"
}

// NormalizedRecord is an EvidenceRecord after timestamp normalization.
// Records with unparseable timestamps are retained, tagged invalid, and
// excluded only from gap/ordering comparisons.
type NormalizedRecord struct {
	EvidenceRecord

	ParsedTimestamp *time.Time `json:"parsed_timestamp,omitempty"`
	TimestampValid  bool       `json:"timestamp_valid"`

	// SourceIndex is the record's position within its source file,
	// carried as an explicit merge tie-break key.
	SourceIndex int `json:"-"`
}

// TimelineEvent is a NormalizedRecord placed on the unified timeline
type TimelineEvent struct {
	NormalizedRecord

	// TimelineOrder is 1-based and assigned after the global sort
	TimelineOrder int `json:"timeline_order"`
}

// EvidenceSet holds the normalized records of a case, keyed by source.
// Consumers must iterate it through SourceOrder, never by map range.
type EvidenceSet map[Source][]NormalizedRecord

// Total returns the record count across all sources
func (s EvidenceSet) Total() int {
	n := 0
	for _, records := range s {
		n += len(records)
	}
	return n
}

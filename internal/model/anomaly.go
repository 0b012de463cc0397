package model

// AnomalyType identifies which deterministic rule produced a finding
type AnomalyType string

// Integrity and temporal anomaly types emitted by the core rule battery
const (
	AnomalyTimestampGap    AnomalyType = "timestamp_gap"
	AnomalyPostDeletion    AnomalyType = "post_deletion_activity"
	AnomalyFutureTimestamp AnomalyType = "future_timestamp"
	AnomalyDuplicateEvent  AnomalyType = "duplicate_event"
	AnomalyMissingFields   AnomalyType = "missing_fields"
)

// Behavioural anomaly types emitted by the behaviour battery
const (
	AnomalyExcessiveCalls     AnomalyType = "excessive_calls"
	AnomalyUnusualHours       AnomalyType = "unusual_hours"
	AnomalyExcessiveMessaging AnomalyType = "excessive_messaging"
	AnomalyUnusualHoursUsage  AnomalyType = "unusual_hours_usage"
)

// Anomaly is one reported deviation from an expected pattern.
// Timestamp is the detection time (when the analysis ran), not the time
// of the anomalous event itself; the event's own timestamps are embedded
// in Details for auditability.
type Anomaly struct {
	Timestamp string      `json:"timestamp"`
	Source    Source      `json:"source"`
	Type      AnomalyType `json:"type"`
	Details   string      `json:"details"`
}

// Severity is the fixed four-tier classification of anomaly types
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// SeverityAssessment aggregates finding counts per tier
type SeverityAssessment struct {
	Distribution      map[Severity]int `json:"severity_distribution"`
	TotalAnomalies    int              `json:"total_anomalies"`
	CriticalAnomalies int              `json:"critical_anomalies"`
	HighAnomalies     int              `json:"high_anomalies"`
}

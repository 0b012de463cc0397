package timeline

import "github.com/nvaldes/custodia/internal/model"

// DateRange bounds the valid-timestamp portion of a timeline
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Stats summarizes a merged timeline
type Stats struct {
	TotalEvents        int                  `json:"total_events"`
	DateRange          DateRange            `json:"date_range"`
	SourceDistribution map[model.Source]int `json:"source_distribution"`
	TypeDistribution   map[string]int       `json:"event_type_distribution"`
	InvalidTimestamps  int                  `json:"invalid_timestamps"`
}

// Statistics computes the summary for a merged timeline. The date range
// covers only valid-timestamp events; invalid ones are counted apart.
func Statistics(events []model.TimelineEvent) Stats {
	stats := Stats{
		TotalEvents:        len(events),
		SourceDistribution: make(map[model.Source]int),
		TypeDistribution:   make(map[string]int),
	}

	for _, ev := range events {
		stats.SourceDistribution[ev.Source]++
		if ev.Has(model.FieldType) {
			stats.TypeDistribution[ev.Type]++
		}
		if !ev.TimestampValid {
			stats.InvalidTimestamps++
			continue
		}
		ts := ev.ParsedTimestamp.Format(model.TimestampLayout)
		if stats.DateRange.Start == "" {
			stats.DateRange.Start = ts
		}
		stats.DateRange.End = ts
	}

	return stats
}

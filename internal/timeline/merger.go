// Package timeline reconstructs the unified chronological timeline from
// per-source evidence. Merging is deterministic: source precedence and
// within-source position are explicit sort keys, so re-running on the
// same inputs always yields the identical ordered sequence.
package timeline

import (
	"fmt"
	"sort"

	"github.com/nvaldes/custodia/internal/model"
)

// Merge concatenates all sources in the fixed precedence order, sorts
// chronologically and assigns 1-based timeline order numbers.
//
// Records without a valid timestamp sort after all valid ones, keeping
// their insertion order among themselves. No record is ever dropped: the
// output length equals the sum of the input record counts.
func Merge(set model.EvidenceSet) []model.TimelineEvent {
	type keyed struct {
		ev  model.TimelineEvent
		ord int // position in the concatenated sequence, the final tie-break
	}

	events := make([]keyed, 0, set.Total())
	for _, src := range model.SourceOrder() {
		for _, rec := range set[src] {
			ev := model.TimelineEvent{NormalizedRecord: rec}
			// Records that omit their source still belong to a source
			// file; carry it onto the timeline for display.
			if !ev.Has(model.FieldSource) {
				ev.Source = src
			}
			events = append(events, keyed{ev: ev, ord: len(events)})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.ev.TimestampValid != b.ev.TimestampValid {
			return a.ev.TimestampValid
		}
		if a.ev.TimestampValid && !a.ev.ParsedTimestamp.Equal(*b.ev.ParsedTimestamp) {
			return a.ev.ParsedTimestamp.Before(*b.ev.ParsedTimestamp)
		}
		return a.ord < b.ord
	})

	merged := make([]model.TimelineEvent, len(events))
	for i, k := range events {
		k.ev.TimelineOrder = i + 1
		merged[i] = k.ev
	}
	return merged
}

// Validate checks the timeline's structural invariants and returns a
// description of each violation found. A correct merge yields none.
func Validate(events []model.TimelineEvent) []string {
	var violations []string

	for i, ev := range events {
		if ev.TimelineOrder != i+1 {
			violations = append(violations,
				fmt.Sprintf("event %d carries timeline_order %d", i+1, ev.TimelineOrder))
		}
		if i == 0 {
			continue
		}
		prev := events[i-1]
		if prev.TimestampValid && !ev.TimestampValid {
			continue // valid block ends, invalid tail begins
		}
		if !prev.TimestampValid && ev.TimestampValid {
			violations = append(violations,
				fmt.Sprintf("valid-timestamp event at position %d after invalid-timestamp events", i+1))
			continue
		}
		if prev.TimestampValid && ev.TimestampValid &&
			ev.ParsedTimestamp.Before(*prev.ParsedTimestamp) {
			violations = append(violations,
				fmt.Sprintf("chronological order violated between positions %d and %d", i, i+1))
		}
	}

	return violations
}

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldes/custodia/internal/model"
)

func TestPostDeletionRule_SingleDeletion(t *testing.T) {
	rule := NewPostDeletionRule()
	set := sourceSet(t, model.SourceMedia,
		smsEvent("2023-06-01 10:00:00", "deleted", "photo removed"),
		smsEvent("2023-06-01 10:05:00", "created", "photo taken"),
	)

	findings := rule.Evaluate(set, analysisTime)

	require.Len(t, findings, 1)
	assert.Equal(t, model.AnomalyPostDeletion, findings[0].Type)
	assert.Equal(t, model.SourceMedia, findings[0].Source)
	assert.Equal(t, "1 events detected after deletion at 2023-06-01 10:00:00", findings[0].Details)
}

func TestPostDeletionRule_EachDeletionEvaluatedIndependently(t *testing.T) {
	rule := NewPostDeletionRule()
	set := sourceSet(t, model.SourceMedia,
		smsEvent("2023-06-01 09:00:00", "deleted", "first purge"),
		smsEvent("2023-06-01 10:00:00", "created", "a"),
		smsEvent("2023-06-01 11:00:00", "deleted", "second purge"),
		smsEvent("2023-06-01 12:00:00", "modified", "b"),
	)

	findings := rule.Evaluate(set, analysisTime)

	require.Len(t, findings, 2)
	// Overlapping windows: the earlier deletion sees both later events
	assert.Equal(t, "2 events detected after deletion at 2023-06-01 09:00:00", findings[0].Details)
	assert.Equal(t, "1 events detected after deletion at 2023-06-01 11:00:00", findings[1].Details)
}

func TestPostDeletionRule_NoActivityAfterDeletion(t *testing.T) {
	rule := NewPostDeletionRule()
	set := sourceSet(t, model.SourceMedia,
		smsEvent("2023-06-01 10:00:00", "created", "before"),
		smsEvent("2023-06-01 11:00:00", "deleted", "final act"),
	)

	assert.Empty(t, rule.Evaluate(set, analysisTime))
}

func TestPostDeletionRule_LaterDeletionsAreNotActivity(t *testing.T) {
	rule := NewPostDeletionRule()
	set := sourceSet(t, model.SourceMedia,
		smsEvent("2023-06-01 10:00:00", "deleted", "one"),
		smsEvent("2023-06-01 11:00:00", "deleted", "two"),
	)

	assert.Empty(t, rule.Evaluate(set, analysisTime))
}

func TestPostDeletionRule_InvalidTimestampsExcluded(t *testing.T) {
	rule := NewPostDeletionRule()
	set := sourceSet(t, model.SourceMedia,
		smsEvent("garbled", "deleted", "no instant"),
		smsEvent("2023-06-01 10:05:00", "created", "a"),
	)

	// A deletion without a valid instant cannot anchor a window
	assert.Empty(t, rule.Evaluate(set, analysisTime))
}

func TestPostDeletionRule_SourcesDoNotCross(t *testing.T) {
	rule := NewPostDeletionRule()
	set := model.EvidenceSet{}
	for src, records := range sourceSet(t, model.SourceMedia, smsEvent("2023-06-01 10:00:00", "deleted", "x")) {
		set[src] = records
	}
	for src, records := range sourceSet(t, model.SourceApp, smsEvent("2023-06-01 10:05:00", "installed", "y")) {
		set[src] = records
	}

	assert.Empty(t, rule.Evaluate(set, analysisTime))
}

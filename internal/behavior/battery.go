// Package behavior implements the rule-based usage pattern battery.
//
// Like the core anomaly rules, every behavioural check is a pure
// function of the evidence set, the configured thresholds and the
// reference instant. Counterparts are aggregated in sorted order so
// finding lists are reproducible.
package behavior

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// Battery runs the behavioural checks in fixed order: call patterns,
// SMS patterns, app usage.
type Battery struct {
	cfg model.BehaviorConfig
}

// NewBattery returns a battery with the given thresholds
func NewBattery(cfg model.BehaviorConfig) *Battery {
	return &Battery{cfg: cfg}
}

// Run evaluates every behavioural check and concatenates the findings
func (b *Battery) Run(set model.EvidenceSet, now time.Time) []model.Anomaly {
	var findings []model.Anomaly
	findings = append(findings, b.callPatterns(set[model.SourceCall], now)...)
	findings = append(findings, b.smsPatterns(set[model.SourceSMS], now)...)
	findings = append(findings, b.appUsage(set[model.SourceApp], now)...)
	return findings
}

// callPatterns flags excessive call volume per counterpart and bursts
// of late-night activity in the 2AM-5AM window.
func (b *Battery) callPatterns(calls []model.NormalizedRecord, now time.Time) []model.Anomaly {
	var findings []model.Anomaly

	counts := make(map[string]int)
	lateNight := 0
	for _, call := range calls {
		counts[counterpart(call.Details)]++
		if call.TimestampValid && inWindow(*call.ParsedTimestamp, 2, 5) {
			lateNight++
		}
	}

	for _, number := range sortedKeys(counts) {
		if counts[number] > b.cfg.ExcessiveCallThreshold {
			findings = append(findings, model.Anomaly{
				Timestamp: now.Format(model.TimestampLayout),
				Source:    model.SourceCall,
				Type:      model.AnomalyExcessiveCalls,
				Details:   fmt.Sprintf("%d calls to %s (threshold: %d)", counts[number], number, b.cfg.ExcessiveCallThreshold),
			})
		}
	}

	if lateNight > b.cfg.LateNightCallThreshold {
		findings = append(findings, model.Anomaly{
			Timestamp: now.Format(model.TimestampLayout),
			Source:    model.SourceCall,
			Type:      model.AnomalyUnusualHours,
			Details:   fmt.Sprintf("%d calls during 2AM-5AM window", lateNight),
		})
	}

	return findings
}

// smsPatterns flags excessive message volume per counterpart
func (b *Battery) smsPatterns(messages []model.NormalizedRecord, now time.Time) []model.Anomaly {
	var findings []model.Anomaly

	counts := make(map[string]int)
	for _, msg := range messages {
		counts[counterpart(msg.Details)]++
	}

	for _, contact := range sortedKeys(counts) {
		if counts[contact] > b.cfg.ExcessiveMessageThreshold {
			findings = append(findings, model.Anomaly{
				Timestamp: now.Format(model.TimestampLayout),
				Source:    model.SourceSMS,
				Type:      model.AnomalyExcessiveMessaging,
				Details:   fmt.Sprintf("%d messages to %s (threshold: %d)", counts[contact], contact, b.cfg.ExcessiveMessageThreshold),
			})
		}
	}

	return findings
}

// appUsage flags app activity bursts in the 3AM-5AM window
func (b *Battery) appUsage(events []model.NormalizedRecord, now time.Time) []model.Anomaly {
	unusual := 0
	for _, ev := range events {
		if ev.TimestampValid && inWindow(*ev.ParsedTimestamp, 3, 5) {
			unusual++
		}
	}

	if unusual <= b.cfg.UnusualHoursAppThreshold {
		return nil
	}
	return []model.Anomaly{{
		Timestamp: now.Format(model.TimestampLayout),
		Source:    model.SourceApp,
		Type:      model.AnomalyUnusualHoursUsage,
		Details:   fmt.Sprintf("%d app events during 3AM-5AM", unusual),
	}}
}

// inWindow reports whether the instant's time of day falls inside the
// [fromHour:00, toHour:00] window, boundaries included.
func inWindow(ts time.Time, fromHour, toHour int) bool {
	h, m, s := ts.Clock()
	if h < fromHour || h > toHour {
		return false
	}
	if h == toHour {
		return m == 0 && s == 0
	}
	return true
}

// counterpart extracts the remote party from a details string of the
// form "... to <party> ..." or "... from <party> ...". Records that do
// not follow the pattern aggregate under "unknown".
func counterpart(details string) string {
	fields := strings.Fields(details)
	for i, word := range fields {
		if (word == "to" || word == "from") && i+1 < len(fields) {
			return strings.TrimRight(fields[i+1], ".,;:")
		}
	}
	return "unknown"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

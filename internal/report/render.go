package report

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/nvaldes/custodia/internal/integrity"
	"github.com/nvaldes/custodia/internal/model"
)

const (
	headerRule  = "=================================================="
	sectionRule = "--------------------------------------------------"
)

// RenderFinal builds the plain-text investigation report for a case
// from its persisted artifacts. Missing artifacts degrade to an
// explanatory line rather than failing the render; a case is reportable
// at any stage of the investigation.
func RenderFinal(cs model.Case, now time.Time) string {
	var b builder

	b.add("MOBILE DIGITAL FORENSICS INVESTIGATION REPORT")
	b.add(headerRule)
	b.add(fmt.Sprintf("Case ID: %s", cs.ID))
	b.add(fmt.Sprintf("Report Generated (UTC): %s", now.UTC().Format(time.RFC3339)))
	b.add("Tool: custodia")
	b.add()

	renderIntegrity(&b, cs)
	renderFindings(&b, cs)
	renderTimeline(&b, cs)

	b.add("CONCLUSION")
	b.add(sectionRule)
	b.add("Evidence integrity was preserved using SHA-256 hashing.")
	b.add("All findings are based on rule-based, explainable analysis.")
	b.add("This report represents the final forensic output of the investigation.")
	b.add()

	return b.String()
}

func renderIntegrity(b *builder, cs model.Case) {
	b.add("EVIDENCE INTEGRITY VERIFICATION")
	b.add(sectionRule)

	var manifest integrity.Manifest
	if err := ReadJSON(cs.EvidenceHashesPath(), &manifest); err != nil {
		b.add("No hash data available.")
		b.add()
		return
	}

	b.add(fmt.Sprintf("Hash Algorithm: %s", manifest.Algorithm))
	b.add(fmt.Sprintf("Total Evidence Files Hashed: %d", manifest.TotalFiles))
	b.add()
	for _, file := range manifest.Files {
		b.add(fmt.Sprintf("- File Name: %s", file.FileName))
		b.add(fmt.Sprintf("  Relative Path: %s", file.RelativePath))
		b.add(fmt.Sprintf("  Size (bytes): %d", file.SizeBytes))
		b.add(fmt.Sprintf("  SHA-256: %s", file.SHA256))
		b.add()
	}
}

func renderFindings(b *builder, cs model.Case) {
	b.add("ANALYSIS FINDINGS")
	b.add(sectionRule)

	var findings model.Findings
	if err := ReadJSON(cs.FindingsPath(), &findings); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.add("Analysis findings file not present.")
		} else {
			b.add("Analysis findings file unreadable.")
		}
		b.add()
		return
	}

	if findings.TotalFindings() == 0 {
		b.add("No analysis findings detected.")
		b.add()
		return
	}

	idx := 0
	for _, f := range append(findings.TimestampAnomalies, findings.SuspiciousBehaviour...) {
		idx++
		b.add(fmt.Sprintf("%d. %s", idx, f.Type))
		b.add(fmt.Sprintf("   %s", f.Details))
		b.add()
	}
}

func renderTimeline(b *builder, cs model.Case) {
	b.add("TIMELINE OVERVIEW")
	b.add(sectionRule)

	// Decode into the base record shape; the renderer only needs the
	// four evidence fields.
	var events []model.EvidenceRecord
	if err := ReadJSON(cs.TimelinePath(), &events); err != nil {
		b.add("Timeline file not present.")
		b.add()
		return
	}
	if len(events) == 0 {
		b.add("Timeline file is empty.")
		b.add()
		return
	}

	for _, ev := range events {
		b.add(fmt.Sprintf("[%s] %s - %s", ev.TimestampOrUnknown(), ev.Source, ev.Details))
	}
	b.add()
}

// builder accumulates report lines
type builder struct {
	lines []string
}

func (b *builder) add(line ...string) {
	if len(line) == 0 {
		b.lines = append(b.lines, "")
		return
	}
	b.lines = append(b.lines, line...)
}

func (b *builder) String() string {
	return strings.Join(b.lines, "\n")
}

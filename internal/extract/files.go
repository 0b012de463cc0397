package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/nvaldes/custodia/internal/model"
	"github.com/nvaldes/custodia/internal/report"
)

// mediaExtensions are the file types treated as media evidence
var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".mp4":  true,
	".3gp":  true,
	".mov":  true,
}

// appIndicators mark directories holding application data
var appIndicators = []string{"WhatsApp", "Android", "data", "DCIM"}

// Media walks the raw evidence root and records metadata for every
// media file. File modification time stands in for the capture time;
// richer EXIF extraction is out of scope for this pass.
func (e *Extractor) Media(root string) ([]model.EvidenceRecord, error) {
	records := []model.EvidenceRecord{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !mediaExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		records = append(records, model.NewEvidenceRecord(
			info.ModTime().UTC().Format(model.TimestampLayout),
			model.SourceMedia,
			"file",
			fmt.Sprintf("Media file: %s (%d bytes)", d.Name(), info.Size()),
		))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan media under %s: %w", root, err)
	}

	e.log.Info("extracted media records", zap.String("root", root), zap.Int("count", len(records)))
	return records, nil
}

// Apps walks the raw evidence root and records application data
// directories by name indicator.
func (e *Extractor) Apps(root string) ([]model.EvidenceRecord, error) {
	records := []model.EvidenceRecord{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root || !matchesIndicator(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		records = append(records, model.NewEvidenceRecord(
			info.ModTime().UTC().Format(model.TimestampLayout),
			model.SourceApp,
			"data",
			fmt.Sprintf("App data directory: %s", filepath.ToSlash(rel)),
		))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan app data under %s: %w", root, err)
	}

	e.log.Info("extracted app records", zap.String("root", root), zap.Int("count", len(records)))
	return records, nil
}

func matchesIndicator(name string) bool {
	for _, indicator := range appIndicators {
		if strings.Contains(name, indicator) {
			return true
		}
	}
	return false
}

// Case extracts every source for a case from its raw evidence directory
// into the processed per-source JSON files. A missing database is
// logged and yields an empty source file; the remaining sources still
// extract.
func (e *Extractor) Case(cs model.Case) error {
	raw := cs.RawDir()

	sms := []model.EvidenceRecord{}
	smsDB := filepath.Join(raw, filepath.FromSlash(SMSDatabasePath))
	if _, err := os.Stat(smsDB); err == nil {
		if sms, err = e.SMS(smsDB); err != nil {
			return err
		}
	} else {
		e.log.Warn("sms database not found", zap.String("db", smsDB))
	}

	calls := []model.EvidenceRecord{}
	callDB := filepath.Join(raw, filepath.FromSlash(CallDatabasePath))
	if _, err := os.Stat(callDB); err == nil {
		if calls, err = e.Calls(callDB); err != nil {
			return err
		}
	} else {
		e.log.Warn("call database not found", zap.String("db", callDB))
	}

	media, err := e.Media(raw)
	if err != nil {
		return err
	}
	apps, err := e.Apps(raw)
	if err != nil {
		return err
	}

	outputs := map[model.Source][]model.EvidenceRecord{
		model.SourceSMS:   sms,
		model.SourceCall:  calls,
		model.SourceMedia: media,
		model.SourceApp:   apps,
	}
	for _, src := range model.SourceOrder() {
		if err := report.WriteJSON(cs.SourcePath(src), outputs[src]); err != nil {
			return err
		}
	}
	return nil
}

package evidence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/nvaldes/custodia/internal/model"
)

// Sentinel errors for the loader's failure taxonomy
var (
	// ErrSourceUnavailable marks a missing or unreadable evidence file.
	// The source is treated as empty and analysis continues.
	ErrSourceUnavailable = errors.New("evidence source unavailable")

	// ErrMalformedSource marks a file that failed JSON parsing or shape
	// validation. The whole source is skipped; partial-file recovery is
	// not attempted because a malformed file is untrustworthy as a whole.
	ErrMalformedSource = errors.New("malformed evidence source")
)

// LoadStatus records the outcome of loading one source
type LoadStatus struct {
	Source  model.Source
	Path    string
	Records int
	Err     error
}

// Loader reads canonical per-source evidence files. Access is strictly
// read-only: the loader never creates, touches or rewrites anything in
// the evidence store.
type Loader struct {
	log   *zap.Logger
	cache *gocache.Cache
}

// NewLoader creates a loader with an in-memory cache so watch mode and
// back-to-back commands do not re-read and re-parse unchanged files.
func NewLoader(log *zap.Logger) *Loader {
	return &Loader{
		log:   log,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// LoadCase loads and normalizes every source of a case in the fixed
// source order. A failure in one source never aborts the others: missing
// files and malformed files both yield an empty slice for that source,
// logged and reported in the returned statuses.
func (l *Loader) LoadCase(cs model.Case) (model.EvidenceSet, []LoadStatus) {
	set := make(model.EvidenceSet, len(model.SourceOrder()))
	statuses := make([]LoadStatus, 0, len(model.SourceOrder()))

	for _, src := range model.SourceOrder() {
		path := cs.SourcePath(src)
		records, err := l.LoadSource(path)

		switch {
		case errors.Is(err, ErrSourceUnavailable):
			l.log.Info("evidence source unavailable, treating as empty",
				zap.String("source", string(src)), zap.String("path", path))
			records = nil
		case errors.Is(err, ErrMalformedSource):
			l.log.Warn("malformed evidence source, skipping",
				zap.String("source", string(src)), zap.String("path", path), zap.Error(err))
			records = nil
		case err != nil:
			l.log.Error("evidence load failed",
				zap.String("source", string(src)), zap.String("path", path), zap.Error(err))
			records = nil
		default:
			l.log.Debug("loaded evidence source",
				zap.String("source", string(src)), zap.Int("records", len(records)))
		}

		set[src] = records
		statuses = append(statuses, LoadStatus{Source: src, Path: path, Records: len(records), Err: err})
	}

	return set, statuses
}

// LoadSource reads, validates and normalizes a single evidence file
func (l *Loader) LoadSource(path string) ([]model.NormalizedRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", ErrSourceUnavailable, path, err)
	}

	key := cacheKey(path, info.ModTime(), info.Size())
	if cached, found := l.cache.Get(key); found {
		return cached.([]model.NormalizedRecord), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, path, err)
	}

	if err := validateShape(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}

	var records []model.EvidenceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}

	normalized := NormalizeAll(records)
	l.cache.Set(key, normalized, gocache.DefaultExpiration)
	return normalized, nil
}

// Invalidate drops all cached payloads, forcing fresh reads
func (l *Loader) Invalidate() {
	l.cache.Flush()
}

func cacheKey(path string, mtime time.Time, size int64) string {
	return fmt.Sprintf("%s|%d|%d", path, mtime.UnixNano(), size)
}

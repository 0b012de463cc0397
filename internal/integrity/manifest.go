// Package integrity generates and verifies SHA-256 hash manifests for
// evidence files and analysis outputs.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nvaldes/custodia/internal/model"
)

// Algorithm is the only hash algorithm the manifest format carries
const Algorithm = "SHA-256"

// FileHash records one hashed file. RelativePath is slash-separated and
// relative to the manifest root, so manifests travel between machines.
type FileHash struct {
	FileName     string `json:"file_name"`
	RelativePath string `json:"relative_path"`
	SizeBytes    int64  `json:"size_bytes"`
	SHA256       string `json:"sha256"`
}

// Manifest is the persisted hash ledger for a set of files
type Manifest struct {
	GeneratedAt string     `json:"generated_at"`
	Algorithm   string     `json:"hash_algorithm"`
	TotalFiles  int        `json:"total_files"`
	Files       []FileHash `json:"files"`
}

// Mismatch describes one verification failure
type Mismatch struct {
	RelativePath string
	Reason       string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s", m.RelativePath, m.Reason)
}

// HashFile computes the SHA-256 of a file in streaming fashion, so
// large evidence images never load into memory whole.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// GenerateDir walks root recursively and hashes every regular file.
// Entries are sorted by relative path so the manifest is reproducible
// for identical inputs.
func GenerateDir(root string, now time.Time) (*Manifest, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(paths)

	return generate(root, paths, now)
}

// GenerateFiles hashes an explicit file list, sorted by relative path.
// Files that do not exist are skipped; hashing what is present beats
// failing the whole ledger over one absent artifact.
func GenerateFiles(root string, paths []string, now time.Time) (*Manifest, error) {
	present := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			present = append(present, path)
		}
	}
	sort.Strings(present)

	return generate(root, present, now)
}

func generate(root string, paths []string, now time.Time) (*Manifest, error) {
	manifest := &Manifest{
		GeneratedAt: now.Format(model.TimestampLayout),
		Algorithm:   Algorithm,
		Files:       []FileHash{},
	}

	for _, path := range paths {
		sum, size, err := HashFile(path)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		manifest.Files = append(manifest.Files, FileHash{
			FileName:     filepath.Base(path),
			RelativePath: filepath.ToSlash(rel),
			SizeBytes:    size,
			SHA256:       sum,
		})
	}
	manifest.TotalFiles = len(manifest.Files)
	return manifest, nil
}

// Verify recomputes every hash in the manifest against the files under
// root and returns the mismatches. An empty result means the ledger
// still matches the evidence.
func Verify(manifest *Manifest, root string) []Mismatch {
	var mismatches []Mismatch
	for _, entry := range manifest.Files {
		path := filepath.Join(root, filepath.FromSlash(entry.RelativePath))

		info, err := os.Stat(path)
		if err != nil {
			mismatches = append(mismatches, Mismatch{entry.RelativePath, "file missing"})
			continue
		}
		if info.Size() != entry.SizeBytes {
			mismatches = append(mismatches, Mismatch{
				entry.RelativePath,
				fmt.Sprintf("size changed: recorded %d bytes, found %d", entry.SizeBytes, info.Size()),
			})
			continue
		}

		sum, _, err := HashFile(path)
		if err != nil {
			mismatches = append(mismatches, Mismatch{entry.RelativePath, "unreadable: " + err.Error()})
			continue
		}
		if sum != entry.SHA256 {
			mismatches = append(mismatches, Mismatch{entry.RelativePath, "hash changed"})
		}
	}
	return mismatches
}

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvaldes/custodia/internal/integrity"
	"github.com/nvaldes/custodia/internal/report"
)

var hashAnalysis bool

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Generate SHA-256 hash manifests for a case",
	Long: `Hash walks the raw evidence of a case and records a SHA-256 manifest
in evidence/hashes/hashes.json. The evidence itself is only ever read.

With --analysis, the analysis reports are hashed instead, recording an
analysis_hashes.json manifest under reports/ so tampering with analysis
outputs after generation is detectable.`,
	RunE: runHash,
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a case against its hash manifests",
	Long: `Verify recomputes the SHA-256 of every file recorded in the case's
hash manifest and reports mismatches: changed content, changed size or
missing files. A non-empty result means the evidence no longer matches
the recorded chain of custody.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(verifyCmd)

	hashCmd.Flags().BoolVar(&hashAnalysis, "analysis", false, "hash analysis outputs instead of raw evidence")
	verifyCmd.Flags().BoolVar(&hashAnalysis, "analysis", false, "verify analysis outputs instead of raw evidence")
}

func runHash(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cs, err := currentCase(cfg)
	if err != nil {
		return err
	}

	now := time.Now()

	if hashAnalysis {
		manifest, genErr := integrity.GenerateFiles(cs.AnalysisDir(), []string{
			cs.AnomalyReportPath(),
			cs.BehaviourReportPath(),
		}, now)
		if genErr != nil {
			return fmt.Errorf("analysis hashing failed: %w", genErr)
		}
		if err := report.WriteJSON(cs.AnalysisHashesPath(), manifest); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Hashed %d analysis outputs into %s\n", manifest.TotalFiles, cs.AnalysisHashesPath())
		return nil
	}

	manifest, err := integrity.GenerateDir(cs.RawDir(), now)
	if err != nil {
		return fmt.Errorf("evidence hashing failed: %w", err)
	}
	if err := report.WriteJSON(cs.EvidenceHashesPath(), manifest); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Hashed %d evidence files into %s\n", manifest.TotalFiles, cs.EvidenceHashesPath())
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cs, err := currentCase(cfg)
	if err != nil {
		return err
	}

	manifestPath := cs.EvidenceHashesPath()
	root := cs.RawDir()
	if hashAnalysis {
		manifestPath = cs.AnalysisHashesPath()
		root = cs.AnalysisDir()
	}

	var manifest integrity.Manifest
	if err := report.ReadJSON(manifestPath, &manifest); err != nil {
		return fmt.Errorf("no manifest to verify against: %w", err)
	}

	mismatches := integrity.Verify(&manifest, root)
	if len(mismatches) == 0 {
		fmt.Fprintf(os.Stderr, "✓ All %d files match the recorded hashes\n", manifest.TotalFiles)
		return nil
	}

	for _, m := range mismatches {
		fmt.Fprintf(os.Stderr, "✗ %s\n", m)
	}
	return fmt.Errorf("integrity verification failed: %d of %d files do not match", len(mismatches), manifest.TotalFiles)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvaldes/custodia/internal/extract"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract raw Android evidence into processed JSON",
	Long: `Extract converts the raw evidence of a case into the canonical
per-source JSON files under evidence/processed/:
- sms.json from mmssms.db (read-only)
- calls.json from calllog.db (read-only)
- media.json from media file metadata
- apps.json from application data directories

A missing database yields an empty source file; extraction never fails
the case over absent evidence.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cs, err := currentCase(cfg)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := extract.NewExtractor(log).Case(cs); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed evidence written to %s\n", cs.ProcessedDir())
	return nil
}

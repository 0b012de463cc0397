package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvaldes/custodia/internal/model"
	"github.com/nvaldes/custodia/internal/report"
)

var reportNow string

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the final investigation report for a case",
	Long: `Report renders the plain-text investigation report from the case's
persisted artifacts (hash manifest, merged findings and timeline) into
reports/final_report.txt. Missing artifacts degrade to explanatory
lines, so a case is reportable at any stage.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportNow, "now", "", "pinned generation instant (YYYY-MM-DD HH:MM:SS, UTC); default wall clock")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cs, err := currentCase(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	if reportNow != "" {
		now, err = time.ParseInLocation(model.TimestampLayout, reportNow, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --now value %q: expected format %s", reportNow, model.TimestampLayout)
		}
	}

	content := report.RenderFinal(cs, now)
	if err := report.WriteText(cs.FinalReportPath(), content); err != nil {
		return fmt.Errorf("report write failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", cs.FinalReportPath())
	return nil
}

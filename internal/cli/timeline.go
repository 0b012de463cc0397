package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvaldes/custodia/internal/pipeline"
	"github.com/nvaldes/custodia/internal/timeline"
)

// timelineCmd represents the timeline command
var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Build the chronological timeline for a case",
	Long: `Timeline loads the processed evidence of a case and merges it into a
single chronological timeline, written to timeline.json. Records with
unparseable timestamps sort after all valid events, in original file
order, and are never dropped.`,
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
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

	events, statuses, err := pipeline.New(cfg, log).BuildTimeline(cs)
	if err != nil {
		return fmt.Errorf("timeline build failed: %w", err)
	}

	stats := timeline.Statistics(events)
	fmt.Fprintf(os.Stderr, "✓ Merged %d events into %s\n", stats.TotalEvents, cs.TimelinePath())
	if stats.TotalEvents > 0 {
		fmt.Fprintf(os.Stderr, "✓ Date range: %s to %s\n", stats.DateRange.Start, stats.DateRange.End)
	}
	if stats.InvalidTimestamps > 0 {
		fmt.Fprintf(os.Stderr, "  %d events carry unparseable timestamps\n", stats.InvalidTimestamps)
	}
	for _, st := range statuses {
		if st.Err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", st.Source, st.Err)
		}
	}

	return nil
}

package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvaldes/custodia/internal/ingest"
	"github.com/nvaldes/custodia/internal/pipeline"
)

var (
	watchDebounce time.Duration
	metricsAddr   string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze a case whenever its evidence changes",
	Long: `Watch observes the processed evidence directory of a case and re-runs
the full analysis pipeline on change. Bursts of file events coalesce
into one run, and sustained churn is rate-limited.

With --metrics-addr, Prometheus metrics are exposed over HTTP:
  custodia watch --case case_002 --metrics-addr :9310`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "event coalescing window (0 = config value)")
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address (empty = config value)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	if metricsAddr != "" {
		cfg.Watch.MetricsAddr = metricsAddr
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: cfg.Watch.MetricsAddr, Handler: mux}
		go func() {
			if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				log.Error("metrics server failed", zap.Error(serveErr))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		log.Info("metrics exposed", zap.String("addr", cfg.Watch.MetricsAddr))
	}

	watcher := ingest.NewWatcher(cfg.Watch, log, pipeline.New(cfg, log))

	fmt.Fprintf(os.Stderr, "Watching %s (ctrl-c to stop)\n", cs.ProcessedDir())
	if err := watcher.Watch(ctx, cs); err != nil && err != context.Canceled {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

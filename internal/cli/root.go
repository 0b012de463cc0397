package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nvaldes/custodia/internal/logging"
	"github.com/nvaldes/custodia/internal/model"
)

var (
	cfgFile  string
	verbose  bool
	caseRoot string
	caseID   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "custodia",
	Short: "Custodia - Timeline reconstruction & deterministic anomaly analysis",
	Long: `Custodia reconstructs activity timelines from extracted mobile evidence
and runs deterministic, rule-based anomaly analysis over them.

It never modifies raw evidence: extraction opens databases read-only,
analysis reads only the processed evidence files, and every artifact is
written atomically next to the case.

All detection rules are explainable threshold checks. Given the same
evidence and the same pinned reference instant, every run produces
byte-identical artifacts.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Custodia.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("custodia v0.1.2")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.custodia/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&caseRoot, "case-root", "", "directory holding case folders (default: ./cases)")
	rootCmd.PersistentFlags().StringVar(&caseID, "case", "", "case identifier, e.g. case_002")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("case.root", rootCmd.PersistentFlags().Lookup("case-root"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.custodia")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CUSTODIA_*
	viper.SetEnvPrefix("CUSTODIA")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers viper state (file, env, bound flags) over defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if caseRoot != "" {
		cfg.Case.Root = caseRoot
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg *model.Config) (*zap.Logger, error) {
	return logging.New(cfg.Output.Verbose)
}

// currentCase resolves the case addressed by the global flags
func currentCase(cfg *model.Config) (model.Case, error) {
	if caseID == "" {
		return model.Case{}, fmt.Errorf("no case selected: pass --case <id>")
	}
	cs := model.NewCase(cfg.Case.Root, caseID)
	if _, err := os.Stat(cs.Dir()); err != nil {
		return model.Case{}, fmt.Errorf("case directory not found: %s", cs.Dir())
	}
	return cs, nil
}

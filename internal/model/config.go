package model

import "time"

// Config is the complete custodia configuration
type Config struct {
	Case     CaseConfig     `yaml:"case" mapstructure:"case"`
	Rules    RulesConfig    `yaml:"rules" mapstructure:"rules"`
	Behavior BehaviorConfig `yaml:"behavior" mapstructure:"behavior"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// CaseConfig locates the case store
type CaseConfig struct {
	Root string `yaml:"root" mapstructure:"root"` // directory holding case folders
}

// RulesConfig holds anomaly rule thresholds
type RulesConfig struct {
	// GapThreshold is the minimum elapsed time between consecutive
	// same-source events that counts as a timestamp gap. A gap of
	// exactly the threshold is flagged.
	GapThreshold time.Duration `yaml:"gap_threshold" mapstructure:"gap_threshold"`

	// DuplicatePreviewLen truncates the signature preview embedded in
	// duplicate_event findings.
	DuplicatePreviewLen int `yaml:"duplicate_preview_len" mapstructure:"duplicate_preview_len"`
}

// BehaviorConfig holds behavioural rule thresholds
type BehaviorConfig struct {
	ExcessiveCallThreshold    int `yaml:"excessive_call_threshold" mapstructure:"excessive_call_threshold"`
	LateNightCallThreshold    int `yaml:"late_night_call_threshold" mapstructure:"late_night_call_threshold"`
	ExcessiveMessageThreshold int `yaml:"excessive_message_threshold" mapstructure:"excessive_message_threshold"`
	UnusualHoursAppThreshold  int `yaml:"unusual_hours_app_threshold" mapstructure:"unusual_hours_app_threshold"`
}

// WatchConfig controls live watch mode
type WatchConfig struct {
	// Debounce coalesces bursts of file events into one pipeline run
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`

	// RunsPerMinute rate-limits re-analysis triggered by file churn
	RunsPerMinute float64 `yaml:"runs_per_minute" mapstructure:"runs_per_minute"`
	Burst         int     `yaml:"burst" mapstructure:"burst"`

	// MetricsAddr exposes Prometheus metrics when non-empty,
	// e.g. ":9310"
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`
}

// OutputConfig controls logging and execution
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`

	// RuleWorkers > 1 runs the rule battery in parallel. Finding order
	// is preserved regardless, so this never affects artifacts.
	RuleWorkers int `yaml:"rule_workers" mapstructure:"rule_workers"`
}

// DefaultConfig returns the built-in defaults. Thresholds mirror the
// documented forensic rules; all are overridable via config file, env
// and flags.
func DefaultConfig() *Config {
	return &Config{
		Case: CaseConfig{
			Root: "./cases",
		},
		Rules: RulesConfig{
			GapThreshold:        24 * time.Hour,
			DuplicatePreviewLen: 50,
		},
		Behavior: BehaviorConfig{
			ExcessiveCallThreshold:    50,
			LateNightCallThreshold:    10,
			ExcessiveMessageThreshold: 100,
			UnusualHoursAppThreshold:  5,
		},
		Watch: WatchConfig{
			Debounce:      2 * time.Second,
			RunsPerMinute: 12,
			Burst:         3,
		},
		Output: OutputConfig{
			Verbose:     false,
			RuleWorkers: 1,
		},
	}
}

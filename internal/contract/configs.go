package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/diffeffort/schema"
)

// Default values for configuration.
const (
	DefaultDays             = 1
	DefaultVerbosity        = 2
	MaxVerbosity            = 5
	DefaultPrecision        = 1
	DefaultPerChangeMinutes = 20.0
	DefaultDecayFactor      = 0.9
	DefaultSetupMinutes     = 0.0
	DefaultMaxLineLength    = 1000
	DefaultExcludePaths     = "**/dist/**"
	DefaultBranches         = "develop,main,master"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a report.
// This struct remains the "final, validated" config.
type Config struct {
	RootDir      string
	Days         []time.Time
	Branches     []string
	RemoteFilter string

	Cost                schema.CostParameters
	Categories          []schema.CategoryRule
	IncludeUnclassified bool
	ExcludePaths        []string
	MaxLineLength       int

	Verbosity  int
	FullDiff   bool
	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RootDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Workers          int    `mapstructure:"workers"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Cost flags shared by report and estimate ---
	PerChangeMinutes float64 `mapstructure:"per-change-minutes"`
	DecayFactor      float64 `mapstructure:"decay-factor"`
	SetupMinutes     float64 `mapstructure:"setup-minutes"`

	// --- Fields from reportCmd.Flags() ---
	Days                int    `mapstructure:"days"`
	Date                string `mapstructure:"date"`
	Branches            string `mapstructure:"branches"`
	RemoteFilter        string `mapstructure:"remote-filter"`
	Verbosity           int    `mapstructure:"verbosity"`
	FullDiff            bool   `mapstructure:"full-diff"`
	ExcludePaths        string `mapstructure:"exclude-paths"`
	MaxLineLength       int    `mapstructure:"max-line-length"`
	IncludeUnclassified bool   `mapstructure:"include-unclassified"`

	// --- Category rules from config file ---
	Categories []schema.CategoryRule `mapstructure:"categories"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Days = slices.Clone(c.Days)
	clone.Branches = slices.Clone(c.Branches)
	clone.Categories = slices.Clone(c.Categories)
	clone.ExcludePaths = slices.Clone(c.ExcludePaths)
	return &clone
}

// ConfigParams summarizes the settings that shape a report, for run tracking.
func (c *Config) ConfigParams() map[string]any {
	days := make([]string, len(c.Days))
	for i, d := range c.Days {
		days[i] = d.Format(schema.DayFormat)
	}
	return map[string]any{
		"root_dir":             c.RootDir,
		"days":                 days,
		"branches":             c.Branches,
		"remote_filter":        c.RemoteFilter,
		"per_change_minutes":   c.Cost.PerChangeMinutes,
		"decay_factor":         c.Cost.DecayFactor,
		"setup_minutes":        c.Cost.SetupMinutes,
		"category_count":       len(c.Categories),
		"include_unclassified": c.IncludeUnclassified,
		"exclude_paths":        c.ExcludePaths,
		"max_line_length":      c.MaxLineLength,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct. Relative dates resolve against now.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCost(cfg, input); err != nil {
		return err
	}
	if err := processCategories(cfg, input); err != nil {
		return err
	}
	if err := processDays(cfg, input, now); err != nil {
		return err
	}
	if err := resolveRootDir(cfg, input); err != nil {
		return err
	}
	return nil
}

// ProcessCostOnly validates just the cost parameters, for commands that do not analyze repositories.
func ProcessCostOnly(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return processCost(cfg, input)
}

// ProcessCategoriesOnly validates output settings and the category rules.
func ProcessCategoriesOnly(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return processCategories(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath && cacheDBPath != ":memory:" {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all output and execution fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.FullDiff = input.FullDiff
	cfg.IncludeUnclassified = input.IncludeUnclassified
	cfg.RemoteFilter = strings.TrimSpace(input.RemoteFilter)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.Verbosity < 0 || input.Verbosity > MaxVerbosity {
		return fmt.Errorf("verbosity must be between 0 and %d (received %d)", MaxVerbosity, input.Verbosity)
	}
	cfg.Verbosity = input.Verbosity

	if input.MaxLineLength < 0 {
		return fmt.Errorf("max-line-length cannot be negative (received %d)", input.MaxLineLength)
	}
	cfg.MaxLineLength = input.MaxLineLength

	cfg.Branches = SplitList(input.Branches)
	if len(cfg.Branches) == 0 {
		cfg.Branches = SplitList(DefaultBranches)
	}

	cfg.ExcludePaths = SplitList(input.ExcludePaths)
	for _, pattern := range cfg.ExcludePaths {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// processCost validates the effort cost parameters.
func processCost(cfg *Config, input *ConfigRawInput) error {
	cfg.Cost = schema.CostParameters{
		PerChangeMinutes: input.PerChangeMinutes,
		DecayFactor:      input.DecayFactor,
		SetupMinutes:     input.SetupMinutes,
	}
	if err := cfg.Cost.Validate(); err != nil {
		return fmt.Errorf("invalid cost parameters: %w", err)
	}
	return nil
}

// processCategories applies the default rules unless the config file provides its own,
// and rejects rules that cannot be compiled.
func processCategories(cfg *Config, input *ConfigRawInput) error {
	rules := input.Categories
	if len(rules) == 0 {
		rules = schema.DefaultCategoryRules
	}
	for i, rule := range rules {
		if strings.TrimSpace(rule.Label) == "" {
			return fmt.Errorf("category rule %d has an empty label", i)
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("invalid pattern %q for category %q: %w", rule.Pattern, rule.Label, err)
		}
	}
	cfg.Categories = slices.Clone(rules)
	return nil
}

// processDays resolves the analyzed days from --date or --days.
func processDays(cfg *Config, input *ConfigRawInput, now time.Time) error {
	days, err := ResolveDays(input.Days, input.Date, now)
	if err != nil {
		return err
	}
	cfg.Days = days
	return nil
}

// resolveRootDir makes the search root absolute and checks that it is a readable directory.
func resolveRootDir(cfg *Config, input *ConfigRawInput) error {
	dir := input.RootDirStr
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return fmt.Errorf("directory %q is not readable: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}
	if _, err := os.ReadDir(absDir); err != nil {
		return fmt.Errorf("directory %q is not readable: %w", dir, err)
	}
	cfg.RootDir = filepath.Clean(absDir)
	return nil
}

package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/diffeffort/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input equivalent to the CLI defaults.
func validInput(dir string) *ConfigRawInput {
	return &ConfigRawInput{
		RootDirStr:       dir,
		Output:           "text",
		Precision:        1,
		Workers:          2,
		Color:            "no",
		CacheBackend:     "none",
		HistoryBackend:   "none",
		PerChangeMinutes: DefaultPerChangeMinutes,
		DecayFactor:      DefaultDecayFactor,
		SetupMinutes:     DefaultSetupMinutes,
		Days:             DefaultDays,
		Branches:         DefaultBranches,
		Verbosity:        DefaultVerbosity,
		ExcludePaths:     DefaultExcludePaths,
		MaxLineLength:    DefaultMaxLineLength,
	}
}

func TestProcessAndValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		errContains string
	}{
		{name: "valid defaults", mutate: func(*ConfigRawInput) {}},
		{name: "explicit date", mutate: func(in *ConfigRawInput) { in.Date = "2024-02-01" }},
		{name: "invalid date", mutate: func(in *ConfigRawInput) { in.Date = "2024-13-01" }, errContains: "invalid date"},
		{name: "zero days", mutate: func(in *ConfigRawInput) { in.Days = 0 }, errContains: "days must be at least 1"},
		{name: "missing directory", mutate: func(in *ConfigRawInput) { in.RootDirStr = filepath.Join(dir, "missing") }, errContains: "not readable"},
		{name: "zero per-change minutes", mutate: func(in *ConfigRawInput) { in.PerChangeMinutes = 0 }, errContains: "invalid cost parameters"},
		{name: "decay above one", mutate: func(in *ConfigRawInput) { in.DecayFactor = 1.5 }, errContains: "decay factor"},
		{name: "negative setup", mutate: func(in *ConfigRawInput) { in.SetupMinutes = -1 }, errContains: "setup minutes"},
		{
			name: "bad category regex",
			mutate: func(in *ConfigRawInput) {
				in.Categories = []schema.CategoryRule{{Pattern: "([", Label: "Broken"}}
			},
			errContains: "invalid pattern",
		},
		{
			name: "empty category label",
			mutate: func(in *ConfigRawInput) {
				in.Categories = []schema.CategoryRule{{Pattern: `\.go$`}}
			},
			errContains: "empty label",
		},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, errContains: "invalid output format"},
		{name: "invalid precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, errContains: "precision"},
		{name: "invalid workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, errContains: "workers"},
		{name: "verbosity too high", mutate: func(in *ConfigRawInput) { in.Verbosity = 6 }, errContains: "verbosity"},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, errContains: "--color"},
		{name: "bad exclude glob", mutate: func(in *ConfigRawInput) { in.ExcludePaths = "dist/[" }, errContains: "invalid exclude pattern"},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, errContains: "invalid cache backend"},
		{
			name: "mysql without connection",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "mysql"
			},
			errContains: "history-db-connect",
		},
		{
			name: "same sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.HistoryBackend = "sqlite"
				in.CacheDBConnect = filepath.Join(dir, "shared.db")
				in.HistoryDBConnect = filepath.Join(dir, "shared.db")
			},
			errContains: "different SQLite database files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(dir)
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input, fixedNow)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidate_PopulatesConfig(t *testing.T) {
	dir := t.TempDir()
	input := validInput(dir)
	input.Days = 2
	input.Branches = "trunk, main"
	input.RemoteFilter = " acme "
	input.ExcludePaths = "**/dist/**,vendor/**"
	input.Output = "JSON"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input, fixedNow))

	absDir, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(absDir), cfg.RootDir)
	require.Len(t, cfg.Days, 2)
	assert.Equal(t, "2024-03-15", cfg.Days[0].Format(schema.DayFormat))
	assert.Equal(t, []string{"trunk", "main"}, cfg.Branches)
	assert.Equal(t, "acme", cfg.RemoteFilter)
	assert.Equal(t, []string{"**/dist/**", "vendor/**"}, cfg.ExcludePaths)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.CostParameters{PerChangeMinutes: 20, DecayFactor: 0.9}, cfg.Cost)
	assert.Equal(t, schema.DefaultCategoryRules, cfg.Categories)
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
}

func TestProcessAndValidate_DefaultBranches(t *testing.T) {
	input := validInput(t.TempDir())
	input.Branches = ""
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input, fixedNow))
	assert.Equal(t, []string{"develop", "main", "master"}, cfg.Branches)
}

func TestProcessAndValidate_FileIsNotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := ProcessAndValidate(&Config{}, validInput(file), fixedNow)
	assert.ErrorContains(t, err, "is not a directory")
}

func TestProcessCostOnly(t *testing.T) {
	input := validInput("")
	input.Days = 0 // not consulted
	cfg := &Config{}
	require.NoError(t, ProcessCostOnly(cfg, input))
	assert.InDelta(t, 20.0, cfg.Cost.PerChangeMinutes, 1e-9)

	input.DecayFactor = 0
	assert.Error(t, ProcessCostOnly(&Config{}, input))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name      string
		backend   schema.DatabaseBackend
		connStr   string
		expectErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/diffeffort", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/diffeffort", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=diffeffort", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	input := validInput(t.TempDir())
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input, fixedNow))

	clone := cfg.Clone()
	clone.Branches[0] = "changed"
	clone.Categories[0].Label = "Changed"
	clone.Cost.PerChangeMinutes = 1

	assert.Equal(t, "develop", cfg.Branches[0])
	assert.Equal(t, "PHP", cfg.Categories[0].Label)
	assert.InDelta(t, 20.0, cfg.Cost.PerChangeMinutes, 1e-9)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput(t.TempDir()), fixedNow))
	params := cfg.ConfigParams()
	assert.Equal(t, []string{"2024-03-15"}, params["days"])
	assert.Equal(t, 21, params["category_count"])
	assert.InDelta(t, 0.9, params["decay_factor"], 1e-9)
}

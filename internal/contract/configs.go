package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/changescope/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultCacheTTL    = "7 days"
	DefaultLogLevel    = "info"
	DefaultSourceRef   = "HEAD"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string

	DiffMode  bool
	SourceRef string
	TargetRef string

	Filters schema.Filters

	ResultLimit int
	Workers     int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	MethodExcludes []string // nil keeps the classifier defaults

	InspectRef  string
	InspectPath string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	LogLevel string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Workers           int    `mapstructure:"workers"`
	Detail            bool   `mapstructure:"detail"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	MethodExcludes    string `mapstructure:"method-excludes"`
	LogLevel          string `mapstructure:"log-level"`

	// --- Fields from diffCmd.Flags() ---
	SourceRef string `mapstructure:"source-ref"`
	TargetRef string `mapstructure:"target-ref"`
	Commit    string `mapstructure:"commit"`
	From      string `mapstructure:"from"`
	To        string `mapstructure:"to"`
	Since     string `mapstructure:"since"`
	Until     string `mapstructure:"until"`
	Author    string `mapstructure:"author"`
	File      string `mapstructure:"file"`
	Include   string `mapstructure:"include"`
	Exclude   string `mapstructure:"exclude"`

	// --- Fields from inspectCmd.Flags() ---
	Ref  string `mapstructure:"ref"`
	Path string `mapstructure:"path"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.MethodExcludes = cloneStrings(c.MethodExcludes)
	clone.Filters.Include = cloneStrings(c.Filters.Include)
	clone.Filters.Exclude = cloneStrings(c.Filters.Exclude)
	return &clone
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	filterInput, err := processTimeFilters(input)
	if err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPathAndFilter(ctx, cfg, client, input, &filterInput); err != nil {
		return err
	}
	if err := processDiffRefs(ctx, cfg, client, input); err != nil {
		return err
	}
	filters, err := schema.NewFilters(filterInput)
	if err != nil {
		return err
	}
	cfg.Filters = filters
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
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

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	ttl := input.CacheTTL
	if strings.TrimSpace(ttl) == "" {
		ttl = DefaultCacheTTL
	}
	d, err := ParseLookbackDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl value: %w", err)
	}
	cfg.CacheTTL = d

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidCacheBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// Cache and analysis must not share a SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.InspectRef = strings.TrimSpace(input.Ref)
	cfg.InspectPath = strings.TrimSpace(input.Path)

	// Parse color flag
	color := input.Color
	if color == "" {
		color = "yes"
	}
	colors, err := ParseBoolString(color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml", input.Output)
	}

	// --- 4. Log level Validation ---
	level := strings.ToLower(strings.TrimSpace(input.LogLevel))
	if level == "" {
		level = DefaultLogLevel
	}
	if _, err := parseLogLevel(level); err != nil {
		return err
	}
	cfg.LogLevel = level

	// --- 5. Method excludes ---
	cfg.MethodExcludes = schema.SplitPatterns(input.MethodExcludes)

	return nil
}

// processTimeFilters normalizes since/until to RFC3339 and copies the rest of the filter input.
func processTimeFilters(input *ConfigRawInput) (schema.FilterInput, error) {
	fi := schema.FilterInput{
		Commit:  input.Commit,
		From:    input.From,
		To:      input.To,
		Author:  input.Author,
		File:    input.File,
		Include: input.Include,
		Exclude: input.Exclude,
	}

	since, until, err := NormalizeTimeRange(input.Since, input.Until, time.Now())
	if err != nil {
		return fi, err
	}
	fi.Since, fi.Until = since, until
	return fi, nil
}

// NormalizeTimeRange parses optional since/until values into RFC3339 strings.
// Empty inputs stay empty, and since may not be after until.
func NormalizeTimeRange(sinceRaw, untilRaw string, now time.Time) (string, string, error) {
	var since, until time.Time
	var sinceOut, untilOut string
	if s := strings.TrimSpace(sinceRaw); s != "" {
		t, err := ParseFilterTime(s, now)
		if err != nil {
			return "", "", fmt.Errorf("invalid since date format for '%s'. Expected YYYY-MM-DD, ISO8601 or 'N [units] ago': %w", s, err)
		}
		since = t
		sinceOut = t.Format(DateTimeFormat)
	}
	if s := strings.TrimSpace(untilRaw); s != "" {
		t, err := ParseFilterTime(s, now)
		if err != nil {
			return "", "", fmt.Errorf("invalid until date format for '%s'. Expected YYYY-MM-DD, ISO8601 or 'N [units] ago': %w", s, err)
		}
		until = t
		untilOut = t.Format(DateTimeFormat)
	}

	if !since.IsZero() && !until.IsZero() && since.After(until) {
		return "", "", fmt.Errorf("since (%s) cannot be after until (%s)", sinceOut, untilOut)
	}
	return sinceOut, untilOut, nil
}

// processDiffRefs handles the source and target refs of the diff command.
func processDiffRefs(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	cfg.SourceRef = strings.TrimSpace(input.SourceRef)
	cfg.TargetRef = strings.TrimSpace(input.TargetRef)

	if cfg.SourceRef == "" && cfg.TargetRef == "" {
		cfg.DiffMode = false
		return nil
	}
	cfg.DiffMode = true

	if cfg.TargetRef == "" {
		return fmt.Errorf("must specify --target-ref when running the diff command")
	}
	if cfg.SourceRef == "" {
		cfg.SourceRef = DefaultSourceRef
	}

	for _, ref := range []string{cfg.SourceRef, cfg.TargetRef} {
		if _, err := client.ResolveRef(ctx, cfg.RepoPath, ref); err != nil {
			return err
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveGitPathAndFilter resolves the Git repository path and sets the implicit file filter.
func resolveGitPathAndFilter(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput, fi *schema.FilterInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return NewRepositoryAccessError("locate repository", "", err)
	}

	cfg.RepoPath = gitRoot

	if strings.TrimSpace(fi.File) != "" { // User-provided --file flag takes precedence
		return nil
	}

	if absSearchPath != gitRoot {
		relativePath, err := filepath.Rel(gitRoot, absSearchPath)
		if err != nil {
			return err
		}
		if relativePath != "." {
			fi.File = strings.ReplaceAll(relativePath, string(os.PathSeparator), "/")
		}
	}
	return nil
}

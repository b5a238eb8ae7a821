package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigFile     = "ranfuzz.toml"
	DefaultComposeDir     = "compose/"
	DefaultLogsDir        = "tests"
	DefaultBatchSize      = 4
	DefaultPollInterval   = time.Second
	DefaultCooldown       = 2 * time.Second
	DefaultMarker         = "Network attach successful."
	DefaultProjectPrefix  = "srsRAN_"
	DefaultComposeFileFmt = "docker-compose_%d.yml"
)

// Log sources understood by the runtime package.
const (
	LogSourceCompose = "compose"
	LogSourceDocker  = "docker"
)

// Duration is a time.Duration that reads and writes TOML strings like "1s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the run configuration for ranfuzz-ctl. It is passed by value
// into every operation; nothing reads it from package state.
type Config struct {
	// ComposeDir holds the generated docker-compose_<n>.yml files.
	ComposeDir string `toml:"compose_dir"`

	// LogsDir receives archived logs (<n>.txt) and audit events.
	LogsDir string `toml:"logs_dir"`

	// BatchSize bounds how many container groups run at once.
	BatchSize int `toml:"batch_size"`

	PollInterval Duration `toml:"poll_interval"`
	Cooldown     Duration `toml:"cooldown"`

	// WaitTimeout bounds the completion wait per group. Zero waits forever.
	WaitTimeout Duration `toml:"wait_timeout"`

	// Marker is the log line that signals a finished iteration.
	Marker string `toml:"marker"`

	// ProjectPrefix is prepended to the index to name compose projects.
	ProjectPrefix string `toml:"project_prefix"`

	// ComposeCommand overrides compose CLI detection, e.g. "docker compose".
	ComposeCommand string `toml:"compose_command"`

	// LogSource selects how logs are fetched: "compose" or "docker".
	LogSource string `toml:"log_source"`

	ArchiveLogs bool   `toml:"archive_logs"`
	MetricsFile string `toml:"metrics_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ComposeDir:    DefaultComposeDir,
		LogsDir:       DefaultLogsDir,
		BatchSize:     DefaultBatchSize,
		PollInterval:  Duration{DefaultPollInterval},
		Cooldown:      Duration{DefaultCooldown},
		Marker:        DefaultMarker,
		ProjectPrefix: DefaultProjectPrefix,
		LogSource:     LogSourceCompose,
	}
}

// Validate checks that the Config is usable.
func (c *Config) Validate() error {
	if c.ComposeDir == "" {
		return fmt.Errorf("compose_dir is required")
	}
	if c.LogsDir == "" {
		return fmt.Errorf("logs_dir is required")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.PollInterval.Duration <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval.Duration)
	}
	if c.Cooldown.Duration < 0 {
		return fmt.Errorf("cooldown must not be negative, got %s", c.Cooldown.Duration)
	}
	if c.WaitTimeout.Duration < 0 {
		return fmt.Errorf("wait_timeout must not be negative, got %s", c.WaitTimeout.Duration)
	}
	if strings.TrimSpace(c.Marker) == "" {
		return fmt.Errorf("marker is required")
	}
	if c.ProjectPrefix == "" {
		return fmt.Errorf("project_prefix is required")
	}
	switch c.LogSource {
	case LogSourceCompose, LogSourceDocker:
	default:
		return fmt.Errorf("invalid log_source: %s (must be %s or %s)", c.LogSource, LogSourceCompose, LogSourceDocker)
	}
	return nil
}

// Load reads a TOML configuration file on top of the defaults.
// An empty path loads DefaultConfigFile when it exists and the defaults
// otherwise. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(cfg Config) (string, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when neither --config nor CONFIG_FILE names a file.
const DefaultFile = "config.yaml"

// Config holds the complete application configuration
type Config struct {
	// HTTP server settings
	HTTP struct {
		Address   string  `yaml:"address"`
		Port      string  `yaml:"port"`
		RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 disables
		RateBurst int     `yaml:"rate_burst"`
	} `yaml:"http"`

	// Playlist sources and the channel correction table
	IPTV struct {
		Sources     []string `yaml:"sources"`
		Corrections string   `yaml:"corrections"`
	} `yaml:"iptv"`

	// Guide source and the guide correction table
	EPG struct {
		Source      string `yaml:"source"`
		Corrections string `yaml:"corrections"`
	} `yaml:"epg"`

	// Outbound fetch settings
	Upstream struct {
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"upstream"`

	// ReloadTables re-reads both correction tables on every request.
	ReloadTables bool `yaml:"reload_tables"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level"`
}

var logLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	// HTTP defaults
	cfg.HTTP.Address = "0.0.0.0"
	cfg.HTTP.Port = "3003"
	cfg.HTTP.RateLimit = 0
	cfg.HTTP.RateBurst = 10

	// Sources have no default, IPTV_URL or iptv.sources is required
	cfg.IPTV.Corrections = "data/iptv_corrected.json"

	cfg.EPG.Source = "/iptv/epg/guide.xml"
	cfg.EPG.Corrections = "data/epg_corrected.json"

	cfg.Upstream.Timeout = 30 * time.Second
	cfg.Upstream.UserAgent = "iptv-relay"

	cfg.ReloadTables = true
	cfg.LogLevel = "INFO"

	return cfg
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var problems []string

	// Validate HTTP settings
	if c.HTTP.Address == "" {
		problems = append(problems, "HTTP address is required")
	}
	if port, err := strconv.Atoi(c.HTTP.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("HTTP port must be a number between 1 and 65535, got %q", c.HTTP.Port))
	}
	if c.HTTP.RateLimit < 0 {
		problems = append(problems, "HTTP rate limit must not be negative")
	}
	if c.HTTP.RateBurst < 0 {
		problems = append(problems, "HTTP rate burst must not be negative")
	}

	// Validate playlist sources
	if len(c.IPTV.Sources) == 0 {
		problems = append(problems, "At least one playlist source is required")
	}
	for i, source := range c.IPTV.Sources {
		if err := validateSource(source); err != nil {
			problems = append(problems, fmt.Sprintf("Playlist source %d: %v", i, err))
		}
	}
	if c.IPTV.Corrections == "" {
		problems = append(problems, "Channel correction table path is required")
	}

	// Validate guide settings
	if err := validateSource(c.EPG.Source); err != nil {
		problems = append(problems, fmt.Sprintf("Guide source: %v", err))
	}
	if c.EPG.Corrections == "" {
		problems = append(problems, "Guide correction table path is required")
	}

	// Validate upstream settings
	if c.Upstream.Timeout <= 0 {
		problems = append(problems, "Upstream timeout must be positive")
	}

	if !logLevels[strings.ToUpper(c.LogLevel)] {
		problems = append(problems, fmt.Sprintf("Log level must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}

	return nil
}

// validateSource accepts http(s) and file URLs and plain filesystem paths.
func validateSource(source string) error {
	if source == "" {
		return fmt.Errorf("source is empty")
	}
	u, err := url.Parse(source)
	if err != nil {
		return fmt.Errorf("invalid source %q: %w", source, err)
	}
	switch u.Scheme {
	case "":
		return nil
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("source %q has no host", source)
		}
		return nil
	case "file":
		return nil
	default:
		return fmt.Errorf("source %q has unsupported scheme %q", source, u.Scheme)
	}
}

// SplitSources parses a comma separated source list. Each item is trimmed
// and cut at its first whitespace so that trailing comments or labels are
// ignored; empty items are skipped.
func SplitSources(list string) []string {
	var sources []string
	for _, item := range strings.Split(list, ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}
		sources = append(sources, fields[0])
	}
	return sources
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load reads path (or CONFIG_FILE, or DefaultFile) when it exists and
// applies environment variable overrides. A missing file that was named
// explicitly is an error; a missing default file is not. Callers apply
// their flag overrides and then call Validate.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	cfg, err := LoadFromFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg = Default()
	default:
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Apply environment variable overrides
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return cfg, nil
}

// Print outputs the configuration to w
func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, "httpAddress: %v\n", c.HTTP.Address)
	fmt.Fprintf(w, "httpPort: %v\n", c.HTTP.Port)
	fmt.Fprintf(w, "httpRateLimit: %v/s (burst %d)\n", c.HTTP.RateLimit, c.HTTP.RateBurst)
	fmt.Fprintf(w, "playlistSources: %d\n", len(c.IPTV.Sources))
	for _, source := range c.IPTV.Sources {
		fmt.Fprintf(w, "  - %s\n", source)
	}
	fmt.Fprintf(w, "channelCorrections: %v\n", c.IPTV.Corrections)
	fmt.Fprintf(w, "guideSource: %v\n", c.EPG.Source)
	fmt.Fprintf(w, "guideCorrections: %v\n", c.EPG.Corrections)
	fmt.Fprintf(w, "upstreamTimeout: %v\n", c.Upstream.Timeout)
	fmt.Fprintf(w, "upstreamUserAgent: %v\n", c.Upstream.UserAgent)
	fmt.Fprintf(w, "reloadTables: %v\n", c.ReloadTables)
	fmt.Fprintf(w, "logLevel: %v\n", c.LogLevel)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envParser is a helper for parsing environment variables with validation.
// Problems are collected so that every bad variable is reported at once.
type envParser struct {
	errors []string
}

func (p *envParser) parseString(envName string, target *string) {
	if val := os.Getenv(envName); val != "" {
		*target = val
	}
}

// parseDuration parses a duration environment variable, ensuring it's positive
func (p *envParser) parseDuration(envName string, target *time.Duration) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: invalid duration format (use '30s', '1m', etc.)", envName))
		return
	}

	if duration <= 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must be positive", envName))
		return
	}

	*target = duration
}

// parseInt parses an integer environment variable, ensuring it's not negative
func (p *envParser) parseInt(envName string, target *int) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: must be a valid integer", envName))
		return
	}

	if intVal < 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must not be negative", envName))
		return
	}

	*target = intVal
}

// parseRate parses a requests-per-second environment variable
func (p *envParser) parseRate(envName string, target *float64) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	rate, err := strconv.ParseFloat(val, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: must be a number", envName))
		return
	}

	if rate < 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must not be negative", envName))
		return
	}

	*target = rate
}

func (p *envParser) parseBool(envName string, target *bool) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: must be true or false", envName))
		return
	}

	*target = b
}

// parseEnum parses an enum environment variable from a set of valid values
func (p *envParser) parseEnum(envName string, target *string, validValues map[string]bool) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	normalized := strings.ToUpper(val)
	if normalized == "WARNING" {
		normalized = "WARN"
	}
	if !validValues[normalized] {
		p.errors = append(p.errors, fmt.Sprintf("%s must be one of: DEBUG, INFO, WARN, ERROR", envName))
		return
	}

	*target = normalized
}

// parseSources parses a comma separated source list
func (p *envParser) parseSources(envName string, target *[]string) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	sources := SplitSources(val)
	if len(sources) == 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s names no source", envName))
		return
	}

	*target = sources
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	parser := &envParser{}

	parser.parseString("HTTP_ADDRESS", &cfg.HTTP.Address)
	parser.parseString("HTTP_PORT", &cfg.HTTP.Port)
	parser.parseRate("HTTP_RATE_LIMIT", &cfg.HTTP.RateLimit)
	parser.parseInt("HTTP_RATE_BURST", &cfg.HTTP.RateBurst)

	parser.parseSources("IPTV_URL", &cfg.IPTV.Sources)
	parser.parseString("IPTV_CORRECTIONS", &cfg.IPTV.Corrections)
	parser.parseString("EPG_SOURCE", &cfg.EPG.Source)
	parser.parseString("EPG_CORRECTIONS", &cfg.EPG.Corrections)

	parser.parseDuration("UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)
	parser.parseString("UPSTREAM_USER_AGENT", &cfg.Upstream.UserAgent)

	parser.parseBool("RELOAD_TABLES", &cfg.ReloadTables)
	parser.parseEnum("LOG_LEVEL", &cfg.LogLevel, logLevels)

	if len(parser.errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(parser.errors, "\n  - "))
	}

	return nil
}

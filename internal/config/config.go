// Package config loads settings for the indextank binaries: an optional YAML
// file first, then INDEXTANK_* environment variables on top.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/indextank/indextank-go/devmode"
)

// EnvPrefix is the environment variable prefix, e.g. INDEXTANK_API_URL.
const EnvPrefix = "INDEXTANK"

// FileEnvVar names the variable holding the YAML file path when no path is
// passed explicitly.
const FileEnvVar = "INDEXTANK_CONFIG_FILE"

// Config holds everything the CLI and the MCP server need.
type Config struct {
	// APIURL may carry the private pass as user-info.
	APIURL      string        `envconfig:"API_URL"      yaml:"api_url"`
	PrivatePass string        `envconfig:"PRIVATE_PASS" yaml:"private_pass"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" yaml:"http_timeout"`

	LogLevel string `envconfig:"LOG_LEVEL" yaml:"log_level"`
	Debug    bool   `envconfig:"DEBUG"     yaml:"debug"`

	// MCP server
	MCPServerName    string        `envconfig:"MCP_SERVER_NAME"    yaml:"mcp_server_name"`
	MCPServerVersion string        `envconfig:"MCP_SERVER_VERSION" yaml:"mcp_server_version"`
	MCPHTTPAddr      string        `envconfig:"MCP_HTTP_ADDR"      yaml:"mcp_http_addr"` // empty: stdio
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT"   yaml:"shutdown_timeout"`
}

// Load reads path (or $INDEXTANK_CONFIG_FILE when path is empty), applies
// environment overrides, fills defaults and validates.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(FileEnvVar)
	}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		data = expandEnvVars(data)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// No default tags: envconfig would overwrite file values with them.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Debug().
		Str("api_url", cfg.RedactedAPIURL()).
		Bool("private_pass_present", cfg.PrivatePass != "").
		Dur("http_timeout", cfg.HTTPTimeout).
		Str("log_level", cfg.LogLevel).
		Str("mcp_http_addr", cfg.MCPHTTPAddr).
		Msg("Configuration loaded")

	return &cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.APIURL == "" {
		c.APIURL = devmode.APIURL
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MCPServerName == "" {
		c.MCPServerName = "indextank-mcp-server"
	}
	if c.MCPServerVersion == "" {
		c.MCPServerVersion = "0.1.0"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", c.RedactedAPIURL())
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the zerolog level for LogLevel, debug when Debug is set.
func (c *Config) Level() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// RedactedAPIURL returns APIURL with any password replaced.
func (c *Config) RedactedAPIURL() string {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return "<unparsable>"
	}
	return u.Redacted()
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}

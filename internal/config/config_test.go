package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_URL", "PRIVATE_PASS", "HTTP_TIMEOUT", "LOG_LEVEL", "DEBUG",
		"MCP_SERVER_NAME", "MCP_SERVER_VERSION", "MCP_HTTP_ADDR", "SHUTDOWN_TIMEOUT", "CONFIG_FILE",
	} {
		t.Setenv(EnvPrefix+"_"+k, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+k))
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "indextank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11545", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "indextank-mcp-server", cfg.MCPServerName)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.MCPHTTPAddr)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PASS_FROM_ENV", "filepass")
	path := writeFile(t, `
api_url: http://search.example.com
private_pass: ${PASS_FROM_ENV}
http_timeout: 5s
log_level: warn
mcp_http_addr: ${MISSING:-localhost:8090}
`)
	t.Setenv("INDEXTANK_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://search.example.com", cfg.APIURL)
	assert.Equal(t, "filepass", cfg.PrivatePass)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel, "env wins over file")
	assert.Equal(t, "localhost:8090", cfg.MCPHTTPAddr)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestLoad_FileFromEnvVar(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_url: http://other.example.com\n")
	t.Setenv(FileEnvVar, path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://other.example.com", cfg.APIURL)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "api_url: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "api_url: not-a-url\n"))
	assert.ErrorContains(t, err, "api_url")

	_, err = Load(writeFile(t, "log_level: loud\n"))
	assert.ErrorContains(t, err, "log_level")

	t.Setenv("INDEXTANK_HTTP_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestDebugForcesDebugLevel(t *testing.T) {
	cfg := &Config{LogLevel: "error", Debug: true}
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestRedactedAPIURL(t *testing.T) {
	cfg := &Config{APIURL: "http://:secret@example.com"}
	assert.NotContains(t, cfg.RedactedAPIURL(), "secret")
}

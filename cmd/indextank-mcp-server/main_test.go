package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/indextank/indextank-go/internal/config"
)

func restoreLogging(t *testing.T) {
	t.Helper()
	origLogger, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})
}

func testConfig(httpAddr string) *config.Config {
	cfg := &config.Config{MCPHTTPAddr: httpAddr}
	cfg.ApplyDefaults()
	return cfg
}

func TestConfigureLogging_StdioUsesStderr(t *testing.T) {
	restoreLogging(t)

	var stderr bytes.Buffer
	configureLogging(testConfig(""), &stderr)
	log.Info().Msg("stdio mode")

	if !strings.Contains(stderr.String(), "stdio mode") {
		t.Fatalf("expected console output on stderr, got %q", stderr.String())
	}
}

func TestConfigureLogging_HTTPUsesServiceLogger(t *testing.T) {
	restoreLogging(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	var stderr bytes.Buffer
	configureLogging(testConfig("localhost:0"), &stderr)
	log.Info().Str("index", "books").Msg("http mode")
	os.Stdout = orig
	_ = w.Close()
	out, _ := io.ReadAll(r)
	_ = r.Close()

	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output: %q", stderr.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(out), &payload); err != nil {
		t.Fatalf("invalid json log: %v\n%s", err, out)
	}
	if payload["service"] != "indextank-mcp-server" || payload["message"] != "http mode" {
		t.Fatalf("unexpected log line: %v", payload)
	}
}

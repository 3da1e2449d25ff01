package main

import (
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/indextank/indextank-go/internal/config"
	"github.com/indextank/indextank-go/internal/logger"
	"github.com/indextank/indextank-go/mcp"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (default $"+config.FileEnvVar+")")
	httpAddr := flag.String("http-addr", "", "Serve Streamable HTTP on this address instead of stdio")
	flag.Parse()

	logger.Console(os.Stderr, zerolog.InfoLevel)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.MCPHTTPAddr = *httpAddr
	}
	configureLogging(cfg, os.Stderr)

	if err := mcp.Run(cfg); err != nil {
		log.Error().Stack().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}

// configureLogging keeps stdout clean for the stdio transport; over HTTP the
// server logs JSON to stdout like any other service.
func configureLogging(cfg *config.Config, stderr io.Writer) {
	if cfg.MCPHTTPAddr == "" {
		logger.Console(stderr, cfg.Level())
		return
	}
	log.Logger = logger.New(cfg.MCPServerName)
	zerolog.SetGlobalLevel(cfg.Level())
}

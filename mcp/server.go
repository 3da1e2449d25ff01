// Package mcp serves the index tools over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/indextank/indextank-go/client"
	"github.com/indextank/indextank-go/internal/config"
	"github.com/indextank/indextank-go/mcp/internal/handlers"
)

const (
	endpointPath      = "/mcp"
	heartbeatInterval = 30 * time.Second
	httpReadTimeout   = 5 * time.Second
	httpIdleTimeout   = 120 * time.Second
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewClient builds the service client from cfg. Without any credential the
// local development pass is used.
func NewClient(cfg *config.Config) (*client.Client, error) {
	opts := []client.Option{
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithDebugLogging(cfg.Debug),
	}
	if cfg.PrivatePass != "" {
		return client.New(cfg.APIURL, append(opts, client.WithPrivatePass(cfg.PrivatePass))...)
	}
	if u, err := url.Parse(cfg.APIURL); err == nil && u.User != nil {
		return client.New(cfg.APIURL, opts...)
	}
	log.Info().Str("api_url", cfg.RedactedAPIURL()).Msg("no private pass configured, using dev mode credential")
	return client.NewWithDevMode(cfg.APIURL, opts...)
}

// NewServer returns an MCP server with every index tool registered.
func NewServer(cfg *config.Config, c *client.Client) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		cfg.MCPServerName,
		cfg.MCPServerVersion,
		server.WithToolCapabilities(true),
	)

	for name, h := range map[string]toolRegisterer{
		"index":    handlers.NewIndexHandler(c),
		"search":   handlers.NewSearchHandler(c),
		"document": handlers.NewDocumentHandler(c),
		"function": handlers.NewFunctionHandler(c),
	} {
		if err := h.RegisterTools(s); err != nil {
			log.Error().Err(err).Str("handler", name).Msg("failed to register tools")
			return nil, err
		}
	}
	return s, nil
}

// Run serves over stdio when cfg.MCPHTTPAddr is empty, otherwise over
// Streamable HTTP until SIGINT or SIGTERM.
func Run(cfg *config.Config) error {
	c, err := NewClient(cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("failed to create client")
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("error closing client")
		}
	}()

	s, err := NewServer(cfg, c)
	if err != nil {
		return err
	}

	if cfg.MCPHTTPAddr == "" {
		log.Info().Str("api_url", cfg.RedactedAPIURL()).Msg("starting MCP server (stdio transport)")
		return server.ServeStdio(s)
	}
	return serveHTTP(cfg, s)
}

func serveHTTP(cfg *config.Config, s *server.MCPServer) error {
	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpointPath),
		server.WithHeartbeatInterval(heartbeatInterval),
	)
	srv := &http.Server{
		Addr:        cfg.MCPHTTPAddr,
		Handler:     streamSrv,
		ReadTimeout: httpReadTimeout,
		// no WriteTimeout: responses may stream
		IdleTimeout: httpIdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	shutdownComplete := make(chan struct{})
	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error during MCP server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.MCPHTTPAddr).Str("path", endpointPath).Msg("starting MCP server (streamable HTTP)")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("HTTP server error")
		return err
	}

	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

package main

import (
	"context"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/indextank/indextank-go/client"
	"github.com/indextank/indextank-go/internal/config"
	"github.com/indextank/indextank-go/internal/logger"
)

const defaultCallTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// app carries the persistent flags and the loaded config for one command run.
type app struct {
	configFile  string
	apiURL      string
	privatePass string
	debug       bool
	timeout     time.Duration

	cfg *config.Config
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "indextank",
		Short:             "Manage indexes, documents and scoring functions of an index service account",
		SilenceUsage:      true,
		PersistentPreRunE: a.preRun,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file (default $"+config.FileEnvVar+")")
	pf.StringVar(&a.apiURL, "api-url", "", "Service URL, optionally with the private pass as user-info (overrides config)")
	pf.StringVar(&a.privatePass, "private-pass", "", "Private pass (overrides config and URL user-info)")
	pf.BoolVarP(&a.debug, "debug", "d", false, "Enable verbose debug output")
	pf.DurationVar(&a.timeout, "timeout", defaultCallTimeout, "Deadline for each command")

	rootCmd.AddCommand(
		a.newListIndexesCmd(),
		a.newCreateIndexCmd(),
		a.newDeleteIndexCmd(),
		a.newIndexInfoCmd(),
		a.newSearchCmd(),
		a.newAddDocumentCmd(),
		a.newAddDocumentsCmd(),
		a.newDeleteDocumentCmd(),
		a.newUpdateVariablesCmd(),
		a.newUpdateCategoriesCmd(),
		a.newPromoteCmd(),
		a.newAddFunctionCmd(),
		a.newDeleteFunctionCmd(),
		a.newListFunctionsCmd(),
	)
	return rootCmd
}

func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.privatePass != "" {
		cfg.PrivatePass = a.privatePass
	}
	if a.debug {
		cfg.Debug = true
	}
	logger.Console(cmd.ErrOrStderr(), cfg.Level())
	log.Debug().Str("api_url", cfg.RedactedAPIURL()).Msg("debug logging enabled")
	a.cfg = cfg
	return nil
}

// newClient builds a client from the config. Without any credential the
// local development pass is used.
func (a *app) newClient() (*client.Client, error) {
	opts := []client.Option{
		client.WithHTTPTimeout(a.cfg.HTTPTimeout),
		client.WithDebugLogging(a.cfg.Debug),
	}
	if a.cfg.PrivatePass != "" {
		return client.New(a.cfg.APIURL, append(opts, client.WithPrivatePass(a.cfg.PrivatePass))...)
	}
	if u, err := url.Parse(a.cfg.APIURL); err == nil && u.User != nil {
		return client.New(a.cfg.APIURL, opts...)
	}
	log.Debug().Msg("no private pass configured, using dev mode credential")
	return client.NewWithDevMode(a.cfg.APIURL, opts...)
}

// run executes fn with a fresh client under the command deadline and logs
// the outcome.
func (a *app) run(cmd *cobra.Command, op string, fn func(ctx context.Context, c *client.Client) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	c, err := a.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }() // drain queued batches before ctx is cancelled

	start := time.Now()
	err = fn(ctx, c)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("command failed")
		return err
	}
	log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("command completed")
	return nil
}

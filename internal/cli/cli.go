// Package cli implements the jengatower command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jengatower/pkg/buildinfo"
	"github.com/matzehuels/jengatower/pkg/cache"
	"github.com/matzehuels/jengatower/pkg/config"
	"github.com/matzehuels/jengatower/pkg/integrations"
	"github.com/matzehuels/jengatower/pkg/integrations/github"
	"github.com/matzehuels/jengatower/pkg/integrations/osv"
	"github.com/matzehuels/jengatower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jengatower"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() *config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "jengatower stacks your npm dependencies into a vulnerability tower",
		Long: `jengatower reads the direct dependencies of a package.json, looks up their
known vulnerabilities in OSV and lays them out as a Jenga tower: every
vulnerable package gets its own layer and sticks out of the tower by a
distance that grows with its worst severity.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/jengatower/config.toml)")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	return c.newRunnerWithCache(ctx, c.cfg.Cache, noCache)
}

func (c *CLI) newRunnerWithCache(ctx context.Context, cc config.CacheConfig, noCache bool) (*pipeline.Runner, error) {
	store, err := cc.OpenCache(ctx, noCache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cc.Backend, "err", err)
		store = cache.NewNullCache()
	}
	keyer := cc.Keyer()

	osvHTTP := integrations.NewHTTPClient()
	osvHTTP.Timeout = c.cfg.OSV.Timeout.Duration
	ghHTTP := integrations.NewHTTPClient()
	ghHTTP.Timeout = c.cfg.GitHub.Timeout.Duration

	return pipeline.NewRunner(store, keyer, c.Logger,
		pipeline.WithOSVClient(osv.NewClient(osv.Config{
			Endpoint:   c.cfg.OSV.Endpoint,
			HTTPClient: osvHTTP,
			Cache:      store,
			Keyer:      keyer,
			TTL:        cc.TTL.Duration,
			Logger:     c.Logger,
		})),
		pipeline.WithGitHubClient(github.NewRawClient(github.RawConfig{
			BaseURL:    c.cfg.GitHub.RawBaseURL,
			Branches:   c.cfg.GitHub.Branches,
			HTTPClient: ghHTTP,
			Logger:     c.Logger,
		})),
	), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: cache.dir from the config, or
// the XDG default (~/.cache/jengatower/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

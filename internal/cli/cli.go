// Package cli implements the licensetower command-line interface.
//
// The commands follow the life of one environment:
//   - build: read a pipdeptree JSON document, look up licenses, write graph.json
//   - licenses: count the licenses of an annotated graph
//   - analyze: find blacklisted packages and the packages that pull them in
//   - render: draw the graph as SVG or DOT, highlighting the analysis
//   - serve: expose uploaded environments over HTTP
//   - cache: manage the license lookup cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. In verbose
// mode the observability hooks of the pipeline, cache and registry client are
// bound to the logger. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
	"github.com/matzehuels/licensetower/pkg/cache"
	"github.com/matzehuels/licensetower/pkg/config"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "licensetower"

	// defaultBlacklist is what analyze and render flag when no --blacklist is given.
	defaultBlacklist = "BSD License"
)

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
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Licensetower checks the licenses of a Python environment",
		Long:          `Licensetower reads a pipdeptree dependency listing, looks up every package's licenses on PyPI, and shows which packages carry a blacklisted license and which packages depend on them.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				bindHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				observability.Reset()
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvPath+" or ~/.config/licensetower/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.licensesCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner backed by the configured registry and
// cache. The returned cache must be closed by the caller.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, cache.Cache) {
	backend := cache.Cache(cache.NewNullCache())
	if !noCache {
		var err error
		backend, err = cfg.Cache.OpenCache(ctx)
		if err != nil {
			c.Logger.Warn("license cache disabled", "backend", cfg.Cache.Backend, "err", err)
			backend = cache.NewNullCache()
		}
	}
	return pipeline.NewRunner(cfg.NewClient(backend), c.Logger), backend
}

// pipelineOptions fills pipeline options from the config, leaving values
// already set by flags alone.
func pipelineOptions(cfg *config.Config, opts pipeline.Options) pipeline.Options {
	if opts.Retries == 0 {
		opts.Retries = cfg.Registry.Retries
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = cfg.Registry.Concurrency
	}
	opts.Aliases = cfg.Aliases
	return opts
}

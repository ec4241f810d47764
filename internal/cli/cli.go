package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/pkg/buildinfo"
	"github.com/taxmagick/taxmagick/pkg/cache"
	"github.com/taxmagick/taxmagick/pkg/config"
	"github.com/taxmagick/taxmagick/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

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

	cfg   config.Config
	flags globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
	cacheDir   string
	noCache    bool
	refresh    bool
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

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Taxmagick turns NCBI taxonomy dumps into trees, lineage tables and diagrams",
		Long: `Taxmagick reads an NCBI-style taxonomy dump (nodes.dmp and names.dmp in
taxdump.tar.gz), builds the tree of taxa, infers the order of ranks from the
tree itself, and prints it as an indented tree, a flattened lineage table or
a Graphviz diagram. The same tree can be served over HTTP or browsed
interactively.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/taxmagick/config.toml)")
	pf.StringVar(&c.flags.cacheDir, "cache-dir", "", "archive cache directory (default $XDG_CACHE_HOME/taxmagick)")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "do not reuse downloaded archives")
	pf.BoolVar(&c.flags.refresh, "refresh", false, "download the archive again even if cached")

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.lineagesCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.ranksCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies global flags and loads the config before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.flags.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "load config")
	}
	if c.flags.cacheDir != "" {
		cfg.Cache.Dir = c.flags.cacheDir
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache returns the archive metadata cache selected by flags and config:
// none with --no-cache, Redis when cache.redis_addr is set, otherwise files
// under the cache directory.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if c.flags.noCache {
		return cache.NewNullCache(), keyer, nil
	}

	if addr := c.cfg.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", addr)
		}
		if prefix := c.cfg.Cache.RedisPrefix; prefix != "" {
			keyer = cache.NewScopedKeyer(keyer, prefix)
		}
		return rc, keyer, nil
	}

	dir, err := c.cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache(), keyer, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, keyer, nil
}

// =============================================================================
// Errors
// =============================================================================

// coded gives err a classified error code unless it already carries one.
func coded(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.Classify(err).Code, err, format, args...)
}

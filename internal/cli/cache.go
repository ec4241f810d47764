package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage downloaded taxonomy archives",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete downloaded archives and their cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached files", count)
			printDetail("Directory: %s", dir)
			if c.cfg.Cache.RedisAddr != "" && !c.flags.noCache {
				c.clearRedis(cmd.Context())
			}
			return nil
		},
	}
}

// clearRedis drops the Redis entry for the configured taxdump URL. Entries
// for other URLs are left to expire.
func (c *CLI) clearRedis(ctx context.Context) {
	rc, keyer, err := c.newCache(ctx)
	if err != nil {
		printWarning("Could not reach Redis: %v", err)
		return
	}
	defer rc.Close()
	if err := rc.Delete(ctx, keyer.ArchiveKey(c.cfg.URL)); err != nil {
		printWarning("Could not delete the Redis entry for %s: %v", c.cfg.URL, err)
		return
	}
	printDetail("Redis entry for %s removed; entries for other URLs expire on their own", c.cfg.URL)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached datasets and routes",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached datasets and routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := c.Config.OpenCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			if _, ok := ch.(*cache.NullCache); ok {
				printInfo("Cache backend %q keeps nothing to clear", c.Config.Cache.Backend)
				return nil
			}
			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", c.Config.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %s cache", c.Config.Cache.Backend)
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := cacheLocation(c.Config)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
}

// cacheLocation describes the configured cache: a directory for the file
// backend, redis://addr for Redis.
func cacheLocation(cfg config.Config) (string, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return "redis://" + cfg.Cache.RedisAddr, nil
	case config.CacheFile, "":
		if cfg.Cache.Dir != "" {
			return cfg.Cache.Dir, nil
		}
		dir, err := cache.DefaultDir()
		if err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
		return dir, nil
	default:
		return cfg.Cache.Backend, nil
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fossrepo/pkg/cache"
	"github.com/matzehuels/fossrepo/pkg/config"
	"github.com/matzehuels/fossrepo/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository document cache",
		Long: `Manage the cache of remote maven-metadata.xml files and descriptors.
File repositories are never cached.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.fileCacheConfig()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			out := cmd.OutOrStdout()
			if exists, _ := dirExists(c, dir); !exists {
				printInfo(out, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCacheFs(c.Fs, dir)
			if err != nil {
				return err
			}
			if err := fc.(*cache.FileCache).Clear(); err != nil {
				return err
			}

			printSuccess(out, "Cleared cache")
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.fileCacheConfig()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// fileCacheConfig returns the config, failing unless the file backend is
// in use.
func (c *CLI) fileCacheConfig() (*config.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Backend != config.CacheFile {
		return nil, errors.New(errors.ErrCodeUnsupported, "cache backend %q has no local directory", cfg.Cache.Backend)
	}
	return cfg, nil
}

func dirExists(c *CLI, dir string) (bool, error) {
	fi, err := c.Fs.Stat(dir)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/svelte-tools/svelte-check-go/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the transform cache",
	Long: `The cache directory holds the generated-TypeScript mirror, the
incremental type-check artifact, and the hash index keyed by
(content-hash, transformer-version). It is safe to delete at any time;
the next run rebuilds it.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache directory wholesale",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := resolveCacheDir(cfg.Workspace, cfg.CacheDir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", dir)
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache entry count and hit/miss counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := resolveCacheDir(cfg.Workspace, cfg.CacheDir)
		store, err := cache.Open(filepath.Join(dir, "transforms"), 64<<20, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("open transform cache: %w", err)
		}
		defer store.Close()

		count, size, hits, misses, evictions := store.Stats()
		fmt.Fprintf(cmd.OutOrStdout(),
			"entries: %d\nmemory bytes: %d\nhits: %d\nmisses: %d\nevictions: %d\n",
			count, size, hits, misses, evictions)
		return nil
	},
}

func resolveCacheDir(workspace, cacheDir string) string {
	if filepath.IsAbs(cacheDir) {
		return cacheDir
	}
	return filepath.Join(workspace, cacheDir)
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}

package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/elyase/dexmetadata/app/config"
)

var InfoCmd = &cobra.Command{
	Use:   "cache-info",
	Short: "Show pool metadata cache information",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInfo(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var ClearCmd = &cobra.Command{
	Use:   "cache-clear",
	Short: "Remove all entries from the cache",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runClear(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "cache-delete",
	Short: "Delete the durable cache store file",
	Run: func(cmd *cobra.Command, args []string) {
		if DefaultManager().DeleteDefault() {
			fmt.Println("Default cache deleted.")
		} else {
			fmt.Println("Failed to delete default cache.")
			os.Exit(1)
		}
	},
}

func persistentCacheConfig() *config.CacheConfig {
	cfg := config.NewDefaultConfig().Cache
	cfg.Persist = true

	return cfg
}

func runInfo() error {
	store, err := DefaultManager().Get(persistentCacheConfig())
	if err != nil {
		return fmt.Errorf("get cache: %w", err)
	}

	stats := store.Stats()

	dir := store.Dir()
	dirExists := true

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dirExists = false
	}

	var diskSize int64

	if dirExists {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}

			if info, infoErr := d.Info(); infoErr == nil {
				diskSize += info.Size()
			}

			return nil
		})
	}

	fmt.Println("\n=== DexMetadata Cache Information ===")
	fmt.Printf("Cache Directory: %s\n", dir)
	fmt.Printf("Directory Exists: %v\n", dirExists)
	fmt.Printf("Total Cache Size: %s\n", humanize.Bytes(uint64(diskSize)))
	fmt.Printf("Persistence Enabled: %v\n", stats.PersistEnabled)
	fmt.Println("\n--- Cache Statistics ---")
	fmt.Printf("Entries: %s\n", humanize.Comma(int64(stats.Entries)))
	fmt.Printf("Maximum Entries: %s\n", humanize.Comma(int64(stats.MaxEntries)))
	fmt.Printf("Usage: %.1f%%\n", stats.UsagePercent)
	fmt.Printf("Approximate Size: %s\n", humanize.Bytes(uint64(stats.ApproxSizeBytes)))
	fmt.Printf("Average Access Count: %.1f\n", stats.AvgAccessCount)

	if len(stats.TopAccessed) > 0 {
		fmt.Println("\n--- Most Accessed Pools ---")

		for _, top := range stats.TopAccessed {
			fmt.Printf("%s  (%d accesses)\n", top.Address, top.AccessCount)
		}
	}

	return nil
}

func runClear() error {
	store, err := DefaultManager().Get(persistentCacheConfig())
	if err != nil {
		return fmt.Errorf("get cache: %w", err)
	}

	entriesBefore := store.Size()
	store.Clear()

	fmt.Printf("Cache cleared successfully. Removed %s entries.\n", humanize.Comma(int64(entriesBefore)))

	return nil
}

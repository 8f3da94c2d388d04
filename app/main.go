package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elyase/dexmetadata/app/cache"
	"github.com/elyase/dexmetadata/app/fetcher"
	"github.com/elyase/dexmetadata/app/optimize"
	"github.com/elyase/dexmetadata/app/version"
)

var rootCmd = &cobra.Command{
	Use:   "dexmetadata",
	Short: "DEX pool metadata utility",
}

func init() {
	rootCmd.AddCommand(fetcher.Cmd)
	rootCmd.AddCommand(cache.InfoCmd)
	rootCmd.AddCommand(cache.ClearCmd)
	rootCmd.AddCommand(cache.DeleteCmd)
	rootCmd.AddCommand(optimize.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

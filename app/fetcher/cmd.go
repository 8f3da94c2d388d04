package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elyase/dexmetadata/app/cache"
	"github.com/elyase/dexmetadata/app/config"
	"github.com/elyase/dexmetadata/app/rpc"
	"github.com/elyase/dexmetadata/common"
)

var Cmd = &cobra.Command{
	Use:   "fetch <address>...",
	Short: "Fetch metadata for DEX pool addresses",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFromCLI(cmd, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

const (
	configFlag               = "config"
	networkFlag              = "network"
	rpcURLFlag               = "rpc-url"
	batchSizeFlag            = "batch-size"
	maxConcurrentBatchesFlag = "max-concurrent-batches"
	noProgressFlag           = "no-progress"
	outputFlag               = "output"
	formatFlag               = "format"
	noCacheFlag              = "no-cache"
	noCachePersistFlag       = "no-cache-persist"
	cacheMaxPoolsFlag        = "cache-max-pools"
	cacheMaxSizeMBFlag       = "cache-max-size-mb"
	metricsEndpointFlag      = "metrics-endpoint"
)

func init() {
	Cmd.Flags().StringP(configFlag, "c", "", "path to config file")
	Cmd.Flags().String(networkFlag, config.DefaultNetwork, "network served by publicnode.com (e.g. base, ethereum)")
	Cmd.Flags().String(rpcURLFlag, "", "custom RPC URL (overrides the network default)")
	Cmd.Flags().Int(batchSizeFlag, config.DefaultBatchSize, "number of pools resolved in a single call")
	Cmd.Flags().Int(maxConcurrentBatchesFlag, config.DefaultMaxConcurrentBatches, "maximum number of concurrent batch requests")
	Cmd.Flags().Bool(noProgressFlag, false, "disable the progress line")
	Cmd.Flags().StringP(outputFlag, "o", "", "output file path (format auto-detected from extension: .json, .csv)")
	Cmd.Flags().String(formatFlag, "", "output format (text, json, csv)")
	Cmd.Flags().Bool(noCacheFlag, false, "disable the cache")
	Cmd.Flags().Bool(noCachePersistFlag, false, "disable cache persistence to disk")
	Cmd.Flags().Int(cacheMaxPoolsFlag, config.DefaultCacheMaxEntries, "maximum number of pools to cache")
	Cmd.Flags().Float64(cacheMaxSizeMBFlag, 0, "maximum cache size in MB (overrides --cache-max-pools)")
	Cmd.Flags().String(metricsEndpointFlag, "", "serve Prometheus metrics on this address during the fetch")
}

//nolint:gocyclo
func configFromFlags(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	var cfg *config.Config

	if configPath != "" {
		cfg, err = config.NewConfigFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("new config from file: %w", err)
		}
	} else {
		cfg = config.NewDefaultConfig()
	}

	flags := cmd.Flags()

	if flags.Changed(networkFlag) {
		cfg.Network, _ = flags.GetString(networkFlag)
	}

	if flags.Changed(rpcURLFlag) {
		cfg.RPCURL, _ = flags.GetString(rpcURLFlag)
	}

	if flags.Changed(batchSizeFlag) {
		cfg.Fetch.BatchSize, _ = flags.GetInt(batchSizeFlag)
	}

	if flags.Changed(maxConcurrentBatchesFlag) {
		cfg.Fetch.MaxConcurrentBatches, _ = flags.GetInt(maxConcurrentBatchesFlag)
	}

	if noProgress, _ := flags.GetBool(noProgressFlag); noProgress {
		cfg.Fetch.ShowProgress = false
	}

	if noCache, _ := flags.GetBool(noCacheFlag); noCache {
		cfg.Cache.Enabled = false
	}

	// CLI runs are short-lived, so persistence defaults to on.
	cfg.Cache.Persist = true

	if noPersist, _ := flags.GetBool(noCachePersistFlag); noPersist {
		cfg.Cache.Persist = false
	}

	if flags.Changed(cacheMaxPoolsFlag) {
		cfg.Cache.MaxEntries, _ = flags.GetInt(cacheMaxPoolsFlag)
	}

	if flags.Changed(cacheMaxSizeMBFlag) {
		cfg.Cache.MaxSizeMB, _ = flags.GetFloat64(cacheMaxSizeMBFlag)
	}

	if flags.Changed(metricsEndpointFlag) {
		endpoint, _ := flags.GetString(metricsEndpointFlag)
		cfg.Metrics = &config.MetricsConfig{Endpoint: endpoint}
	}

	return cfg, nil
}

func runFromCLI(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	logger, err := common.NewLoggerFromConfig(cfg.Logger)
	if err != nil {
		return fmt.Errorf("new logger from config: %w", err)
	}

	if cfg.Metrics != nil && cfg.Metrics.Endpoint != "" {
		startMetricsServer(logger, cfg.Metrics.Endpoint)
	}

	opts := []Option{}

	if cfg.Cache.Enabled {
		store, cacheErr := cache.DefaultManager().Get(cfg.Cache)
		if cacheErr != nil {
			return fmt.Errorf("get cache: %w", cacheErr)
		}

		opts = append(opts, WithCache(store))
	}

	if cfg.Fetch.ShowProgress {
		opts = append(opts, WithProgress(NewConsoleProgress(os.Stderr)))
	}

	caller := rpc.ClientFor(logger, cfg.EndpointURL())

	f, err := New(logger, caller, cfg.Fetch, opts...)
	if err != nil {
		return fmt.Errorf("new fetcher: %w", err)
	}

	start := time.Now()

	pools, err := f.Fetch(context.Background(), args)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	elapsed := time.Since(start)
	throughput := float64(len(pools)) / maxFloat(elapsed.Seconds(), 0.001)

	fmt.Printf("\nFetched %d pools in %.2fs (%.1f pools/s)\n", len(pools), elapsed.Seconds(), throughput)

	outputFile, _ := cmd.Flags().GetString(outputFlag)
	format, _ := cmd.Flags().GetString(formatFlag)

	if format == "" {
		format = DetectOutputFormat(outputFile)
	}

	if outputFile != "" {
		file, fileErr := os.Create(outputFile)
		if fileErr != nil {
			return fmt.Errorf("create output file: %w", fileErr)
		}

		defer common.LogCloserError(logger, file, "close output file")

		if err := WriteOutput(file, pools, format); err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		fmt.Printf("Output written to %s\n", outputFile)

		return nil
	}

	// Console display shows the first few pools only.
	displayCount := len(pools)
	if displayCount > 5 {
		displayCount = 5
	}

	if displayCount == 0 {
		fmt.Println("No pools found")

		return nil
	}

	for i := 0; i < displayCount; i++ {
		fmt.Printf("\nPool %d/%d:\n%s\n", i+1, len(pools), pools[i].String())
	}

	if len(pools) > displayCount {
		fmt.Printf("\n... and %d more pools\n", len(pools)-displayCount)
	}

	return nil
}

func startMetricsServer(logger *zap.Logger, endpoint string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", common.NewMetricsHandler())

	server := &http.Server{Addr: endpoint, Handler: mux}

	logger.Info("starting HTTP metrics server", zap.String("address", endpoint))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http metrics server listen and serve", zap.Error(err))
		}
	}()
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}

	return b
}

package optimize

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/elyase/dexmetadata/app/rpc"
	"github.com/elyase/dexmetadata/common"
)

var Cmd = &cobra.Command{
	Use:   "optimize",
	Short: "Recommend fetch parameters for a rate-limited RPC endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFromCLI(cmd); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

const (
	rpcURLFlag      = "rpc-url"
	rpmFlag         = "rpm"
	rpsFlag         = "rps"
	batchSizeFlag   = "batch-size"
	concurrencyFlag = "concurrency"

	probeTimeout = 30 * time.Second
)

func init() {
	Cmd.Flags().String(rpcURLFlag, "https://base-rpc.publicnode.com", "RPC URL to probe")
	Cmd.Flags().Float64(rpmFlag, 0, "rate limit in requests per minute")
	Cmd.Flags().Float64(rpsFlag, 0, "rate limit in requests per second")
	Cmd.Flags().Int(batchSizeFlag, 0, "force a specific batch size")
	Cmd.Flags().Int(concurrencyFlag, 0, "force a specific concurrency value")
}

func runFromCLI(cmd *cobra.Command) error {
	flags := cmd.Flags()

	endpoint, _ := flags.GetString(rpcURLFlag)
	rpm, _ := flags.GetFloat64(rpmFlag)
	rps, _ := flags.GetFloat64(rpsFlag)

	rateLimit := rpm
	perSecond := false

	if rps > 0 {
		rateLimit = rps
		perSecond = true
	}

	if rateLimit <= 0 {
		return fmt.Errorf("%w: either --rpm or --rps is required", common.ErrInvalidConfig)
	}

	logger := common.NewDefaultLogger()

	// Probe the endpoint to replace the assumed response time with a
	// measured one. An unreachable endpoint is not fatal for the math.
	avgResponseTime := DefaultAvgResponseTime

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	probeStart := time.Now()

	if err := rpc.ClientFor(logger, endpoint).Ping(ctx, probeTimeout); err != nil {
		fmt.Printf("Endpoint probe failed (%v), assuming %.1fs response time\n", err, avgResponseTime)
	} else {
		avgResponseTime = time.Since(probeStart).Seconds()
		fmt.Printf("Measured response time: %.2fs\n", avgResponseTime)
	}

	params := CalculateRateLimitParams(rateLimit, avgResponseTime, DefaultTargetUtilization, perSecond)

	if forced, _ := flags.GetInt(batchSizeFlag); forced > 0 {
		params.BatchSize = forced
	}

	if forced, _ := flags.GetInt(concurrencyFlag); forced > 0 {
		params.MaxConcurrentBatches = forced
	}

	fmt.Println("\n=== Recommended Parameters ===")
	fmt.Printf("batch_size: %d\n", params.BatchSize)
	fmt.Printf("max_concurrent_batches: %d\n", params.MaxConcurrentBatches)
	fmt.Printf("estimated rpm: %.1f\n", params.EstimatedRPM)
	fmt.Printf("rate limit rpm: %.1f\n", params.RateLimitRPM)
	fmt.Printf("utilization: %.1f%%\n", params.UtilizationPercent)

	return nil
}

// Package optimize recommends fetch parameters for a rate-limited RPC
// endpoint.
package optimize

import (
	"math"
)

const (
	// DefaultAvgResponseTime is assumed when the endpoint is not probed.
	DefaultAvgResponseTime = 0.7

	// DefaultTargetUtilization keeps headroom below the provider limit.
	DefaultTargetUtilization = 0.5

	// Concurrency above this rarely helps and tends to trip providers.
	maxStableConcurrency = 5
)

// Params is a recommended fetch parameterization.
type Params struct {
	BatchSize            int     `json:"batch_size"`
	MaxConcurrentBatches int     `json:"max_concurrent_batches"`
	EstimatedRPM         float64 `json:"estimated_rpm"`
	RateLimitRPM         float64 `json:"rate_limit_rpm"`
	UtilizationPercent   float64 `json:"utilization"`
}

// CalculateRateLimitParams derives batch size and concurrency from a
// provider rate limit. rateLimit is requests per minute, or per second when
// perSecond is set.
func CalculateRateLimitParams(rateLimit, avgResponseTime, targetUtilization float64, perSecond bool) Params {
	rateLimitRPM := rateLimit
	if perSecond {
		rateLimitRPM = rateLimit * 60
	}

	safeRPM := rateLimitRPM * targetUtilization

	maxConcurrent := int(safeRPM * avgResponseTime / 60)
	if maxConcurrent > maxStableConcurrency {
		maxConcurrent = maxStableConcurrency
	}

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	var batchSize int

	switch {
	case maxConcurrent >= 4:
		batchSize = 10
	case maxConcurrent >= 2:
		batchSize = 20
	default:
		batchSize = 30
	}

	estimatedRPM := 60 / avgResponseTime * float64(maxConcurrent)

	return Params{
		BatchSize:            batchSize,
		MaxConcurrentBatches: maxConcurrent,
		EstimatedRPM:         round1(estimatedRPM),
		RateLimitRPM:         rateLimitRPM,
		UtilizationPercent:   round1(estimatedRPM / rateLimitRPM * 100),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Package fetcher implements the pool metadata fetch pipeline: address
// validation, cache probing, batch partitioning, bounded concurrent
// execution and in-order result assembly.
package fetcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/elyase/dexmetadata/app/cache"
	"github.com/elyase/dexmetadata/app/config"
	"github.com/elyase/dexmetadata/app/metadata"
	"github.com/elyase/dexmetadata/common"
)

// maxOutboundConns bounds concurrent outbound RPC calls across all fetches
// in the process. Independent of the per-call batch gate: many queued
// batches must not translate into many open sockets.
const maxOutboundConns = 10

var connSem = semaphore.NewWeighted(maxOutboundConns)

// Caller resolves one batch of addresses in a single network round-trip.
// Implementations are batch-atomic: any error fails the whole batch.
type Caller interface {
	CallBatch(ctx context.Context, addresses []string) ([]metadata.Pool, error)
}

// ProgressFunc is notified with cumulative progress as batches complete.
// A side channel only; never affects results.
type ProgressFunc func(completed, total int)

// Result is the per-address outcome of a fetch. Found is false when the
// address did not resolve to a pool in any batch.
type Result struct {
	Address string
	Pool    metadata.Pool
	Found   bool
}

type Fetcher struct {
	logger   *zap.Logger
	caller   Caller
	cache    *cache.Store
	cfg      *config.FetchConfig
	progress ProgressFunc
}

type Option func(*Fetcher)

// WithCache attaches a cache store. Without it every address is fetched.
func WithCache(store *cache.Store) Option {
	return func(f *Fetcher) { f.cache = store }
}

func WithProgress(fn ProgressFunc) Option {
	return func(f *Fetcher) { f.progress = fn }
}

func New(logger *zap.Logger, caller Caller, cfg *config.FetchConfig, opts ...Option) (*Fetcher, error) {
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", common.ErrInvalidConfig, cfg.BatchSize)
	}

	if cfg.MaxConcurrentBatches <= 0 {
		return nil, fmt.Errorf("%w: max concurrent batches must be positive, got %d",
			common.ErrInvalidConfig, cfg.MaxConcurrentBatches)
	}

	f := &Fetcher{
		logger: logger,
		caller: caller,
		cfg:    cfg,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Fetch returns the records of the input addresses in input order.
// Unresolved addresses and records failing the validity predicate are
// omitted, so the output may be shorter than the input; the omission count
// is logged. Use FetchResults for explicit per-address outcomes.
func (f *Fetcher) Fetch(ctx context.Context, addresses []string) ([]metadata.Pool, error) {
	results, err := f.FetchResults(ctx, addresses)
	if err != nil {
		return nil, err
	}

	pools := make([]metadata.Pool, 0, len(results))

	for _, r := range results {
		if r.Found && r.Pool.IsValid() {
			pools = append(pools, r.Pool)
		}
	}

	return pools, nil
}

// FetchResults returns one Result per valid input address, in input order,
// duplicates included.
func (f *Fetcher) FetchResults(ctx context.Context, addresses []string) ([]Result, error) {
	logger := f.logger.With(zap.String("run_id", uuid.NewString()))

	valid := f.validateAddresses(logger, addresses)
	if len(valid) == 0 {
		logger.Debug("no valid addresses to fetch")

		return nil, nil
	}

	logger.Info("processing pool addresses", zap.Int("valid", len(valid)), zap.Int("input", len(addresses)))

	hits := make(map[string]metadata.Pool)
	if f.cache != nil {
		hits = f.cache.GetMany(valid)
		logger.Info("cache probe", zap.Int("hits", len(hits)), zap.Int("requested", len(valid)))
	}

	toFetch := missingAddresses(valid, hits)

	// All hits: no batches are issued at all.
	if len(toFetch) == 0 {
		logger.Info("all requested pools found in cache")

		return f.assemble(logger, valid, hits, nil), nil
	}

	fetched := f.runBatches(ctx, logger, toFetch)

	if f.cache != nil && len(fetched) > 0 {
		f.cache.PutMany(fetched)
		logger.Info("added fetched pools to cache", zap.Int("added", len(fetched)))
	}

	return f.assemble(logger, valid, hits, fetched), nil
}

// validateAddresses normalizes input addresses to checksummed form,
// preserving order and duplicates. Invalid addresses are dropped with a
// warning, never fatal.
func (f *Fetcher) validateAddresses(logger *zap.Logger, addresses []string) []string {
	valid := make([]string, 0, len(addresses))

	for _, raw := range addresses {
		normalized, err := common.NormalizeAddress(raw)
		if err != nil {
			logger.Warn("dropping invalid pool address", zap.String("address", raw), zap.Error(err))

			continue
		}

		valid = append(valid, normalized)
	}

	return valid
}

// missingAddresses returns cache misses in first-occurrence order. Each
// address is fetched at most once regardless of input duplication.
func missingAddresses(valid []string, hits map[string]metadata.Pool) []string {
	seen := make(map[string]struct{}, len(valid))
	missing := make([]string, 0, len(valid))

	for _, address := range valid {
		if _, hit := hits[address]; hit {
			continue
		}

		if _, dup := seen[address]; dup {
			continue
		}

		seen[address] = struct{}{}

		missing = append(missing, address)
	}

	return missing
}

func partition(addresses []string, batchSize int) [][]string {
	batches := make([][]string, 0, (len(addresses)+batchSize-1)/batchSize)

	for start := 0; start < len(addresses); start += batchSize {
		end := start + batchSize
		if end > len(addresses) {
			end = len(addresses)
		}

		batches = append(batches, addresses[start:end])
	}

	return batches
}

// runBatches executes batches under the per-call batch gate. Batches may
// complete in any order; a failed batch contributes zero records and never
// affects its siblings.
func (f *Fetcher) runBatches(ctx context.Context, logger *zap.Logger, toFetch []string) map[string]metadata.Pool {
	batches := partition(toFetch, f.cfg.BatchSize)

	logger.Info("fetching pools from RPC",
		zap.Int("pools", len(toFetch)),
		zap.Int("batches", len(batches)),
		zap.Int("batch_size", f.cfg.BatchSize),
		zap.Int("max_concurrent_batches", f.cfg.MaxConcurrentBatches),
	)

	var (
		mu        sync.Mutex
		fetched   = make(map[string]metadata.Pool)
		completed int
	)

	group := errgroup.Group{}
	group.SetLimit(f.cfg.MaxConcurrentBatches)

	for i, batch := range batches {
		i, batch := i, batch

		group.Go(func() error {
			pools := f.executeBatch(ctx, logger, i, len(batches), batch)

			mu.Lock()

			for _, pool := range pools {
				fetched[pool.Address] = pool
			}

			completed += len(batch)
			done := completed

			mu.Unlock()

			if f.progress != nil {
				f.progress(done, len(toFetch))
			}

			return nil
		})
	}

	// Tasks never return errors: failure isolation is the whole point.
	_ = group.Wait()

	return fetched
}

// executeBatch issues one network call under the process-wide connection
// gate. Any failure degrades to zero records with a warning.
func (f *Fetcher) executeBatch(ctx context.Context, logger *zap.Logger, index, total int, addresses []string) []metadata.Pool {
	batchLogger := logger.With(zap.Int("batch", index+1), zap.Int("batches", total))

	if err := connSem.Acquire(ctx, 1); err != nil {
		batchLogger.Warn("acquire connection slot", zap.Error(err))
		common.BatchesFailed.Inc()

		return nil
	}

	pools, err := f.caller.CallBatch(ctx, addresses)

	connSem.Release(1)

	if err != nil {
		batchLogger.Warn("batch failed, dropping its results", zap.Int("addresses", len(addresses)), zap.Error(err))
		common.BatchesFailed.Inc()

		return nil
	}

	// Returned pool addresses are normalized so they merge against the
	// validated input sequence.
	for i := range pools {
		if normalized, normErr := common.NormalizeAddress(pools[i].Address); normErr == nil {
			pools[i].Address = normalized
		}
	}

	common.BatchesSucceeded.Inc()
	common.PoolsFetched.Add(float64(len(pools)))

	batchLogger.Debug("batch completed", zap.Int("addresses", len(addresses)), zap.Int("pools", len(pools)))

	return pools
}

// assemble walks the validated sequence in original order and resolves each
// address against the cache hits and the freshly fetched records.
func (f *Fetcher) assemble(logger *zap.Logger, valid []string, hits, fetched map[string]metadata.Pool) []Result {
	results := make([]Result, 0, len(valid))

	var missing int

	for _, address := range valid {
		if pool, found := hits[address]; found {
			results = append(results, Result{Address: address, Pool: pool, Found: true})

			continue
		}

		if pool, found := fetched[address]; found {
			results = append(results, Result{Address: address, Pool: pool, Found: true})

			continue
		}

		missing++

		results = append(results, Result{Address: address})
	}

	if missing > 0 {
		logger.Warn("some pools did not resolve", zap.Int("missing", missing), zap.Int("requested", len(valid)))
	}

	logger.Info("fetch finished", zap.Int("resolved", len(valid)-missing), zap.Int("requested", len(valid)))

	return results
}

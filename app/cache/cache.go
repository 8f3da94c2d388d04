// Package cache implements the pool metadata cache: an in-memory map with a
// hybrid frequency/recency eviction policy and optional write-through SQLite
// persistence.
package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/elyase/dexmetadata/app/config"
	"github.com/elyase/dexmetadata/app/metadata"
	"github.com/elyase/dexmetadata/common"
)

const (
	// Entries older than this contribute nothing on the recency axis.
	evictionMaxAge = 30 * 24 * time.Hour

	frequencyWeight = 0.4
	recencyWeight   = 0.6
)

// Entry is a snapshot of one cached record with its access accounting.
type Entry struct {
	Pool        metadata.Pool
	AccessCount int64
	LastAccess  time.Time
}

type entry struct {
	pool        metadata.Pool
	accessCount int64
	lastAccess  time.Time
}

// Store is a thread-safe pool metadata cache. All public operations are
// guarded by a single store-wide lock; persistence writes happen while the
// lock is held, which trades throughput for simplicity.
type Store struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool

	maxEntries int
	persist    bool
	dir        string
	storage    *storageSQLite

	// overridable in tests
	now func() time.Time
}

// NewStore builds a store from the given configuration. When persistence is
// requested but the durable storage cannot be initialized, the store falls
// back to memory-only operation and logs the failure.
func NewStore(logger *zap.Logger, cfg *config.CacheConfig) (*Store, error) {
	maxEntries := cfg.EffectiveMaxEntries()
	if maxEntries <= 0 {
		return nil, fmt.Errorf("%w: cache entry budget must be positive", common.ErrInvalidConfig)
	}

	s := &Store{
		logger:     logger,
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
		persist:    cfg.Persist,
		dir:        cfg.Dir,
		now:        time.Now,
	}

	if s.persist {
		if err := s.initPersistentStorage(); err != nil {
			logger.Error("initialize persistent cache, falling back to memory-only", zap.Error(err))
			s.persist = false
		}
	}

	logger.Info("cache initialized",
		zap.Int("max_entries", s.maxEntries),
		zap.Bool("persist", s.persist),
		zap.Int("loaded_entries", len(s.entries)),
	)

	return s, nil
}

func (s *Store) initPersistentStorage() error {
	storage, err := newStorageSQLite(s.dir)
	if err != nil {
		return fmt.Errorf("new storage sqlite: %w", err)
	}

	s.storage = storage

	loaded, skipped := storage.loadAll(func(address string, pool metadata.Pool, accessCount, lastAccess int64) {
		s.entries[address] = &entry{
			pool:        pool,
			accessCount: accessCount,
			lastAccess:  time.Unix(lastAccess, 0),
		}
	})

	if skipped > 0 {
		s.logger.Warn("skipped undecodable persisted entries", zap.Int("skipped", skipped))
	}

	s.logger.Info("loaded pools from persistent cache", zap.Int("loaded", loaded))

	return nil
}

// Get returns the cached record for the address. A hit counts as an access:
// the entry's access count and last access time are updated and, if
// persistence is enabled, mirrored to durable storage.
func (s *Store) Get(address string) (metadata.Pool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[address]
	if !found {
		common.CacheMisses.Inc()

		return metadata.Pool{}, false
	}

	s.touchLocked(address, e)
	common.CacheHits.Inc()

	return e.pool, true
}

// GetMany is the batched form of Get. The result only contains addresses
// present in the cache; each hit gets the same access accounting as Get.
func (s *Store) GetMany(addresses []string) map[string]metadata.Pool {
	result := make(map[string]metadata.Pool)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, address := range addresses {
		e, found := s.entries[address]
		if !found {
			common.CacheMisses.Inc()

			continue
		}

		// Duplicates within one request touch the entry once per occurrence.
		s.touchLocked(address, e)
		common.CacheHits.Inc()

		result[address] = e.pool
	}

	return result
}

// Put inserts or overwrites a record. A put counts as an access. Exceeding
// the entry budget triggers a threshold-batch eviction.
func (s *Store) Put(address string, pool metadata.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putLocked(address, pool)
}

// PutMany applies Put per entry. There is no atomicity across entries, only
// a single lock acquisition.
func (s *Store) PutMany(pools map[string]metadata.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for address, pool := range pools {
		s.putLocked(address, pool)
	}
}

func (s *Store) putLocked(address string, pool metadata.Pool) {
	e, found := s.entries[address]
	if !found {
		e = &entry{}
		s.entries[address] = e
	}

	e.pool = pool
	s.touchLocked(address, e)

	if len(s.entries) > s.maxEntries {
		s.evictLocked()
	}
}

// touchLocked bumps the access accounting and mirrors the entry to durable
// storage. Persistence failures degrade that one write to memory-only.
func (s *Store) touchLocked(address string, e *entry) {
	e.accessCount++
	e.lastAccess = s.now()

	if s.persist && s.storage != nil {
		if err := s.storage.upsert(address, e.pool, e.accessCount, e.lastAccess.Unix()); err != nil {
			s.logger.Warn("save pool to persistent cache", zap.String("address", address), zap.Error(err))
		}
	}
}

// evictLocked removes the max(1, maxEntries/4) lowest-scoring entries. The
// score blends access frequency with recency; entries idle longer than the
// 30-day horizon score on frequency alone.
func (s *Store) evictLocked() {
	if len(s.entries) == 0 {
		return
	}

	now := s.now()

	type scored struct {
		address string
		score   float64
	}

	candidates := make([]scored, 0, len(s.entries))

	for address, e := range s.entries {
		age := now.Sub(e.lastAccess).Seconds()

		recency := 1 - age/evictionMaxAge.Seconds()
		if recency < 0 {
			recency = 0
		}

		candidates = append(candidates, scored{
			address: address,
			score:   float64(e.accessCount)*frequencyWeight + recency*recencyWeight,
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score < candidates[j].score })

	numToRemove := s.maxEntries / 4
	if numToRemove < 1 {
		numToRemove = 1
	}

	if numToRemove > len(candidates) {
		numToRemove = len(candidates)
	}

	for _, c := range candidates[:numToRemove] {
		delete(s.entries, c.address)

		if s.persist && s.storage != nil {
			if err := s.storage.remove(c.address); err != nil {
				s.logger.Warn("remove pool from persistent cache", zap.String("address", c.address), zap.Error(err))
			}
		}
	}

	common.CacheEvictions.Add(float64(numToRemove))
	s.logger.Info("evicted pools from cache", zap.Int("evicted", numToRemove), zap.Int("remaining", len(s.entries)))
}

// Entry returns a snapshot of one entry without touching its accounting.
func (s *Store) Entry(address string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[address]
	if !found {
		return Entry{}, false
	}

	return Entry{Pool: e.pool, AccessCount: e.accessCount, LastAccess: e.lastAccess}, true
}

// Size returns the number of cached entries.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Clear empties the store. With persistence enabled the durable store file
// is deleted and recreated.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry)

	if s.storage != nil {
		if err := s.storage.reset(); err != nil {
			s.logger.Error("reset persistent cache", zap.Error(err))
			s.persist = false
			s.storage = nil
		}
	}

	s.logger.Info("cache cleared")
}

// Close releases durable storage resources. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if s.storage != nil {
		if err := s.storage.close(); err != nil {
			return fmt.Errorf("close storage: %w", err)
		}
	}

	return nil
}

// Dir returns the durable storage directory.
func (s *Store) Dir() string { return s.dir }

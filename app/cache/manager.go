package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/elyase/dexmetadata/app/config"
	"github.com/elyase/dexmetadata/common"
)

// Manager owns lazily-constructed shared Store instances, one per distinct
// configuration. Keying by a configuration fingerprint means that two
// callers asking for differently-configured caches get different stores
// instead of silently sharing the first caller's.
type Manager struct {
	logger *zap.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger,
		stores: make(map[string]*Store),
	}
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// DefaultManager returns the process-wide manager.
func DefaultManager() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager(common.NewDefaultLogger())
	})

	return defaultManager
}

func fingerprint(cfg *config.CacheConfig) string {
	return fmt.Sprintf("%d|%t|%s", cfg.EffectiveMaxEntries(), cfg.Persist, cfg.Dir)
}

// Get returns the shared store for the given configuration, creating it on
// first use. Safe for concurrent first-access races.
func (m *Manager) Get(cfg *config.CacheConfig) (*Store, error) {
	key := fingerprint(cfg)

	m.mu.Lock()
	defer m.mu.Unlock()

	if store, found := m.stores[key]; found {
		m.logger.Debug("reusing shared cache instance", zap.String("key", key))

		return store, nil
	}

	store, err := NewStore(m.logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}

	m.stores[key] = store
	m.logger.Debug("created shared cache instance", zap.String("key", key))

	return store, nil
}

// DeleteDefault closes every store persisting to the default cache
// directory and removes the durable store file. Succeeds vacuously when no
// file exists.
func (m *Manager) DeleteDefault() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := config.DefaultCacheDir()

	for key, store := range m.stores {
		if store.Dir() != dir {
			continue
		}

		common.LogCloserError(m.logger, store, "close cache store")
		delete(m.stores, key)
	}

	path := filepath.Join(dir, DBFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return true
	}

	if err := os.Remove(path); err != nil {
		m.logger.Error("delete default cache", zap.String("path", path), zap.Error(err))

		return false
	}

	m.logger.Info("deleted default cache", zap.String("path", path))

	return true
}

// Reset closes and forgets every store. Test-only.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, store := range m.stores {
		common.LogCloserError(m.logger, store, "close cache store")
		delete(m.stores, key)
	}
}

package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/elyase/dexmetadata/app/metadata"
)

// DBFileName is the fixed durable store filename inside the cache directory.
const DBFileName = "pool_cache.db"

// storageSQLite is the durable backing table of the store: one row per pool,
// keyed by address, overwrite-on-conflict.
type storageSQLite struct {
	db   *sql.DB
	path string
}

func newStorageSQLite(dir string) (*storageSQLite, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	s := &storageSQLite{db: db, path: path}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, fmt.Errorf("initialize: %w", err)
	}

	return s, nil
}

func (s *storageSQLite) initialize() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS pools (
		address TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		access_count INTEGER NOT NULL,
		last_access INTEGER NOT NULL
	);
	`

	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating pools table: %w", err)
	}

	return nil
}

// loadAll streams every decodable row into the callback and returns the
// number of loaded and skipped rows. Undecodable rows are skipped, never
// fatal.
func (s *storageSQLite) loadAll(fn func(address string, pool metadata.Pool, accessCount, lastAccess int64)) (loaded, skipped int) {
	rows, err := s.db.Query("SELECT address, data, access_count, last_access FROM pools")
	if err != nil {
		return 0, 0
	}
	defer rows.Close()

	for rows.Next() {
		var (
			address     string
			data        string
			accessCount int64
			lastAccess  int64
		)

		if err := rows.Scan(&address, &data, &accessCount, &lastAccess); err != nil {
			skipped++

			continue
		}

		var pool metadata.Pool
		if err := json.Unmarshal([]byte(data), &pool); err != nil {
			skipped++

			continue
		}

		fn(address, pool, accessCount, lastAccess)
		loaded++
	}

	return loaded, skipped
}

func (s *storageSQLite) upsert(address string, pool metadata.Pool, accessCount, lastAccess int64) error {
	data, err := json.Marshal(&pool)
	if err != nil {
		return fmt.Errorf("marshal pool: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO pools (address, data, access_count, last_access) VALUES (?, ?, ?, ?)",
		address, string(data), accessCount, lastAccess,
	)
	if err != nil {
		return fmt.Errorf("upsert pool: %w", err)
	}

	return nil
}

func (s *storageSQLite) remove(address string) error {
	if _, err := s.db.Exec("DELETE FROM pools WHERE address = ?", address); err != nil {
		return fmt.Errorf("delete pool: %w", err)
	}

	return nil
}

// reset deletes the database file and reopens an empty table.
func (s *storageSQLite) reset() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove database file: %w", err)
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("reopen sqlite database: %w", err)
	}

	s.db = db

	if err := s.initialize(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	return nil
}

func (s *storageSQLite) close() error {
	return s.db.Close()
}

package cache

import (
	"sort"

	"github.com/elyase/dexmetadata/app/config"
)

// AccessStat is one row of the top-accessed listing.
type AccessStat struct {
	Address     string `json:"address"`
	AccessCount int64  `json:"access_count"`
}

// Stats is the operator-facing statistics surface of the store.
type Stats struct {
	Entries         int          `json:"entries"`
	MaxEntries      int          `json:"max_entries"`
	UsagePercent    float64      `json:"usage_percent"`
	ApproxSizeBytes int64        `json:"approx_size_bytes"`
	PersistEnabled  bool         `json:"persist_enabled"`
	AvgAccessCount  float64      `json:"avg_access_count"`
	TopAccessed     []AccessStat `json:"top_accessed"`
}

const topAccessedLimit = 5

// Stats computes the statistics surface under the store lock.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	numEntries := len(s.entries)

	var totalAccess int64

	top := make([]AccessStat, 0, numEntries)

	for address, e := range s.entries {
		totalAccess += e.accessCount
		top = append(top, AccessStat{Address: address, AccessCount: e.accessCount})
	}

	sort.Slice(top, func(i, j int) bool { return top[i].AccessCount > top[j].AccessCount })

	if len(top) > topAccessedLimit {
		top = top[:topAccessedLimit]
	}

	avg := 0.0
	if numEntries > 0 {
		avg = float64(totalAccess) / float64(numEntries)
	}

	return Stats{
		Entries:         numEntries,
		MaxEntries:      s.maxEntries,
		UsagePercent:    float64(numEntries) / float64(s.maxEntries) * 100,
		ApproxSizeBytes: int64(numEntries) * config.ApproxPoolSizeBytes,
		PersistEnabled:  s.persist,
		AvgAccessCount:  avg,
		TopAccessed:     top,
	}
}

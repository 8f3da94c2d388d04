package common

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// checksumCache memoizes EIP-55 normalization. Checksumming hashes the
// address with keccak, which adds up on runs with hundreds of thousands of
// repeated addresses.
var checksumCache = func() *ristretto.Cache[string, string] {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1 << 16,
		MaxCost:     1 << 14,
		BufferItems: 64,
	})
	if err != nil {
		panic(fmt.Sprintf("ristretto new cache: %v", err))
	}

	return cache
}()

// NormalizeAddress validates a hex contract address and returns its
// canonical EIP-55 checksummed form.
func NormalizeAddress(addr string) (string, error) {
	if normalized, found := checksumCache.Get(addr); found {
		return normalized, nil
	}

	if !ethcommon.IsHexAddress(addr) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}

	normalized := ethcommon.HexToAddress(addr).Hex()
	checksumCache.Set(addr, normalized, 1)

	return normalized, nil
}

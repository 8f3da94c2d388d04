package rpc

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/elyase/dexmetadata/app/metadata"
)

func mustNewType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(fmt.Sprintf("abi new type %s: %v", t, err))
	}

	return typ
}

var tokenComponents = []abi.ArgumentMarshaling{
	{Name: "tokenAddress", Type: "address"},
	{Name: "name", Type: "string"},
	{Name: "symbol", Type: "string"},
	{Name: "decimals", Type: "uint8"},
}

var (
	addressSliceType = mustNewType("address[]", nil)

	poolResultType = mustNewType("tuple[]", []abi.ArgumentMarshaling{
		{Name: "poolAddress", Type: "address"},
		{Name: "token0", Type: "tuple", Components: tokenComponents},
		{Name: "token1", Type: "tuple", Components: tokenComponents},
	})

	constructorArguments = abi.Arguments{{Type: addressSliceType}}
	resultArguments      = abi.Arguments{{Type: poolResultType}}
)

type rawToken struct {
	TokenAddress ethcommon.Address
	Name         string
	Symbol       string
	Decimals     uint8
}

type rawPool struct {
	PoolAddress ethcommon.Address
	Token0      rawToken
	Token1      rawToken
}

// EncodeCallData builds the deployless eth_call payload: probe creation code
// followed by the ABI-encoded address batch as the constructor argument.
func EncodeCallData(addresses []string) ([]byte, error) {
	addrs := make([]ethcommon.Address, len(addresses))
	for i, a := range addresses {
		addrs[i] = ethcommon.HexToAddress(a)
	}

	packed, err := constructorArguments.Pack(addrs)
	if err != nil {
		return nil, fmt.Errorf("pack constructor arguments: %w", err)
	}

	return append(ethcommon.FromHex(poolMetadataBytecode), packed...), nil
}

// DecodePools unpacks the probe's return data into pool records. Tuples
// missing the pool or either token address are skipped: the probe returns
// zeroed slots for addresses that do not resolve to a pool.
func DecodePools(data []byte) ([]metadata.Pool, error) {
	values, err := resultArguments.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack result: %w", err)
	}

	raw := *abi.ConvertType(values[0], new([]rawPool)).(*[]rawPool)

	pools := make([]metadata.Pool, 0, len(raw))

	var zero ethcommon.Address

	for _, rp := range raw {
		if rp.PoolAddress == zero || rp.Token0.TokenAddress == zero || rp.Token1.TokenAddress == zero {
			continue
		}

		pools = append(pools, metadata.Pool{
			Address: rp.PoolAddress.Hex(),
			Token0: metadata.Token{
				Address:  rp.Token0.TokenAddress.Hex(),
				Name:     rp.Token0.Name,
				Symbol:   rp.Token0.Symbol,
				Decimals: rp.Token0.Decimals,
			},
			Token1: metadata.Token{
				Address:  rp.Token1.TokenAddress.Hex(),
				Name:     rp.Token1.Name,
				Symbol:   rp.Token1.Symbol,
				Decimals: rp.Token1.Decimals,
			},
		})
	}

	return pools, nil
}

// EncodePools is the inverse of DecodePools. Only used by tests and probe
// tooling to build synthetic return payloads.
func EncodePools(pools []metadata.Pool) ([]byte, error) {
	raw := make([]rawPool, len(pools))

	for i, p := range pools {
		raw[i] = rawPool{
			PoolAddress: ethcommon.HexToAddress(p.Address),
			Token0: rawToken{
				TokenAddress: ethcommon.HexToAddress(p.Token0.Address),
				Name:         p.Token0.Name,
				Symbol:       p.Token0.Symbol,
				Decimals:     p.Token0.Decimals,
			},
			Token1: rawToken{
				TokenAddress: ethcommon.HexToAddress(p.Token1.Address),
				Name:         p.Token1.Name,
				Symbol:       p.Token1.Symbol,
				Decimals:     p.Token1.Decimals,
			},
		}
	}

	data, err := resultArguments.Pack(raw)
	if err != nil {
		return nil, fmt.Errorf("pack pools: %w", err)
	}

	return data, nil
}

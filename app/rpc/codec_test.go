package rpc

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/elyase/dexmetadata/app/metadata"
)

func samplePools() []metadata.Pool {
	return []metadata.Pool{
		{
			Address: "0x1111111111111111111111111111111111111111",
			Token0:  metadata.Token{Address: "0x2222222222222222222222222222222222222222", Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
			Token1:  metadata.Token{Address: "0x3333333333333333333333333333333333333333", Name: "USD Coin", Symbol: "USDC", Decimals: 6},
		},
		{
			Address: "0x4444444444444444444444444444444444444444",
			Token0:  metadata.Token{Address: "0x5555555555555555555555555555555555555555", Name: "Dai Stablecoin", Symbol: "DAI", Decimals: 18},
			Token1:  metadata.Token{Address: "0x6666666666666666666666666666666666666666", Name: "Tether USD", Symbol: "USDT", Decimals: 6},
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	pools := samplePools()

	data, err := EncodePools(pools)
	require.NoError(t, err)

	decoded, err := DecodePools(data)
	require.NoError(t, err)
	require.Equal(t, pools, decoded)
}

func TestDecodeSkipsUnresolvedSlots(t *testing.T) {
	pools := samplePools()

	// An address with no pool behind it comes back as a zeroed tuple.
	pools = append(pools, metadata.Pool{})

	data, err := EncodePools(pools)
	require.NoError(t, err)

	decoded, err := DecodePools(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	require.Equal(t, pools[:2], decoded)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := DecodePools([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Error(t, err)
}

func TestEncodeCallData(t *testing.T) {
	addresses := []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	}

	data, err := EncodeCallData(addresses)
	require.NoError(t, err)

	bytecode := ethcommon.FromHex(poolMetadataBytecode)
	require.Greater(t, len(data), len(bytecode))
	require.Equal(t, bytecode, data[:len(bytecode)])

	// The suffix is the ABI-encoded constructor argument.
	values, err := constructorArguments.Unpack(data[len(bytecode):])
	require.NoError(t, err)

	unpacked, ok := values[0].([]ethcommon.Address)
	require.True(t, ok)
	require.Len(t, unpacked, 2)
	require.Equal(t, ethcommon.HexToAddress(addresses[0]), unpacked[0])
	require.Equal(t, ethcommon.HexToAddress(addresses[1]), unpacked[1])
}

package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	// EIP-55 reference vectors.
	testCases := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	}

	for _, checksummed := range testCases {
		got, err := NormalizeAddress(strings.ToLower(checksummed))
		require.NoError(t, err)
		require.Equal(t, checksummed, got)

		// Already-canonical input is a fixed point.
		got, err = NormalizeAddress(checksummed)
		require.NoError(t, err)
		require.Equal(t, checksummed, got)
	}
}

func TestNormalizeAddressInvalid(t *testing.T) {
	for _, input := range []string{"", "0x", "0x123", "hello", "0xZZeb6053f3e94c9b9a09f33669435e7ef1beaed"} {
		_, err := NormalizeAddress(input)
		require.ErrorIs(t, err, ErrInvalidAddress, "input %q", input)
	}
}

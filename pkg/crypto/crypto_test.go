package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenIsRandomAndURLSafe(t *testing.T) {
	first, err := GenerateToken(32)
	require.NoError(t, err)
	second, err := GenerateToken(32)
	require.NoError(t, err)

	require.Len(t, first, 43)
	require.NotEqual(t, first, second)
	require.NotContains(t, first, "+")
	require.NotContains(t, first, "/")

	_, err = GenerateToken(0)
	require.Error(t, err)
}

func TestHashTokenIsStable(t *testing.T) {
	digest := HashToken("abc")
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", digest)
	require.True(t, TokenMatches("abc", digest))
	require.False(t, TokenMatches("abd", digest))
}

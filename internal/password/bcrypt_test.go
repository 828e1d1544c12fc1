package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := NewBcrypt()

	hash, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.NoError(t, h.Compare(hash, "correct horse battery staple"))
	require.Error(t, h.Compare(hash, "wrong password"))
}

func TestBcrypt_DistinctSalts(t *testing.T) {
	h := NewBcrypt()

	first, err := h.Hash("password1")
	require.NoError(t, err)
	second, err := h.Hash("password1")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestBcrypt_OverlongPassword(t *testing.T) {
	h := NewBcrypt()

	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}

	_, err := h.Hash(string(long))
	require.Error(t, err)
}

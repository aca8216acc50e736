package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerRejectsForeignKeyAndTampering(t *testing.T) {
	a, err := NewSealer("first-secret")
	require.NoError(t, err)
	b, err := NewSealer("second-secret")
	require.NoError(t, err)

	sealed, err := a.Seal([]byte("access-token"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "access-token")

	plain, err := a.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "access-token", string(plain))

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrSealed)

	sealed[len(sealed)-1] ^= 0xff
	_, err = a.Open(sealed)
	assert.ErrorIs(t, err, ErrSealed)

	_, err = a.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrSealed)
}

func TestSealerEmptyValues(t *testing.T) {
	s, err := NewSealer("k")
	require.NoError(t, err)
	out, err := s.Seal(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	out, err = s.Open(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = NewSealer("  ")
	assert.Error(t, err)
}

func TestSealIsRandomized(t *testing.T) {
	s, err := NewSealer("k")
	require.NoError(t, err)
	x, _ := s.Seal([]byte("same"))
	y, _ := s.Seal([]byte("same"))
	assert.NotEqual(t, x, y)
}

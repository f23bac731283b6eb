package secrets

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s := NewStore(keyring.NewArrayKeyring(nil))

	got, err := s.Get("openai")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Set("openai", "sk-abc"))
	got, err = s.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-abc", got)

	require.NoError(t, s.Set("openai", ""))
	got, err = s.Get("openai")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, s.Delete("openai"))
}

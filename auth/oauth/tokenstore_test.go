package oauth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileTokenStore(path)

	t.Run("load before save", func(t *testing.T) {
		tok, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, tok)
	})

	token := NewAccessToken("abc", "Bearer", 3600,
		WithRefreshToken("refresh"),
		WithCreatedAt(time.Unix(1_700_000_000, 0)))

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, store.Save(token))

		fileInfo, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, token, loaded)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		tok, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, tok)
	})

	t.Run("corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{"), 0600))
		_, err := store.Load()
		assert.Error(t, err)
	})
}

func TestDefaultTokenStorePath(t *testing.T) {
	a := DefaultTokenStorePath("client", []string{"me"})
	b := DefaultTokenStorePath("client", []string{"me", "tournaments:read"})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, DefaultTokenStorePath("client", []string{"me"}))
	assert.Equal(t, ".json", filepath.Ext(a))
}

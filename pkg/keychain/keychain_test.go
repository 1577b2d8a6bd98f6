package keychain

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeychainSetGet(t *testing.T) {
	dir := t.TempDir()

	k, err := Open(dir)
	require.NoError(t, err)
	assert.False(t, k.Contains(TokenKey))

	require.NoError(t, k.Set(TokenKey, "secret_abc"))
	require.NoError(t, k.Set(DatabaseKey, "17b6e735087c8064af97df08ca641d9d"))

	reopened, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "secret_abc", reopened.Get(TokenKey))
	assert.Equal(t, []string{DatabaseKey, TokenKey}, reopened.Keys())

	if runtime.GOOS != "windows" {
		info, err := os.Stat(reopened.Path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	require.NoError(t, reopened.Remove(TokenKey))
	assert.False(t, reopened.Contains(TokenKey))
}

func TestKeychainNullFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("null"), 0o600))

	k, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, k.Set(TokenKey, "secret_abc"))
	assert.Equal(t, "secret_abc", k.Get(TokenKey))
}

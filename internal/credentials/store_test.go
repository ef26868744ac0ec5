package credentials

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymane70/taskman/internal/model"
)

func testCreds() Credentials {
	return Credentials{
		Token: "tok-123",
		User:  model.User{ID: "u-1", Username: "alice", Email: "alice@example.com"},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "nested", "credentials.json"))

	require.NoError(t, store.Save(testCreds()))

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", creds.Token)
	assert.Equal(t, "alice", creds.User.Username)
	assert.Equal(t, "alice@example.com", creds.User.Email)
}

func TestLoadMissingFile(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "credentials.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

	_, err := Open(path).Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"","user":{"id":"u-1"}}`), 0600))

	_, err := Open(path).Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRestrictsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := Open(path)

	require.NoError(t, store.Save(testCreds()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestClearRemovesFile(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, store.Save(testCreds()))

	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearIsIdempotent(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "credentials.json"))

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Clear())
}

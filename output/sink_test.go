package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_TruncateThenAppend(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, ".env", []byte("STALE=1\n"), 0o600))

	sink := NewFileSink(fs, ".env")
	require.NoError(t, sink.Truncate())
	require.NoError(t, sink.Append("TEST_ONE_USER", "admin"))
	require.NoError(t, sink.Append("TEST_ONE_PASSWORD", "adminpw"))

	data, err := util.ReadFile(fs, ".env")
	require.NoError(t, err)
	assert.Equal(t, "TEST_ONE_USER=admin\nTEST_ONE_PASSWORD=adminpw\n", string(data))
}

func TestFileSink_TruncateMissingFile(t *testing.T) {
	fs := memfs.New()
	sink := NewFileSink(fs, "out/.env")

	require.NoError(t, sink.Truncate())

	_, err := fs.Stat("out/.env")
	assert.True(t, os.IsNotExist(err), "truncate does not create the file")

	require.NoError(t, sink.Append("A", "1"))
	data, err := util.ReadFile(fs, "out/.env")
	require.NoError(t, err)
	assert.Equal(t, "A=1\n", string(data))
}

func TestOSFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.env")
	require.NoError(t, os.WriteFile(path, []byte("OLD=x\n"), 0o600))

	sink, err := NewOSFileSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Truncate())
	require.NoError(t, sink.Append("A", "1"))
	require.NoError(t, sink.Append("B", "2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.Truncate())
	assert.NoError(t, Discard.Append("A", "1"))
}

package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestCache(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		c, err := OpenCache(filepath.Join(t.TempDir(), "derive.cache"))
		require.NoError(t, err)
		assert.Zero(t, c.Len())
	})

	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cache", "derive.cache")
		file := filepath.Join(dir, "user_stringer_gen.go")
		content := []byte("package shop\n")
		require.NoError(t, os.WriteFile(file, content, 0o644))

		c, err := OpenCache(path)
		require.NoError(t, err)
		c.Store(file, "shop._User_Stringer", content)
		require.NoError(t, c.Save())

		reopened, err := OpenCache(path)
		require.NoError(t, err)
		e, ok := reopened.Lookup(file)
		require.True(t, ok)
		assert.Equal(t, CacheEntry{Unit: "shop._User_Stringer", Hash: Hash(content), Size: len(content)}, e)
		assert.True(t, reopened.Fresh(file, content))
		assert.False(t, reopened.Fresh(file, []byte("package other\n")))
	})

	t.Run("deleted file is not fresh", func(t *testing.T) {
		dir := t.TempDir()
		c, err := OpenCache(filepath.Join(dir, "derive.cache"))
		require.NoError(t, err)
		c.Store(filepath.Join(dir, "gone.go"), "u", []byte("x"))
		assert.False(t, c.Fresh(filepath.Join(dir, "gone.go"), []byte("x")))
	})

	t.Run("file changed on disk is not fresh", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "user_stringer_gen.go")
		content := []byte("package shop\n")
		require.NoError(t, os.WriteFile(file, content, 0o644))
		c, err := OpenCache(filepath.Join(dir, "derive.cache"))
		require.NoError(t, err)
		c.Store(file, "u", content)
		require.True(t, c.Fresh(file, content))

		require.NoError(t, os.WriteFile(file, []byte("package shoq\n"), 0o644))
		assert.False(t, c.Fresh(file, content), "same size, other bytes")
		require.NoError(t, os.WriteFile(file, []byte("package shop // edited\n"), 0o644))
		assert.False(t, c.Fresh(file, content), "other size")
	})

	t.Run("save without changes writes nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "derive.cache")
		c, err := OpenCache(path)
		require.NoError(t, err)
		require.NoError(t, c.Save())
		assert.NoFileExists(t, path)
	})

	t.Run("other schema version is ignored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "derive.cache")
		b, err := msgpack.Marshal(&cachePayload{
			Schema:  cacheSchemaVersion + 1,
			Entries: map[string]CacheEntry{"a.go": {Unit: "u"}},
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, b, 0o644))

		c, err := OpenCache(path)
		require.NoError(t, err)
		assert.Zero(t, c.Len())
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "derive.cache")
		require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0o644))
		_, err := OpenCache(path)
		require.Error(t, err)
	})

	t.Run("nil cache", func(t *testing.T) {
		var c *Cache
		c.Store("a.go", "u", nil)
		_, ok := c.Lookup("a.go")
		assert.False(t, ok)
		assert.False(t, c.Fresh("a.go", nil))
		assert.Zero(t, c.Len())
		assert.NoError(t, c.Save())
	})
}

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCacheHitAndMiss(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	doc := writeFile(t, dir, "a.yaml", "proof: {}\n")

	_, ok := c.Get(doc, "conventional/corrected")
	assert.False(t, ok)

	require.NoError(t, c.Set(doc, "conventional/corrected", true))
	grounded, ok := c.Get(doc, "conventional/corrected")
	assert.True(t, ok)
	assert.True(t, grounded)

	_, ok = c.Get(doc, "reference/corrected")
	assert.False(t, ok, "a different fingerprint must miss")
	assert.Equal(t, 0, c.Len(), "stale entries are dropped")
}

func TestCacheInvalidatesOnChange(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	doc := writeFile(t, dir, "a.yaml", "proof: {}\n")
	require.NoError(t, c.Set(doc, "fp", false))

	writeFile(t, dir, "a.yaml", "proof: {premises: [p]}\n")
	_, ok := c.Get(doc, "fp")
	assert.False(t, ok)
}

func TestCachePersistsAndExpires(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	doc := writeFile(t, dir, "a.yaml", "proof: {}\n")

	c, err := New(cacheDir)
	require.NoError(t, err)
	require.NoError(t, c.Set(doc, "fp", true))

	reopened, err := New(cacheDir)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
	_, ok := reopened.Get(doc, "fp")
	assert.True(t, ok)

	reopened.SetMaxAge(time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, ok = reopened.Get(doc, "fp")
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll())
	again, err := New(cacheDir)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Len())
}

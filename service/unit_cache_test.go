package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/analyzer"
)

func TestBuildUnitCache(t *testing.T) {
	files := filesOf(
		"c.py", queueSource,
		"a.py", gradebookSource,
		"b.py", gradebookSource,
		"d.py", brokenSource,
	)

	cache, err := BuildUnitCache(context.Background(), files, UnitCacheConfig{Options: analyzer.DefaultOptions(), Concurrency: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, cache.Len())
	assert.Equal(t, []string{"a.py", "b.py", "c.py", "d.py"}, cache.IDs())

	a, ok := cache.Get("a.py")
	require.True(t, ok)
	b, ok := cache.Get("b.py")
	require.True(t, ok)
	assert.Equal(t, "b.py", b.ID)
	assert.Same(t, a.NGrams, b.NGrams, "identical content is built once")
	assert.Same(t, a.Tree, b.Tree)

	d, _ := cache.Get("d.py")
	assert.NoError(t, d.TokenErr)
	assert.Error(t, d.TreeErr)

	_, ok = cache.Get("missing.py")
	assert.False(t, ok)
}

func TestUnitCache_SealedIsReadOnly(t *testing.T) {
	cache := NewUnitCache()
	cache.Put(&analyzer.SourceUnit{ID: "a.py"})
	cache.Seal()
	cache.Put(&analyzer.SourceUnit{ID: "b.py"})

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, []string{"a.py"}, cache.IDs())
}

func TestBuildUnitCache_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildUnitCache(ctx, filesOf("a.py", queueSource, "b.py", primesSource), UnitCacheConfig{Options: analyzer.DefaultOptions()})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeCancelled))
}

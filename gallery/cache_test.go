package gallery

import (
	"fmt"
	"testing"

	"github.com/creepcomp/gallerybot/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerCache(t *testing.T) {
	cache := NewOwnerCache()
	ref1 := platform.MessageRef{ChannelID: "C", Timestamp: "1.000000"}
	ref2 := platform.MessageRef{ChannelID: "C", Timestamp: "2.000000"}

	_, ok := cache.Get("42")
	assert.False(t, ok)

	cache.Put("42", ref1)
	got, ok := cache.Get("42")
	require.True(t, ok)
	assert.Equal(t, ref1, got)

	// A newer post overwrites the hint.
	cache.Put("42", ref2)
	got, _ = cache.Get("42")
	assert.Equal(t, ref2, got)

	cache.Forget("42")
	_, ok = cache.Get("42")
	assert.False(t, ok)
}

func TestOwnerCacheBounded(t *testing.T) {
	cache := NewOwnerCache()
	for i := 0; i < ownerCacheSize+10; i++ {
		cache.Put(fmt.Sprintf("U%d", i), platform.MessageRef{ChannelID: "C", Timestamp: "1.000000"})
	}

	// The oldest entries were evicted, the newest survive.
	_, ok := cache.Get("U0")
	assert.False(t, ok)
	_, ok = cache.Get(fmt.Sprintf("U%d", ownerCacheSize+9))
	assert.True(t, ok)
}

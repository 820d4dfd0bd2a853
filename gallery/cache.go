package gallery

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/creepcomp/gallerybot/platform"
)

// ownerCacheSize bounds the cache. Entries evicted or overwritten under
// concurrent uploads are tolerated: the cache is a lookup hint only, the
// history scanner is consulted whenever correctness matters.
const ownerCacheSize = 512

// OwnerCache maps an owner id to their most recently created post. It is
// never an authorization source.
type OwnerCache struct {
	entries *lru.Cache[string, platform.MessageRef]
}

func NewOwnerCache() *OwnerCache {
	entries, err := lru.New[string, platform.MessageRef](ownerCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &OwnerCache{entries: entries}
}

func (c *OwnerCache) Put(ownerID string, ref platform.MessageRef) {
	c.entries.Add(ownerID, ref)
}

func (c *OwnerCache) Get(ownerID string) (platform.MessageRef, bool) {
	return c.entries.Get(ownerID)
}

func (c *OwnerCache) Forget(ownerID string) {
	c.entries.Remove(ownerID)
}

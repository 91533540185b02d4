// Package cache provides caching backends that front preference storage.
package cache

import (
	"github.com/CreativeUnicorns/prefseditor"
)

var (
	_ prefseditor.Cache = (*MemoryCache)(nil)
	_ prefseditor.Cache = (*RedisCache)(nil)
)

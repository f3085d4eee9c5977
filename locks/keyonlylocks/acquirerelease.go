// Package keyonlylocks provides non-blocking locks that exist only as keys in a sync.Map.
// A caller either gets all its keys at once or none of them.
package keyonlylocks

import (
	"slices"
	"sync"
)

// AcquireLocks takes every key or none. Keys are taken in sorted order without duplicates.
func AcquireLocks(lockStore *sync.Map, keys []string) ([]string, bool) {
	keys = slices.Compact(slices.Sorted(slices.Values(keys)))
	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		_, loaded := lockStore.LoadOrStore(key, struct{}{})
		if loaded {
			// rollback previously acquired locks
			ReleaseLocks(lockStore, acquired)
			return nil, false
		}
		acquired = append(acquired, key)
	}
	return acquired, true
}

// ReleaseLocks delete locks from the lockStore *sync.Map
// Wrap this in deferred calls to guarantee to be called even if panic occurs.
func ReleaseLocks(lockStore *sync.Map, keys []string) {
	for _, key := range keys {
		lockStore.Delete(key)
	}
}

// TryLock is AcquireLocks returning the matching release func
func TryLock(lockStore *sync.Map, keys ...string) (release func(), ok bool) {
	acquired, ok := AcquireLocks(lockStore, keys)
	if !ok {
		return func() {}, false
	}
	return func() { ReleaseLocks(lockStore, acquired) }, true
}

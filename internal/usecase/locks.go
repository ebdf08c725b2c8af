package usecase

import "sync"

// keyedMutex serialises work per game id. Entries are dropped once nobody holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*keyedEntry),
	}
}

// Lock blocks until key is free and returns the matching unlock func.
func (that *keyedMutex) Lock(key string) func() {
	that.mu.Lock()
	entry, ok := that.locks[key]
	if !ok {
		entry = &keyedEntry{}
		that.locks[key] = entry
	}
	entry.refs++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, key)
		}
		that.mu.Unlock()
	}
}

func (that *keyedMutex) size() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.locks)
}

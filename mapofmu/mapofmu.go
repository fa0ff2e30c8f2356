// Package mapofmu provides locking per-key.
// For example, you can acquire a lock for a specific guild and command pair and all other
// requests for that pair will block until that entry is unlocked (effectively your work
// load will be run serially per-key), and yet have work for separate keys happen concurrently.
//
// https://stackoverflow.com/questions/40931373/how-to-gc-a-map-of-mutexes-in-go
package mapofmu

import (
	"context"
	"fmt"
	"sync"
)

// M wraps a map of per-key locks. Each key locks separately.
type M[K comparable] struct {
	ml sync.Mutex       // lock for entry map
	ma map[K]*mentry[K] // entry map
}

type mentry[K comparable] struct {
	m   *M[K]         // point back to M, so we can synchronize removing this mentry when cnt==0
	sem chan struct{} // entry-specific lock, held while the channel is full
	cnt int           // reference count
	key K             // key in ma
}

// Unlocker provides an Unlock method to release the lock.
type Unlocker interface {
	Unlock()
}

// New returns an initalized M.
func New[K comparable]() *M[K] {
	return &M[K]{ma: make(map[K]*mentry[K])}
}

func (m *M[K]) acquire(key K) *mentry[K] {
	m.ml.Lock()
	defer m.ml.Unlock()

	e, ok := m.ma[key]
	if !ok {
		e = &mentry[K]{m: m, key: key, sem: make(chan struct{}, 1)}
		m.ma[key] = e
	}
	e.cnt++
	return e
}

// release drops one reference, removing the entry once nobody holds or waits on it
func (m *M[K]) release(e *mentry[K]) {
	m.ml.Lock()
	defer m.ml.Unlock()

	cur, ok := m.ma[e.key]
	if !ok || cur != e {
		panic(fmt.Errorf("Unlock requested for key=%v but no entry found", e.key))
	}

	e.cnt--
	if e.cnt < 1 {
		delete(m.ma, e.key)
	}
}

// Lock acquires a lock corresponding to this key.
// This method will never return nil and Unlock() must be called
// to release the lock when done.
func (m *M[K]) Lock(key K) Unlocker {
	e := m.acquire(key)
	e.sem <- struct{}{}
	return e
}

// LockContext is Lock but gives up when ctx is done while waiting.
func (m *M[K]) LockContext(ctx context.Context, key K) (Unlocker, error) {
	e := m.acquire(key)

	select {
	case e.sem <- struct{}{}:
		return e, nil
	case <-ctx.Done():
		m.release(e)
		return nil, ctx.Err()
	}
}

// IsLocked returns true if the key is locked or has waiters.
func (m *M[K]) IsLocked(key K) bool {
	m.ml.Lock()
	_, ok := m.ma[key]
	m.ml.Unlock()
	return ok
}

// Len returns the number of keys currently held or waited on.
func (m *M[K]) Len() int {
	m.ml.Lock()
	defer m.ml.Unlock()
	return len(m.ma)
}

// Unlock releases the lock for this entry.
func (me *mentry[K]) Unlock() {
	// let the next waiter through before dropping our reference so the entry
	// stays in the map for it
	<-me.sem
	me.m.release(me)
}

// Package syncmap is a typed wrapper over sync.Map
//
// Sourced from https://www.reddit.com/r/golang/comments/twucb0/is_there_already_a_generic_threadsafe_map/
package syncmap

import "sync"

type Map[K comparable, V any] struct {
	m sync.Map
}

func (m *Map[K, V]) Delete(key K) { m.m.Delete(key) }

func (m *Map[K, V]) Load(key K) (value V, ok bool) {
	v, ok := m.m.Load(key)
	if !ok {
		return value, ok
	}
	return v.(V), ok
}

func (m *Map[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	v, loaded := m.m.LoadAndDelete(key)
	if !loaded {
		return value, loaded
	}
	return v.(V), loaded
}

// Swap stores value and returns the previous value if any
func (m *Map[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	p, loaded := m.m.Swap(key, value)
	if !loaded {
		return previous, loaded
	}
	return p.(V), loaded
}

func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(key, value any) bool { return f(key.(K), value.(V)) })
}

func (m *Map[K, V]) Store(key K, value V) { m.m.Store(key, value) }

// Filter returns every value for which keep returns true
func (m *Map[K, V]) Filter(keep func(key K, value V) bool) []V {
	var out []V
	m.Range(func(key K, value V) bool {
		if keep(key, value) {
			out = append(out, value)
		}
		return true
	})
	return out
}

// Length returns the number of items in the map.
func (m *Map[K, V]) Length() int {
	length := 0
	m.Range(func(key K, value V) bool {
		length++
		return true
	})
	return length
}

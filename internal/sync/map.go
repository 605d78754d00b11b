package sync

import "sync"

// Map is a generic map guarded by a RWMutex. Multi-step updates go through
// Update or WithLock so they observe and modify one consistent snapshot.
type Map[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m: make(map[K]V),
	}
}

// Load returns the value stored for key and whether it was present.
func (m *Map[K, V]) Load(key K) (value V, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok = m.m[key]
	return
}

func (m *Map[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}

// Update runs f on the current value of key under the write lock. f returns
// the value to store and whether to keep it; returning false deletes the
// key. Update returns what f returned.
func (m *Map[K, V]) Update(key K, f func(cur V, ok bool) (V, bool)) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.m[key]
	next, keep := f(cur, ok)
	if keep {
		m.m[key] = next
	} else {
		delete(m.m, key)
	}
	return next, keep
}

// View operates on a locked map. It is only valid inside WithLock.
type View[K comparable, V any] interface {
	Get(key K) (value V, ok bool)
	Set(key K, value V)
	Delete(key K)
	// Range calls f for each entry until f returns false. Deleting the
	// current key from f is allowed.
	Range(f func(key K, value V) bool)
	Len() int
}

type mapView[K comparable, V any] struct {
	m map[K]V
}

func (mv *mapView[K, V]) Get(key K) (value V, ok bool) {
	value, ok = mv.m[key]
	return
}

func (mv *mapView[K, V]) Set(key K, value V) {
	mv.m[key] = value
}

func (mv *mapView[K, V]) Delete(key K) {
	delete(mv.m, key)
}

func (mv *mapView[K, V]) Range(f func(key K, value V) bool) {
	for k, v := range mv.m {
		if !f(k, v) {
			break
		}
	}
}

func (mv *mapView[K, V]) Len() int {
	return len(mv.m)
}

// WithLock runs f while holding the write lock. The lock is released even
// if f panics.
//
//	m.WithLock(func(v sync.View[string, *entry]) {
//		e, ok := v.Get(key)
//		if ok && e.stale() {
//			v.Delete(key)
//		}
//	})
func (m *Map[K, V]) WithLock(f func(view View[K, V])) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f(&mapView[K, V]{m: m.m})
}

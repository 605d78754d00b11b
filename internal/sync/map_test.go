package sync

import (
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func set[K comparable, V any](m *Map[K, V], key K, value V) {
	m.Update(key, func(V, bool) (V, bool) { return value, true })
}

func TestMap_LoadNonExistent(t *testing.T) {
	m := NewMap[string, int]()

	value, ok := m.Load("nonexistent")
	assert.False(t, ok)
	assert.Equal(t, 0, value)
}

func TestMap_UpdateInserts(t *testing.T) {
	m := NewMap[string, int]()

	got, kept := m.Update("entry-1", func(cur int, ok bool) (int, bool) {
		assert.False(t, ok)
		assert.Equal(t, 0, cur)
		return 11, true
	})
	assert.True(t, kept)
	assert.Equal(t, 11, got)

	value, ok := m.Load("entry-1")
	assert.True(t, ok)
	assert.Equal(t, 11, value)
	assert.Equal(t, 1, m.Len())
}

func TestMap_UpdateSeesCurrent(t *testing.T) {
	m := NewMap[string, int]()
	set(m, "entry-1", 10)

	m.Update("entry-1", func(cur int, ok bool) (int, bool) {
		assert.True(t, ok)
		return cur + 1, true
	})

	value, _ := m.Load("entry-1")
	assert.Equal(t, 11, value)
}

func TestMap_UpdateDeletes(t *testing.T) {
	m := NewMap[string, int]()
	set(m, "entry-1", 10)

	_, kept := m.Update("entry-1", func(int, bool) (int, bool) { return 0, false })
	assert.False(t, kept)

	_, ok := m.Load("entry-1")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMap_UpdateMissingNoop(t *testing.T) {
	m := NewMap[string, int]()

	// declining to keep a key that never existed leaves the map empty
	m.Update("entry-1", func(cur int, ok bool) (int, bool) { return cur, ok })
	assert.Equal(t, 0, m.Len())
}

func TestMap_Delete(t *testing.T) {
	m := NewMap[string, int]()
	set(m, "key1", 42)

	m.Delete("key1")
	m.Delete("missing")

	_, ok := m.Load("key1")
	assert.False(t, ok)
}

func TestMap_ConcurrentUpdate(t *testing.T) {
	m := NewMap[string, int]()

	var wg gosync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update("counter", func(cur int, _ bool) (int, bool) { return cur + 1, true })
		}()
	}
	wg.Wait()

	value, _ := m.Load("counter")
	assert.Equal(t, 50, value)
}

func TestMap_WithLock_GetAndSet(t *testing.T) {
	m := NewMap[string, int]()
	set(m, "key1", 10)
	set(m, "key2", 20)

	m.WithLock(func(view View[string, int]) {
		val1, ok1 := view.Get("key1")
		val2, ok2 := view.Get("key2")
		assert.True(t, ok1)
		assert.True(t, ok2)
		view.Set("sum", val1+val2)
	})

	sum, ok := m.Load("sum")
	assert.True(t, ok)
	assert.Equal(t, 30, sum)
}

func TestMap_WithLock_RangeDelete(t *testing.T) {
	m := NewMap[string, int]()
	set(m, "key1", 1)
	set(m, "key2", 2)
	set(m, "key3", 3)

	var length int
	m.WithLock(func(view View[string, int]) {
		view.Range(func(key string, value int) bool {
			if value%2 == 1 {
				view.Delete(key)
			}
			return true
		})
		length = view.Len()
	})

	assert.Equal(t, 1, length)
	_, ok := m.Load("key2")
	assert.True(t, ok)
}

func TestMap_WithLock_RangeStopEarly(t *testing.T) {
	m := NewMap[string, int]()
	set(m, "key1", 1)
	set(m, "key2", 2)
	set(m, "key3", 3)

	count := 0
	m.WithLock(func(view View[string, int]) {
		view.Range(func(string, int) bool {
			count++
			return count < 2
		})
	})
	assert.Equal(t, 2, count)
}

func TestMap_WithLock_Panic(t *testing.T) {
	m := NewMap[string, int]()
	set(m, "key1", 1)

	func() {
		defer func() {
			_ = recover()
		}()
		m.WithLock(func(view View[string, int]) {
			view.Set("key2", 2)
			panic("test panic")
		})
	}()

	// lock must be free again
	value, ok := m.Load("key1")
	assert.True(t, ok)
	assert.Equal(t, 1, value)
}

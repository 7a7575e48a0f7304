// Package memory implements the process-lifetime registries behind the clinical-records service.
package memory

// orderedIndex maps keys to values while remembering insertion order.
// It is not safe for concurrent use; stores guard it with their own lock.
type orderedIndex[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

func newOrderedIndex[K comparable, V any]() *orderedIndex[K, V] {
	return &orderedIndex[K, V]{items: make(map[K]V)}
}

func (ix *orderedIndex[K, V]) get(k K) (V, bool) {
	v, ok := ix.items[k]
	return v, ok
}

func (ix *orderedIndex[K, V]) has(k K) bool {
	_, ok := ix.items[k]
	return ok
}

// put inserts or replaces. A replaced key keeps its original position.
func (ix *orderedIndex[K, V]) put(k K, v V) {
	if _, ok := ix.items[k]; !ok {
		ix.keys = append(ix.keys, k)
	}
	ix.items[k] = v
}

func (ix *orderedIndex[K, V]) remove(k K) (V, bool) {
	v, ok := ix.items[k]
	if !ok {
		return v, false
	}
	delete(ix.items, k)
	for i, key := range ix.keys {
		if key == k {
			ix.keys = append(ix.keys[:i], ix.keys[i+1:]...)
			break
		}
	}
	return v, true
}

func (ix *orderedIndex[K, V]) values() []V {
	out := make([]V, 0, len(ix.keys))
	for _, k := range ix.keys {
		out = append(out, ix.items[k])
	}
	return out
}

func (ix *orderedIndex[K, V]) len() int {
	return len(ix.keys)
}

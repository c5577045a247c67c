package expr

// Map is a hash map keyed by structural expression equality.
// The zero value is not usable; create maps with NewMap.
type Map[V any] struct {
	buckets map[uint64][]mapEntry[V]
	n       int
}

type mapEntry[V any] struct {
	key   *Expr
	value V
}

// NewMap creates an empty map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{buckets: make(map[uint64][]mapEntry[V])}
}

// Set associates value with every expression equal to key.
func (m *Map[V]) Set(key *Expr, value V) {
	h := key.Hash()
	bucket := m.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			bucket[i].value = value
			return
		}
	}
	m.buckets[h] = append(bucket, mapEntry[V]{key: key, value: value})
	m.n++
}

// Get returns the value stored for an expression equal to key.
func (m *Map[V]) Get(key *Expr) (V, bool) {
	if m != nil && key != nil {
		for _, e := range m.buckets[key.Hash()] {
			if e.key.Equal(key) {
				return e.value, true
			}
		}
	}
	var zero V
	return zero, false
}

// Delete removes key from the map.
func (m *Map[V]) Delete(key *Expr) {
	h := key.Hash()
	bucket := m.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			m.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			if len(m.buckets[h]) == 0 {
				delete(m.buckets, h)
			}
			m.n--
			return
		}
	}
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return m.n
}

// Range calls fn for every entry until fn returns false. Iteration order is unspecified.
func (m *Map[V]) Range(fn func(key *Expr, value V) bool) {
	if m == nil {
		return
	}
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Walk visits e and its expression arguments in pre-order, left to right.
// Type arguments are not visited. Returning false from fn skips the children.
func Walk(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, a := range e.args {
		if sub, ok := a.(*Expr); ok {
			Walk(sub, fn)
		}
	}
}

// Generators returns the distinct generator leaves of e in order of first appearance.
func Generators(e *Expr) []*Expr {
	seen := NewMap[struct{}]()
	var out []*Expr
	Walk(e, func(x *Expr) bool {
		if x.IsGenerator() {
			if _, ok := seen.Get(x); !ok {
				seen.Set(x, struct{}{})
				out = append(out, x)
			}
			return false
		}
		return true
	})
	return out
}

// SPDX-License-Identifier: MIT

// Package worm provides a write-once keyed container.
//
// A Builder accepts each key exactly once; a second Put for the same key fails
// with ErrDuplicateKey. Build finalizes the contents into an immutable Map.
// Neither type offers a delete operation. Insertion order is preserved and is
// the iteration order of Keys and Values.
package worm

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned by Builder.Put when the key is already present.
var ErrDuplicateKey = errors.New("worm: duplicate key")

// Builder accumulates key/value pairs. The zero value is ready to use.
// A Builder is not safe for concurrent use.
type Builder[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

// NewBuilder returns a Builder with room for capacity entries.
func NewBuilder[K comparable, V any](capacity int) *Builder[K, V] {
	if capacity < 0 {
		capacity = 0
	}

	return &Builder[K, V]{
		keys:  make([]K, 0, capacity),
		index: make(map[K]int, capacity),
		vals:  make([]V, 0, capacity),
	}
}

// Put inserts key → val.
//
// Errors:
//   - ErrDuplicateKey when key was inserted before; the builder is unchanged.
func (b *Builder[K, V]) Put(key K, val V) error {
	if b.index == nil {
		b.index = make(map[K]int)
	}
	if _, ok := b.index[key]; ok {
		return fmt.Errorf("Put(%v): %w", key, ErrDuplicateKey)
	}
	b.index[key] = len(b.keys)
	b.keys = append(b.keys, key)
	b.vals = append(b.vals, val)

	return nil
}

// Contains reports whether key was inserted.
func (b *Builder[K, V]) Contains(key K) bool {
	_, ok := b.index[key]
	return ok
}

// Len returns the number of inserted entries.
func (b *Builder[K, V]) Len() int { return len(b.keys) }

// Build returns an immutable snapshot of the current contents. The builder
// stays usable; later Puts do not affect maps built earlier.
func (b *Builder[K, V]) Build() Map[K, V] {
	keys := make([]K, len(b.keys))
	copy(keys, b.keys)
	vals := make([]V, len(b.vals))
	copy(vals, b.vals)
	index := make(map[K]int, len(b.index))
	for k, i := range b.index {
		index[k] = i
	}

	return Map[K, V]{keys: keys, index: index, vals: vals}
}

// Map is an immutable, insertion-ordered mapping. The zero value is empty.
type Map[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

// FromPairs builds a Map from parallel key and value slices.
//
// Errors:
//   - ErrDuplicateKey if keys repeats an entry.
//   - a plain error when the slice lengths differ.
func FromPairs[K comparable, V any](keys []K, vals []V) (Map[K, V], error) {
	if len(keys) != len(vals) {
		return Map[K, V]{}, fmt.Errorf("worm: FromPairs: %d keys, %d values", len(keys), len(vals))
	}
	b := NewBuilder[K, V](len(keys))
	for i, k := range keys {
		if err := b.Put(k, vals[i]); err != nil {
			return Map[K, V]{}, err
		}
	}

	return b.Build(), nil
}

// Get returns the value for key and whether it was present.
func (m Map[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}

	return m.vals[i], true
}

// IndexOf returns the insertion position of key, or -1.
func (m Map[K, V]) IndexOf(key K) int {
	if i, ok := m.index[key]; ok {
		return i
	}

	return -1
}

// Contains reports whether key is present.
func (m Map[K, V]) Contains(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Len returns the number of entries.
func (m Map[K, V]) Len() int { return len(m.keys) }

// Keys returns a copy of the keys in insertion order.
func (m Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)

	return out
}

// Values returns a copy of the values in insertion order.
func (m Map[K, V]) Values() []V {
	out := make([]V, len(m.vals))
	copy(out, m.vals)

	return out
}

// With returns a new Map holding m's entries plus key → val.
//
// Errors:
//   - ErrDuplicateKey when key is already present; m is unchanged either way.
func (m Map[K, V]) With(key K, val V) (Map[K, V], error) {
	if m.Contains(key) {
		return m, fmt.Errorf("With(%v): %w", key, ErrDuplicateKey)
	}
	b := m.Builder()
	_ = b.Put(key, val)

	return b.Build(), nil
}

// Builder returns a new Builder seeded with m's entries.
func (m Map[K, V]) Builder() *Builder[K, V] {
	b := NewBuilder[K, V](len(m.keys) + 1)
	for i, k := range m.keys {
		_ = b.Put(k, m.vals[i]) // keys in m are unique by construction
	}

	return b
}

// Range calls f for each entry in insertion order until f returns false.
func (m Map[K, V]) Range(f func(key K, val V) bool) {
	for i, k := range m.keys {
		if !f(k, m.vals[i]) {
			return
		}
	}
}

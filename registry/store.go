// Package registry provides the keyed stores backing the platform:
// an insertion-ordered store for proposals and plain maps for profiles.
package registry

import (
	"github.com/pkg/errors"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
)

// Store is a keyed collection that iterates in insertion order. Removal
// is not supported: entries persist for the life of the platform.
type Store[K comparable, V any] struct {
	order []K
	items map[K]V
}

func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		items: make(map[K]V),
	}
}

func (s *Store[K, V]) Insert(key K, value V) error {
	if _, ok := s.items[key]; ok {
		return errors.Wrapf(ErrDuplicateKey, "key %v", key)
	}
	s.items[key] = value
	s.order = append(s.order, key)
	return nil
}

func (s *Store[K, V]) Get(key K) (V, error) {
	value, ok := s.items[key]
	if !ok {
		var zero V
		return zero, errors.Wrapf(ErrNotFound, "key %v", key)
	}
	return value, nil
}

func (s *Store[K, V]) Has(key K) bool {
	_, ok := s.items[key]
	return ok
}

func (s *Store[K, V]) Len() int {
	return len(s.order)
}

// Keys returns the keys in insertion order.
func (s *Store[K, V]) Keys() []K {
	keys := make([]K, len(s.order))
	copy(keys, s.order)
	return keys
}

// Range visits entries in insertion order until fn returns false.
func (s *Store[K, V]) Range(fn func(key K, value V) bool) {
	for _, key := range s.order {
		if !fn(key, s.items[key]) {
			return
		}
	}
}

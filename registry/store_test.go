package registry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestInsertAndGet(t *testing.T) {
	s := NewStore[uint64, string]()

	assert.Nil(t, s.Insert(1, "one"))
	assert.Nil(t, s.Insert(2, "two"))

	v, err := s.Get(1)
	assert.Nil(t, err)
	assert.Equal(t, "one", v)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(2))
	assert.False(t, s.Has(3))
}

func TestInsertDuplicate(t *testing.T) {
	s := NewStore[uint64, string]()

	assert.Nil(t, s.Insert(1, "one"))
	err := s.Insert(1, "again")
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	v, _ := s.Get(1)
	assert.Equal(t, "one", v)
}

func TestGetMissing(t *testing.T) {
	s := NewStore[uint64, string]()

	_, err := s.Get(42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInsertionOrder(t *testing.T) {
	s := NewStore[uint64, string]()

	for _, k := range []uint64{7, 3, 9, 1} {
		assert.Nil(t, s.Insert(k, ""))
	}

	assert.Equal(t, []uint64{7, 3, 9, 1}, s.Keys())

	var visited []uint64
	s.Range(func(k uint64, _ string) bool {
		visited = append(visited, k)
		return true
	})
	assert.Equal(t, []uint64{7, 3, 9, 1}, visited)
}

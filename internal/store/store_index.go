package store

import (
	"slices"
)

// Index maps a key to the rows carrying it, in the rows' original order.
// It is built once and never written afterwards, so concurrent readers need no lock.
type Index[T any] struct {
	rows map[int64][]T
}

// IndexBy builds an Index over rows. key returns false for rows whose key is
// absent (a nil foreign key); those rows are left out.
func IndexBy[T any](rows []T, key func(T) (int64, bool)) Index[T] {
	ix := Index[T]{rows: make(map[int64][]T)}
	for _, r := range rows {
		k, ok := key(r)
		if !ok {
			continue
		}
		ix.rows[k] = append(ix.rows[k], r)
	}
	return ix
}

// Lookup returns the rows for k. The slice must not be modified.
func (ix Index[T]) Lookup(k int64) []T {
	return ix.rows[k]
}

// Has reports whether any row carries k.
func (ix Index[T]) Has(k int64) bool {
	_, ok := ix.rows[k]
	return ok
}

// Keys returns the distinct keys in ascending order.
func (ix Index[T]) Keys() []int64 {
	keys := make([]int64, 0, len(ix.rows))
	for k := range ix.rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len is the number of distinct keys.
func (ix Index[T]) Len() int {
	return len(ix.rows)
}

// Keyed serves a primary key index as a join lookup: at most one row per key.
type Keyed[T any] struct {
	rows []T
	byID map[int64]int
}

// Lookup returns the row with id k, or nil.
func (k Keyed[T]) Lookup(id int64) []T {
	i, ok := k.byID[id]
	if !ok {
		return nil
	}
	return k.rows[i : i+1 : i+1]
}

func ref(p *int64) (int64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

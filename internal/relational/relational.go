// Package relational provides the join, filter and project operators the
// reports are composed from. Every operator preserves the iteration order of
// its left (or only) input, so report output is reproducible.
package relational

import (
	"iter"
	"slices"
)

// Pair is one joined row.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// Optional is the right side of a left join: either a matched value or no match.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, ok: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

func (o Optional[T]) Present() bool { return o.ok }

// OrElse returns the value, or def when there was no match.
func (o Optional[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

// Lookup is a hash index from a join key to the rows carrying it.
// store.Index and store.Keyed satisfy it for int64 keys.
type Lookup[K comparable, R any] interface {
	Lookup(K) []R
}

// Table is an ad hoc hash index for keys the store does not index,
// such as composite keys.
type Table[K comparable, R any] map[K][]R

// Build hashes rows by key, keeping their order within each key.
func Build[K comparable, R any](rows []R, key func(R) K) Table[K, R] {
	t := make(Table[K, R], len(rows))
	for _, r := range rows {
		k := key(r)
		t[k] = append(t[k], r)
	}
	return t
}

func (t Table[K, R]) Lookup(k K) []R { return t[k] }

// Join pairs each left row with every right row whose key equals key(l).
// Output follows left order, then right order within a key.
func Join[L any, K comparable, R any](left []L, right Lookup[K, R], key func(L) K) []Pair[L, R] {
	out := make([]Pair[L, R], 0, len(left))
	for _, l := range left {
		for _, r := range right.Lookup(key(l)) {
			out = append(out, Pair[L, R]{Left: l, Right: r})
		}
	}
	return out
}

// JoinOn hashes right by rightKey and joins it to left.
func JoinOn[L, R any, K comparable](left []L, right []R, leftKey func(L) K, rightKey func(R) K) []Pair[L, R] {
	return Join(left, Lookup[K, R](Build(right, rightKey)), leftKey)
}

// LeftJoin is Join that keeps left rows without a match, paired with None.
// key returns false when the left row has no key at all (a nil reference).
func LeftJoin[L any, K comparable, R any](left []L, right Lookup[K, R], key func(L) (K, bool)) []Pair[L, Optional[R]] {
	out := make([]Pair[L, Optional[R]], 0, len(left))
	for _, l := range left {
		k, ok := key(l)
		var matches []R
		if ok {
			matches = right.Lookup(k)
		}
		if len(matches) == 0 {
			out = append(out, Pair[L, Optional[R]]{Left: l, Right: None[R]()})
			continue
		}
		for _, r := range matches {
			out = append(out, Pair[L, Optional[R]]{Left: l, Right: Some(r)})
		}
	}
	return out
}

// LeftJoinOn hashes right by rightKey and left-joins it to left.
func LeftJoinOn[L, R any, K comparable](left []L, right []R, leftKey func(L) (K, bool), rightKey func(R) K) []Pair[L, Optional[R]] {
	return LeftJoin(left, Lookup[K, R](Build(right, rightKey)), leftKey)
}

// Filter yields the rows of seq satisfying pred. It is lazy: pred runs only
// as the result is iterated.
func Filter[T any](seq iter.Seq[T], pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if pred(v) && !yield(v) {
				return
			}
		}
	}
}

// Where is Filter over a slice, collected.
func Where[T any](rows []T, pred func(T) bool) []T {
	return slices.Collect(Filter(slices.Values(rows), pred))
}

// Project maps every row of seq through fn, lazily.
func Project[T, U any](seq iter.Seq[T], fn func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range seq {
			if !yield(fn(v)) {
				return
			}
		}
	}
}

// Select is Project over a slice, collected.
func Select[T, U any](rows []T, fn func(T) U) []U {
	out := make([]U, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}

// Distinct keeps the first row for every key, in order.
func Distinct[T any, K comparable](rows []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

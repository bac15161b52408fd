// Package aggregate groups rows and reduces each group to aggregate values.
// Sums stay in integers (money is int64 cents) and averages and rates are
// exact Ratios, so results do not depend on row count or order.
package aggregate

import (
	"cmp"
	"iter"

	"go-hris-analytics/internal/shared/money"
)

// Integer is what Sum and Avg accept; money.Money qualifies.
type Integer interface {
	~int | ~int32 | ~int64
}

// Group is one key and its rows in input order.
type Group[K comparable, T any] struct {
	Key  K
	Rows []T
}

// Groups keeps groups in order of each key's first appearance.
type Groups[K comparable, T any] struct {
	order []K
	rows  map[K][]T
}

// GroupBy partitions rows by key. Key equality is ==, so keys should be
// calendar days (not instants), cents or ids, never floats.
func GroupBy[T any, K comparable](rows []T, key func(T) K) Groups[K, T] {
	g := Groups[K, T]{rows: make(map[K][]T)}
	for _, r := range rows {
		k := key(r)
		if _, ok := g.rows[k]; !ok {
			g.order = append(g.order, k)
		}
		g.rows[k] = append(g.rows[k], r)
	}
	return g
}

func (g Groups[K, T]) Len() int { return len(g.order) }

func (g Groups[K, T]) Keys() []K { return g.order }

// Get returns the rows for k, nil when the group does not exist.
func (g Groups[K, T]) Get(k K) []T { return g.rows[k] }

// All yields every group in order.
func (g Groups[K, T]) All() iter.Seq2[K, []T] {
	return func(yield func(K, []T) bool) {
		for _, k := range g.order {
			if !yield(k, g.rows[k]) {
				return
			}
		}
	}
}

// List returns the groups as a slice, in order.
func (g Groups[K, T]) List() []Group[K, T] {
	out := make([]Group[K, T], 0, len(g.order))
	for k, rows := range g.All() {
		out = append(out, Group[K, T]{Key: k, Rows: rows})
	}
	return out
}

func CountWhere[T any](rows []T, pred func(T) bool) int {
	n := 0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return n
}

func CountDistinctOf[T any, K comparable](rows []T, key func(T) K) int {
	seen := make(map[K]struct{}, len(rows))
	for _, r := range rows {
		seen[key(r)] = struct{}{}
	}
	return len(seen)
}

func SumOf[T any, N Integer](rows []T, fn func(T) N) N {
	var total N
	for _, r := range rows {
		total += fn(r)
	}
	return total
}

// AvgOf is the exact mean, undefined for no rows.
func AvgOf[T any, N Integer](rows []T, fn func(T) N) Ratio {
	return NewRatio(int64(SumOf(rows, fn)), int64(len(rows)))
}

// AvgMoneyOf is the mean amount in currency units, undefined for no rows.
func AvgMoneyOf[T any](rows []T, fn func(T) money.Money) Ratio {
	return MoneyPer(SumOf(rows, fn), int64(len(rows)))
}

// MinOf returns the smallest value; ok is false for no rows.
func MinOf[T any, V cmp.Ordered](rows []T, fn func(T) V) (v V, ok bool) {
	for i, r := range rows {
		x := fn(r)
		if i == 0 || x < v {
			v = x
		}
	}
	return v, len(rows) > 0
}

// MaxOf returns the largest value; ok is false for no rows.
func MaxOf[T any, V cmp.Ordered](rows []T, fn func(T) V) (v V, ok bool) {
	for i, r := range rows {
		x := fn(r)
		if i == 0 || x > v {
			v = x
		}
	}
	return v, len(rows) > 0
}

// ArgMax returns the first row with the largest value of fn.
func ArgMax[T any, V cmp.Ordered](rows []T, fn func(T) V) (best T, ok bool) {
	var bestV V
	for i, r := range rows {
		if v := fn(r); i == 0 || v > bestV {
			best, bestV = r, v
		}
	}
	return best, len(rows) > 0
}

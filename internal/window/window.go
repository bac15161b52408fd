// Package window assigns ranks within partitions, the way RANK() OVER
// (PARTITION BY ... ORDER BY ...) does.
package window

import (
	"cmp"
	"slices"
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Ranked is a row with its competition rank inside its partition.
// Partition is the partition's position in the output, from 0.
type Ranked[T any] struct {
	Row       T
	Rank      int
	Partition int
}

// Ordering describes one ranking.
type Ordering[T any, P comparable] struct {
	// Partition groups rows; partitions are emitted in order of first appearance.
	Partition func(T) P
	// Compare orders rows ascending; Direction may reverse it.
	Compare   func(a, b T) int
	Direction Direction
	// ID breaks ties in the output order, always ascending. It never
	// affects the rank itself.
	ID        func(T) int64
}

// By builds a Compare function from an ordered key.
func By[T any, V cmp.Ordered](key func(T) V) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// Rank sorts every partition and assigns standard competition ranks: tied
// rows share a rank and the next distinct value skips past them (1, 2, 2, 4).
func Rank[T any, P comparable](rows []T, o Ordering[T, P]) []Ranked[T] {
	var order []P
	parts := make(map[P][]T)
	for _, r := range rows {
		k := o.Partition(r)
		if _, ok := parts[k]; !ok {
			order = append(order, k)
		}
		parts[k] = append(parts[k], r)
	}

	byValue := o.Compare
	if o.Direction == Desc {
		byValue = func(a, b T) int { return o.Compare(b, a) }
	}

	out := make([]Ranked[T], 0, len(rows))
	for pi, k := range order {
		part := slices.Clone(parts[k])
		slices.SortStableFunc(part, func(a, b T) int {
			if c := byValue(a, b); c != 0 {
				return c
			}
			return cmp.Compare(o.ID(a), o.ID(b))
		})

		rank := 0
		for i, r := range part {
			if i == 0 || byValue(part[i-1], r) != 0 {
				rank = i + 1
			}
			out = append(out, Ranked[T]{Row: r, Rank: rank, Partition: pi})
		}
	}
	return out
}

// LimitPerPartition keeps rows ranked n or better, and never more than n rows
// of one partition. A tie straddling the cut keeps the lower ids, the same
// order Rank emitted them in.
func LimitPerPartition[T any](ranked []Ranked[T], n int) []Ranked[T] {
	out := make([]Ranked[T], 0, len(ranked))
	kept, current := 0, -1
	for _, r := range ranked {
		if r.Partition != current {
			kept, current = 0, r.Partition
		}
		if r.Rank <= n && kept < n {
			out = append(out, r)
			kept++
		}
	}
	return out
}

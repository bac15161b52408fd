package aggregate

import (
	"cmp"

	"go-hris-analytics/internal/shared/money"
)

// Record holds one group's aggregate results by reducer name.
type Record map[string]any

// Reducer computes one named aggregate over a group. Reducers run in the order
// given to Reduce and may read the results of earlier ones from acc.
type Reducer[T any] struct {
	Name string
	Fn   func(rows []T, acc Record) any
}

// Reduce applies reducers to rows in order.
func Reduce[T any](rows []T, reducers ...Reducer[T]) Record {
	rec := make(Record, len(reducers))
	for _, r := range reducers {
		rec[r.Name] = r.Fn(rows, rec)
	}
	return rec
}

func Count[T any](name string) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any { return len(rows) }}
}

func CountIf[T any](name string, pred func(T) bool) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any { return CountWhere(rows, pred) }}
}

func CountDistinct[T any, K comparable](name string, key func(T) K) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any { return CountDistinctOf(rows, key) }}
}

func Sum[T any, N Integer](name string, fn func(T) N) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any { return SumOf(rows, fn) }}
}

func Avg[T any, N Integer](name string, fn func(T) N) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any { return AvgOf(rows, fn) }}
}

func AvgMoney[T any](name string, fn func(T) money.Money) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any { return AvgMoneyOf(rows, fn) }}
}

// Min yields nil for an empty group.
func Min[T any, V cmp.Ordered](name string, fn func(T) V) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any {
		if v, ok := MinOf(rows, fn); ok {
			return v
		}
		return nil
	}}
}

// Max yields nil for an empty group.
func Max[T any, V cmp.Ordered](name string, fn func(T) V) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(rows []T, _ Record) any {
		if v, ok := MaxOf(rows, fn); ok {
			return v
		}
		return nil
	}}
}

// RatioOf derives num/den from two earlier integer results, such as a count
// of absences over a count of rows. A zero denominator is Undefined, never a panic.
func RatioOf[T any](name, num, den string) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(_ []T, acc Record) any {
		n, okN := asInt64(acc[num])
		d, okD := asInt64(acc[den])
		if !okN || !okD {
			return Ratio{}
		}
		return NewRatio(n, d)
	}}
}

// MoneyRatioOf derives an amount per unit from an earlier money sum and an
// earlier count, e.g. budget per team member.
func MoneyRatioOf[T any](name, amount, count string) Reducer[T] {
	return Reducer[T]{Name: name, Fn: func(_ []T, acc Record) any {
		a, okA := acc[amount].(money.Money)
		n, okN := asInt64(acc[count])
		if !okA || !okN {
			return Ratio{}
		}
		return MoneyPer(a, n)
	}}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case money.Money:
		return x.Cents(), true
	}
	return 0, false
}

package aggregate

import (
	"math/big"

	"go-hris-analytics/internal/shared/money"
)

// Undefined is how an undefined Ratio renders for people.
const Undefined = "N/A"

const defaultScale = 4

// Ratio is an exact quotient, or undefined when its denominator was zero.
// The zero value is undefined. Scale is the number of decimals it renders with.
type Ratio struct {
	r        *big.Rat
	scale    int
	currency bool
}

// NewRatio returns num/den, undefined when den is zero.
func NewRatio(num, den int64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{r: big.NewRat(num, den), scale: defaultScale}
}

// MoneyPer divides an amount by a count; the result is in currency units with
// two decimals. Zero count is undefined.
func MoneyPer(amount money.Money, n int64) Ratio {
	if n == 0 {
		return Ratio{}
	}
	return Ratio{r: big.NewRat(amount.Cents(), n*100), scale: 2, currency: true}
}

// Divide returns a/b for two ratios, undefined if either is or b is zero.
func Divide(a, b Ratio) Ratio {
	if !a.Defined() || !b.Defined() || b.r.Sign() == 0 {
		return Ratio{}
	}
	return Ratio{r: new(big.Rat).Quo(a.r, b.r), scale: a.scale}
}

// WithScale returns r rendering with the given number of decimals.
func (r Ratio) WithScale(places int) Ratio {
	r.scale = places
	return r
}

func (r Ratio) Defined() bool { return r.r != nil }

func (r Ratio) Scale() int { return r.scale }

// IsCurrency reports a ratio built from money, such as an average salary.
// Divide of two ratios is never currency.
func (r Ratio) IsCurrency() bool { return r.currency }

// Rat returns a copy of the exact value, or nil when undefined.
func (r Ratio) Rat() *big.Rat {
	if r.r == nil {
		return nil
	}
	return new(big.Rat).Set(r.r)
}

// Float64 is the nearest float, for charts and metrics only.
func (r Ratio) Float64() (float64, bool) {
	if r.r == nil {
		return 0, false
	}
	f, _ := r.r.Float64()
	return f, true
}

// Money rounds the ratio, read as currency units, to the cent.
func (r Ratio) Money() (money.Money, bool) {
	if r.r == nil {
		return 0, false
	}
	return money.MustParse(r.r.FloatString(2)), true
}

// Cmp orders ratios by value. An undefined ratio sorts before every defined one
// and equal to another undefined ratio.
func (r Ratio) Cmp(o Ratio) int {
	switch {
	case r.r == nil && o.r == nil:
		return 0
	case r.r == nil:
		return -1
	case o.r == nil:
		return 1
	}
	return r.r.Cmp(o.r)
}

// String renders the value rounded half away from zero, or "N/A".
func (r Ratio) String() string {
	if r.r == nil {
		return Undefined
	}
	return r.r.FloatString(r.scale)
}

// MarshalJSON writes a JSON number, or null when undefined.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.r == nil {
		return []byte("null"), nil
	}
	return []byte(r.r.FloatString(r.scale)), nil
}

package money

import (
	"database/sql/driver"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Money is an amount in the smallest currency unit (cents). All arithmetic
// stays in integers so sums over any number of rows never drift.
type Money int64

const centsPerUnit = 100

// FromUnits builds an amount from whole units and cents, e.g. FromUnits(12, 50) = 12.50.
func FromUnits(units, cents int64) Money {
	if units < 0 {
		return Money(units*centsPerUnit - cents)
	}
	return Money(units*centsPerUnit + cents)
}

// Parse reads a decimal string such as "1234.5", "-10.05" or "85000".
// More than two fractional digits is an error rather than a silent rounding,
// and so is an amount outside the int64 cent range.
func Parse(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("money: empty amount")
	}

	s = raw
	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" && (!hasFrac || fracPart == "") {
		return 0, fmt.Errorf("money: invalid amount %q", raw)
	}
	if !digits(intPart) || !digits(fracPart) {
		return 0, fmt.Errorf("money: invalid amount %q", raw)
	}
	if len(fracPart) > 2 {
		if strings.TrimRight(fracPart[2:], "0") != "" {
			return 0, fmt.Errorf("money: amount %q has more than 2 decimal places", raw)
		}
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	var units int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("money: invalid amount %q: %w", raw, err)
		}
		units = v
	}
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", raw, err)
	}
	if units > (math.MaxInt64-cents)/centsPerUnit {
		return 0, fmt.Errorf("money: amount %q out of range", raw)
	}

	total := units*centsPerUnit + cents
	if negative {
		total = -total
	}
	return Money(total), nil
}

// digits reports whether s is empty or only ASCII digits.
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromFloat converts a binary float, rounding half away from zero to the cent.
// Only used at the storage boundary where drivers hand back REAL columns.
func FromFloat(f float64) Money {
	return Money(math.Round(f * centsPerUnit))
}

// Cents returns the raw integer amount.
func (m Money) Cents() int64 { return int64(m) }

// Rat returns the exact rational value in whole units.
func (m Money) Rat() *big.Rat {
	return big.NewRat(int64(m), centsPerUnit)
}

// String renders a plain decimal with two places, e.g. "-1234.50".
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/centsPerUnit, v%centsPerUnit)
}

// Format renders with thousands separators and a currency prefix, e.g. "$1,234.50".
func (m Money) Format(symbol string) string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	intStr := strconv.FormatInt(v/centsPerUnit, 10)
	if len(intStr) > 3 {
		var b strings.Builder
		lead := len(intStr) % 3
		if lead > 0 {
			b.WriteString(intStr[:lead])
		}
		for i := lead; i < len(intStr); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intStr[i : i+3])
		}
		intStr = b.String()
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, intStr, v%centsPerUnit)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*m = 0
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Scan implements sql.Scanner for NUMERIC/REAL/INTEGER/TEXT columns.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case int64:
		*m = Money(v * centsPerUnit)
		return nil
	case float64:
		*m = FromFloat(v)
		return nil
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
}

func (m *Money) scanString(s string) error {
	v, err := Parse(s)
	if err == nil {
		*m = v
		return nil
	}
	// Some drivers stringify REAL columns with exponents ("1.5e+06").
	f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if ferr != nil {
		return err
	}
	*m = FromFloat(f)
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

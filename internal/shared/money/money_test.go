package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"go-hris-analytics/internal/shared/money"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    money.Money
		wantErr bool
	}{
		{in: "85000", want: 8500000},
		{in: "85000.5", want: 8500050},
		{in: "85000.05", want: 8500005},
		{in: "-10.25", want: -1025},
		{in: ".75", want: 75},
		{in: "12.500", want: 1250},
		{in: "12.505", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "--5", wantErr: true},
		{in: "+-5", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "1.+5", wantErr: true},
		{in: "1 000", wantErr: true},
		{in: "-", wantErr: true},
		{in: "92233720368547758.07", want: money.Money(math.MaxInt64)},
		{in: "92233720368547758.08", wantErr: true},
		{in: "92233720368547759", wantErr: true},
		{in: "-92233720368547758.07", want: money.Money(-math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "$0.00", money.Money(0).Format("$"))
	assert.Equal(t, "$999.99", money.Money(99999).Format("$"))
	assert.Equal(t, "$1,234.50", money.MustParse("1234.5").Format("$"))
	assert.Equal(t, "$1,234,567.01", money.MustParse("1234567.01").Format("$"))
	assert.Equal(t, "-$140,000.00", money.MustParse("-140000").Format("$"))
	assert.Equal(t, "-12.50", money.FromUnits(-12, 50).String())
}

func TestMoney_SumDoesNotDrift(t *testing.T) {
	var total money.Money
	for i := 0; i < 100000; i++ {
		total += money.MustParse("0.10")
	}
	assert.Equal(t, money.MustParse("10000.00"), total)
}

func TestMoney_Scan(t *testing.T) {
	var m money.Money

	assert.NoError(t, m.Scan(int64(42)))
	assert.Equal(t, money.MustParse("42"), m)

	assert.NoError(t, m.Scan(1.5e6))
	assert.Equal(t, money.MustParse("1500000"), m)

	assert.NoError(t, m.Scan([]byte("99.95")))
	assert.Equal(t, money.Money(9995), m)

	assert.NoError(t, m.Scan("1.5e+06"))
	assert.Equal(t, money.MustParse("1500000"), m)

	assert.Error(t, m.Scan(true))
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Salary money.Money `json:"salary"`
	}{Salary: money.MustParse("110000")})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"salary":110000.00}`, string(b))

	var out struct {
		Salary money.Money `json:"salary"`
	}
	assert.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, money.MustParse("110000"), out.Salary)
}

package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
	}{
		{"two places", "350.00", BRL, 35000},
		{"rounds half up", "12.345", BRL, 1235},
		{"one place", "100.5", BRL, 10050},
		{"negative", "-3.20", EUR, -320},
		{"unknown currency falls back", "1.00", "XXX-not-real", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFromDecimal(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, m.Amount())
		})
	}
}

func TestSum(t *testing.T) {
	total, err := Sum(BRL, New(100, BRL), New(250, BRL), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(350), total.Amount())
	assert.Equal(t, "3.50", total.String())

	empty, err := Sum(BRL)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = Sum(BRL, New(1, BRL), New(1, USD))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestDivideDecimal(t *testing.T) {
	m := New(35000, BRL)
	assert.Equal(t, "3.48", m.DivideDecimal(decimal.RequireFromString("100.5")).String())
	assert.True(t, m.DivideDecimal(decimal.Zero).IsZero())
}

func TestPercentageOf(t *testing.T) {
	part := New(2500, BRL)
	total := New(10000, BRL)
	assert.True(t, decimal.NewFromInt(25).Equal(part.PercentageOf(total)))
	assert.True(t, part.PercentageOf(Zero(BRL)).IsZero())
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(New(123456, BRL))
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "1234.56", got["amount"])
	assert.Equal(t, BRL, got["currency"])
	assert.NotEmpty(t, got["display"])

	var nilMoney *Money
	data, err = json.Marshal(nilMoney)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

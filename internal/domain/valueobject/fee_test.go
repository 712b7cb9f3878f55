package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeSchedule_Split_Tiers(t *testing.T) {
	fees := DefaultFeeSchedule()

	tests := []struct {
		name   string
		amount float64
		fee    float64
		net    float64
	}{
		{"ниже нижнего порога", 49.99, 7.5, 42.49},
		{"ровно нижний порог", 50, 6, 44},
		{"средняя ступень", 100, 12, 88},
		{"ровно верхний порог", 500, 60, 440},
		{"выше верхнего порога", 500.01, 50, 450.01},
		{"крупный заказ", 1000, 100, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fees.Split(tt.amount)
			assert.InDelta(t, tt.fee, got.Fee, 0.0001)
			assert.InDelta(t, tt.net, got.Net, 0.0001)
			assert.InDelta(t, tt.amount, got.Fee+got.Net, 0.0001)
		})
	}
}

func TestFeeSchedule_Validate(t *testing.T) {
	assert.NoError(t, DefaultFeeSchedule().Validate())

	broken := DefaultFeeSchedule()
	broken.HighThreshold = 10
	assert.Error(t, broken.Validate())

	broken = DefaultFeeSchedule()
	broken.MidRate = 1.5
	assert.Error(t, broken.Validate())
}

func TestAmountsMatch(t *testing.T) {
	assert.True(t, AmountsMatch(300, 299.99))
	assert.True(t, AmountsMatch(300, 300.01))
	assert.False(t, AmountsMatch(300, 299.98))
}

func TestNormalizeCurrency(t *testing.T) {
	cur, err := NormalizeCurrency(" eur ")
	assert.NoError(t, err)
	assert.Equal(t, "EUR", cur)

	cur, err = NormalizeCurrency("")
	assert.NoError(t, err)
	assert.Equal(t, "USD", cur)

	_, err = NormalizeCurrency("EURO")
	assert.Error(t, err)
}

package valueobject

import (
	"fmt"
	"math"
	"strings"

	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// MoneyTolerance допустимое расхождение сумм при сверке (один цент).
const MoneyTolerance = 0.01

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.Validation("сумма должна быть больше нуля")
	}
	cur, err := NormalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: RoundMoney(amount), Currency: cur}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}

// NormalizeCurrency приводит код валюты к ISO-виду (три заглавные буквы).
// Пустое значение означает USD.
func NormalizeCurrency(currency string) (string, error) {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		return "USD", nil
	}
	if len(cur) != 3 {
		return "", apperror.Validation("некорректный код валюты")
	}
	for _, r := range cur {
		if r < 'A' || r > 'Z' {
			return "", apperror.Validation("некорректный код валюты")
		}
	}
	return cur, nil
}

// RoundMoney округляет сумму до двух знаков.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountsMatch сверяет две суммы с точностью MoneyTolerance.
func AmountsMatch(a, b float64) bool {
	return math.Abs(a-b) <= MoneyTolerance+1e-9
}

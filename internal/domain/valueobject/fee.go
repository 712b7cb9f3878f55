package valueobject

import "github.com/ignatzorin/freelance-orders/internal/pkg/apperror"

// FeeSchedule ступенчатая шкала комиссии платформы.
// Сумма ниже LowThreshold облагается LowRate, сумма от LowThreshold
// до HighThreshold включительно облагается MidRate, выше HighThreshold облагается HighRate.
type FeeSchedule struct {
	LowThreshold  float64
	HighThreshold float64
	LowRate       float64
	MidRate       float64
	HighRate      float64
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		LowThreshold:  50,
		HighThreshold: 500,
		LowRate:       0.15,
		MidRate:       0.12,
		HighRate:      0.10,
	}
}

func (s FeeSchedule) Validate() error {
	if s.LowThreshold <= 0 || s.HighThreshold < s.LowThreshold {
		return apperror.Validation("пороги комиссии заданы некорректно")
	}
	for _, rate := range []float64{s.LowRate, s.MidRate, s.HighRate} {
		if rate < 0 || rate >= 1 {
			return apperror.Validation("ставка комиссии должна быть в диапазоне [0, 1)")
		}
	}
	return nil
}

func (s FeeSchedule) RateFor(amount float64) float64 {
	switch {
	case amount < s.LowThreshold:
		return s.LowRate
	case amount <= s.HighThreshold:
		return s.MidRate
	default:
		return s.HighRate
	}
}

// Earnings результат расчёта комиссии для одной суммы.
type Earnings struct {
	Gross float64
	Fee   float64
	Net   float64
	Rate  float64
}

// Split считает комиссию платформы и чистый доход исполнителя.
// Ожидает положительную сумму, проверка лежит на вызывающем.
func (s FeeSchedule) Split(amount float64) Earnings {
	rate := s.RateFor(amount)
	fee := RoundMoney(amount * rate)
	return Earnings{
		Gross: RoundMoney(amount),
		Fee:   fee,
		Net:   RoundMoney(amount - fee),
		Rate:  rate,
	}
}

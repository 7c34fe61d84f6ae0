package analytics

import "github.com/shopspring/decimal"

// premiumSum 以十进制累加保费，结果保留两位小数
type premiumSum struct {
	total decimal.Decimal
	n     int
}

func (s *premiumSum) Add(v float64) {
	s.total = s.total.Add(decimal.NewFromFloat(v))
	s.n++
}

func (s premiumSum) Total() float64 {
	return s.total.Round(2).InexactFloat64()
}

// Average 无记录时为0
func (s premiumSum) Average() float64 {
	if s.n == 0 {
		return 0
	}
	return s.total.Div(decimal.NewFromInt(int64(s.n))).Round(2).InexactFloat64()
}

// percentage part/whole*100，whole为0时为0
func percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

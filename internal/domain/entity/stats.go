package entity

import "math"

// ProductionStats счётчики проверенных изделий.
// После каждого зафиксированного события Total == Pass + NG.
type ProductionStats struct {
	Total uint64 `json:"total"`
	Pass  uint64 `json:"pass"`
	NG    uint64 `json:"ng"`
}

// NGRate доля брака в процентах, округлённая до одного знака
func (s ProductionStats) NGRate() float64 {
	total := s.Total
	if total == 0 {
		total = 1
	}
	return math.Round(float64(s.NG)/float64(total)*1000) / 10
}

// Consistent проверяет инвариант счётчиков
func (s ProductionStats) Consistent() bool {
	return s.Total == s.Pass+s.NG
}

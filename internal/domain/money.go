package domain

import "math"

// RoundCents rounds a monetary amount to two fractional digits. All derived
// totals go through this before being frozen or compared.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

package domain

import "math"

// ToMinorUnits converts a major-unit amount to the currency's minor unit
// (e.g. rupees to paise). Rounding guards against float representation of
// amounts like 500.00 or 129.99.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

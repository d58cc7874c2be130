package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in paise (minor units). All ledger arithmetic is
// integer arithmetic; values cross into rupees only at the JSON boundary.
type Money int64

// MoneyFromRupees converts a rupee amount to paise, rounding half-up.
func MoneyFromRupees(rupees float64) Money {
	return Money(math.Floor(rupees*100 + 0.5))
}

// Rupees returns the amount in rupees.
func (m Money) Rupees() float64 {
	return float64(m) / 100
}

// AddPercent returns m increased by the given percentage, rounded
// half-up at paise scale. Negative amounts round symmetrically, so a
// credit carries the same tax as the charge it mirrors.
func (m Money) AddPercent(percent int64) Money {
	if m < 0 {
		return -(-m).AddPercent(percent)
	}
	return m + Money((int64(m)*percent+50)/100)
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// String formats the amount in rupees with two decimal places.
func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Rupees())
}

// MarshalJSON encodes the amount as a rupee decimal.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Rupees(), 'f', 2, 64)), nil
}

// UnmarshalJSON decodes a rupee decimal into paise, rounding half-up.
func (m *Money) UnmarshalJSON(data []byte) error {
	rupees, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", string(data), err)
	}
	*m = MoneyFromRupees(rupees)
	return nil
}

// scaleByQuantity multiplies a unit price by a possibly fractional
// quantity, rounding half-up at paise scale.
func scaleByQuantity(quantity float64, unitPrice Money) Money {
	return Money(math.Floor(quantity*float64(unitPrice) + 0.5))
}

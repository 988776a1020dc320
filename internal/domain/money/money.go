// Package money converts between decimal major-unit amounts and the integer
// minor units (cents) used for storage.
package money

import (
	"math"
	"strconv"
	"strings"
)

// MaxMajorUnits is the largest accepted amount. Its cent value stays below
// 1e15, so every two-decimal amount up to it has at most 15 significant
// digits and survives a float64 round trip.
const MaxMajorUnits = 9_999_999_999_999.99

const maxWholeUnits = 9_999_999_999_999

// ToMinorUnits converts a non-negative amount to cents, rounding half-up on
// the amount's shortest decimal representation. 1.005 becomes 101, not the
// 100 that multiplying the binary float by 100 would give.
func ToMinorUnits(amount float64) int64 {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	frac += "000"

	cents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || cents > maxWholeUnits {
		return int64(math.Round(amount * 100))
	}
	cents = cents*100 + int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	if frac[2] >= '5' {
		cents++
	}
	return cents
}

// ToMajorUnits divides by 100 and rounds again to two decimals so that no
// float residue reaches a consumer.
func ToMajorUnits(cents int64) float64 {
	v := float64(cents) / 100
	return math.Round(v*100) / 100
}

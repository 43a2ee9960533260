package domain

import "math"

// Monetary values are int64 amounts in the smallest currency unit.
// No floating point is used anywhere in the core; basis-point math is
// integer multiplication followed by floor division.

// BasisPointDenominator is the number of basis points in 100%.
const BasisPointDenominator = 10000

// MulChecked multiplies two non-negative amounts and fails with
// ErrArithmeticOverflow instead of wrapping.
func MulChecked(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrArithmeticOverflow
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt64/b {
		return 0, ErrArithmeticOverflow
	}
	return a * b, nil
}

// AddChecked adds two non-negative amounts and fails with
// ErrArithmeticOverflow instead of wrapping.
func AddChecked(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrArithmeticOverflow
	}
	if a > math.MaxInt64-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}

// BasisPointShare returns amount × bp / 10000, rounding down.
func BasisPointShare(amount, bp int64) (int64, error) {
	product, err := MulChecked(amount, bp)
	if err != nil {
		return 0, err
	}
	return product / BasisPointDenominator, nil
}

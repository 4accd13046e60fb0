package model

import "github.com/shopspring/decimal"

// DefaultTolerance is one cent.
var DefaultTolerance = decimal.New(1, -2)

// Balanced reports whether a and b differ by less than tol.
// A non-positive tol means the sums must be exactly equal.
func Balanced(a, b, tol decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	if !tol.IsPositive() {
		return diff.IsZero()
	}
	return diff.LessThan(tol)
}

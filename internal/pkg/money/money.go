package money

import "github.com/shopspring/decimal"

// Places is the fixed precision for every monetary column (decimal(18,3)).
const Places = 3

// Zero is a rounded zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero.Round(Places)
}

// Round normalizes an amount to 3 decimal places (half-up).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Add returns a+b rounded.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Add(b))
}

// Sub returns a-b rounded.
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Sub(b))
}

// Mul computes quantity * unitPrice rounded per line, before any summation.
func Mul(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Round(quantity.Mul(unitPrice))
}

// Equal compares two amounts after rounding both sides.
func Equal(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}

// Package derive implements the Classifier's derivation-rule evaluator
// (spec §4.3 step 5): conditional rewrites that compute a missing field
// from the fields already present, plus the decimal arithmetic those rules
// rely on.
//
// Derivation rules are represented as data (model.DerivationRule), not code
// paths scattered through the classifier; this package is the single
// evaluator that interprets them.
package derive

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// intermediatePrecision is the fractional-digit precision used for
// intermediate arithmetic before rounding to a field's declared precision
// (spec §4.3 step 5: "Arithmetic uses decimal values with 4 fractional
// digits").
const intermediatePrecision = 4

// ToDecimal converts a value extracted from an utterance or parser output
// into a decimal.Decimal. Accepts float64, int, int64, string and
// decimal.Decimal itself; anything else is rejected.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case float32:
		return decimal.NewFromFloat32(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case string:
		return decimal.NewFromString(val)
	default:
		return decimal.Decimal{}, fmt.Errorf("derive: cannot convert %T to decimal", v)
	}
}

// Mul multiplies two values, rounding the intermediate result to
// intermediatePrecision fractional digits.
func Mul(a, b any) (decimal.Decimal, error) {
	da, err := ToDecimal(a)
	if err != nil {
		return decimal.Decimal{}, err
	}
	db, err := ToDecimal(b)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return da.Mul(db).Round(intermediatePrecision), nil
}

// Div divides a by b, rounding the intermediate result to
// intermediatePrecision fractional digits. Returns an error on division by
// zero.
func Div(a, b any) (decimal.Decimal, error) {
	da, err := ToDecimal(a)
	if err != nil {
		return decimal.Decimal{}, err
	}
	db, err := ToDecimal(b)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if db.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("derive: division by zero")
	}
	return da.DivRound(db, intermediatePrecision), nil
}

// RoundHalfEven rounds d to precision fractional digits using banker's
// rounding (round half to even), the mode spec §4.3 fixes for all
// derivation results.
func RoundHalfEven(d decimal.Decimal, precision int) decimal.Decimal {
	return d.RoundBank(int32(precision))
}

// ToFloat64 converts a decimal back to float64 for placement into an
// extracted_data map, which downstream handlers expect to hold plain
// numeric values.
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

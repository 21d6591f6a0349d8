// Package num holds the decimal conventions of the engine: prices and
// quantities are exact decimals (shopspring), transported and persisted
// as canonical strings so external systems can compare them textually.
package num

import (
	"strings"

	"github.com/shopspring/decimal"
	"matchcore.io/pkg/xerr"
)

// ParsePrice parses a non-negative decimal price. Zero is a valid price
// (a buy at 0 simply never matches).
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, xerr.Newf(xerr.RequestParamsError, "price %q is not a decimal", s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, xerr.Newf(xerr.RequestParamsError, "price %q must be >= 0", s)
	}
	return d, nil
}

// ParseQty parses a strictly positive decimal quantity.
func ParseQty(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, xerr.Newf(xerr.RequestParamsError, "qty %q is not a decimal", s)
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, xerr.Newf(xerr.RequestParamsError, "qty %q must be > 0", s)
	}
	return d, nil
}

// Canon renders d in canonical form: no sign on zero, no trailing
// fractional zeros. "1.50" and "1.5" render identically, and both
// decimal zero and "-0" render as "0". Trade and depth payloads carry
// decimals as strings, so rendering must be stable.
func Canon(d decimal.Decimal) string {
	if d.IsZero() {
		return "0"
	}
	s := d.String()
	if !strings.ContainsRune(s, '.') {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Zero is the canonical zero string reported for absent book sides.
const Zero = "0"

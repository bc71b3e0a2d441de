package monitor

import (
	"stockwatch/internal/entity"

	"github.com/shopspring/decimal"
)

// exactTolerance is the relative tolerance for "exact" targets. A relative
// bound scales from penny stocks to high-priced shares where an absolute
// epsilon would not.
var exactTolerance = decimal.RequireFromString("0.001")

// IsTriggered reports whether the target condition holds for the current
// price. Pure; comparisons are fixed-point, never binary floats.
func IsTriggered(target *entity.PriceTarget, currentPrice decimal.Decimal) bool {
	if currentPrice.IsZero() {
		return false
	}

	switch target.Direction {
	case entity.DirectionAbove:
		return currentPrice.GreaterThanOrEqual(target.Price)
	case entity.DirectionBelow:
		return currentPrice.LessThanOrEqual(target.Price)
	case entity.DirectionExact:
		threshold := target.Price.Mul(exactTolerance)
		return currentPrice.Sub(target.Price).Abs().LessThanOrEqual(threshold)
	}
	return false
}

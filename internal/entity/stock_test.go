package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol(" aapl "))
	assert.Equal(t, "BRK-B", NormalizeSymbol("brk-b"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestStock_PriceChange(t *testing.T) {
	s := &Stock{
		CurrentPrice:  decimal.RequireFromString("191.45"),
		PreviousClose: decimal.RequireFromString("189.30"),
	}
	assert.Equal(t, "2.15", s.PriceChange().StringFixed(2))
	assert.Equal(t, "1.14", s.PriceChangePercentage().StringFixed(2))
}

func TestStock_PriceChange_MissingData(t *testing.T) {
	s := &Stock{}
	assert.True(t, s.PriceChange().IsZero())
	assert.True(t, s.PriceChangePercentage().IsZero())

	s.CurrentPrice = decimal.RequireFromString("10.00")
	assert.True(t, s.PriceChange().IsZero(), "no previous close means no change")
}

func TestTargetDirection(t *testing.T) {
	assert.True(t, DirectionAbove.Valid())
	assert.True(t, DirectionBelow.Valid())
	assert.True(t, DirectionExact.Valid())
	assert.False(t, TargetDirection("sideways").Valid())

	assert.Equal(t, "risen above", DirectionAbove.Phrase())
	assert.Equal(t, "fallen below", DirectionBelow.Phrase())
	assert.Equal(t, "reached", DirectionExact.Phrase())
}

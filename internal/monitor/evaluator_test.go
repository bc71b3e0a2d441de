package monitor

import (
	"testing"

	"stockwatch/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func target(direction entity.TargetDirection, price string) *entity.PriceTarget {
	return &entity.PriceTarget{
		Price:     decimal.RequireFromString(price),
		Direction: direction,
		IsActive:  true,
	}
}

func TestIsTriggered_Above(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		expected bool
	}{
		{"below target", "189.99", false},
		{"equal to target", "190.00", true},
		{"above target", "190.01", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsTriggered(target(entity.DirectionAbove, "190.00"), decimal.RequireFromString(tt.price))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsTriggered_Below(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		expected bool
	}{
		{"above target", "150.01", false},
		{"equal to target", "150.00", true},
		{"below target", "149.99", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsTriggered(target(entity.DirectionBelow, "150.00"), decimal.RequireFromString(tt.price))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsTriggered_Exact(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		price    string
		expected bool
	}{
		{"dead on", "100.00", "100.00", true},
		{"within tolerance above", "100.00", "100.10", true},
		{"within tolerance below", "100.00", "99.90", true},
		{"just outside tolerance", "100.00", "100.11", false},
		{"far off", "100.00", "105.00", false},
		{"penny stock within tolerance", "0.50", "0.5005", true},
		{"penny stock outside tolerance", "0.50", "0.51", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsTriggered(target(entity.DirectionExact, tt.target), decimal.RequireFromString(tt.price))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsTriggered_ZeroPrice(t *testing.T) {
	assert.False(t, IsTriggered(target(entity.DirectionAbove, "0.01"), decimal.Zero))
	assert.False(t, IsTriggered(target(entity.DirectionBelow, "190.00"), decimal.Zero))
}

func TestIsTriggered_UnknownDirection(t *testing.T) {
	assert.False(t, IsTriggered(target("weird", "100.00"), decimal.RequireFromString("100.00")))
}

package entity

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a watched symbol together with its most recent market snapshot.
// The market-data fields are overwritten wholesale on every successful
// refresh; only the monitor writes them.
type Stock struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Symbol        string          `gorm:"uniqueIndex;not null;size:10" json:"symbol"`
	Name          string          `gorm:"size:100" json:"name"`
	CurrentPrice  decimal.Decimal `gorm:"type:decimal(10,2)" json:"current_price"`
	PreviousClose decimal.Decimal `gorm:"type:decimal(10,2)" json:"previous_close"`
	DayHigh       decimal.Decimal `gorm:"type:decimal(10,2)" json:"day_high"`
	DayLow        decimal.Decimal `gorm:"type:decimal(10,2)" json:"day_low"`
	MarketCap     sql.NullInt64   `json:"market_cap"`
	Volume        sql.NullInt64   `json:"volume"`
	LastUpdated   sql.NullTime    `gorm:"index" json:"last_updated"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// NormalizeSymbol upper-cases and trims a user-supplied trading symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// PriceChange returns current price minus previous close.
func (s *Stock) PriceChange() decimal.Decimal {
	if s.CurrentPrice.IsZero() || s.PreviousClose.IsZero() {
		return decimal.Zero
	}
	return s.CurrentPrice.Sub(s.PreviousClose)
}

// PriceChangePercentage returns the day change relative to previous close,
// in percent, rounded to two decimals.
func (s *Stock) PriceChangePercentage() decimal.Decimal {
	if s.CurrentPrice.IsZero() || s.PreviousClose.IsZero() {
		return decimal.Zero
	}
	return s.PriceChange().Div(s.PreviousClose).Mul(decimal.NewFromInt(100)).Round(2)
}

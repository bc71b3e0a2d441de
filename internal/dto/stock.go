package dto

import (
	"time"

	"stockwatch/internal/entity"
	"stockwatch/pkg/utils"

	"github.com/shopspring/decimal"
)

// AddStockRequest is the payload for watching a new symbol.
type AddStockRequest struct {
	Symbol string `json:"symbol"`
}

// StockResponse is the API shape of a watched stock, including the derived
// day-change fields the dashboard renders.
type StockResponse struct {
	ID                    uint            `json:"id"`
	Symbol                string          `json:"symbol"`
	Name                  string          `json:"name"`
	CurrentPrice          decimal.Decimal `json:"current_price"`
	PreviousClose         decimal.Decimal `json:"previous_close"`
	DayHigh               decimal.Decimal `json:"day_high"`
	DayLow                decimal.Decimal `json:"day_low"`
	MarketCap             *int64          `json:"market_cap"`
	Volume                *int64          `json:"volume"`
	PriceChange           decimal.Decimal `json:"price_change"`
	PriceChangePercentage decimal.Decimal `json:"price_change_percentage"`
	LastUpdated           *time.Time      `json:"last_updated"`
}

// NewStockResponse maps a stock entity to its API shape.
func NewStockResponse(s *entity.Stock) StockResponse {
	resp := StockResponse{
		ID:                    s.ID,
		Symbol:                s.Symbol,
		Name:                  s.Name,
		CurrentPrice:          s.CurrentPrice,
		PreviousClose:         s.PreviousClose,
		DayHigh:               s.DayHigh,
		DayLow:                s.DayLow,
		PriceChange:           s.PriceChange(),
		PriceChangePercentage: s.PriceChangePercentage(),
	}
	if s.MarketCap.Valid {
		resp.MarketCap = utils.ToPointer(s.MarketCap.Int64)
	}
	if s.Volume.Valid {
		resp.Volume = utils.ToPointer(s.Volume.Int64)
	}
	if s.LastUpdated.Valid {
		resp.LastUpdated = utils.ToPointer(s.LastUpdated.Time)
	}
	return resp
}

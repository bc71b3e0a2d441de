package dto

import (
	"time"

	"stockwatch/internal/entity"
	"stockwatch/pkg/utils"

	"github.com/shopspring/decimal"
)

// CreateTargetRequest is the payload for attaching a price target to a stock.
type CreateTargetRequest struct {
	Price     decimal.Decimal `json:"price"`
	Direction string          `json:"direction"`
}

// TargetResponse is the API shape of a price target.
type TargetResponse struct {
	ID            uint            `json:"id"`
	StockID       uint            `json:"stock_id"`
	Price         decimal.Decimal `json:"price"`
	Direction     string          `json:"direction"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	LastTriggered *time.Time      `json:"last_triggered"`
}

// NewTargetResponse maps a price target entity to its API shape.
func NewTargetResponse(t *entity.PriceTarget) TargetResponse {
	resp := TargetResponse{
		ID:        t.ID,
		StockID:   t.StockID,
		Price:     t.Price,
		Direction: string(t.Direction),
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
	if t.LastTriggered.Valid {
		resp.LastTriggered = utils.ToPointer(t.LastTriggered.Time)
	}
	return resp
}

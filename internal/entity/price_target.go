package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// TargetDirection says on which side of the target price an alert fires.
type TargetDirection string

const (
	DirectionAbove TargetDirection = "above"
	DirectionBelow TargetDirection = "below"
	DirectionExact TargetDirection = "exact"
)

// Valid reports whether the direction is one of the known values.
func (d TargetDirection) Valid() bool {
	switch d {
	case DirectionAbove, DirectionBelow, DirectionExact:
		return true
	}
	return false
}

// Phrase returns the human wording used in alert messages.
func (d TargetDirection) Phrase() string {
	switch d {
	case DirectionAbove:
		return "risen above"
	case DirectionBelow:
		return "fallen below"
	default:
		return "reached"
	}
}

// PriceTarget is a user-defined price condition attached to one stock.
// LastTriggered is set by the monitor only after an alert was actually
// delivered; it drives the notification cooldown.
type PriceTarget struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StockID       uint            `gorm:"not null;index" json:"stock_id"`
	Stock         Stock           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Direction     TargetDirection `gorm:"type:varchar(5);not null" json:"direction"`
	IsActive      bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	LastTriggered sql.NullTime    `json:"last_triggered"`
}

package service

import (
	"context"
	"testing"
	"time"

	"stockwatch/internal/dto"
	"stockwatch/internal/entity"
	"stockwatch/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memTargetRepo struct {
	targets []entity.PriceTarget
	nextID  uint
}

func (m *memTargetRepo) GetByID(ctx context.Context, id uint) (*entity.PriceTarget, error) {
	for i := range m.targets {
		if m.targets[i].ID == id {
			t := m.targets[i]
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTargetRepo) GetByStockID(ctx context.Context, stockID uint) ([]entity.PriceTarget, error) {
	var out []entity.PriceTarget
	for _, t := range m.targets {
		if t.StockID == stockID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTargetRepo) GetActiveByStockID(ctx context.Context, stockID uint) ([]entity.PriceTarget, error) {
	var out []entity.PriceTarget
	for _, t := range m.targets {
		if t.StockID == stockID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTargetRepo) Create(ctx context.Context, target *entity.PriceTarget) error {
	m.nextID++
	target.ID = m.nextID
	m.targets = append(m.targets, *target)
	return nil
}

func (m *memTargetRepo) MarkTriggered(ctx context.Context, id uint, at time.Time) error {
	return nil
}

func (m *memTargetRepo) Delete(ctx context.Context, id uint) error {
	for i := range m.targets {
		if m.targets[i].ID == id {
			m.targets = append(m.targets[:i], m.targets[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestPriceTargetService_CreateTarget(t *testing.T) {
	stocks := &memStockRepo{stocks: []entity.Stock{{ID: 1, Symbol: "AAPL"}}}
	targets := &memTargetRepo{}
	svc := NewPriceTargetService(stocks, targets, logger.NewNop())

	resp, err := svc.CreateTarget(context.Background(), 1, &dto.CreateTargetRequest{
		Price:     decimal.RequireFromString("190.005"),
		Direction: "above",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), resp.StockID)
	assert.Equal(t, "above", resp.Direction)
	assert.True(t, resp.IsActive)
	// Target prices are stored at two-decimal scale.
	assert.Equal(t, "190.01", resp.Price.StringFixed(2))
}

func TestPriceTargetService_CreateTarget_Validation(t *testing.T) {
	stocks := &memStockRepo{stocks: []entity.Stock{{ID: 1, Symbol: "AAPL"}}}
	svc := NewPriceTargetService(stocks, &memTargetRepo{}, logger.NewNop())

	_, err := svc.CreateTarget(context.Background(), 1, &dto.CreateTargetRequest{
		Price:     decimal.RequireFromString("190.00"),
		Direction: "sideways",
	})
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = svc.CreateTarget(context.Background(), 1, &dto.CreateTargetRequest{
		Price:     decimal.Zero,
		Direction: "above",
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.CreateTarget(context.Background(), 42, &dto.CreateTargetRequest{
		Price:     decimal.RequireFromString("190.00"),
		Direction: "above",
	})
	assert.ErrorIs(t, err, ErrStockNotFound)
}

func TestPriceTargetService_DeleteTarget(t *testing.T) {
	stocks := &memStockRepo{stocks: []entity.Stock{{ID: 1, Symbol: "AAPL"}}}
	targets := &memTargetRepo{targets: []entity.PriceTarget{{ID: 7, StockID: 1, IsActive: true}}, nextID: 7}
	svc := NewPriceTargetService(stocks, targets, logger.NewNop())

	require.NoError(t, svc.DeleteTarget(context.Background(), 7))
	assert.Empty(t, targets.targets)

	assert.ErrorIs(t, svc.DeleteTarget(context.Background(), 7), ErrTargetNotFound)
}

package service

import (
	"context"
	"fmt"
	"testing"

	"stockwatch/internal/entity"
	"stockwatch/internal/quote"
	"stockwatch/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memStockRepo struct {
	stocks []entity.Stock
	nextID uint
}

func (m *memStockRepo) GetAll(ctx context.Context) ([]entity.Stock, error) {
	return append([]entity.Stock(nil), m.stocks...), nil
}

func (m *memStockRepo) GetByID(ctx context.Context, id uint) (*entity.Stock, error) {
	for i := range m.stocks {
		if m.stocks[i].ID == id {
			s := m.stocks[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStockRepo) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	for i := range m.stocks {
		if m.stocks[i].Symbol == entity.NormalizeSymbol(symbol) {
			s := m.stocks[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	m.nextID++
	stock.ID = m.nextID
	m.stocks = append(m.stocks, *stock)
	return nil
}

func (m *memStockRepo) UpdateMarketData(ctx context.Context, stock *entity.Stock) error {
	for i := range m.stocks {
		if m.stocks[i].ID == stock.ID {
			m.stocks[i] = *stock
		}
	}
	return nil
}

func (m *memStockRepo) Delete(ctx context.Context, id uint) error {
	for i := range m.stocks {
		if m.stocks[i].ID == id {
			m.stocks = append(m.stocks[:i], m.stocks[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubQuoteClient struct {
	quotes map[string]*quote.Quote
}

func (s *stubQuoteClient) Fetch(ctx context.Context, symbol string) (*quote.Quote, error) {
	q, ok := s.quotes[entity.NormalizeSymbol(symbol)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, quote.ErrEmptyPayload)
	}
	return q, nil
}

func TestStockService_AddStock(t *testing.T) {
	repo := &memStockRepo{}
	quotes := &stubQuoteClient{quotes: map[string]*quote.Quote{
		"AAPL": {
			Symbol:        "AAPL",
			Name:          "Apple Inc.",
			CurrentPrice:  decimal.RequireFromString("191.45"),
			PreviousClose: decimal.RequireFromString("189.30"),
		},
	}}
	svc := NewStockService(repo, quotes, logger.NewNop())

	resp, err := svc.AddStock(context.Background(), "  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "Apple Inc.", resp.Name)
	assert.Equal(t, "191.45", resp.CurrentPrice.StringFixed(2))

	// The initial snapshot is persisted immediately.
	stored, err := repo.GetBySymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "191.45", stored.CurrentPrice.StringFixed(2))
}

func TestStockService_AddStock_Duplicate(t *testing.T) {
	repo := &memStockRepo{stocks: []entity.Stock{{ID: 1, Symbol: "AAPL"}}}
	svc := NewStockService(repo, &stubQuoteClient{}, logger.NewNop())

	_, err := svc.AddStock(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrStockExists)
}

func TestStockService_AddStock_QuoteFailureBlocksCreation(t *testing.T) {
	repo := &memStockRepo{}
	svc := NewStockService(repo, &stubQuoteClient{}, logger.NewNop())

	_, err := svc.AddStock(context.Background(), "BADSYM")
	require.Error(t, err)
	assert.Empty(t, repo.stocks, "stock must not be created without a successful quote")
}

func TestStockService_AddStock_EmptySymbol(t *testing.T) {
	svc := NewStockService(&memStockRepo{}, &stubQuoteClient{}, logger.NewNop())
	_, err := svc.AddStock(context.Background(), "   ")
	assert.Error(t, err)
}

func TestStockService_DeleteStock(t *testing.T) {
	repo := &memStockRepo{stocks: []entity.Stock{{ID: 1, Symbol: "AAPL"}}}
	svc := NewStockService(repo, &stubQuoteClient{}, logger.NewNop())

	require.NoError(t, svc.DeleteStock(context.Background(), 1))
	assert.Empty(t, repo.stocks)

	assert.ErrorIs(t, svc.DeleteStock(context.Background(), 42), ErrStockNotFound)
}

func TestStockService_GetStock_NotFound(t *testing.T) {
	svc := NewStockService(&memStockRepo{}, &stubQuoteClient{}, logger.NewNop())
	_, err := svc.GetStock(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrStockNotFound)
}

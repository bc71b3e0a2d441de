package service

import (
	"context"
	"errors"
	"fmt"

	"stockwatch/internal/dto"
	"stockwatch/internal/entity"
	"stockwatch/internal/quote"
	"stockwatch/internal/repository"
	"stockwatch/pkg/logger"

	"gorm.io/gorm"
)

var (
	// ErrStockExists is returned when a symbol is already watched.
	ErrStockExists = errors.New("stock already exists")
	// ErrStockNotFound is returned when no stock matches the lookup.
	ErrStockNotFound = errors.New("stock not found")
)

// StockService manages the watchlist. Stocks are only created after an
// initial successful quote fetch, so a watched symbol always starts with a
// real market snapshot.
type StockService interface {
	AddStock(ctx context.Context, symbol string) (*dto.StockResponse, error)
	GetStocks(ctx context.Context) ([]dto.StockResponse, error)
	GetStock(ctx context.Context, symbol string) (*dto.StockResponse, error)
	DeleteStock(ctx context.Context, id uint) error
}

type stockService struct {
	stocks repository.StockRepository
	quotes quote.Client
	log    *logger.Logger
}

// NewStockService creates a StockService.
func NewStockService(stocks repository.StockRepository, quotes quote.Client, log *logger.Logger) StockService {
	return &stockService{stocks: stocks, quotes: quotes, log: log}
}

func (s *stockService) AddStock(ctx context.Context, symbol string) (*dto.StockResponse, error) {
	symbol = entity.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	if _, err := s.stocks.GetBySymbol(ctx, symbol); err == nil {
		return nil, ErrStockExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	q, err := s.quotes.Fetch(ctx, symbol)
	if err != nil {
		s.log.Error("Initial quote fetch failed",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err))
		return nil, fmt.Errorf("fetching quote for %s: %w", symbol, err)
	}

	stock := &entity.Stock{
		Symbol: symbol,
		Name:   q.Name,
	}
	if err := s.stocks.Create(ctx, stock); err != nil {
		return nil, fmt.Errorf("creating stock: %w", err)
	}

	// Persist the initial snapshot right away so the stock never sits
	// priceless until the first monitor cycle.
	stock.CurrentPrice = q.CurrentPrice
	stock.PreviousClose = q.PreviousClose
	stock.DayHigh = q.DayHigh
	stock.DayLow = q.DayLow
	if q.MarketCap != nil {
		stock.MarketCap.Int64, stock.MarketCap.Valid = *q.MarketCap, true
	}
	if q.Volume != nil {
		stock.Volume.Int64, stock.Volume.Valid = *q.Volume, true
	}
	if err := s.stocks.UpdateMarketData(ctx, stock); err != nil {
		return nil, fmt.Errorf("saving initial snapshot: %w", err)
	}

	s.log.Info("Stock added to watchlist", logger.StringField("symbol", symbol))

	resp := dto.NewStockResponse(stock)
	return &resp, nil
}

func (s *stockService) GetStocks(ctx context.Context) ([]dto.StockResponse, error) {
	stocks, err := s.stocks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		responses = append(responses, dto.NewStockResponse(&stocks[i]))
	}
	return responses, nil
}

func (s *stockService) GetStock(ctx context.Context, symbol string) (*dto.StockResponse, error) {
	stock, err := s.stocks.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}
	resp := dto.NewStockResponse(stock)
	return &resp, nil
}

func (s *stockService) DeleteStock(ctx context.Context, id uint) error {
	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStockNotFound
		}
		return err
	}

	if err := s.stocks.Delete(ctx, stock.ID); err != nil {
		return fmt.Errorf("deleting stock: %w", err)
	}
	s.log.Info("Stock removed from watchlist", logger.StringField("symbol", stock.Symbol))
	return nil
}

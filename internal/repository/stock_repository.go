package repository

import (
	"context"
	"database/sql"
	"time"

	"stockwatch/internal/entity"

	"gorm.io/gorm"
)

// StockRepository provides access to persisted stocks.
type StockRepository interface {
	GetAll(ctx context.Context) ([]entity.Stock, error)
	GetByID(ctx context.Context, id uint) (*entity.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
	// UpdateMarketData overwrites the market-data fields and last_updated
	// in a single row write. Identity fields are left untouched.
	UpdateMarketData(ctx context.Context, stock *entity.Stock) error
	Delete(ctx context.Context, id uint) error
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a gorm-backed StockRepository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) GetAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("symbol asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) GetByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Where("symbol = ?", entity.NormalizeSymbol(symbol)).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

func (r *stockRepository) UpdateMarketData(ctx context.Context, stock *entity.Stock) error {
	stock.LastUpdated = sql.NullTime{Time: time.Now(), Valid: true}
	return r.db.WithContext(ctx).Model(stock).
		Select("name", "current_price", "previous_close", "day_high", "day_low", "market_cap", "volume", "last_updated").
		Updates(stock).Error
}

func (r *stockRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_id = ?", id).Delete(&entity.PriceTarget{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Stock{}, id).Error
	})
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"stockwatch/internal/entity"

	"gorm.io/gorm"
)

// PriceTargetRepository provides access to persisted price targets.
type PriceTargetRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.PriceTarget, error)
	GetByStockID(ctx context.Context, stockID uint) ([]entity.PriceTarget, error)
	GetActiveByStockID(ctx context.Context, stockID uint) ([]entity.PriceTarget, error)
	Create(ctx context.Context, target *entity.PriceTarget) error
	// MarkTriggered records the moment an alert for this target was
	// delivered. Single-row write; nothing else on the target changes.
	MarkTriggered(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
}

type priceTargetRepository struct {
	db *gorm.DB
}

// NewPriceTargetRepository creates a gorm-backed PriceTargetRepository.
func NewPriceTargetRepository(db *gorm.DB) PriceTargetRepository {
	return &priceTargetRepository{db: db}
}

func (r *priceTargetRepository) GetByID(ctx context.Context, id uint) (*entity.PriceTarget, error) {
	var target entity.PriceTarget
	if err := r.db.WithContext(ctx).First(&target, id).Error; err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *priceTargetRepository) GetByStockID(ctx context.Context, stockID uint) ([]entity.PriceTarget, error) {
	var targets []entity.PriceTarget
	if err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at desc").
		Find(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *priceTargetRepository) GetActiveByStockID(ctx context.Context, stockID uint) ([]entity.PriceTarget, error) {
	var targets []entity.PriceTarget
	if err := r.db.WithContext(ctx).
		Where("stock_id = ? AND is_active = ?", stockID, true).
		Order("created_at desc").
		Find(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *priceTargetRepository) Create(ctx context.Context, target *entity.PriceTarget) error {
	return r.db.WithContext(ctx).Create(target).Error
}

func (r *priceTargetRepository) MarkTriggered(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.PriceTarget{}).
		Where("id = ?", id).
		Update("last_triggered", sql.NullTime{Time: at, Valid: true}).Error
}

func (r *priceTargetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.PriceTarget{}, id).Error
}

package service

import (
	"context"
	"errors"
	"fmt"

	"stockwatch/internal/dto"
	"stockwatch/internal/entity"
	"stockwatch/internal/repository"
	"stockwatch/pkg/logger"

	"gorm.io/gorm"
)

var (
	// ErrInvalidDirection is returned for a direction outside above/below/exact.
	ErrInvalidDirection = errors.New("direction must be one of above, below, exact")
	// ErrInvalidPrice is returned for a non-positive target price.
	ErrInvalidPrice = errors.New("target price must be positive")
	// ErrTargetNotFound is returned when no target matches the lookup.
	ErrTargetNotFound = errors.New("price target not found")
)

// PriceTargetService manages price targets on watched stocks.
type PriceTargetService interface {
	CreateTarget(ctx context.Context, stockID uint, req *dto.CreateTargetRequest) (*dto.TargetResponse, error)
	GetTargets(ctx context.Context, stockID uint) ([]dto.TargetResponse, error)
	DeleteTarget(ctx context.Context, id uint) error
}

type priceTargetService struct {
	stocks  repository.StockRepository
	targets repository.PriceTargetRepository
	log     *logger.Logger
}

// NewPriceTargetService creates a PriceTargetService.
func NewPriceTargetService(stocks repository.StockRepository, targets repository.PriceTargetRepository, log *logger.Logger) PriceTargetService {
	return &priceTargetService{stocks: stocks, targets: targets, log: log}
}

func (s *priceTargetService) CreateTarget(ctx context.Context, stockID uint, req *dto.CreateTargetRequest) (*dto.TargetResponse, error) {
	direction := entity.TargetDirection(req.Direction)
	if !direction.Valid() {
		return nil, ErrInvalidDirection
	}
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	stock, err := s.stocks.GetByID(ctx, stockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}

	target := &entity.PriceTarget{
		StockID:   stock.ID,
		Price:     req.Price.Round(2),
		Direction: direction,
		IsActive:  true,
	}
	if err := s.targets.Create(ctx, target); err != nil {
		return nil, fmt.Errorf("creating price target: %w", err)
	}

	s.log.Info("Price target created",
		logger.StringField("symbol", stock.Symbol),
		logger.StringField("direction", req.Direction),
		logger.StringField("price", target.Price.StringFixed(2)))

	resp := dto.NewTargetResponse(target)
	return &resp, nil
}

func (s *priceTargetService) GetTargets(ctx context.Context, stockID uint) ([]dto.TargetResponse, error) {
	targets, err := s.targets.GetByStockID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.TargetResponse, 0, len(targets))
	for i := range targets {
		responses = append(responses, dto.NewTargetResponse(&targets[i]))
	}
	return responses, nil
}

func (s *priceTargetService) DeleteTarget(ctx context.Context, id uint) error {
	if _, err := s.targets.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return err
	}
	return s.targets.Delete(ctx, id)
}

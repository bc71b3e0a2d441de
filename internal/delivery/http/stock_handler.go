package http

import (
	"errors"
	"net/http"
	"strconv"

	"stockwatch/internal/dto"
	"stockwatch/internal/service"
	"stockwatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for the watchlist.
type StockHandler struct {
	stockService  service.StockService
	targetService service.PriceTargetService
	logger        *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, targetService service.PriceTargetService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, targetService: targetService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.AddStock)
	g.GET("", h.GetStocks)
	g.GET("/:symbol", h.GetStock)
	g.DELETE("/:id", h.DeleteStock)
	g.POST("/:id/targets", h.CreateTarget)
	g.GET("/:id/targets", h.GetTargets)
}

func (h *StockHandler) AddStock(c echo.Context) error {
	var req dto.AddStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	stock, err := h.stockService.AddStock(c.Request().Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, service.ErrStockExists) {
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to add stock", logger.ErrorField(err))
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusCreated, stock)
}

func (h *StockHandler) GetStocks(c echo.Context) error {
	stocks, err := h.stockService.GetStocks(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

func (h *StockHandler) GetStock(c echo.Context) error {
	stock, err := h.stockService.GetStock(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, service.ErrStockNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to get stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get stock"})
	}
	return c.JSON(http.StatusOK, stock)
}

func (h *StockHandler) DeleteStock(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid stock ID"})
	}

	if err := h.stockService.DeleteStock(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrStockNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to delete stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete stock"})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *StockHandler) CreateTarget(c echo.Context) error {
	stockID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid stock ID"})
	}

	var req dto.CreateTargetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	target, err := h.targetService.CreateTarget(c.Request().Context(), uint(stockID), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDirection), errors.Is(err, service.ErrInvalidPrice):
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrStockNotFound):
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to create price target", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create price target"})
	}

	return c.JSON(http.StatusCreated, target)
}

func (h *StockHandler) GetTargets(c echo.Context) error {
	stockID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid stock ID"})
	}

	targets, err := h.targetService.GetTargets(c.Request().Context(), uint(stockID))
	if err != nil {
		h.logger.Error("Failed to list price targets", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list price targets"})
	}
	return c.JSON(http.StatusOK, targets)
}

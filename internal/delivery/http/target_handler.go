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

// TargetHandler handles HTTP requests addressed to a target directly.
type TargetHandler struct {
	targetService service.PriceTargetService
	logger        *logger.Logger
}

// NewTargetHandler creates a new TargetHandler.
func NewTargetHandler(targetService service.PriceTargetService, logger *logger.Logger) *TargetHandler {
	return &TargetHandler{targetService: targetService, logger: logger}
}

// RegisterRoutes registers the target routes to the Echo group.
func (h *TargetHandler) RegisterRoutes(g *echo.Group) {
	g.DELETE("/:id", h.DeleteTarget)
}

func (h *TargetHandler) DeleteTarget(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid target ID"})
	}

	if err := h.targetService.DeleteTarget(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrTargetNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to delete price target", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete price target"})
	}

	return c.NoContent(http.StatusNoContent)
}

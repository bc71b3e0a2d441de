package http

import (
	"net/http"
	"time"

	"stockwatch/internal/dto"
	"stockwatch/internal/monitor"
	"stockwatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MonitorHandler exposes the process-control surface of the price monitor.
type MonitorHandler struct {
	monitor     *monitor.Monitor
	stopTimeout time.Duration
	logger      *logger.Logger
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(m *monitor.Monitor, stopTimeout time.Duration, logger *logger.Logger) *MonitorHandler {
	return &MonitorHandler{monitor: m, stopTimeout: stopTimeout, logger: logger}
}

// RegisterRoutes registers the monitor control routes to the Echo group.
func (h *MonitorHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.Status)
	g.POST("/start", h.Start)
	g.POST("/stop", h.Stop)
	g.POST("/check", h.CheckNow)
}

func (h *MonitorHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.MonitorStatusResponse{Running: h.monitor.Running()})
}

func (h *MonitorHandler) Start(c echo.Context) error {
	h.monitor.Start()
	return c.JSON(http.StatusOK, dto.MonitorStatusResponse{Running: h.monitor.Running()})
}

func (h *MonitorHandler) Stop(c echo.Context) error {
	h.monitor.Stop(h.stopTimeout)
	return c.JSON(http.StatusOK, dto.MonitorStatusResponse{Running: h.monitor.Running()})
}

// CheckNow runs the evaluation path synchronously: for one symbol when
// ?symbol= is given, otherwise a full cycle.
func (h *MonitorHandler) CheckNow(c echo.Context) error {
	ctx := c.Request().Context()

	if symbol := c.QueryParam("symbol"); symbol != "" {
		if err := h.monitor.CheckStock(ctx, symbol); err != nil {
			h.logger.Error("Manual stock check failed", logger.ErrorField(err))
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		return c.NoContent(http.StatusAccepted)
	}

	h.monitor.RunCycle(ctx)
	return c.NoContent(http.StatusAccepted)
}

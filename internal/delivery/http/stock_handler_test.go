package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stockwatch/internal/dto"
	"stockwatch/internal/service"
	"stockwatch/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockService struct {
	addErr    error
	stocks    []dto.StockResponse
	deleteErr error
}

func (s *stubStockService) AddStock(ctx context.Context, symbol string) (*dto.StockResponse, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &dto.StockResponse{ID: 1, Symbol: symbol, CurrentPrice: decimal.RequireFromString("191.45")}, nil
}

func (s *stubStockService) GetStocks(ctx context.Context) ([]dto.StockResponse, error) {
	return s.stocks, nil
}

func (s *stubStockService) GetStock(ctx context.Context, symbol string) (*dto.StockResponse, error) {
	for i := range s.stocks {
		if s.stocks[i].Symbol == symbol {
			return &s.stocks[i], nil
		}
	}
	return nil, service.ErrStockNotFound
}

func (s *stubStockService) DeleteStock(ctx context.Context, id uint) error {
	return s.deleteErr
}

type stubTargetService struct {
	createErr error
}

func (s *stubTargetService) CreateTarget(ctx context.Context, stockID uint, req *dto.CreateTargetRequest) (*dto.TargetResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.TargetResponse{ID: 10, StockID: stockID, Price: req.Price, Direction: req.Direction, IsActive: true}, nil
}

func (s *stubTargetService) GetTargets(ctx context.Context, stockID uint) ([]dto.TargetResponse, error) {
	return nil, nil
}

func (s *stubTargetService) DeleteTarget(ctx context.Context, id uint) error {
	return nil
}

func newContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStockHandler_AddStock(t *testing.T) {
	h := NewStockHandler(&stubStockService{}, &stubTargetService{}, logger.NewNop())

	c, rec := newContext(t, http.MethodPost, "/api/v1/stocks", `{"symbol":"AAPL"}`)
	require.NoError(t, h.AddStock(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"AAPL"`)
}

func TestStockHandler_AddStock_Conflict(t *testing.T) {
	h := NewStockHandler(&stubStockService{addErr: service.ErrStockExists}, &stubTargetService{}, logger.NewNop())

	c, rec := newContext(t, http.MethodPost, "/api/v1/stocks", `{"symbol":"AAPL"}`)
	require.NoError(t, h.AddStock(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStockHandler_GetStock_NotFound(t *testing.T) {
	h := NewStockHandler(&stubStockService{}, &stubTargetService{}, logger.NewNop())

	c, rec := newContext(t, http.MethodGet, "/api/v1/stocks/NOPE", "")
	c.SetParamNames("symbol")
	c.SetParamValues("NOPE")
	require.NoError(t, h.GetStock(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockHandler_CreateTarget_InvalidDirection(t *testing.T) {
	h := NewStockHandler(&stubStockService{}, &stubTargetService{createErr: service.ErrInvalidDirection}, logger.NewNop())

	c, rec := newContext(t, http.MethodPost, "/api/v1/stocks/1/targets", `{"price":"190.00","direction":"sideways"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.CreateTarget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockHandler_CreateTarget(t *testing.T) {
	h := NewStockHandler(&stubStockService{}, &stubTargetService{}, logger.NewNop())

	c, rec := newContext(t, http.MethodPost, "/api/v1/stocks/1/targets", `{"price":"190.00","direction":"above"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.CreateTarget(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"above"`)
}

func TestStockHandler_DeleteStock_InvalidID(t *testing.T) {
	h := NewStockHandler(&stubStockService{}, &stubTargetService{}, logger.NewNop())

	c, rec := newContext(t, http.MethodDelete, "/api/v1/stocks/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.DeleteStock(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stockwatch/internal/config"
	"stockwatch/internal/entity"
	"stockwatch/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// yahooQuote mirrors the subset of the Yahoo v7 quote payload we consume.
// Price fields are pointers so "field absent" and "field zero" stay distinct.
type yahooQuote struct {
	Symbol                     string   `json:"symbol"`
	LongName                   string   `json:"longName"`
	ShortName                  string   `json:"shortName"`
	CurrentPrice               *float64 `json:"currentPrice"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	Price                      *float64 `json:"price"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume        *int64   `json:"regularMarketVolume"`
	MarketCap                  *int64   `json:"marketCap"`
}

type yahooResponse struct {
	QuoteResponse struct {
		Result []yahooQuote `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// priceRules is the ordered fallback chain for picking the quote price:
// the first rule whose field is present wins.
var priceRules = []struct {
	name    string
	extract func(q *yahooQuote) *float64
}{
	{"currentPrice", func(q *yahooQuote) *float64 { return q.CurrentPrice }},
	{"regularMarketPrice", func(q *yahooQuote) *float64 { return q.RegularMarketPrice }},
	{"price", func(q *yahooQuote) *float64 { return q.Price }},
}

type yahooClient struct {
	baseURL        string
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	quoteCache     *cache.Cache
	cacheTTL       time.Duration
}

// NewYahooClient creates a quote client against the Yahoo finance quote API.
// Requests are throttled to the configured per-minute budget and results are
// cached briefly so manual checks do not re-hit the provider.
func NewYahooClient(cfg config.Quotes, log *logger.Logger) (Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := 10 * time.Second
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid quotes timeout: %w", err)
		}
		timeout = parsed
	}

	maxPerMinute := cfg.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)

	cacheTTL := 15 * time.Second
	if cfg.CacheTTL != "" {
		parsed, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid quotes cache_ttl: %w", err)
		}
		cacheTTL = parsed
	}

	return &yahooClient{
		baseURL: baseURL,
		log:     log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		quoteCache:     cache.New(cacheTTL, 2*cacheTTL),
		cacheTTL:       cacheTTL,
	}, nil
}

func (c *yahooClient) Fetch(ctx context.Context, symbol string) (*Quote, error) {
	symbol = entity.NormalizeSymbol(symbol)

	if cached, ok := c.quoteCache.Get(symbol); ok {
		q := cached.(Quote)
		return &q, nil
	}

	if err := c.requestLimiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Symbol: symbol, Err: err}
	}

	reqURL := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ProviderError{Symbol: symbol, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "Quote request failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, &ProviderError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Symbol: symbol, StatusCode: resp.StatusCode}
	}

	var payload yahooResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ProviderError{Symbol: symbol, Err: err}
	}
	if payload.QuoteResponse.Error != nil {
		return nil, &ProviderError{
			Symbol: symbol,
			Err:    fmt.Errorf("%s: %s", payload.QuoteResponse.Error.Code, payload.QuoteResponse.Error.Description),
		}
	}
	if len(payload.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrEmptyPayload)
	}

	raw := payload.QuoteResponse.Result[0]

	price, rule := extractPrice(&raw)
	if price == nil {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoPriceData)
	}
	c.log.DebugContext(ctx, "Quote price extracted",
		logger.StringField("symbol", symbol),
		logger.StringField("field", rule))

	q := Quote{
		Symbol:        symbol,
		Name:          displayName(&raw, symbol),
		CurrentPrice:  toMoney(*price),
		PreviousClose: toMoneyPtr(raw.RegularMarketPreviousClose),
		DayHigh:       toMoneyPtr(raw.RegularMarketDayHigh),
		DayLow:        toMoneyPtr(raw.RegularMarketDayLow),
		MarketCap:     raw.MarketCap,
		Volume:        raw.RegularMarketVolume,
	}

	c.quoteCache.Set(symbol, q, c.cacheTTL)

	return &q, nil
}

// extractPrice applies the fallback chain and reports which rule matched.
func extractPrice(q *yahooQuote) (*float64, string) {
	for _, rule := range priceRules {
		if v := rule.extract(q); v != nil {
			return v, rule.name
		}
	}
	return nil, ""
}

func displayName(q *yahooQuote, symbol string) string {
	if q.LongName != "" {
		return q.LongName
	}
	if q.ShortName != "" {
		return q.ShortName
	}
	return symbol
}

// toMoney coerces a raw provider value to a two-decimal monetary amount,
// rounding half up. All stored and compared prices go through here.
func toMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func toMoneyPtr(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return toMoney(*v)
}

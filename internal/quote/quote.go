package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quote is a normalized snapshot of a symbol's market data at fetch time.
// Monetary fields are fixed to two decimal places.
type Quote struct {
	Symbol        string
	Name          string
	CurrentPrice  decimal.Decimal
	PreviousClose decimal.Decimal
	DayHigh       decimal.Decimal
	DayLow        decimal.Decimal
	MarketCap     *int64
	Volume        *int64
}

// Failure kinds the monitor distinguishes. Anything else coming out of
// Fetch is a provider/transport problem wrapped in *ProviderError.
var (
	ErrNoPriceData  = errors.New("no usable price data")
	ErrEmptyPayload = errors.New("empty provider payload")
)

// ProviderError reports a transport or provider-side failure.
type ProviderError struct {
	Symbol     string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("quote provider returned status %d for %s", e.StatusCode, e.Symbol)
	}
	return fmt.Sprintf("quote provider failed for %s: %v", e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Client fetches a normalized quote for a trading symbol.
type Client interface {
	Fetch(ctx context.Context, symbol string) (*Quote, error)
}

package notifier

import (
	"fmt"
	"time"

	"stockwatch/internal/entity"

	"github.com/shopspring/decimal"
)

// BuildAlert renders the subject and plain-text body for a triggered price
// target. The wording is deterministic so tests can assert on it.
func BuildAlert(stock *entity.Stock, target *entity.PriceTarget, currentPrice decimal.Decimal, now time.Time) (subject, body string) {
	subject = fmt.Sprintf("StockWatch Alert: %s", stock.Symbol)

	name := stock.Name
	if name == "" {
		name = "N/A"
	}

	body = fmt.Sprintf(
		"StockWatch Alert! %s (%s) has %s your target of $%s.\n\n"+
			"Current Price: $%s\n"+
			"Previous Close: $%s\n"+
			"Day Range: $%s - $%s\n"+
			"Time: %s\n",
		stock.Symbol,
		name,
		target.Direction.Phrase(),
		target.Price.StringFixed(2),
		currentPrice.StringFixed(2),
		stock.PreviousClose.StringFixed(2),
		stock.DayLow.StringFixed(2),
		stock.DayHigh.StringFixed(2),
		now.Format("03:04 PM, Jan 02"),
	)
	return subject, body
}

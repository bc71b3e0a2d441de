package monitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockwatch/internal/entity"
	"stockwatch/internal/notifier"
	"stockwatch/internal/quote"
	"stockwatch/internal/repository"
	"stockwatch/pkg/logger"
	redisPkg "stockwatch/pkg/redis"

	"github.com/shopspring/decimal"
)

const lastPriceKeyFmt = "stockwatch:last_price:%s"

// Options tunes the monitoring loop. Zero values fall back to the defaults
// the service has always run with.
type Options struct {
	CycleInterval time.Duration // full pass cadence, default 60s
	StockDelay    time.Duration // provider throttle between stocks, default 2s
	AlertCooldown time.Duration // per-target notification suppression, default 1h
}

// Monitor is the price-monitoring and alert-evaluation loop. One instance
// per process, owned by the composition root; Start and Stop manage its
// lifecycle. The monitor is the sole writer of stock market-data fields and
// of PriceTarget.last_triggered.
type Monitor struct {
	stocks  repository.StockRepository
	targets repository.PriceTargetRepository
	quotes  quote.Client
	notify  notifier.Notifier
	redis   *redisPkg.Client
	log     *logger.Logger

	cycleInterval time.Duration
	stockDelay    time.Duration
	cooldown      time.Duration

	now func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a monitor. redisClient may be nil; the last-price cache is
// then skipped.
func New(
	stocks repository.StockRepository,
	targets repository.PriceTargetRepository,
	quotes quote.Client,
	notify notifier.Notifier,
	redisClient *redisPkg.Client,
	log *logger.Logger,
	opts Options,
) *Monitor {
	if opts.CycleInterval <= 0 {
		opts.CycleInterval = 60 * time.Second
	}
	if opts.StockDelay <= 0 {
		opts.StockDelay = 2 * time.Second
	}
	if opts.AlertCooldown <= 0 {
		opts.AlertCooldown = time.Hour
	}
	return &Monitor{
		stocks:        stocks,
		targets:       targets,
		quotes:        quotes,
		notify:        notify,
		redis:         redisClient,
		log:           log,
		cycleInterval: opts.CycleInterval,
		stockDelay:    opts.StockDelay,
		cooldown:      opts.AlertCooldown,
		now:           time.Now,
	}
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start launches the monitoring loop in the background. Calling Start on a
// running monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.log.Info("Price monitor already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done
	m.running = true

	go m.run(ctx, done)

	m.log.Info("Price monitor started",
		logger.Field("cycle_interval", m.cycleInterval.String()),
		logger.Field("stock_delay", m.stockDelay.String()),
		logger.Field("alert_cooldown", m.cooldown.String()))
}

// Stop signals the loop to exit after its current cycle and waits up to
// timeout for it to drain. The in-flight stock is not aborted; after the
// timeout the caller proceeds regardless.
func (m *Monitor) Stop(timeout time.Duration) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	done := m.done
	m.running = false
	m.mu.Unlock()

	m.log.Info("Stopping price monitor")
	cancel()

	select {
	case <-done:
		m.log.Info("Price monitor stopped")
	case <-time.After(timeout):
		m.log.Warn("Price monitor did not stop within timeout")
	}
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		m.RunCycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cycleInterval):
		}
	}
}

// RunCycle performs one full pass over all stocks. Exposed so the check-now
// endpoint can run a pass synchronously outside the timer.
func (m *Monitor) RunCycle(ctx context.Context) {
	m.log.Info("Starting stock update cycle")

	stocks, err := m.stocks.GetAll(ctx)
	if err != nil {
		m.log.Error("Failed to list stocks", logger.ErrorField(err))
		return
	}

	for i := range stocks {
		if ctx.Err() != nil {
			return
		}

		m.safeProcessStock(ctx, &stocks[i])

		// Throttle against the quote provider between stocks,
		// regardless of whether the fetch succeeded.
		if i < len(stocks)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(m.stockDelay):
			}
		}
	}

	m.log.Info("Completed stock update cycle", logger.IntField("stocks", len(stocks)))
}

// CheckStock runs the refresh-and-evaluate path for a single symbol,
// synchronously. Semantics match one stock's share of a normal cycle.
func (m *Monitor) CheckStock(ctx context.Context, symbol string) error {
	stock, err := m.stocks.GetBySymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("loading stock %s: %w", symbol, err)
	}
	return m.processStock(ctx, stock)
}

// safeProcessStock is the per-stock error boundary: no failure inside one
// stock's processing may terminate the cycle.
func (m *Monitor) safeProcessStock(ctx context.Context, stock *entity.Stock) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Panic while processing stock",
				logger.StringField("symbol", stock.Symbol),
				logger.Field("panic", r))
		}
	}()

	if err := m.processStock(ctx, stock); err != nil {
		m.log.Error("Failed to process stock",
			logger.StringField("symbol", stock.Symbol),
			logger.ErrorField(err))
	}
}

func (m *Monitor) processStock(ctx context.Context, stock *entity.Stock) error {
	m.log.DebugContext(ctx, "Checking stock", logger.StringField("symbol", stock.Symbol))

	q, err := m.quotes.Fetch(ctx, stock.Symbol)
	if err != nil {
		// Provider failures skip this stock until the next cycle.
		if errors.Is(err, quote.ErrNoPriceData) || errors.Is(err, quote.ErrEmptyPayload) {
			m.log.Warn("No quote data for stock",
				logger.StringField("symbol", stock.Symbol),
				logger.ErrorField(err))
			return nil
		}
		m.log.Error("Quote fetch failed",
			logger.StringField("symbol", stock.Symbol),
			logger.ErrorField(err))
		return nil
	}

	applyQuote(stock, q)
	if err := m.stocks.UpdateMarketData(ctx, stock); err != nil {
		return fmt.Errorf("persisting market data: %w", err)
	}
	m.cacheLastPrice(ctx, stock)

	targets, err := m.targets.GetActiveByStockID(ctx, stock.ID)
	if err != nil {
		return fmt.Errorf("loading active targets: %w", err)
	}

	for i := range targets {
		m.evaluateTarget(ctx, stock, &targets[i], stock.CurrentPrice)
	}
	return nil
}

func (m *Monitor) evaluateTarget(ctx context.Context, stock *entity.Stock, target *entity.PriceTarget, currentPrice decimal.Decimal) {
	if !IsTriggered(target, currentPrice) {
		return
	}

	now := m.now()
	if target.LastTriggered.Valid && now.Sub(target.LastTriggered.Time) <= m.cooldown {
		m.log.DebugContext(ctx, "Target within cooldown, skipping alert",
			logger.StringField("symbol", stock.Symbol),
			logger.IntField("target_id", int(target.ID)))
		return
	}

	subject, body := notifier.BuildAlert(stock, target, currentPrice, now)
	if err := m.notify.Send(ctx, subject, body); err != nil {
		// last_triggered stays put so the same condition retries the
		// notification on the next cycle.
		m.log.Error("Failed to send alert",
			logger.StringField("symbol", stock.Symbol),
			logger.IntField("target_id", int(target.ID)),
			logger.ErrorField(err))
		return
	}

	if err := m.targets.MarkTriggered(ctx, target.ID, now); err != nil {
		m.log.Error("Failed to record trigger time",
			logger.StringField("symbol", stock.Symbol),
			logger.IntField("target_id", int(target.ID)),
			logger.ErrorField(err))
		return
	}
	target.LastTriggered = sql.NullTime{Time: now, Valid: true}

	m.log.Info("Alert sent",
		logger.StringField("symbol", stock.Symbol),
		logger.StringField("direction", string(target.Direction)),
		logger.StringField("target_price", target.Price.StringFixed(2)),
		logger.StringField("current_price", currentPrice.StringFixed(2)))
}

// cacheLastPrice writes a short-lived snapshot of the latest price to Redis
// so read paths can probe freshness without touching Postgres. Failures are
// logged and otherwise ignored.
func (m *Monitor) cacheLastPrice(ctx context.Context, stock *entity.Stock) {
	if m.redis == nil {
		return
	}

	key := fmt.Sprintf(lastPriceKeyFmt, stock.Symbol)
	pipe := m.redis.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":     stock.CurrentPrice.StringFixed(2),
		"timestamp": m.now().Unix(),
	})
	pipe.Expire(ctx, key, 2*m.cycleInterval)
	if _, err := pipe.Exec(ctx); err != nil {
		m.log.Error("Failed to cache last price",
			logger.StringField("symbol", stock.Symbol),
			logger.ErrorField(err))
	}
}

func applyQuote(stock *entity.Stock, q *quote.Quote) {
	if q.Name != "" {
		stock.Name = q.Name
	}
	stock.CurrentPrice = q.CurrentPrice
	stock.PreviousClose = q.PreviousClose
	stock.DayHigh = q.DayHigh
	stock.DayLow = q.DayLow
	stock.MarketCap = toNullInt64(q.MarketCap)
	stock.Volume = toNullInt64(q.Volume)
}

func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabohq/backend/internal/domain"
	"github.com/gabohq/backend/internal/observability"
)

// Default sweep interval for the stock monitor
const defaultMonitorInterval = 20 * time.Minute

// AlertDeduplicator suppresses repeat low-stock alerts. A product alerted
// once stays quiet until the calendar day changes or the suppression set
// is reset.
type AlertDeduplicator struct {
	mu         sync.Mutex
	suppressed map[int64]string
	now        func() time.Time
}

// NewAlertDeduplicator creates an empty deduplicator.
func NewAlertDeduplicator() *AlertDeduplicator {
	return &AlertDeduplicator{
		suppressed: make(map[int64]string),
		now:        time.Now,
	}
}

// Filter returns the products not yet alerted today and marks them as
// alerted. Products suppressed on a previous day alert again.
func (d *AlertDeduplicator) Filter(products []domain.Product) []domain.Product {
	d.mu.Lock()
	defer d.mu.Unlock()

	today := d.now().Format("2006-01-02")
	var fresh []domain.Product
	for _, p := range products {
		if d.suppressed[p.ID] == today {
			continue
		}
		d.suppressed[p.ID] = today
		fresh = append(fresh, p)
	}
	return fresh
}

// Reset clears the suppression set so every product may alert again.
func (d *AlertDeduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suppressed = make(map[int64]string)
}

// StockMonitor periodically sweeps the catalog for products at or below
// their minimum stock and hands deduplicated alerts to the notify
// callback.
type StockMonitor struct {
	catalog  domain.CatalogRepository
	dedup    *AlertDeduplicator
	interval time.Duration
	notify   func([]domain.Product)
	logger   zerolog.Logger
}

// NewStockMonitor creates a monitor. A non-positive interval falls back
// to the default. notify may be nil.
func NewStockMonitor(
	catalog domain.CatalogRepository,
	dedup *AlertDeduplicator,
	interval time.Duration,
	notify func([]domain.Product),
	logger zerolog.Logger,
) *StockMonitor {
	if interval <= 0 {
		interval = defaultMonitorInterval
	}
	return &StockMonitor{
		catalog:  catalog,
		dedup:    dedup,
		interval: interval,
		notify:   notify,
		logger:   logger.With().Str("component", "stock_monitor").Logger(),
	}
}

// Run sweeps once immediately and then on every tick until the context is
// cancelled.
func (m *StockMonitor) Run(ctx context.Context) {
	m.Sweep(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep performs one low-stock pass.
func (m *StockMonitor) Sweep(ctx context.Context) {
	low, err := m.catalog.LowStock(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("low stock sweep failed")
		return
	}

	fresh := m.dedup.Filter(low)
	if len(fresh) == 0 {
		return
	}

	observability.StockAlertsTotal.Add(float64(len(fresh)))
	for _, p := range fresh {
		m.logger.Warn().
			Str("product", p.Name).
			Int("stock", p.Stock).
			Int("minStock", p.MinStock).
			Msg("low stock alert")
	}
	if m.notify != nil {
		m.notify(fresh)
	}
}

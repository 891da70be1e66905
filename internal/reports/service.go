package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
)

// Service answers read-only aggregation questions over inventory and orders.
// Every report runs a single raw query; nothing here mutates state.
type Service interface {
	StockSummary(ctx context.Context) (*StockSummary, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
	Expiring(ctx context.Context, withinDays int) ([]ExpiringItem, error)
	ABCAnalysis(ctx context.Context) ([]ABCEntry, error)
	Turnover(ctx context.Context, since time.Time) ([]TurnoverEntry, error)
	Movement(ctx context.Context, from, to time.Time) ([]MovementBucket, error)
	SupplierPerformance(ctx context.Context) ([]SupplierPerformance, error)
}

type service struct {
	db  *db.Client
	now func() time.Time
}

// NewService builds the reports service.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: client, now: time.Now}, nil
}

const stockSummaryQuery = `
SELECT COUNT(*) AS total_items,
       COALESCE(SUM(quantity * unit_price), 0) AS total_stock_value,
       COALESCE(SUM(CASE WHEN quantity <= COALESCE(reorder_level, quantity / 5) THEN 1 ELSE 0 END), 0) AS low_stock_items,
       COALESCE(SUM(CASE WHEN quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_items,
       COUNT(DISTINCT category) AS categories
FROM inventory_items
WHERE is_active = ?
`

func (s *service) StockSummary(ctx context.Context) (*StockSummary, error) {
	var summary StockSummary
	if err := s.db.Raw(ctx, stockSummaryQuery, true).Scan(&summary).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stock summary")
	}
	return &summary, nil
}

const lowStockQuery = `
SELECT id, sku, name, category, quantity,
       COALESCE(reorder_level, quantity / 5) AS reorder_level,
       supplier_id
FROM inventory_items
WHERE is_active = ? AND quantity <= COALESCE(reorder_level, quantity / 5)
ORDER BY quantity ASC, sku ASC
`

func (s *service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	var rows []LowStockItem
	if err := s.db.Raw(ctx, lowStockQuery, true).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "low stock report")
	}
	return rows, nil
}

const expiringQuery = `
SELECT id, sku, name, quantity, expiration_date
FROM inventory_items
WHERE is_active = ? AND expiration_date IS NOT NULL AND expiration_date <= ?
ORDER BY expiration_date ASC, sku ASC
`

func (s *service) Expiring(ctx context.Context, withinDays int) ([]ExpiringItem, error) {
	if withinDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window must be at least one day")
	}

	now := s.now().UTC()
	cutoff := now.AddDate(0, 0, withinDays)

	var rows []ExpiringItem
	if err := s.db.Raw(ctx, expiringQuery, true, cutoff).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expiring report")
	}
	for i := range rows {
		rows[i].DaysRemaining = int(rows[i].ExpirationDate.Sub(now).Hours() / 24)
	}
	return rows, nil
}

const stockValueQuery = `
SELECT sku, name, quantity * unit_price AS stock_value
FROM inventory_items
WHERE is_active = ?
ORDER BY stock_value DESC, sku ASC
`

var (
	tierACutoff = decimal.RequireFromString("0.80")
	tierBCutoff = decimal.RequireFromString("0.95")
)

func (s *service) ABCAnalysis(ctx context.Context) ([]ABCEntry, error) {
	var rows []ABCEntry
	if err := s.db.Raw(ctx, stockValueQuery, true).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "abc analysis")
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.StockValue)
	}
	if total.IsZero() {
		for i := range rows {
			rows[i].CumulativeShare = decimal.Zero
			rows[i].Tier = "C"
		}
		return rows, nil
	}

	running := decimal.Zero
	for i := range rows {
		running = running.Add(rows[i].StockValue)
		share := running.Div(total).Round(4)
		rows[i].CumulativeShare = share
		switch {
		case share.LessThanOrEqual(tierACutoff):
			rows[i].Tier = "A"
		case share.LessThanOrEqual(tierBCutoff):
			rows[i].Tier = "B"
		default:
			rows[i].Tier = "C"
		}
	}
	return rows, nil
}

const turnoverQuery = `
SELECT i.sku, i.name, i.quantity,
       COALESCE(SUM(l.quantity), 0) AS units_ordered
FROM inventory_items i
LEFT JOIN order_lines l ON l.sku = i.sku AND l.created_at >= ?
WHERE i.is_active = ?
GROUP BY i.id, i.sku, i.name, i.quantity
ORDER BY units_ordered DESC, i.sku ASC
`

func (s *service) Turnover(ctx context.Context, since time.Time) ([]TurnoverEntry, error) {
	var rows []TurnoverEntry
	if err := s.db.Raw(ctx, turnoverQuery, since, true).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "turnover report")
	}
	for i := range rows {
		if rows[i].Quantity > 0 {
			ordered := decimal.NewFromInt(int64(rows[i].UnitsOrdered))
			onHand := decimal.NewFromInt(int64(rows[i].Quantity))
			rows[i].TurnoverRatio = ordered.Div(onHand).Round(4)
		} else {
			rows[i].TurnoverRatio = decimal.Zero
		}
	}
	return rows, nil
}

const movementQuery = `
SELECT l.created_at, l.quantity
FROM order_lines l
JOIN orders o ON o.id = l.order_id
WHERE o.created_at >= ? AND o.created_at < ?
`

func (s *service) Movement(ctx context.Context, from, to time.Time) ([]MovementBucket, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window end must be after window start")
	}

	var rows []struct {
		CreatedAt time.Time
		Quantity  int
	}
	if err := s.db.Raw(ctx, movementQuery, from, to).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "movement report")
	}

	buckets := map[string]*MovementBucket{}
	days := []string{}
	for _, row := range rows {
		day := row.CreatedAt.UTC().Format("2006-01-02")
		bucket, ok := buckets[day]
		if !ok {
			bucket = &MovementBucket{Day: day}
			buckets[day] = bucket
			days = append(days, day)
		}
		bucket.UnitsOrdered += row.Quantity
		bucket.LineCount++
	}

	sort.Strings(days)
	result := make([]MovementBucket, 0, len(days))
	for _, day := range days {
		result = append(result, *buckets[day])
	}
	return result, nil
}

const supplierPerformanceQuery = `
SELECT s.id AS supplier_id, s.name, s.lead_time_days,
       COUNT(i.id) AS item_count,
       COALESCE(SUM(i.quantity * i.unit_price), 0) AS stock_value
FROM suppliers s
LEFT JOIN inventory_items i ON i.supplier_id = s.id AND i.is_active = ?
GROUP BY s.id, s.name, s.lead_time_days
ORDER BY s.name ASC
`

func (s *service) SupplierPerformance(ctx context.Context) ([]SupplierPerformance, error) {
	var rows []SupplierPerformance
	if err := s.db.Raw(ctx, supplierPerformanceQuery, true).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "supplier performance report")
	}
	return rows, nil
}


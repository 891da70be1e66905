package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockSummary is the headline view of the active catalog.
type StockSummary struct {
	TotalItems      int             `json:"total_items"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
	Categories      int             `json:"categories"`
}

// LowStockItem is one catalog row at or below its reorder threshold.
type LowStockItem struct {
	ID           uuid.UUID  `json:"id"`
	SKU          string     `json:"sku"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"`
	ReorderLevel int        `json:"reorder_level"`
	SupplierID   *uuid.UUID `json:"supplier_id,omitempty"`
}

// ExpiringItem is one catalog row expiring before the requested cutoff.
type ExpiringItem struct {
	ID             uuid.UUID `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	ExpirationDate time.Time `json:"expiration_date"`
	DaysRemaining  int       `json:"days_remaining"`
}

// ABCEntry assigns one item to a value tier. Tier A covers the first 80% of
// cumulative stock value, B the next 15%, C the remainder.
type ABCEntry struct {
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	StockValue      decimal.Decimal `json:"stock_value"`
	CumulativeShare decimal.Decimal `json:"cumulative_share"`
	Tier            string          `json:"tier"`
}

// TurnoverEntry reports demand against stock on hand for one sku.
type TurnoverEntry struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitsOrdered  int             `json:"units_ordered"`
	TurnoverRatio decimal.Decimal `json:"turnover_ratio"`
}

// MovementBucket is the total ordered quantity for one calendar day.
type MovementBucket struct {
	Day          string `json:"day"`
	UnitsOrdered int    `json:"units_ordered"`
	LineCount    int    `json:"line_count"`
}

// SupplierPerformance summarizes one supplier's footprint in the catalog.
type SupplierPerformance struct {
	SupplierID   uuid.UUID       `json:"supplier_id"`
	Name         string          `json:"name"`
	LeadTimeDays int             `json:"lead_time_days"`
	ItemCount    int             `json:"item_count"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

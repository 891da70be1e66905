package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine captures one line of an order. SKUs are not unique within an
// order: repeated SKUs are distinct rows, each with its own quantity and
// margin.
type OrderLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      string          `gorm:"column:order_id;type:text;not null;index"`
	SKU          string          `gorm:"column:sku;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	ProfitMargin decimal.Decimal `gorm:"column:profit_margin;type:numeric(6,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is one stocked product. Archiving flips IsActive off instead
// of deleting the row.
type InventoryItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string          `gorm:"column:sku;type:text;not null;uniqueIndex"`
	Name           string          `gorm:"column:name;not null"`
	Category       string          `gorm:"column:category;not null"`
	Quantity       int             `gorm:"column:quantity;not null;default:0"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	ReorderLevel   *int            `gorm:"column:reorder_level"`
	ExpirationDate *time.Time      `gorm:"column:expiration_date"`
	ImageURL       *string         `gorm:"column:image_url"`
	SupplierID     *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	Supplier       *Supplier       `gorm:"foreignKey:SupplierID"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveReorderLevel returns the stored reorder level, falling back to 20%
// of the current quantity when none is set.
func (i InventoryItem) EffectiveReorderLevel() int {
	if i.ReorderLevel != nil {
		return *i.ReorderLevel
	}
	return i.Quantity / 5
}

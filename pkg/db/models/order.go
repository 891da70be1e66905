package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
)

// Order is the header row for a wrap job. The primary key is a text token so
// callers may supply their own order ids; server-generated ids carry the
// configured prefix.
type Order struct {
	ID                   string              `gorm:"column:id;type:text;primaryKey"`
	AccountID            *uuid.UUID          `gorm:"column:account_id;type:uuid"`
	CustomerName         string              `gorm:"column:customer_name;not null"`
	CustomerEmail        *string             `gorm:"column:customer_email"`
	ContactNumber        *string             `gorm:"column:contact_number"`
	OrderDate            time.Time           `gorm:"column:order_date;not null"`
	ExpectedDeliveryDate time.Time           `gorm:"column:expected_delivery_date;not null"`
	Status               enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PackageType          enums.PackageType   `gorm:"column:package_type;type:text;not null;default:'standard'"`
	PaymentMethod        enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	ShippingAddress      *string             `gorm:"column:shipping_address"`
	TotalCost            decimal.Decimal     `gorm:"column:total_cost;type:numeric(12,2);not null;default:0"`
	Notes                *string             `gorm:"column:notes"`
	Lines                []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

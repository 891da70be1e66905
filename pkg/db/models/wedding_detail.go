package models

import (
	"time"

	"github.com/google/uuid"
)

// WeddingDetail is the auxiliary record inserted alongside a wedding-package
// order, in the same transaction as the order itself.
type WeddingDetail struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     string     `gorm:"column:order_id;type:text;not null;uniqueIndex"`
	AccountID   uuid.UUID  `gorm:"column:account_id;type:uuid;not null"`
	BrideName   *string    `gorm:"column:bride_name"`
	GroomName   *string    `gorm:"column:groom_name"`
	WeddingDate *time.Time `gorm:"column:wedding_date"`
	Venue       *string    `gorm:"column:venue"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

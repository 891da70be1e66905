package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor that inventory items are sourced from.
type Supplier struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	ContactPerson *string   `gorm:"column:contact_person"`
	Email         *string   `gorm:"column:email"`
	Phone         *string   `gorm:"column:phone"`
	AddressLine   *string   `gorm:"column:address_line"`
	City          *string   `gorm:"column:city"`
	Province      *string   `gorm:"column:province"`
	PostalCode    *string   `gorm:"column:postal_code"`
	LeadTimeDays  int       `gorm:"column:lead_time_days;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

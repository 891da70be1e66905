package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
)

// CreateSupplierRequest is the payload for registering a supplier.
type CreateSupplierRequest struct {
	Name          string  `json:"name" validate:"required,min=1"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	AddressLine   *string `json:"address_line"`
	City          *string `json:"city"`
	Province      *string `json:"province"`
	PostalCode    *string `json:"postal_code"`
	LeadTimeDays  *int    `json:"lead_time_days" validate:"omitempty,gte=0"`
}

// UpdateSupplierRequest carries partial edits. Nil fields are left untouched.
type UpdateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	AddressLine   *string `json:"address_line"`
	City          *string `json:"city"`
	Province      *string `json:"province"`
	PostalCode    *string `json:"postal_code"`
	LeadTimeDays  *int    `json:"lead_time_days" validate:"omitempty,gte=0"`
}

// SupplierDTO is the supplier shape returned to clients.
type SupplierDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	AddressLine   *string   `json:"address_line,omitempty"`
	City          *string   `json:"city,omitempty"`
	Province      *string   `json:"province,omitempty"`
	PostalCode    *string   `json:"postal_code,omitempty"`
	LeadTimeDays  int       `json:"lead_time_days"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func supplierToDTO(supplier *models.Supplier) *SupplierDTO {
	return &SupplierDTO{
		ID:            supplier.ID,
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		AddressLine:   supplier.AddressLine,
		City:          supplier.City,
		Province:      supplier.Province,
		PostalCode:    supplier.PostalCode,
		LeadTimeDays:  supplier.LeadTimeDays,
		CreatedAt:     supplier.CreatedAt,
		UpdatedAt:     supplier.UpdatedAt,
	}
}

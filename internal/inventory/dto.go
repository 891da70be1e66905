package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
)

// CreateItemRequest is the payload for adding a catalog item.
type CreateItemRequest struct {
	SKU            string           `json:"sku" validate:"required,min=1"`
	Name           string           `json:"name" validate:"required,min=1"`
	Category       string           `json:"category" validate:"required,min=1"`
	Quantity       *int             `json:"quantity" validate:"required,gte=0"`
	UnitPrice      *decimal.Decimal `json:"unit_price" validate:"required"`
	ReorderLevel   *int             `json:"reorder_level" validate:"omitempty,gte=0"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	ImageURL       *string          `json:"image_url"`
	SupplierID     *uuid.UUID       `json:"supplier_id"`
}

// UpdateItemRequest carries partial edits. Nil fields are left untouched.
type UpdateItemRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1"`
	Category       *string          `json:"category" validate:"omitempty,min=1"`
	Quantity       *int             `json:"quantity" validate:"omitempty,gte=0"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	ReorderLevel   *int             `json:"reorder_level" validate:"omitempty,gte=0"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	ImageURL       *string          `json:"image_url"`
	SupplierID     *uuid.UUID       `json:"supplier_id"`
}

// ListRequest holds catalog listing filters.
type ListRequest struct {
	Limit         int     `json:"limit"`
	Cursor        string  `json:"cursor"`
	Category      *string `json:"category"`
	Search        string  `json:"search"`
	IncludeHidden bool    `json:"include_hidden"`
}

// ItemDTO is the catalog item shape returned to clients.
type ItemDTO struct {
	ID             uuid.UUID       `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ReorderLevel   int             `json:"reorder_level"`
	LowStock       bool            `json:"low_stock"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	ImageURL       *string         `json:"image_url,omitempty"`
	SupplierID     *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName   *string         `json:"supplier_name,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ListResponse is one catalog page.
type ListResponse struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func itemToDTO(item *models.InventoryItem) *ItemDTO {
	dto := &ItemDTO{
		ID:             item.ID,
		SKU:            item.SKU,
		Name:           item.Name,
		Category:       item.Category,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		ReorderLevel:   item.EffectiveReorderLevel(),
		LowStock:       item.Quantity <= item.EffectiveReorderLevel(),
		ExpirationDate: item.ExpirationDate,
		ImageURL:       item.ImageURL,
		SupplierID:     item.SupplierID,
		IsActive:       item.IsActive,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
	if item.Supplier != nil {
		dto.SupplierName = &item.Supplier.Name
	}
	return dto
}

package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
)

// LineInput is one requested order line. Callers identify the product by sku
// or by exact item name; quantity is required and zero is valid.
type LineInput struct {
	SKU          string           `json:"sku,omitempty"`
	ItemName     string           `json:"item_name,omitempty"`
	Quantity     *int             `json:"quantity" validate:"required"`
	ProfitMargin *decimal.Decimal `json:"profit_margin,omitempty"`
}

// WeddingInput is the auxiliary detail accepted on wedding-package orders.
type WeddingInput struct {
	BrideName   *string    `json:"bride_name,omitempty"`
	GroomName   *string    `json:"groom_name,omitempty"`
	WeddingDate *time.Time `json:"wedding_date,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
}

// CreateOrderRequest carries the full header plus the initial line set.
type CreateOrderRequest struct {
	OrderID              *string       `json:"order_id,omitempty"`
	CustomerName         string        `json:"customer_name" validate:"required"`
	CustomerEmail        *string       `json:"customer_email,omitempty" validate:"omitempty,email"`
	ContactNumber        *string       `json:"contact_number,omitempty"`
	OrderDate            *time.Time    `json:"order_date" validate:"required"`
	ExpectedDeliveryDate *time.Time    `json:"expected_delivery_date" validate:"required"`
	Status               string        `json:"status" validate:"required"`
	PackageType          string        `json:"package_type" validate:"required"`
	PaymentMethod        *string       `json:"payment_method,omitempty"`
	ShippingAddress      *string       `json:"shipping_address,omitempty"`
	Notes                *string       `json:"notes,omitempty"`
	Wedding              *WeddingInput `json:"wedding,omitempty"`
	Lines                []LineInput   `json:"lines" validate:"dive"`
}

// UpdateOrderRequest patches the header with coalesce semantics and replaces
// the full line set.
type UpdateOrderRequest struct {
	CustomerName         *string     `json:"customer_name,omitempty"`
	CustomerEmail        *string     `json:"customer_email,omitempty" validate:"omitempty,email"`
	ContactNumber        *string     `json:"contact_number,omitempty"`
	OrderDate            *time.Time  `json:"order_date,omitempty"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date,omitempty"`
	Status               *string     `json:"status,omitempty"`
	PaymentMethod        *string     `json:"payment_method,omitempty"`
	ShippingAddress      *string     `json:"shipping_address,omitempty"`
	Notes                *string     `json:"notes,omitempty"`
	Lines                []LineInput `json:"lines" validate:"dive"`
}

// LineDetail is an order line joined with inventory display fields.
type LineDetail struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// OrderDTO is the authoritative post-operation state returned by every
// mutating order endpoint.
type OrderDTO struct {
	ID                   string              `json:"id"`
	CustomerName         string              `json:"customer_name"`
	CustomerEmail        *string             `json:"customer_email,omitempty"`
	ContactNumber        *string             `json:"contact_number,omitempty"`
	OrderDate            time.Time           `json:"order_date"`
	ExpectedDeliveryDate time.Time           `json:"expected_delivery_date"`
	Status               enums.OrderStatus   `json:"status"`
	PackageType          enums.PackageType   `json:"package_type"`
	PaymentMethod        enums.PaymentMethod `json:"payment_method"`
	ShippingAddress      *string             `json:"shipping_address,omitempty"`
	TotalCost            decimal.Decimal     `json:"total_cost"`
	Notes                *string             `json:"notes,omitempty"`
	Lines                []LineDetail        `json:"lines"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

func headerToDTO(order *models.Order, lines []LineDetail) *OrderDTO {
	if order == nil {
		return nil
	}
	if lines == nil {
		lines = []LineDetail{}
	}
	return &OrderDTO{
		ID:                   order.ID,
		CustomerName:         order.CustomerName,
		CustomerEmail:        order.CustomerEmail,
		ContactNumber:        order.ContactNumber,
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Status:               order.Status,
		PackageType:          order.PackageType,
		PaymentMethod:        order.PaymentMethod,
		ShippingAddress:      order.ShippingAddress,
		TotalCost:            order.TotalCost,
		Notes:                order.Notes,
		Lines:                lines,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateHeader(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) HeaderExists(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", strings.TrimSpace(orderID)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindHeader(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(orderID)).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateHeader(ctx context.Context, orderID string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) DeleteLines(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderLine{}).Error
}

// FindLineDetails joins lines with inventory display fields. An order with
// zero lines yields an empty slice, not an error.
func (r *repository) FindLineDetails(ctx context.Context, orderID string) ([]LineDetail, error) {
	var rows []lineDetailRecord
	err := r.db.WithContext(ctx).
		Table("order_lines").
		Select(strings.Join([]string{
			"order_lines.sku",
			"order_lines.quantity",
			"order_lines.unit_price",
			"order_lines.profit_margin",
			"inventory_items.name AS item_name",
			"inventory_items.image_url AS image_url",
		}, ", ")).
		Joins("LEFT JOIN inventory_items ON inventory_items.sku = order_lines.sku").
		Where("order_lines.order_id = ?", orderID).
		Order("order_lines.created_at ASC, order_lines.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	details := make([]LineDetail, 0, len(rows))
	for _, row := range rows {
		name := row.SKU
		if row.ItemName != nil {
			name = *row.ItemName
		}
		details = append(details, LineDetail{
			SKU:          row.SKU,
			Name:         name,
			ImageURL:     row.ImageURL,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			ProfitMargin: row.ProfitMargin,
			LineTotal:    row.UnitPrice.Mul(decimalFromInt(row.Quantity)),
		})
	}
	return details, nil
}

type lineDetailRecord struct {
	SKU          string
	Quantity     int
	UnitPrice    decimal.Decimal
	ProfitMargin decimal.Decimal
	ItemName     *string
	ImageURL     *string
}

func (r *repository) ListHeaders(ctx context.Context) ([]models.Order, error) {
	var headers []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&headers).Error
	if err != nil {
		return nil, err
	}
	return headers, nil
}

func (r *repository) CreateWeddingDetail(ctx context.Context, detail *models.WeddingDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

// IsNotFound reports whether the error is the driver's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

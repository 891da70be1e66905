package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	"github.com/wrapntrack/wrapntrack-backend/pkg/pagination"
)

// Repository defines persistence operations for the stock catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error)
	FindActiveBySKU(ctx context.Context, sku string) (*models.InventoryItem, error)
	FindActiveByName(ctx context.Context, name string) (*models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, query ListQuery) (*ListResult, error)
}

// ListQuery holds the filters and cursor for a catalog page.
type ListQuery struct {
	Pagination    pagination.Params
	Category      *string
	Search        string
	IncludeHidden bool
}

// ListResult is one catalog page plus the cursor for the next one.
type ListResult struct {
	Items      []models.InventoryItem
	NextCursor string
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Supplier").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) FindActiveBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "sku = ? AND is_active = ?", sku, true).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) FindActiveByName(ctx context.Context, name string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("lower(name) = ? AND is_active = ?", strings.ToLower(name), true).
		Order("created_at ASC").
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *gormRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("is_active", active).
		Error
}

func (r *gormRepository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Preload("Supplier")
	if !query.IncludeHidden {
		qb = qb.Where("is_active = ?", true)
	}
	if query.Category != nil {
		qb = qb.Where("category = ?", *query.Category)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(lower(name) LIKE ? OR lower(sku) LIKE ?)", pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.InventoryItem
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return &ListResult{Items: rows, NextCursor: nextCursor}, nil
}

// IsNotFound reports whether err is a missing-row error from the repository.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

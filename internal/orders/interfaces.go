package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
)

// Repository defines persistence operations for order headers and lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateHeader(ctx context.Context, order *models.Order) (*models.Order, error)
	HeaderExists(ctx context.Context, orderID string) (bool, error)
	FindHeader(ctx context.Context, orderID string) (*models.Order, error)
	UpdateHeader(ctx context.Context, orderID string, updates map[string]any) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	DeleteLines(ctx context.Context, orderID string) error
	FindLineDetails(ctx context.Context, orderID string) ([]LineDetail, error)
	ListHeaders(ctx context.Context) ([]models.Order, error)
	CreateWeddingDetail(ctx context.Context, detail *models.WeddingDetail) error
}

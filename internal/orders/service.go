package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/internal/accounts"
	"github.com/wrapntrack/wrapntrack-backend/internal/inventory"
	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
)

// Service atomically creates or replaces an order header plus its full line
// set. Header and lines always commit or roll back together.
type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderDTO, error)
	UpdateOrder(ctx context.Context, orderID string, req UpdateOrderRequest) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID string) (*OrderDTO, error)
	ListOrders(ctx context.Context) ([]OrderDTO, error)
}

type service struct {
	db   *db.Client
	cfg  config.OrdersConfig
	logg *logger.Logger
}

// ServiceParams bundles the dependencies for the order workflow.
type ServiceParams struct {
	DB     *db.Client
	Config config.OrdersConfig
	Logger *logger.Logger
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{
		db:   params.DB,
		cfg:  params.Config,
		logg: params.Logger,
	}, nil
}

// resolvedLine is a line input after SKU/name resolution against inventory.
type resolvedLine struct {
	sku       string
	quantity  int
	unitPrice decimal.Decimal
	margin    decimal.Decimal
}

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderDTO, error) {
	header, err := buildHeader(req)
	if err != nil {
		return nil, err
	}
	if err := validateLineInputs(req.Lines); err != nil {
		return nil, err
	}

	suppliedID := false
	if req.OrderID != nil && strings.TrimSpace(*req.OrderID) != "" {
		header.ID = strings.TrimSpace(*req.OrderID)
		suppliedID = true
	} else {
		header.ID = s.generateOrderID()
	}

	var dto *OrderDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		invRepo := inventory.NewRepository(tx)

		if suppliedID {
			exists, err := repo.HeaderExists(ctx, header.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check order id")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeDuplicateOrderID, "order id already exists")
			}
		}

		resolved, err := resolveLines(ctx, invRepo, req.Lines)
		if err != nil {
			return err
		}
		header.TotalCost = totalCost(resolved)

		if _, err := repo.CreateHeader(ctx, header); err != nil {
			// the unique constraint is the final arbiter when a
			// concurrent create raced past the existence check
			if db.IsUniqueViolation(err, "orders_pkey") {
				return pkgerrors.New(pkgerrors.CodeDuplicateOrderID, "order id already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order header")
		}

		if err := repo.CreateLines(ctx, toModels(header.ID, resolved)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order lines")
		}

		if header.PackageType.IsWedding() {
			if err := s.insertWeddingDetail(ctx, tx, repo, header, req.Wedding); err != nil {
				return err
			}
		}

		details, err := repo.FindLineDetails(ctx, header.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order lines")
		}
		dto = headerToDTO(header, details)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, dto.ID), "order created")
	}
	return dto, nil
}

func (s *service) UpdateOrder(ctx context.Context, orderID string, req UpdateOrderRequest) (*OrderDTO, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if s.cfg.RequireLinesOnUpdate && len(req.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	if err := validateLineInputs(req.Lines); err != nil {
		return nil, err
	}

	updates, err := headerUpdates(req)
	if err != nil {
		return nil, err
	}

	var dto *OrderDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		invRepo := inventory.NewRepository(tx)

		header, err := repo.FindHeader(ctx, orderID)
		if err != nil {
			if IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		resolved, err := resolveLines(ctx, invRepo, req.Lines)
		if err != nil {
			return err
		}
		updates["total_cost"] = totalCost(resolved)

		// destructive line replacement: the old set is gone, the new
		// set is inserted wholesale
		if err := repo.DeleteLines(ctx, header.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order lines")
		}
		if err := repo.CreateLines(ctx, toModels(header.ID, resolved)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order lines")
		}
		if err := repo.UpdateHeader(ctx, header.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order header")
		}

		fresh, err := repo.FindHeader(ctx, header.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		details, err := repo.FindLineDetails(ctx, header.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order lines")
		}
		dto = headerToDTO(fresh, details)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, dto.ID), "order updated")
	}
	return dto, nil
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	repo := NewRepository(s.db.DB())
	header, err := repo.FindHeader(ctx, orderID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	details, err := repo.FindLineDetails(ctx, header.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order lines")
	}
	return headerToDTO(header, details), nil
}

func (s *service) ListOrders(ctx context.Context) ([]OrderDTO, error) {
	repo := NewRepository(s.db.DB())
	headers, err := repo.ListHeaders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	result := make([]OrderDTO, 0, len(headers))
	for i := range headers {
		details, err := repo.FindLineDetails(ctx, headers[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order lines")
		}
		result = append(result, *headerToDTO(&headers[i], details))
	}
	return result, nil
}

func (s *service) generateOrderID() string {
	prefix := strings.TrimSpace(s.cfg.IDPrefix)
	if prefix == "" {
		prefix = "WNT"
	}
	return fmt.Sprintf("%s-%d", prefix, time.Now().UTC().UnixNano())
}

// insertWeddingDetail resolves the customer account by email and inserts the
// auxiliary record in the same transaction. An unknown customer aborts the
// whole order.
func (s *service) insertWeddingDetail(ctx context.Context, tx *gorm.DB, repo Repository, header *models.Order, input *WeddingInput) error {
	if header.CustomerEmail == nil || strings.TrimSpace(*header.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required for wedding orders")
	}

	accountRepo := accounts.NewRepository(tx)
	account, err := accountRepo.FindByEmail(ctx, *header.CustomerEmail)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeCustomerNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve customer account")
	}

	detail := &models.WeddingDetail{
		ID:        uuid.New(),
		OrderID:   header.ID,
		AccountID: account.ID,
	}
	if input != nil {
		detail.BrideName = input.BrideName
		detail.GroomName = input.GroomName
		detail.WeddingDate = input.WeddingDate
		detail.Venue = input.Venue
	}
	if err := repo.CreateWeddingDetail(ctx, detail); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wedding detail")
	}
	return nil
}

func buildHeader(req CreateOrderRequest) (*models.Order, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if req.OrderDate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order date is required")
	}
	if req.ExpectedDeliveryDate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected delivery date is required")
	}

	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	packageType, err := enums.ParsePackageType(req.PackageType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid package type")
	}

	payment := enums.PaymentMethodCash
	if req.PaymentMethod != nil {
		parsed, err := enums.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		payment = parsed
	}

	return &models.Order{
		CustomerName:         name,
		CustomerEmail:        req.CustomerEmail,
		ContactNumber:        req.ContactNumber,
		OrderDate:            *req.OrderDate,
		ExpectedDeliveryDate: *req.ExpectedDeliveryDate,
		Status:               status,
		PackageType:          packageType,
		PaymentMethod:        payment,
		ShippingAddress:      req.ShippingAddress,
		Notes:                req.Notes,
	}, nil
}

func headerUpdates(req UpdateOrderRequest) (map[string]any, error) {
	updates := map[string]any{}
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		updates["customer_name"] = name
	}
	if req.CustomerEmail != nil {
		updates["customer_email"] = *req.CustomerEmail
	}
	if req.ContactNumber != nil {
		updates["contact_number"] = *req.ContactNumber
	}
	if req.OrderDate != nil {
		updates["order_date"] = *req.OrderDate
	}
	if req.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = *req.ExpectedDeliveryDate
	}
	if req.Status != nil {
		status, err := enums.ParseOrderStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		updates["status"] = status
	}
	if req.PaymentMethod != nil {
		payment, err := enums.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		updates["payment_method"] = payment
	}
	if req.ShippingAddress != nil {
		updates["shipping_address"] = *req.ShippingAddress
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	return updates, nil
}

func validateLineInputs(lines []LineInput) error {
	for i, line := range lines {
		if strings.TrimSpace(line.SKU) == "" && strings.TrimSpace(line.ItemName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "line requires a sku or an item name").
				WithDetails(map[string]any{"line": i})
		}
		if line.Quantity == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "line quantity is required").
				WithDetails(map[string]any{"line": i})
		}
		if *line.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line quantity cannot be negative").
				WithDetails(map[string]any{"line": i})
		}
	}
	return nil
}

// resolveLines maps every input line onto a concrete sku. Repeated SKUs stay
// as distinct lines; nothing is merged or summed.
func resolveLines(ctx context.Context, invRepo inventory.Repository, lines []LineInput) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	for i, line := range lines {
		var item *models.InventoryItem
		var err error

		if sku := strings.TrimSpace(line.SKU); sku != "" {
			item, err = invRepo.FindActiveBySKU(ctx, sku)
		} else {
			item, err = invRepo.FindActiveByName(ctx, strings.TrimSpace(line.ItemName))
		}
		if err != nil {
			if IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
					WithDetails(map[string]any{"line": i, "sku": line.SKU, "item_name": line.ItemName})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve order line")
		}

		margin := decimal.Zero
		if line.ProfitMargin != nil {
			margin = *line.ProfitMargin
		}
		resolved = append(resolved, resolvedLine{
			sku:       item.SKU,
			quantity:  *line.Quantity,
			unitPrice: item.UnitPrice,
			margin:    margin,
		})
	}
	return resolved, nil
}

func toModels(orderID string, lines []resolvedLine) []models.OrderLine {
	result := make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		result = append(result, models.OrderLine{
			ID:           uuid.New(),
			OrderID:      orderID,
			SKU:          line.sku,
			Quantity:     line.quantity,
			UnitPrice:    line.unitPrice,
			ProfitMargin: line.margin,
		})
	}
	return result
}

func totalCost(lines []resolvedLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.unitPrice.Mul(decimalFromInt(line.quantity)))
	}
	return total
}

package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
	"github.com/wrapntrack/wrapntrack-backend/pkg/pagination"
)

// supplierFinder is the slice of the supplier repository the catalog needs.
type supplierFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

// Service manages the stock catalog. Items are archived instead of deleted so
// historical order lines keep resolving.
type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	ArchiveItem(ctx context.Context, id uuid.UUID) error
	RestoreItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, req ListRequest) (*ListResponse, error)
}

type service struct {
	repo      Repository
	suppliers supplierFinder
	logg      *logger.Logger
}

// ServiceParams bundles the catalog service dependencies.
type ServiceParams struct {
	Repo      Repository
	Suppliers supplierFinder
	Logger    *logger.Logger
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.Suppliers == nil {
		return nil, fmt.Errorf("supplier repository is required")
	}
	return &service{
		repo:      params.Repo,
		suppliers: params.Suppliers,
		logg:      params.Logger,
	}, nil
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and name are required")
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}
	if req.UnitPrice == nil || req.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be zero or greater")
	}
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
	} else if !IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sku")
	}

	item := &models.InventoryItem{
		SKU:            sku,
		Name:           name,
		Category:       strings.TrimSpace(req.Category),
		Quantity:       *req.Quantity,
		UnitPrice:      *req.UnitPrice,
		ReorderLevel:   req.ReorderLevel,
		ExpirationDate: req.ExpirationDate,
		ImageURL:       req.ImageURL,
		SupplierID:     req.SupplierID,
		IsActive:       true,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "sku", created.SKU), "inventory item created")
	}
	return itemToDTO(created), nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return itemToDTO(item), nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	if _, err := s.findItem(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	updates, err := itemUpdates(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory item")
	}

	fresh, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return itemToDTO(fresh), nil
}

func (s *service) ArchiveItem(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *service) RestoreItem(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *service) ListItems(ctx context.Context, req ListRequest) (*ListResponse, error) {
	result, err := s.repo.List(ctx, ListQuery{
		Pagination:    pagination.Params{Limit: req.Limit, Cursor: req.Cursor},
		Category:      req.Category,
		Search:        req.Search,
		IncludeHidden: req.IncludeHidden,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory items")
	}

	items := make([]ItemDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, *itemToDTO(&result.Items[i]))
	}
	return &ListResponse{Items: items, NextCursor: result.NextCursor}, nil
}

func (s *service) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.findItem(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set inventory item state")
	}
	return nil
}

func (s *service) findItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}
	return item, nil
}

func (s *service) checkSupplier(ctx context.Context, supplierID *uuid.UUID) error {
	if supplierID == nil {
		return nil
	}
	if _, err := s.suppliers.FindByID(ctx, *supplierID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeSupplierNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check supplier")
	}
	return nil
}

func itemUpdates(req UpdateItemRequest) (map[string]any, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
		}
		updates["quantity"] = *req.Quantity
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be zero or greater")
		}
		updates["unit_price"] = *req.UnitPrice
	}
	if req.ReorderLevel != nil {
		updates["reorder_level"] = *req.ReorderLevel
	}
	if req.ExpirationDate != nil {
		updates["expiration_date"] = *req.ExpirationDate
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.SupplierID != nil {
		updates["supplier_id"] = *req.SupplierID
	}
	return updates, nil
}

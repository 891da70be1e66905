package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
)

// Service manages the supplier directory. Deleting a supplier never removes
// inventory rows, the database clears supplier_id on referencing items and
// leaves the items themselves untouched.
type Service interface {
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierDTO, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierDTO, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	ListSuppliers(ctx context.Context) ([]SupplierDTO, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// ServiceParams bundles the supplier service dependencies.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// NewService builds the supplier service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("supplier repository is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}

	supplier := &models.Supplier{
		Name:          name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		AddressLine:   req.AddressLine,
		City:          req.City,
		Province:      req.Province,
		PostalCode:    req.PostalCode,
	}
	if req.LeadTimeDays != nil {
		supplier.LeadTimeDays = *req.LeadTimeDays
	}

	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "supplier_id", created.ID.String()), "supplier created")
	}
	return supplierToDTO(created), nil
}

func (s *service) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.findSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToDTO(supplier), nil
}

func (s *service) UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierDTO, error) {
	if _, err := s.findSupplier(ctx, id); err != nil {
		return nil, err
	}

	updates, err := supplierUpdates(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update supplier")
	}

	fresh, err := s.findSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToDTO(fresh), nil
}

func (s *service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findSupplier(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete supplier")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "supplier_id", id.String()), "supplier deleted")
	}
	return nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]SupplierDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list suppliers")
	}
	result := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *supplierToDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) findSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeSupplierNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load supplier")
	}
	return supplier, nil
}

func supplierUpdates(req UpdateSupplierRequest) (map[string]any, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name cannot be empty")
		}
		updates["name"] = name
	}
	if req.ContactPerson != nil {
		updates["contact_person"] = *req.ContactPerson
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AddressLine != nil {
		updates["address_line"] = *req.AddressLine
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Province != nil {
		updates["province"] = *req.Province
	}
	if req.PostalCode != nil {
		updates["postal_code"] = *req.PostalCode
	}
	if req.LeadTimeDays != nil {
		if *req.LeadTimeDays < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead time cannot be negative")
		}
		updates["lead_time_days"] = *req.LeadTimeDays
	}
	return updates, nil
}

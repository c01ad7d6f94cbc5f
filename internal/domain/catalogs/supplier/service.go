package supplier

import (
	"context"

	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/domain/catalogs/business"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// Service provides supplier catalog operations.
type Service struct {
	col        *store.Collection[Supplier]
	businesses *store.Collection[business.Business]
}

// NewService creates a supplier catalog service.
func NewService(col *store.Collection[Supplier], businesses *store.Collection[business.Business]) *Service {
	return &Service{col: col, businesses: businesses}
}

// Create adds a supplier to a business.
func (s *Service) Create(ctx context.Context, in Input) (*Supplier, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpSupplierCreate); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(in.BusinessID); err != nil {
		return nil, err
	}
	if _, err := s.businesses.Get(in.BusinessID); err != nil {
		return nil, err
	}

	rec := New(in, appctx.GetUserID(ctx))
	if err := s.col.Insert(ctx, rec); err != nil {
		return nil, err
	}

	logger.Info(ctx, "supplier created", "id", rec.ID, "name", rec.Name)
	return &rec, nil
}

// Update replaces the editable fields of a supplier.
func (s *Service) Update(ctx context.Context, supplierID id.ID, in Input) (*Supplier, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpSupplierUpdate); err != nil {
		return nil, err
	}

	current, err := s.col.Get(supplierID)
	if err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(current.BusinessID); err != nil {
		return nil, err
	}

	in.BusinessID = current.BusinessID
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated Supplier
	err = s.col.Modify(ctx, supplierID, func(sp *Supplier) error {
		sp.Name = in.Name
		sp.Mobile = in.Mobile
		sp.Email = in.Email
		sp.Address = in.Address
		updated = *sp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListByBusiness returns the suppliers of one business in insertion order.
func (s *Service) ListByBusiness(ctx context.Context, businessID id.ID) ([]Supplier, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	return s.col.List(func(sp Supplier) bool {
		return sp.BusinessID == businessID
	}), nil
}

package product

import (
	"context"

	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/domain/catalogs/business"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// Service provides product catalog operations. Edits require at least a
// business manager.
type Service struct {
	col        *store.Collection[Product]
	businesses *store.Collection[business.Business]
}

// NewService creates a product catalog service.
func NewService(col *store.Collection[Product], businesses *store.Collection[business.Business]) *Service {
	return &Service{col: col, businesses: businesses}
}

// Create adds a product to a business.
func (s *Service) Create(ctx context.Context, in Input) (*Product, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpProductCreate); err != nil {
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

	logger.Info(ctx, "product created",
		"id", rec.ID,
		"business_id", rec.BusinessID,
		"name", rec.Name)
	return &rec, nil
}

// Update replaces the editable fields of a product.
func (s *Service) Update(ctx context.Context, productID id.ID, in Input) (*Product, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpProductUpdate); err != nil {
		return nil, err
	}

	current, err := s.col.Get(productID)
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

	var updated Product
	err = s.col.Modify(ctx, productID, func(p *Product) error {
		p.Name = in.Name
		p.Description = in.Description
		p.Category = in.Category
		p.SellingPrice = in.SellingPrice
		p.CostPrice = in.CostPrice
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Deactivate soft-deletes a product. Historical records keep referencing it.
func (s *Service) Deactivate(ctx context.Context, productID id.ID) error {
	return s.setActive(ctx, productID, false)
}

// Reactivate brings a soft-deleted product back into the catalog.
func (s *Service) Reactivate(ctx context.Context, productID id.ID) error {
	return s.setActive(ctx, productID, true)
}

func (s *Service) setActive(ctx context.Context, productID id.ID, active bool) error {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpProductUpdate); err != nil {
		return err
	}
	current, err := s.col.Get(productID)
	if err != nil {
		return err
	}
	if err := scope.RequireBusiness(current.BusinessID); err != nil {
		return err
	}
	return s.col.Modify(ctx, productID, func(p *Product) error {
		p.Active = active
		return nil
	})
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, productID id.ID) (*Product, error) {
	rec, err := s.col.Get(productID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByBusiness returns the products of one business; inactive products are
// included only when includeInactive is set.
func (s *Service) ListByBusiness(ctx context.Context, businessID id.ID, includeInactive bool) ([]Product, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	return s.col.List(func(p Product) bool {
		if p.BusinessID != businessID {
			return false
		}
		return includeInactive || p.Active
	}), nil
}

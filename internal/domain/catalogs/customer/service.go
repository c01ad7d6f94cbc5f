package customer

import (
	"context"

	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/domain/catalogs/business"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// Service provides customer catalog operations.
type Service struct {
	col        *store.Collection[Customer]
	businesses *store.Collection[business.Business]
}

// NewService creates a customer catalog service.
func NewService(col *store.Collection[Customer], businesses *store.Collection[business.Business]) *Service {
	return &Service{col: col, businesses: businesses}
}

// Create adds a customer to a business.
func (s *Service) Create(ctx context.Context, in Input) (*Customer, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpCustomerCreate); err != nil {
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

	logger.Info(ctx, "customer created",
		"id", rec.ID,
		"business_id", rec.BusinessID,
		"name", rec.Name)
	return &rec, nil
}

// Update replaces the contact fields of a customer. The running aggregates
// are engine-owned and remain untouched.
func (s *Service) Update(ctx context.Context, customerID id.ID, in Input) (*Customer, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpCustomerUpdate); err != nil {
		return nil, err
	}

	current, err := s.col.Get(customerID)
	if err != nil {
		return nil, err
	}
	if err := scope.RequireBusiness(current.BusinessID); err != nil {
		return nil, err
	}

	in.BusinessID = current.BusinessID // customers never move between businesses
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated Customer
	err = s.col.Modify(ctx, customerID, func(c *Customer) error {
		c.Name = in.Name
		c.Mobile = in.Mobile
		c.Email = in.Email
		updated = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, customerID id.ID) (*Customer, error) {
	rec, err := s.col.Get(customerID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByBusiness returns the customers of one business in insertion order.
func (s *Service) ListByBusiness(ctx context.Context, businessID id.ID) ([]Customer, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireBusiness(businessID); err != nil {
		return nil, err
	}
	return s.col.List(func(c Customer) bool {
		return c.BusinessID == businessID
	}), nil
}

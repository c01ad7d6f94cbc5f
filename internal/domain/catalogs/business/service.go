package business

import (
	"context"

	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

// Service provides business catalog operations. All writes are admin-only.
type Service struct {
	col *store.Collection[Business]
}

// NewService creates a business catalog service.
func NewService(col *store.Collection[Business]) *Service {
	return &Service{col: col}
}

// Create adds a new business.
func (s *Service) Create(ctx context.Context, in Input) (*Business, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpBusinessCreate); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rec := New(in, appctx.GetUserID(ctx))
	if err := s.col.Insert(ctx, rec); err != nil {
		return nil, err
	}

	logger.Info(ctx, "business created", "id", rec.ID, "name", rec.Name)
	return &rec, nil
}

// Update replaces the editable fields of a business.
func (s *Service) Update(ctx context.Context, businessID id.ID, in Input) (*Business, error) {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpBusinessUpdate); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated Business
	err := s.col.Modify(ctx, businessID, func(b *Business) error {
		b.Name = in.Name
		b.Description = in.Description
		b.Address = in.Address
		b.Phone = in.Phone
		b.Email = in.Email
		updated = *b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "business updated", "id", businessID)
	return &updated, nil
}

// SetActive flips the operating flag without touching other fields.
func (s *Service) SetActive(ctx context.Context, businessID id.ID, active bool) error {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpBusinessUpdate); err != nil {
		return err
	}
	return s.col.Modify(ctx, businessID, func(b *Business) error {
		b.Active = active
		return nil
	})
}

// Delete removes a business record. Child records are not cascaded: customers,
// products and ledger entries keep their businessId, matching the reference
// behavior.
func (s *Service) Delete(ctx context.Context, businessID id.ID) error {
	scope := security.FromContext(ctx)
	if err := scope.RequireOperation(security.OpBusinessDelete); err != nil {
		return err
	}
	if err := s.col.Delete(ctx, businessID); err != nil {
		return err
	}
	logger.Info(ctx, "business deleted", "id", businessID)
	return nil
}

// Get returns one business by id.
func (s *Service) Get(ctx context.Context, businessID id.ID) (*Business, error) {
	rec, err := s.col.Get(businessID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListVisible returns the businesses the current actor may see, in insertion
// order: all for admin, assigned ones otherwise.
func (s *Service) ListVisible(ctx context.Context) []Business {
	scope := security.FromContext(ctx)
	return s.col.List(func(b Business) bool {
		return scope.CanAccessBusiness(b.ID)
	})
}

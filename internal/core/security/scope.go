package security

import (
	"context"
	"fmt"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
)

// AccessScope defines the boundaries of data visibility for the current actor:
// which businesses are visible and which operations are permitted.
type AccessScope struct {
	// UserID is the acting user
	UserID string

	// Role drives the permission table
	Role Role

	// BusinessIDs limits access to specific businesses.
	// Ignored for admin, who sees all.
	BusinessIDs []id.ID
}

// FromContext builds the AccessScope for the current actor. Without a user in
// context the scope permits nothing.
func FromContext(ctx context.Context) *AccessScope {
	user := appctx.GetUser(ctx)
	if user == nil {
		return &AccessScope{}
	}
	return &AccessScope{
		UserID:      user.UserID,
		Role:        Role(user.Role),
		BusinessIDs: user.BusinessIDs,
	}
}

// IsAdmin reports whether the scope bypasses business filtering.
func (s *AccessScope) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanAccessBusiness checks if the actor can see the business.
func (s *AccessScope) CanAccessBusiness(businessID id.ID) bool {
	if s.IsAdmin() {
		return true
	}
	for _, bid := range s.BusinessIDs {
		if bid == businessID {
			return true
		}
	}
	return false
}

// RequireBusiness returns FORBIDDEN if the business is outside the scope.
func (s *AccessScope) RequireBusiness(businessID id.ID) error {
	if !s.CanAccessBusiness(businessID) {
		return apperror.NewForbidden("business is outside the actor's scope").
			WithDetail("business_id", businessID.String())
	}
	return nil
}

// RequireOperation returns FORBIDDEN if the role lacks the operation.
func (s *AccessScope) RequireOperation(operation Operation) error {
	if !RoleAllows(s.Role, operation) {
		return apperror.NewForbidden(
			fmt.Sprintf("role %s may not perform %s", s.Role, operation),
		).WithDetail("operation", string(operation))
	}
	return nil
}

// FilterBusinessIDs returns the intersection of requested and visible
// business ids. An empty request means everything visible.
func (s *AccessScope) FilterBusinessIDs(requested []id.ID) []id.ID {
	if s.IsAdmin() {
		return requested
	}
	if len(requested) == 0 {
		return s.BusinessIDs
	}
	visible := make(map[id.ID]bool, len(s.BusinessIDs))
	for _, bid := range s.BusinessIDs {
		visible[bid] = true
	}
	var result []id.ID
	for _, bid := range requested {
		if visible[bid] {
			result = append(result, bid)
		}
	}
	return result
}

// CanProcessTransfer checks the transfer accept/reject rule: the admin, or any
// actor assigned to the destination business. The pending-state check belongs
// to the engine; this covers only who may decide.
func (s *AccessScope) CanProcessTransfer(toBusinessID id.ID) bool {
	if !RoleAllows(s.Role, OpTransferProcess) {
		return false
	}
	return s.CanAccessBusiness(toBusinessID)
}

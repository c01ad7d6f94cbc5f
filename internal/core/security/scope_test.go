package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
)

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		role      Role
		operation Operation
		want      bool
	}{
		{RoleAdmin, OpBusinessCreate, true},
		{RoleAdmin, OpTransferProcess, true},
		{RoleBusinessManager, OpBusinessCreate, false},
		{RoleBusinessManager, OpBusinessDelete, false},
		{RoleBusinessManager, OpProductCreate, true},
		{RoleBusinessManager, OpTransferInitiate, true},
		{RoleBusinessManager, OpSaleRecord, true},
		{RoleStaff, OpProductCreate, false},
		{RoleStaff, OpTransferInitiate, false},
		{RoleStaff, OpSaleRecord, true},
		{RoleStaff, OpDueCollect, true},
		{RoleStaff, OpStockAdjust, true},
		{RoleStaff, OpTransferProcess, true},
		{Role("unknown"), OpSaleRecord, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleAllows(tt.role, tt.operation),
			"%s / %s", tt.role, tt.operation)
	}
}

func TestAccessScope_BusinessVisibility(t *testing.T) {
	b1, b2 := id.New(), id.New()

	admin := &AccessScope{Role: RoleAdmin}
	assert.True(t, admin.CanAccessBusiness(b1))
	assert.True(t, admin.CanAccessBusiness(b2))

	staff := &AccessScope{Role: RoleStaff, BusinessIDs: []id.ID{b1}}
	assert.True(t, staff.CanAccessBusiness(b1))
	assert.False(t, staff.CanAccessBusiness(b2))

	err := staff.RequireBusiness(b2)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAccessScope_FilterBusinessIDs(t *testing.T) {
	b1, b2, b3 := id.New(), id.New(), id.New()
	scope := &AccessScope{Role: RoleBusinessManager, BusinessIDs: []id.ID{b1, b2}}

	assert.Equal(t, []id.ID{b1, b2}, scope.FilterBusinessIDs(nil))
	assert.Equal(t, []id.ID{b1}, scope.FilterBusinessIDs([]id.ID{b1, b3}))

	admin := &AccessScope{Role: RoleAdmin}
	assert.Equal(t, []id.ID{b3}, admin.FilterBusinessIDs([]id.ID{b3}))
}

func TestAccessScope_CanProcessTransfer(t *testing.T) {
	dest := id.New()
	other := id.New()

	assert.True(t, (&AccessScope{Role: RoleAdmin}).CanProcessTransfer(dest))
	assert.True(t, (&AccessScope{Role: RoleStaff, BusinessIDs: []id.ID{dest}}).CanProcessTransfer(dest))
	assert.False(t, (&AccessScope{Role: RoleStaff, BusinessIDs: []id.ID{other}}).CanProcessTransfer(dest))
	assert.False(t, (&AccessScope{}).CanProcessTransfer(dest))
}

func TestFromContext_NoUser(t *testing.T) {
	scope := FromContext(context.Background())
	assert.False(t, scope.CanAccessBusiness(id.New()))
	assert.Error(t, scope.RequireOperation(OpSaleRecord))
}

func TestFromContext_User(t *testing.T) {
	b1 := id.New()
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:      "u1",
		Role:        string(RoleBusinessManager),
		BusinessIDs: []id.ID{b1},
	})

	scope := FromContext(ctx)
	assert.Equal(t, "u1", scope.UserID)
	assert.True(t, scope.CanAccessBusiness(b1))
	assert.NoError(t, scope.RequireOperation(OpProductCreate))
	assert.True(t, apperror.IsForbidden(scope.RequireOperation(OpBusinessCreate)))
}

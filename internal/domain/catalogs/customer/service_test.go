package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/domain/catalogs/business"
	"ledgerbook/internal/kv"
	"ledgerbook/internal/store"
)

func setup(t *testing.T) (*Service, business.Business) {
	t.Helper()
	st := store.Open(kv.NewMemory())
	customers, err := store.NewCollection[Customer](st, store.ColCustomers)
	require.NoError(t, err)
	businesses, err := store.NewCollection[business.Business](st, store.ColBusinesses)
	require.NoError(t, err)

	biz := business.New(business.Input{Name: "Shop One"}, "admin")
	require.NoError(t, businesses.Insert(context.Background(), biz))

	return NewService(customers, businesses), biz
}

func adminCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: "admin",
		Role:   string(security.RoleAdmin),
	})
}

func TestCreate(t *testing.T) {
	svc, biz := setup(t)
	ctx := adminCtx()

	c, err := svc.Create(ctx, Input{
		BusinessID: biz.ID,
		Name:       "John Carter",
		Mobile:     "+1-555-0201",
	})
	require.NoError(t, err)
	assert.True(t, c.TotalPurchases.IsZero())
	assert.True(t, c.TotalDue.IsZero())

	_, err = svc.Create(ctx, Input{BusinessID: biz.ID, Name: "No Mobile"})
	assert.Error(t, err)

	_, err = svc.Create(ctx, Input{BusinessID: id.New(), Name: "Ghost", Mobile: "+1"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_KeepsAggregatesAndBusiness(t *testing.T) {
	svc, biz := setup(t)
	ctx := adminCtx()

	c, err := svc.Create(ctx, Input{
		BusinessID: biz.ID,
		Name:       "Before",
		Mobile:     "+1-555-0201",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, Input{
		BusinessID: id.New(), // ignored, customers never move
		Name:       "After",
		Mobile:     "+1-555-9999",
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, biz.ID, updated.BusinessID)
	assert.True(t, updated.TotalPurchases.IsZero())
}

func TestListByBusiness_Scoped(t *testing.T) {
	svc, biz := setup(t)
	ctx := adminCtx()

	_, err := svc.Create(ctx, Input{BusinessID: biz.ID, Name: "A", Mobile: "+1"})
	require.NoError(t, err)

	list, err := svc.ListByBusiness(ctx, biz.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	outsider := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:      "staff",
		Role:        string(security.RoleStaff),
		BusinessIDs: []id.ID{id.New()},
	})
	_, err = svc.ListByBusiness(outsider, biz.ID)
	assert.True(t, apperror.IsForbidden(err))
}

package business

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/kv"
	"ledgerbook/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	st := store.Open(kv.NewMemory())
	col, err := store.NewCollection[Business](st, store.ColBusinesses)
	require.NoError(t, err)
	return NewService(col)
}

func roleCtx(role security.Role, businessIDs ...id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:      "u1",
		Role:        string(role),
		BusinessIDs: businessIDs,
	})
}

func TestCreate(t *testing.T) {
	svc := newService(t)
	ctx := roleCtx(security.RoleAdmin)

	b, err := svc.Create(ctx, Input{Name: "Shop One", Email: "shop@example.com"})
	require.NoError(t, err)
	assert.False(t, id.IsNil(b.ID))
	assert.True(t, b.Active)
	assert.False(t, b.CreatedAt.IsZero())

	_, err = svc.Create(ctx, Input{Name: ""})
	assert.Error(t, err)

	_, err = svc.Create(ctx, Input{Name: "Bad Email", Email: "not-an-email"})
	assert.Error(t, err)
}

func TestCreate_AdminOnly(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(roleCtx(security.RoleBusinessManager), Input{Name: "Nope"})
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.Create(roleCtx(security.RoleStaff), Input{Name: "Nope"})
	assert.True(t, apperror.IsForbidden(err))
}

func TestUpdate(t *testing.T) {
	svc := newService(t)
	ctx := roleCtx(security.RoleAdmin)

	b, err := svc.Create(ctx, Input{Name: "Before"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, b.ID, Input{Name: "After", Phone: "+1-555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "+1-555-0101", updated.Phone)
	assert.Equal(t, b.ID, updated.ID)

	_, err = svc.Update(ctx, id.New(), Input{Name: "Ghost"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetActiveAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := roleCtx(security.RoleAdmin)

	b, err := svc.Create(ctx, Input{Name: "Shop"})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, b.ID, false))
	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.Get(ctx, b.ID)
	assert.True(t, apperror.IsNotFound(err))

	assert.True(t, apperror.IsForbidden(svc.Delete(roleCtx(security.RoleBusinessManager), b.ID)))
}

func TestListVisible(t *testing.T) {
	svc := newService(t)
	ctx := roleCtx(security.RoleAdmin)

	b1, err := svc.Create(ctx, Input{Name: "One"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Name: "Two"})
	require.NoError(t, err)

	assert.Len(t, svc.ListVisible(ctx), 2)

	staff := svc.ListVisible(roleCtx(security.RoleStaff, b1.ID))
	require.Len(t, staff, 1)
	assert.Equal(t, "One", staff[0].Name)

	assert.Empty(t, svc.ListVisible(context.Background()))
}

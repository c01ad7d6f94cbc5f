package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/kv"
	"ledgerbook/internal/store"
)

func newDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := Open(store.Open(kv.NewMemory()))
	require.NoError(t, err)
	return d
}

func TestRegisterAndAuthenticate(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()
	biz := id.New()

	u, err := d.Register(ctx, "Manager@Business1.com", "Business Manager",
		security.RoleBusinessManager, biz)
	require.NoError(t, err)
	assert.Equal(t, "manager@business1.com", u.Email)

	// Any password is accepted; this is a demo directory.
	user, err := d.Authenticate(ctx, "manager@business1.com", "whatever")
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), user.UserID)
	assert.Equal(t, string(security.RoleBusinessManager), user.Role)
	assert.Equal(t, []id.ID{biz}, user.BusinessIDs)

	_, err = d.Authenticate(ctx, "nobody@example.com", "whatever")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegister_Validation(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	_, err := d.Register(ctx, "", "No Email", security.RoleStaff)
	assert.Error(t, err)

	_, err = d.Register(ctx, "a@b.com", "Bad Role", security.Role("owner"))
	assert.Error(t, err)

	_, err = d.Register(ctx, "dup@b.com", "First", security.RoleStaff)
	require.NoError(t, err)
	_, err = d.Register(ctx, "DUP@b.com", "Second", security.RoleStaff)
	assert.Error(t, err, "emails are unique case-insensitively")
}

func TestAssignBusiness(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	u, err := d.Register(ctx, "staff@b.com", "Staff", security.RoleStaff)
	require.NoError(t, err)

	biz := id.New()
	require.NoError(t, d.AssignBusiness(ctx, u.ID, biz))
	// Assigning twice is a no-op.
	require.NoError(t, d.AssignBusiness(ctx, u.ID, biz))

	user, err := d.Authenticate(ctx, "staff@b.com", "")
	require.NoError(t, err)
	assert.Equal(t, []id.ID{biz}, user.BusinessIDs)
}

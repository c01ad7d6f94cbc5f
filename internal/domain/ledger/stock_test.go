package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/security"
)

func TestRecordStockMovement(t *testing.T) {
	env := newTestEnv(t)

	in, err := env.engine.RecordStockMovement(env.ctx, StockInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   10,
		Direction:  StockIn,
		Reason:     "Opening balance",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, in.SignedQuantity())
	assert.Equal(t, "Opening balance", in.Reason)
	assert.False(t, in.Date.IsZero())

	out, err := env.engine.RecordStockMovement(env.ctx, StockInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   3,
		Direction:  StockOut,
		Reason:     "Damaged in storage",
	})
	require.NoError(t, err)
	assert.Equal(t, -3, out.SignedQuantity())

	level := 0
	for _, mv := range env.cols.Stock.All() {
		level += mv.SignedQuantity()
	}
	assert.Equal(t, 7, level)
}

func TestRecordStockMovement_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.RecordStockMovement(env.ctx, StockInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   5,
		Direction:  StockDirection("sideways"),
	})
	assert.Error(t, err, "unknown direction must be rejected")

	_, err = env.engine.RecordStockMovement(env.ctx, StockInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   0,
		Direction:  StockIn,
	})
	assert.True(t, apperror.IsInvalidAmount(err))

	// prod belongs to biz1.
	_, err = env.engine.RecordStockMovement(env.ctx, StockInput{
		BusinessID: env.biz2.ID,
		ProductID:  env.prod.ID,
		Quantity:   5,
		Direction:  StockIn,
	})
	assert.Error(t, err)

	assert.Equal(t, 0, env.cols.Stock.Len())
}

func TestRecordStockMovement_Permissions(t *testing.T) {
	env := newTestEnv(t)

	staff := userCtx(security.RoleStaff, env.biz1.ID)
	_, err := env.engine.RecordStockMovement(staff, StockInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   2,
		Direction:  StockIn,
		Reason:     "Stocktake correction",
	})
	require.NoError(t, err)

	outsider := userCtx(security.RoleStaff, env.biz2.ID)
	_, err = env.engine.RecordStockMovement(outsider, StockInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   2,
		Direction:  StockIn,
	})
	assert.True(t, apperror.IsForbidden(err))
}

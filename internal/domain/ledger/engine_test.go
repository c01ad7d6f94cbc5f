package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/numerator"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/business"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/domain/catalogs/product"
	"ledgerbook/internal/domain/catalogs/supplier"
	"ledgerbook/internal/kv"
	"ledgerbook/internal/store"
)

type testEnv struct {
	ctx    context.Context
	st     *store.Store
	cols   *Collections
	engine *Engine

	biz1 business.Business
	biz2 business.Business
	cust customer.Customer
	prod product.Product
	sup  supplier.Supplier
}

func userCtx(role security.Role, businessIDs ...id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:      "test-user",
		Email:       "test@example.com",
		Name:        "Test User",
		Role:        string(role),
		BusinessIDs: businessIDs,
	})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.Open(kv.NewMemory())
	cols, err := OpenCollections(st)
	require.NoError(t, err)

	ctx := userCtx(security.RoleAdmin)

	biz1 := business.New(business.Input{Name: "Shop One"}, "test-user")
	biz2 := business.New(business.Input{Name: "Shop Two"}, "test-user")
	require.NoError(t, cols.Businesses.Insert(ctx, biz1))
	require.NoError(t, cols.Businesses.Insert(ctx, biz2))

	cust := customer.New(customer.Input{
		BusinessID: biz1.ID,
		Name:       "John Carter",
		Mobile:     "+1-555-0201",
	}, "test-user")
	require.NoError(t, cols.Customers.Insert(ctx, cust))

	prod := product.New(product.Input{
		BusinessID:   biz1.ID,
		Name:         "Television",
		SellingPrice: types.MustMoney("100"),
		CostPrice:    types.MustMoney("60"),
	}, "test-user")
	require.NoError(t, cols.Products.Insert(ctx, prod))

	sup := supplier.New(supplier.Input{
		BusinessID: biz1.ID,
		Name:       "Delta Distributors",
	}, "test-user")
	require.NoError(t, cols.Suppliers.Insert(ctx, sup))

	return &testEnv{
		ctx:    ctx,
		st:     st,
		cols:   cols,
		engine: NewEngine(st, cols, numerator.NewMock()),
		biz1:   biz1,
		biz2:   biz2,
		cust:   cust,
		prod:   prod,
		sup:    sup,
	}
}

func (e *testEnv) entriesFor(pred func(CashbookEntry) bool) []CashbookEntry {
	return e.cols.Cashbook.List(pred)
}

func moneyEq(t *testing.T, want string, got types.Money, msgAndArgs ...any) {
	t.Helper()
	if !assert.True(t, types.MustMoney(want).Equal(got), msgAndArgs...) {
		t.Logf("want %s, got %s", want, got.String())
	}
}

func TestRecordSale_PartialPayment(t *testing.T) {
	env := newTestEnv(t)

	sale, err := env.engine.RecordSale(env.ctx, SaleInput{
		BusinessID: env.biz1.ID,
		CustomerID: env.cust.ID,
		ProductID:  env.prod.ID,
		Quantity:   2,
		UnitPrice:  types.MustMoney("100"),
		CashAmount: types.MustMoney("150"),
	})
	require.NoError(t, err)

	moneyEq(t, "200", sale.TotalAmount)
	moneyEq(t, "150", sale.PaidAmount)
	moneyEq(t, "50", sale.DueAmount)

	entries := env.entriesFor(func(e CashbookEntry) bool { return e.Category == CategorySale })
	require.Len(t, entries, 1)
	assert.Equal(t, Inflow, entries[0].Direction)
	assert.Equal(t, ModeCash, entries[0].Mode)
	moneyEq(t, "150", entries[0].Amount)
	assert.Equal(t, env.cust.ID, entries[0].CustomerID)

	dues := env.cols.Dues.All()
	require.Len(t, dues, 1)
	moneyEq(t, "50", dues[0].DueAmount)
	moneyEq(t, "150", dues[0].PaidAmount)
	seeded := types.Zero()
	for _, p := range dues[0].Payments {
		seeded = seeded.Add(p.Amount)
	}
	moneyEq(t, "150", seeded, "seeded payments must equal paid amount")

	cust, err := env.cols.Customers.Get(env.cust.ID)
	require.NoError(t, err)
	moneyEq(t, "200", cust.TotalPurchases)
	moneyEq(t, "50", cust.TotalDue)

	stock := env.cols.Stock.All()
	require.Len(t, stock, 1)
	assert.Equal(t, StockOut, stock[0].Direction)
	assert.Equal(t, -2, stock[0].SignedQuantity())
}

func TestRecordSale_FullPaymentOpensNoDue(t *testing.T) {
	env := newTestEnv(t)

	sale, err := env.engine.RecordSale(env.ctx, SaleInput{
		BusinessID: env.biz1.ID,
		CustomerID: env.cust.ID,
		ProductID:  env.prod.ID,
		Quantity:   1,
		UnitPrice:  types.MustMoney("100"),
		CashAmount: types.MustMoney("40"),
		BankAmount: types.MustMoney("60"),
	})
	require.NoError(t, err)

	assert.True(t, sale.DueAmount.IsZero())
	assert.Equal(t, 0, env.cols.Dues.Len())

	// One entry per non-zero channel
	assert.Len(t, env.cols.Cashbook.All(), 2)
}

func TestRecordSale_Preconditions(t *testing.T) {
	env := newTestEnv(t)

	base := SaleInput{
		BusinessID: env.biz1.ID,
		CustomerID: env.cust.ID,
		ProductID:  env.prod.ID,
		Quantity:   1,
		UnitPrice:  types.MustMoney("100"),
	}

	t.Run("overpayment rejected", func(t *testing.T) {
		in := base
		in.CashAmount = types.MustMoney("150")
		_, err := env.engine.RecordSale(env.ctx, in)
		assert.True(t, apperror.IsInvalidAmount(err))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		in := base
		in.Quantity = 0
		_, err := env.engine.RecordSale(env.ctx, in)
		assert.True(t, apperror.IsInvalidAmount(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		in := base
		in.CustomerID = id.New()
		_, err := env.engine.RecordSale(env.ctx, in)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("inactive product", func(t *testing.T) {
		require.NoError(t, env.cols.Products.Modify(env.ctx, env.prod.ID, func(p *product.Product) error {
			p.Active = false
			return nil
		}))
		_, err := env.engine.RecordSale(env.ctx, base)
		assert.True(t, apperror.IsInvalidState(err))
	})

	// Failed operations must leave every collection untouched.
	assert.Equal(t, 0, env.cols.Sales.Len())
	assert.Equal(t, 0, env.cols.Cashbook.Len())
	assert.Equal(t, 0, env.cols.Stock.Len())
	cust, err := env.cols.Customers.Get(env.cust.ID)
	require.NoError(t, err)
	assert.True(t, cust.TotalDue.IsZero())
}

func TestRecordSale_Permissions(t *testing.T) {
	env := newTestEnv(t)

	in := SaleInput{
		BusinessID: env.biz1.ID,
		CustomerID: env.cust.ID,
		ProductID:  env.prod.ID,
		Quantity:   1,
		UnitPrice:  types.MustMoney("100"),
		CashAmount: types.MustMoney("100"),
	}

	t.Run("staff assigned to the business may sell", func(t *testing.T) {
		_, err := env.engine.RecordSale(userCtx(security.RoleStaff, env.biz1.ID), in)
		assert.NoError(t, err)
	})

	t.Run("manager outside the business may not", func(t *testing.T) {
		_, err := env.engine.RecordSale(userCtx(security.RoleBusinessManager, env.biz2.ID), in)
		assert.True(t, apperror.IsForbidden(err))
	})

	t.Run("anonymous may not", func(t *testing.T) {
		_, err := env.engine.RecordSale(context.Background(), in)
		assert.True(t, apperror.IsForbidden(err))
	})
}

func TestRecordDuePayment(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.RecordSale(env.ctx, SaleInput{
		BusinessID: env.biz1.ID,
		CustomerID: env.cust.ID,
		ProductID:  env.prod.ID,
		Quantity:   2,
		UnitPrice:  types.MustMoney("100"),
		CashAmount: types.MustMoney("150"),
	})
	require.NoError(t, err)
	due := env.cols.Dues.All()[0]

	updated, err := env.engine.RecordDuePayment(env.ctx, DuePaymentInput{
		DueID:  due.ID,
		Amount: types.MustMoney("50"),
		Mode:   ModeBank,
	})
	require.NoError(t, err)

	assert.True(t, updated.DueAmount.IsZero())
	moneyEq(t, "200", updated.PaidAmount)
	moneyEq(t, "200", updated.TotalAmount)

	collections := env.entriesFor(func(e CashbookEntry) bool { return e.Category == CategoryDueCollection })
	require.Len(t, collections, 1)
	assert.Equal(t, Inflow, collections[0].Direction)
	assert.Equal(t, ModeBank, collections[0].Mode)
	moneyEq(t, "50", collections[0].Amount)

	cust, err := env.cols.Customers.Get(env.cust.ID)
	require.NoError(t, err)
	assert.True(t, cust.TotalDue.IsZero())
}

func TestRecordDuePayment_Bounds(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.RecordSale(env.ctx, SaleInput{
		BusinessID: env.biz1.ID,
		CustomerID: env.cust.ID,
		ProductID:  env.prod.ID,
		Quantity:   1,
		UnitPrice:  types.MustMoney("100"),
		CashAmount: types.MustMoney("30"),
	})
	require.NoError(t, err)
	due := env.cols.Dues.All()[0]

	_, err = env.engine.RecordDuePayment(env.ctx, DuePaymentInput{
		DueID:  due.ID,
		Amount: types.MustMoney("80"),
		Mode:   ModeCash,
	})
	assert.True(t, apperror.IsInvalidAmount(err), "payment above outstanding due must be rejected")

	_, err = env.engine.RecordDuePayment(env.ctx, DuePaymentInput{
		DueID:  due.ID,
		Amount: types.Zero(),
		Mode:   ModeCash,
	})
	assert.True(t, apperror.IsInvalidAmount(err))

	_, err = env.engine.RecordDuePayment(env.ctx, DuePaymentInput{
		DueID:  id.New(),
		Amount: types.MustMoney("10"),
		Mode:   ModeCash,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestTransfer_Reject(t *testing.T) {
	env := newTestEnv(t)

	tr, err := env.engine.InitiateTransfer(env.ctx, TransferInput{
		FromBusinessID: env.biz1.ID,
		ToBusinessID:   env.biz2.ID,
		Amount:         types.MustMoney("500"),
		Mode:           ModeBank,
	})
	require.NoError(t, err)
	assert.Equal(t, TransferPending, tr.Status)
	assert.NotEmpty(t, tr.Number)

	updated, err := env.engine.ProcessTransfer(env.ctx, tr.ID, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, TransferRejected, updated.Status)
	assert.NotNil(t, updated.ProcessedAt)

	assert.Equal(t, 0, env.cols.Cashbook.Len(), "rejected transfers move no money")
}

func TestTransfer_Accept(t *testing.T) {
	env := newTestEnv(t)

	tr, err := env.engine.InitiateTransfer(env.ctx, TransferInput{
		FromBusinessID: env.biz1.ID,
		ToBusinessID:   env.biz2.ID,
		Amount:         types.MustMoney("500"),
		Mode:           ModeBank,
		Description:    "Working capital",
	})
	require.NoError(t, err)

	updated, err := env.engine.ProcessTransfer(env.ctx, tr.ID, DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, TransferAccepted, updated.Status)

	tagged := env.entriesFor(func(e CashbookEntry) bool { return e.TransferID == tr.ID })
	require.Len(t, tagged, 2)

	var out, in *CashbookEntry
	for i := range tagged {
		switch tagged[i].Direction {
		case Outflow:
			out = &tagged[i]
		case Inflow:
			in = &tagged[i]
		}
	}
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, env.biz1.ID, out.BusinessID)
	assert.Equal(t, CategoryTransferOut, out.Category)
	assert.Equal(t, env.biz2.ID, in.BusinessID)
	assert.Equal(t, CategoryTransferIn, in.Category)
	assert.True(t, out.Amount.Equal(in.Amount))
	moneyEq(t, "500", out.Amount)
}

func TestTransfer_StateMachine(t *testing.T) {
	env := newTestEnv(t)

	tr, err := env.engine.InitiateTransfer(env.ctx, TransferInput{
		FromBusinessID: env.biz1.ID,
		ToBusinessID:   env.biz2.ID,
		Amount:         types.MustMoney("100"),
		Mode:           ModeCash,
	})
	require.NoError(t, err)

	_, err = env.engine.ProcessTransfer(env.ctx, tr.ID, DecisionAccept)
	require.NoError(t, err)

	_, err = env.engine.ProcessTransfer(env.ctx, tr.ID, DecisionReject)
	assert.True(t, apperror.IsInvalidState(err), "a decided transfer cannot be decided again")
	assert.Equal(t, 2, env.cols.Cashbook.Len())
}

func TestTransfer_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.InitiateTransfer(env.ctx, TransferInput{
		FromBusinessID: env.biz1.ID,
		ToBusinessID:   env.biz1.ID,
		Amount:         types.MustMoney("100"),
		Mode:           ModeCash,
	})
	assert.Error(t, err, "source and destination must differ")

	_, err = env.engine.InitiateTransfer(env.ctx, TransferInput{
		FromBusinessID: env.biz1.ID,
		ToBusinessID:   env.biz2.ID,
		Amount:         types.MustMoney("-5"),
		Mode:           ModeCash,
	})
	assert.True(t, apperror.IsInvalidAmount(err))
}

func TestTransfer_DestinationProcessesOnly(t *testing.T) {
	env := newTestEnv(t)

	tr, err := env.engine.InitiateTransfer(env.ctx, TransferInput{
		FromBusinessID: env.biz1.ID,
		ToBusinessID:   env.biz2.ID,
		Amount:         types.MustMoney("100"),
		Mode:           ModeCash,
	})
	require.NoError(t, err)

	// Staff of the source business may not decide.
	_, err = env.engine.ProcessTransfer(userCtx(security.RoleStaff, env.biz1.ID), tr.ID, DecisionAccept)
	assert.True(t, apperror.IsForbidden(err))

	// Staff of the destination may.
	_, err = env.engine.ProcessTransfer(userCtx(security.RoleStaff, env.biz2.ID), tr.ID, DecisionAccept)
	assert.NoError(t, err)
}

func TestRecordPurchase(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.engine.RecordPurchase(env.ctx, PurchaseInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		SupplierID: env.sup.ID,
		Quantity:   10,
		UnitCost:   types.MustMoney("20"),
		PaidAmount: types.MustMoney("200"),
		Mode:       ModeCash,
	})
	require.NoError(t, err)

	moneyEq(t, "200", p.TotalAmount)
	assert.True(t, p.DueAmount.IsZero())
	assert.NotEmpty(t, p.InvoiceNumber)

	stock := env.cols.Stock.All()
	require.Len(t, stock, 1)
	assert.Equal(t, StockIn, stock[0].Direction)
	assert.Equal(t, 10, stock[0].SignedQuantity())

	entries := env.cols.Cashbook.All()
	require.Len(t, entries, 1)
	assert.Equal(t, Outflow, entries[0].Direction)
	assert.Equal(t, CategoryExpense, entries[0].Category)
	moneyEq(t, "200", entries[0].Amount)
}

func TestRecordPurchase_UnpaidRemainderStaysOnRecord(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.engine.RecordPurchase(env.ctx, PurchaseInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   5,
		UnitCost:   types.MustMoney("20"),
		PaidAmount: types.MustMoney("40"),
		Mode:       ModeBank,
	})
	require.NoError(t, err)

	moneyEq(t, "60", p.DueAmount)
	// No payable ledger is opened against the supplier.
	assert.Equal(t, 0, env.cols.Dues.Len())
}

func TestRecordPurchase_WholeUnpaid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.RecordPurchase(env.ctx, PurchaseInput{
		BusinessID: env.biz1.ID,
		ProductID:  env.prod.ID,
		Quantity:   3,
		UnitCost:   types.MustMoney("20"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, env.cols.Cashbook.Len(), "nothing paid, nothing in the cashbook")
	assert.Equal(t, 1, env.cols.Stock.Len())
}

func TestRecordEntry(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.engine.RecordEntry(env.ctx, EntryInput{
		BusinessID:  env.biz1.ID,
		Direction:   Outflow,
		Category:    CategoryExpense,
		Mode:        ModeCash,
		Amount:      types.MustMoney("75.50"),
		Description: "Shop rent share",
	})
	require.NoError(t, err)
	moneyEq(t, "75.50", entry.Amount)

	_, err = env.engine.RecordEntry(env.ctx, EntryInput{
		BusinessID: env.biz1.ID,
		Direction:  Inflow,
		Category:   CategorySale,
		Mode:       ModeCash,
		Amount:     types.MustMoney("10"),
	})
	assert.Error(t, err, "sale entries are produced by the sale operation only")
}

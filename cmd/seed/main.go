// Package main seeds a file-backed store with the demo dataset and walks
// every bookkeeping operation once, so a fresh checkout has data to look at.
package main

import (
	"context"
	"fmt"
	"os"

	"ledgerbook/internal/config"
	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/numerator"
	"ledgerbook/internal/core/security"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/business"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/domain/catalogs/product"
	"ledgerbook/internal/domain/catalogs/supplier"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/reports"
	"ledgerbook/internal/identity"
	"ledgerbook/internal/kv"
	"ledgerbook/internal/store"
	"ledgerbook/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Development: cfg.Logger.Development,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	log = log.WithComponent("seed")
	ctx := logger.WithLogger(context.Background(), log)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())

	substrate, err := kv.NewFile(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalw("failed to open data directory", "dir", cfg.Storage.DataDir, "error", err)
	}

	st := store.Open(substrate)
	cols, err := ledger.OpenCollections(st)
	if err != nil {
		log.Fatalw("failed to open collections", "error", err)
	}
	directory, err := identity.Open(st)
	if err != nil {
		log.Fatalw("failed to open user directory", "error", err)
	}

	if cols.Businesses.Len() > 0 {
		log.Info("store already seeded, nothing to do")
		return
	}

	if err := seed(ctx, cfg, st, substrate, cols, directory); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
	log.Info("seeding completed successfully")
}

func seed(ctx context.Context, cfg *config.Config, st *store.Store, substrate kv.Store, cols *ledger.Collections, directory *identity.Directory) error {
	admin, err := directory.Register(ctx, "admin@cashbook.com", "Admin User", security.RoleAdmin)
	if err != nil {
		return err
	}
	adminCtx := appctx.WithUser(ctx, &appctx.UserContext{
		UserID: admin.ID.String(),
		Email:  admin.Email,
		Name:   admin.Name,
		Role:   admin.Role,
	})

	businesses := business.NewService(cols.Businesses)
	b1, err := businesses.Create(adminCtx, business.Input{
		Name:        "Business One",
		Description: "Electronics and appliances",
		Address:     "12 Market Road",
		Phone:       "+1-555-0101",
		Email:       "contact@business1.example",
	})
	if err != nil {
		return err
	}
	b2, err := businesses.Create(adminCtx, business.Input{
		Name:        "Business Two",
		Description: "Wholesale supplies",
		Address:     "48 Harbor Street",
		Phone:       "+1-555-0102",
	})
	if err != nil {
		return err
	}

	if _, err := directory.Register(ctx, "manager@business1.com", "Business Manager",
		security.RoleBusinessManager, b1.ID); err != nil {
		return err
	}
	if _, err := directory.Register(ctx, "staff@business1.com", "Staff Member",
		security.RoleStaff, b1.ID); err != nil {
		return err
	}

	customers := customer.NewService(cols.Customers, cols.Businesses)
	cust, err := customers.Create(adminCtx, customer.Input{
		BusinessID: b1.ID,
		Name:       "John Carter",
		Mobile:     "+1-555-0201",
		Email:      "john.carter@example.com",
	})
	if err != nil {
		return err
	}

	products := product.NewService(cols.Products, cols.Businesses)
	tv, err := products.Create(adminCtx, product.Input{
		BusinessID:   b1.ID,
		Name:         `Television 42"`,
		Category:     "Electronics",
		SellingPrice: types.MustMoney("450.00"),
		CostPrice:    types.MustMoney("320.00"),
	})
	if err != nil {
		return err
	}

	suppliers := supplier.NewService(cols.Suppliers, cols.Businesses)
	sup, err := suppliers.Create(adminCtx, supplier.Input{
		BusinessID: b1.ID,
		Name:       "Delta Distributors",
		Mobile:     "+1-555-0301",
		Address:    "3 Depot Lane",
	})
	if err != nil {
		return err
	}

	engine := ledger.NewEngine(st, cols, numerator.NewSequential(substrate))

	if _, err := engine.RecordPurchase(adminCtx, ledger.PurchaseInput{
		BusinessID: b1.ID,
		ProductID:  tv.ID,
		SupplierID: sup.ID,
		Quantity:   10,
		UnitCost:   types.MustMoney("320.00"),
		PaidAmount: types.MustMoney("3200.00"),
		Mode:       ledger.ModeBank,
	}); err != nil {
		return err
	}

	sale, err := engine.RecordSale(adminCtx, ledger.SaleInput{
		BusinessID: b1.ID,
		CustomerID: cust.ID,
		ProductID:  tv.ID,
		Quantity:   2,
		UnitPrice:  types.MustMoney("450.00"),
		CashAmount: types.MustMoney("600.00"),
	})
	if err != nil {
		return err
	}

	dues := cols.Dues.List(func(d ledger.DueEntry) bool {
		return d.CustomerID == sale.CustomerID && d.DueAmount.IsPositive()
	})
	if len(dues) > 0 {
		if _, err := engine.RecordDuePayment(adminCtx, ledger.DuePaymentInput{
			DueID:       dues[0].ID,
			Amount:      types.MustMoney("100.00"),
			Mode:        ledger.ModeBank,
			Description: "First installment",
		}); err != nil {
			return err
		}
	}

	transfer, err := engine.InitiateTransfer(adminCtx, ledger.TransferInput{
		FromBusinessID: b1.ID,
		ToBusinessID:   b2.ID,
		Amount:         types.MustMoney("500.00"),
		Mode:           ledger.ModeBank,
		Description:    "Working capital",
	})
	if err != nil {
		return err
	}
	if _, err := engine.ProcessTransfer(adminCtx, transfer.ID, ledger.DecisionAccept); err != nil {
		return err
	}

	if _, err := engine.RecordEntry(adminCtx, ledger.EntryInput{
		BusinessID:  b1.ID,
		Direction:   ledger.Outflow,
		Category:    ledger.CategoryExpense,
		Mode:        ledger.ModeCash,
		Amount:      types.MustMoney("75.50"),
		Description: "Shop rent share",
	}); err != nil {
		return err
	}

	rpt := reports.NewService(cols, cfg.Stock.LowStockThreshold)
	pos, err := rpt.CashPosition(adminCtx, reports.CashFilter{BusinessID: b1.ID})
	if err != nil {
		return err
	}
	level, err := rpt.StockLevel(adminCtx, tv.ID)
	if err != nil {
		return err
	}

	logger.Info(adminCtx, "demo data seeded",
		"businesses", cols.Businesses.Len(),
		"net_position", pos.Net,
		"stock", level.Quantity,
		"stock_status", level.Status)
	return nil
}

package ledger

import (
	"ledgerbook/internal/domain/catalogs/business"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/domain/catalogs/product"
	"ledgerbook/internal/domain/catalogs/supplier"
	"ledgerbook/internal/store"
)

// Collections bundles every typed collection of the bookkeeping store.
// It is opened once at startup and shared by the engine, the catalog
// services and the reports service.
type Collections struct {
	Businesses *store.Collection[business.Business]
	Customers  *store.Collection[customer.Customer]
	Products   *store.Collection[product.Product]
	Suppliers  *store.Collection[supplier.Supplier]

	Cashbook  *store.Collection[CashbookEntry]
	Dues      *store.Collection[DueEntry]
	Transfers *store.Collection[Transfer]
	Sales     *store.Collection[Sale]
	Purchases *store.Collection[Purchase]
	Stock     *store.Collection[StockMovement]
}

// OpenCollections registers and loads every collection under its canonical
// name.
func OpenCollections(st *store.Store) (*Collections, error) {
	var (
		c   Collections
		err error
	)

	if c.Businesses, err = store.NewCollection[business.Business](st, store.ColBusinesses); err != nil {
		return nil, err
	}
	if c.Customers, err = store.NewCollection[customer.Customer](st, store.ColCustomers); err != nil {
		return nil, err
	}
	if c.Products, err = store.NewCollection[product.Product](st, store.ColProducts); err != nil {
		return nil, err
	}
	if c.Suppliers, err = store.NewCollection[supplier.Supplier](st, store.ColSuppliers); err != nil {
		return nil, err
	}
	if c.Cashbook, err = store.NewCollection[CashbookEntry](st, store.ColCashbook); err != nil {
		return nil, err
	}
	if c.Dues, err = store.NewCollection[DueEntry](st, store.ColDues); err != nil {
		return nil, err
	}
	if c.Transfers, err = store.NewCollection[Transfer](st, store.ColTransfers); err != nil {
		return nil, err
	}
	if c.Sales, err = store.NewCollection[Sale](st, store.ColSales); err != nil {
		return nil, err
	}
	if c.Purchases, err = store.NewCollection[Purchase](st, store.ColPurchases); err != nil {
		return nil, err
	}
	if c.Stock, err = store.NewCollection[StockMovement](st, store.ColStock); err != nil {
		return nil, err
	}

	return &c, nil
}

// Package reports computes read-only views and summary statistics over the
// bookkeeping collections. Nothing in this package mutates an entity.
package reports

import (
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/product"
	"ledgerbook/internal/domain/ledger"
)

// CashFilter narrows a cash position query. Zero-valued fields match
// everything; set fields combine conjunctively.
type CashFilter struct {
	BusinessID id.ID

	Direction ledger.Direction
	Category  ledger.Category
	Mode      ledger.PaymentMode

	From time.Time
	To   time.Time
}

// Position is the summed cash movement for a filter.
type Position struct {
	Inflow  types.Money `json:"inflow"`
	Outflow types.Money `json:"outflow"`
	Net     types.Money `json:"net"`
}

// DuesSummary lists the open due entries in scope together with totals over
// all entries in that scope, open or settled.
type DuesSummary struct {
	Open []ledger.DueEntry `json:"open"`

	TotalDue  types.Money `json:"totalDue"`
	TotalPaid types.Money `json:"totalPaid"`

	// CollectionRate is TotalPaid / (TotalPaid + TotalDue), zero when
	// nothing has ever been owed.
	CollectionRate types.Money `json:"collectionRate"`
}

// StockStatus classifies a product's current level against the low-stock
// threshold.
type StockStatus string

const (
	StatusOutOfStock StockStatus = "out-of-stock"
	StatusLowStock   StockStatus = "low-stock"
	StatusInStock    StockStatus = "in-stock"
)

// StockLevel is the derived current level of one product.
type StockLevel struct {
	ProductID id.ID       `json:"productId"`
	Quantity  int         `json:"quantity"`
	Status    StockStatus `json:"status"`
}

// ProductStock pairs a product with its derived level.
type ProductStock struct {
	Product product.Product `json:"product"`
	Level   StockLevel      `json:"level"`
}

// StockOverview summarizes the stock situation of one business.
type StockOverview struct {
	Products []ProductStock `json:"products"`

	OutOfStock int `json:"outOfStock"`
	LowStock   int `json:"lowStock"`
	InStock    int `json:"inStock"`
}

// SalesSummary is the payment-channel breakdown of a business's sales. It is
// summed from the sale records, not the cashbook, because a sale's channel
// split is the source of truth for this breakdown.
type SalesSummary struct {
	Count int `json:"count"`

	Total  types.Money `json:"total"`
	Cash   types.Money `json:"cash"`
	Credit types.Money `json:"credit"`
}

// Package entity provides the common building blocks for stored records.
package entity

import (
	"time"

	"ledgerbook/internal/core/id"
)

// Base contains the fields shared by every stored record: an identifier and
// creation audit. The store assigns nothing; constructors call NewBase.
type Base struct {
	ID        id.ID     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// NewBase creates a Base with a generated ID and the current timestamp.
func NewBase(actor string) Base {
	return Base{
		ID:        id.New(),
		CreatedAt: time.Now().UTC(),
		CreatedBy: actor,
	}
}

// EntityID returns the record identifier. Satisfies store.Entity.
func (b Base) EntityID() id.ID {
	return b.ID
}

// MovementBase contains common fields for append-only ledger records
// (cashbook entries, stock movements). Movements are immutable: they are
// created once and never updated or deleted.
type MovementBase struct {
	Base

	// BusinessID scopes the movement to its owning business
	BusinessID id.ID `json:"businessId"`

	// Date is the business date of the movement (may differ from CreatedAt)
	Date time.Time `json:"date"`
}

// NewMovementBase creates a movement base for a business on a given date.
func NewMovementBase(businessID id.ID, date time.Time, actor string) MovementBase {
	return MovementBase{
		Base:       NewBase(actor),
		BusinessID: businessID,
		Date:       date,
	}
}

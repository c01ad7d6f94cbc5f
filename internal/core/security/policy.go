// Package security provides the access policy: role definitions, the
// operation permission table, and the per-request access scope.
package security

// Role defines the access level of a user.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleBusinessManager Role = "business_manager"
	RoleStaff           Role = "staff"
)

// Operation names the actions the permission table covers.
type Operation string

const (
	OpBusinessCreate Operation = "business.create"
	OpBusinessUpdate Operation = "business.update"
	OpBusinessDelete Operation = "business.delete"

	OpProductCreate Operation = "product.create"
	OpProductUpdate Operation = "product.update"

	OpCustomerCreate Operation = "customer.create"
	OpCustomerUpdate Operation = "customer.update"

	OpSupplierCreate Operation = "supplier.create"
	OpSupplierUpdate Operation = "supplier.update"

	OpSaleRecord       Operation = "sale.record"
	OpPurchaseRecord   Operation = "purchase.record"
	OpDueCollect       Operation = "due.collect"
	OpCashbookAppend   Operation = "cashbook.append"
	OpStockAdjust      Operation = "stock.adjust"
	OpTransferInitiate Operation = "transfer.initiate"
	OpTransferProcess  Operation = "transfer.process"
)

// rolePermissions is the static permission table. Business CRUD is admin-only;
// product and supplier edits plus transfer initiation require at least a
// manager; day-to-day recording is open to every role (business access is
// checked separately by AccessScope).
var rolePermissions = map[Role]map[Operation]bool{
	RoleAdmin: allOperations(),
	RoleBusinessManager: {
		OpProductCreate:    true,
		OpProductUpdate:    true,
		OpCustomerCreate:   true,
		OpCustomerUpdate:   true,
		OpSupplierCreate:   true,
		OpSupplierUpdate:   true,
		OpSaleRecord:       true,
		OpPurchaseRecord:   true,
		OpDueCollect:       true,
		OpCashbookAppend:   true,
		OpStockAdjust:      true,
		OpTransferInitiate: true,
		OpTransferProcess:  true,
	},
	RoleStaff: {
		OpCustomerCreate:  true,
		OpCustomerUpdate:  true,
		OpSaleRecord:      true,
		OpPurchaseRecord:  true,
		OpDueCollect:      true,
		OpCashbookAppend:  true,
		OpStockAdjust:     true,
		OpTransferProcess: true,
	},
}

func allOperations() map[Operation]bool {
	ops := []Operation{
		OpBusinessCreate, OpBusinessUpdate, OpBusinessDelete,
		OpProductCreate, OpProductUpdate,
		OpCustomerCreate, OpCustomerUpdate,
		OpSupplierCreate, OpSupplierUpdate,
		OpSaleRecord, OpPurchaseRecord, OpDueCollect, OpCashbookAppend,
		OpStockAdjust, OpTransferInitiate, OpTransferProcess,
	}
	m := make(map[Operation]bool, len(ops))
	for _, o := range ops {
		m[o] = true
	}
	return m
}

// RoleAllows reports whether the role is permitted the operation.
// Unknown roles are permitted nothing.
func RoleAllows(role Role, operation Operation) bool {
	return rolePermissions[role][operation]
}

package models

import "strings"

// OperationKind enumerates the state-changing commands a list supports.
type OperationKind string

const (
	OpApprove  OperationKind = "approve"
	OpBlock    OperationKind = "block"
	OpUnblock  OperationKind = "unblock"
	OpDelete   OperationKind = "delete"
	OpCredit   OperationKind = "credit"
	OpWithdraw OperationKind = "withdraw"
	OpValidate OperationKind = "validate"
	OpReject   OperationKind = "reject"
	OpMarkRead OperationKind = "mark_read"
)

// ParseOperationKind maps a route segment such as "mark-read" to a kind.
func ParseOperationKind(raw string) OperationKind {
	return OperationKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
}

// Operation carries the parameters of one command.
type Operation struct {
	Kind        OperationKind `json:"kind" validate:"required"`
	Amount      float64       `json:"amount,omitempty" validate:"gte=0"`
	Reason      string        `json:"reason,omitempty" validate:"max=500"`
	Description string        `json:"description,omitempty" validate:"max=500"`
}

// TargetActive returns the active flag implied by toggle operations.
func (o Operation) TargetActive() (active bool, ok bool) {
	switch o.Kind {
	case OpApprove, OpUnblock:
		return true, true
	case OpBlock:
		return false, true
	default:
		return false, false
	}
}

// MutationIntent is a single requested operation on one entity.
type MutationIntent struct {
	TargetID  string    `json:"targetId" validate:"required,max=64"`
	Operation Operation `json:"operation"`
}

// Reconcile selects how confirmed mutations update the local list.
type Reconcile string

const (
	ReconcilePatch   Reconcile = "patch"
	ReconcileRefresh Reconcile = "refresh"
)

// MutationOutcome reports the result of a confirmed mutation.
type MutationOutcome struct {
	Resource  string        `json:"resource"`
	TargetID  string        `json:"targetId"`
	Operation OperationKind `json:"operation"`
	Reconcile Reconcile     `json:"reconcile"`
	Patched   bool          `json:"patched"`
}

package mutation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zoomwifi/admin-console/internal/models"
)

type kindSet map[models.OperationKind]struct{}

func kinds(list ...models.OperationKind) kindSet {
	set := make(kindSet, len(list))
	for _, k := range list {
		set[k] = struct{}{}
	}
	return set
}

func (k kindSet) has(kind models.OperationKind) bool {
	_, ok := k[kind]
	return ok
}

// OperatorFunc returns the id of the signed-in operator, used as the sender
// of console-initiated top-ups.
type OperatorFunc func() string

type clientAPI interface {
	SetStatus(ctx context.Context, id string, active bool) (models.Client, bool, error)
	Delete(ctx context.Context, id string) error
}

type rechargeAPI interface {
	Recharge(ctx context.Context, req models.RechargeRequest) (models.Transaction, error)
}

// UserExecutor runs commands on end users.
type UserExecutor struct {
	users    clientAPI
	tx       rechargeAPI
	operator OperatorFunc
	kinds    kindSet
}

// NewUserExecutor wires the user commands.
func NewUserExecutor(users clientAPI, tx rechargeAPI, operator OperatorFunc) *UserExecutor {
	return &UserExecutor{
		users:    users,
		tx:       tx,
		operator: operator,
		kinds:    kinds(models.OpBlock, models.OpUnblock, models.OpDelete, models.OpCredit),
	}
}

// Resource implements Executor.
func (e *UserExecutor) Resource() string { return "users" }

// Supports implements Executor.
func (e *UserExecutor) Supports(kind models.OperationKind) bool { return e.kinds.has(kind) }

// Execute implements Executor.
func (e *UserExecutor) Execute(ctx context.Context, intent models.MutationIntent) (Effect[models.Client], error) {
	op := intent.Operation
	switch op.Kind {
	case models.OpBlock, models.OpUnblock:
		want, _ := op.TargetActive()
		echoed, ok, err := e.users.SetStatus(ctx, intent.TargetID, want)
		if err != nil {
			return Effect[models.Client]{}, err
		}
		active := want
		if ok && echoed.ID != "" {
			active = echoed.Active
		}
		return Patch(func(c models.Client) models.Client {
			c.Active = active
			return c
		}), nil
	case models.OpDelete:
		if err := e.users.Delete(ctx, intent.TargetID); err != nil {
			return Effect[models.Client]{}, err
		}
		return Refresh[models.Client](), nil
	default:
		_, err := e.tx.Recharge(ctx, models.RechargeRequest{
			Amount:      op.Amount,
			SenderID:    operatorID(e.operator),
			ReceiverID:  intent.TargetID,
			Type:        "topup",
			Description: describe(op, "Recharge de %s FCFA"),
			IsPartner:   false,
		})
		if err != nil {
			return Effect[models.Client]{}, err
		}
		return Refresh[models.Client](), nil
	}
}

type partnerAPI interface {
	SetStatus(ctx context.Context, id string, active bool) (models.Partner, bool, error)
	Delete(ctx context.Context, id string) error
}

// PartnerExecutor runs commands on partner venues.
type PartnerExecutor struct {
	partners partnerAPI
	tx       rechargeAPI
	operator OperatorFunc
	kinds    kindSet
}

// NewPartnerExecutor wires the partner commands.
func NewPartnerExecutor(partners partnerAPI, tx rechargeAPI, operator OperatorFunc) *PartnerExecutor {
	return &PartnerExecutor{
		partners: partners,
		tx:       tx,
		operator: operator,
		kinds:    kinds(models.OpApprove, models.OpBlock, models.OpUnblock, models.OpDelete, models.OpCredit),
	}
}

// Resource implements Executor.
func (e *PartnerExecutor) Resource() string { return "partners" }

// Supports implements Executor.
func (e *PartnerExecutor) Supports(kind models.OperationKind) bool { return e.kinds.has(kind) }

// Execute implements Executor.
func (e *PartnerExecutor) Execute(ctx context.Context, intent models.MutationIntent) (Effect[models.Partner], error) {
	op := intent.Operation
	switch op.Kind {
	case models.OpApprove, models.OpBlock, models.OpUnblock:
		want, _ := op.TargetActive()
		echoed, ok, err := e.partners.SetStatus(ctx, intent.TargetID, want)
		if err != nil {
			return Effect[models.Partner]{}, err
		}
		active := want
		if ok && echoed.ID != "" {
			active = echoed.Active
		}
		return Patch(func(p models.Partner) models.Partner {
			p.Active = active
			return p
		}), nil
	case models.OpDelete:
		if err := e.partners.Delete(ctx, intent.TargetID); err != nil {
			return Effect[models.Partner]{}, err
		}
		return Refresh[models.Partner](), nil
	default:
		_, err := e.tx.Recharge(ctx, models.RechargeRequest{
			Amount:      op.Amount,
			SenderID:    operatorID(e.operator),
			ReceiverID:  intent.TargetID,
			Type:        "topup",
			Description: describe(op, "Recharge de %s FCFA"),
			IsPartner:   true,
		})
		if err != nil {
			return Effect[models.Partner]{}, err
		}
		return Refresh[models.Partner](), nil
	}
}

type transactionAPI interface {
	UpdateStatus(ctx context.Context, id string, update models.TransactionStatusUpdate) (models.Transaction, bool, error)
	AdminWithdrawal(ctx context.Context, req models.WithdrawalRequest) error
}

// TransactionExecutor validates, rejects and records withdrawals. For
// withdrawals the target is the partner whose balance is debited.
type TransactionExecutor struct {
	tx    transactionAPI
	kinds kindSet
}

// NewTransactionExecutor wires the transaction commands.
func NewTransactionExecutor(tx transactionAPI) *TransactionExecutor {
	return &TransactionExecutor{
		tx:    tx,
		kinds: kinds(models.OpValidate, models.OpReject, models.OpWithdraw),
	}
}

// Resource implements Executor.
func (e *TransactionExecutor) Resource() string { return "transactions" }

// Supports implements Executor.
func (e *TransactionExecutor) Supports(kind models.OperationKind) bool { return e.kinds.has(kind) }

// Execute implements Executor.
func (e *TransactionExecutor) Execute(ctx context.Context, intent models.MutationIntent) (Effect[models.Transaction], error) {
	op := intent.Operation
	if op.Kind == models.OpWithdraw {
		err := e.tx.AdminWithdrawal(ctx, models.WithdrawalRequest{
			SenderID:    intent.TargetID,
			Amount:      op.Amount,
			Type:        "withdrawal",
			Description: describe(op, "Retrait de %s FCFA"),
		})
		if err != nil {
			return Effect[models.Transaction]{}, err
		}
		return Refresh[models.Transaction](), nil
	}

	update := models.TransactionStatusUpdate{Status: models.TransactionValidated}
	if op.Kind == models.OpReject {
		update = models.TransactionStatusUpdate{Status: models.TransactionRejected, Reason: op.Reason}
	}
	echoed, ok, err := e.tx.UpdateStatus(ctx, intent.TargetID, update)
	if err != nil {
		return Effect[models.Transaction]{}, err
	}
	status := update.Status
	if ok && echoed.Status != "" {
		status = echoed.Status
	}
	return Patch(func(t models.Transaction) models.Transaction {
		t.Status = status
		if update.Reason != "" {
			t.Reason = update.Reason
		}
		return t
	}), nil
}

type adminAPI interface {
	SetActive(ctx context.Context, id string, active bool) (models.Admin, bool, error)
	Delete(ctx context.Context, id string) error
}

// AdminExecutor runs commands on operator accounts.
type AdminExecutor struct {
	admins adminAPI
	kinds  kindSet
}

// NewAdminExecutor wires the admin commands.
func NewAdminExecutor(admins adminAPI) *AdminExecutor {
	return &AdminExecutor{admins: admins, kinds: kinds(models.OpBlock, models.OpUnblock, models.OpDelete)}
}

// Resource implements Executor.
func (e *AdminExecutor) Resource() string { return "admins" }

// Supports implements Executor.
func (e *AdminExecutor) Supports(kind models.OperationKind) bool { return e.kinds.has(kind) }

// Execute implements Executor.
func (e *AdminExecutor) Execute(ctx context.Context, intent models.MutationIntent) (Effect[models.Admin], error) {
	if intent.Operation.Kind == models.OpDelete {
		if err := e.admins.Delete(ctx, intent.TargetID); err != nil {
			return Effect[models.Admin]{}, err
		}
		return Refresh[models.Admin](), nil
	}
	want, _ := intent.Operation.TargetActive()
	echoed, ok, err := e.admins.SetActive(ctx, intent.TargetID, want)
	if err != nil {
		return Effect[models.Admin]{}, err
	}
	active := want
	if ok && echoed.ID != "" {
		active = echoed.Active
	}
	return Patch(func(a models.Admin) models.Admin {
		a.Active = active
		return a
	}), nil
}

type alertAPI interface {
	MarkRead(ctx context.Context, id string) (models.Alert, bool, error)
}

// AlertExecutor marks alerts as read.
type AlertExecutor struct {
	alerts alertAPI
}

// NewAlertExecutor wires the alert commands.
func NewAlertExecutor(alerts alertAPI) *AlertExecutor {
	return &AlertExecutor{alerts: alerts}
}

// Resource implements Executor.
func (e *AlertExecutor) Resource() string { return "alerts" }

// Supports implements Executor.
func (e *AlertExecutor) Supports(kind models.OperationKind) bool { return kind == models.OpMarkRead }

// Execute implements Executor.
func (e *AlertExecutor) Execute(ctx context.Context, intent models.MutationIntent) (Effect[models.Alert], error) {
	if _, _, err := e.alerts.MarkRead(ctx, intent.TargetID); err != nil {
		return Effect[models.Alert]{}, err
	}
	return Patch(func(a models.Alert) models.Alert {
		a.Status = models.AlertRead
		return a
	}), nil
}

func operatorID(fn OperatorFunc) string {
	if fn == nil {
		return ""
	}
	return fn()
}

func describe(op models.Operation, format string) string {
	if op.Description != "" {
		return op.Description
	}
	return fmt.Sprintf(format, strconv.FormatFloat(op.Amount, 'f', -1, 64))
}

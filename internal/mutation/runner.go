// Package mutation runs single-entity commands against the backend and
// reconciles the owning list once the backend has confirmed them.
package mutation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

// Target is the list a runner reconciles. listsync.Controller satisfies it.
type Target[T any] interface {
	Patch(id string, fn func(T) T) bool
	Refresh()
}

// Effect describes how a confirmed mutation changes the list.
type Effect[T any] struct {
	Reconcile models.Reconcile
	// Apply patches the matching item; used with ReconcilePatch.
	Apply func(T) T
}

// Patch returns a patch effect.
func Patch[T any](fn func(T) T) Effect[T] {
	return Effect[T]{Reconcile: models.ReconcilePatch, Apply: fn}
}

// Refresh returns a refetch effect.
func Refresh[T any]() Effect[T] {
	return Effect[T]{Reconcile: models.ReconcileRefresh}
}

// Executor performs the backend call for one resource.
type Executor[T any] interface {
	Resource() string
	Supports(kind models.OperationKind) bool
	Execute(ctx context.Context, intent models.MutationIntent) (Effect[T], error)
}

// Auditor persists a record of each mutation that reached the backend.
type Auditor interface {
	Record(ctx context.Context, entry models.AuditLog) error
}

// Observer is told about every finished mutation.
type Observer interface {
	MutationCompleted(resource, operation, outcome string)
}

// Runner validates intents, executes them and reconciles the target list.
type Runner[T any] struct {
	target   Target[T]
	exec     Executor[T]
	validate *validator.Validate
	auditor  Auditor
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
}

// Option customises a Runner.
type Option func(*options)

type options struct {
	validate *validator.Validate
	auditor  Auditor
	observer Observer
	logger   *zap.Logger
}

// WithValidator shares a validator instance.
func WithValidator(v *validator.Validate) Option {
	return func(o *options) { o.validate = v }
}

// WithAuditor records mutations in the audit journal.
func WithAuditor(a Auditor) Option {
	return func(o *options) { o.auditor = a }
}

// WithObserver reports mutation outcomes.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewRunner pairs a list with an executor.
func NewRunner[T any](target Target[T], exec Executor[T], opts ...Option) *Runner[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.validate == nil {
		o.validate = validator.New()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Runner[T]{
		target:   target,
		exec:     exec,
		validate: o.validate,
		auditor:  o.auditor,
		observer: o.observer,
		logger:   o.logger.With(zap.String("resource", exec.Resource())),
		now:      time.Now,
	}
}

// Run validates intent, calls the backend and, only on success, reconciles
// the list. Invalid intents never reach the network.
func (r *Runner[T]) Run(ctx context.Context, intent models.MutationIntent) (models.MutationOutcome, error) {
	intent.TargetID = strings.TrimSpace(intent.TargetID)
	intent.Operation.Reason = strings.TrimSpace(intent.Operation.Reason)

	outcome := models.MutationOutcome{
		Resource:  r.exec.Resource(),
		TargetID:  intent.TargetID,
		Operation: intent.Operation.Kind,
	}
	if err := r.check(intent); err != nil {
		r.observe(intent, "invalid")
		return outcome, err
	}

	effect, err := r.exec.Execute(ctx, intent)
	if err != nil {
		r.logger.Warn("mutation failed",
			zap.String("target_id", intent.TargetID),
			zap.String("operation", string(intent.Operation.Kind)),
			zap.Error(err),
		)
		r.audit(ctx, intent, "", err)
		r.observe(intent, models.AuditFailed)
		return outcome, err
	}

	outcome.Reconcile = effect.Reconcile
	switch effect.Reconcile {
	case models.ReconcilePatch:
		if effect.Apply != nil {
			outcome.Patched = r.target.Patch(intent.TargetID, effect.Apply)
		}
	default:
		outcome.Reconcile = models.ReconcileRefresh
		r.target.Refresh()
	}

	r.logger.Info("mutation applied",
		zap.String("target_id", intent.TargetID),
		zap.String("operation", string(intent.Operation.Kind)),
		zap.String("reconcile", string(outcome.Reconcile)),
		zap.Bool("patched", outcome.Patched),
	)
	r.audit(ctx, intent, outcome.Reconcile, nil)
	r.observe(intent, models.AuditSucceeded)
	return outcome, nil
}

func (r *Runner[T]) check(intent models.MutationIntent) error {
	if err := r.validate.Struct(intent); err != nil {
		return appErrors.Validation(err, describeValidation(err))
	}
	op := intent.Operation
	if !r.exec.Supports(op.Kind) {
		return appErrors.Validation(nil, fmt.Sprintf("operation %q is not supported for %s", op.Kind, r.exec.Resource()))
	}
	switch op.Kind {
	case models.OpCredit, models.OpWithdraw:
		if op.Amount <= 0 {
			return appErrors.Validation(nil, "amount must be greater than zero")
		}
	case models.OpReject:
		if op.Reason == "" {
			return appErrors.Validation(nil, "a reason is required to reject")
		}
	}
	return nil
}

func (r *Runner[T]) audit(ctx context.Context, intent models.MutationIntent, reconcile models.Reconcile, cause error) {
	if r.auditor == nil {
		return
	}
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Resource:  r.exec.Resource(),
		TargetID:  intent.TargetID,
		Operation: string(intent.Operation.Kind),
		Reconcile: string(reconcile),
		Outcome:   models.AuditSucceeded,
		CreatedAt: r.now().UTC(),
	}
	if details, err := json.Marshal(intent.Operation); err == nil {
		entry.Details = details
	}
	if cause != nil {
		appErr := appErrors.FromError(cause)
		entry.Outcome = models.AuditFailed
		entry.ErrorCode = &appErr.Code
		entry.Message = &appErr.Message
	}
	if err := r.auditor.Record(ctx, entry); err != nil {
		r.logger.Warn("audit record failed", zap.String("target_id", intent.TargetID), zap.Error(err))
	}
}

func (r *Runner[T]) observe(intent models.MutationIntent, outcome string) {
	if r.observer != nil {
		r.observer.MutationCompleted(r.exec.Resource(), string(intent.Operation.Kind), outcome)
	}
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid mutation"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

package mutation

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoomwifi/admin-console/internal/gateway"
	"github.com/zoomwifi/admin-console/internal/listsync"
	"github.com/zoomwifi/admin-console/internal/models"
	"github.com/zoomwifi/admin-console/internal/query"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

type userSource struct {
	calls atomic.Int32
	items []models.Client
}

func (s *userSource) List(context.Context, url.Values) (models.ListResult[models.Client], error) {
	s.calls.Add(1)
	items := make([]models.Client, len(s.items))
	copy(items, s.items)
	return models.ListResult[models.Client]{Items: items, TotalCount: len(items)}, nil
}

type fakeUsers struct {
	statusCalls atomic.Int32
	deleteCalls atomic.Int32
	echo        *models.Client
	err         error
}

func (f *fakeUsers) SetStatus(_ context.Context, id string, active bool) (models.Client, bool, error) {
	f.statusCalls.Add(1)
	if f.err != nil {
		return models.Client{}, false, f.err
	}
	if f.echo != nil {
		return *f.echo, true, nil
	}
	return models.Client{}, false, nil
}

func (f *fakeUsers) Delete(context.Context, string) error {
	f.deleteCalls.Add(1)
	return f.err
}

type fakeRecharge struct {
	calls atomic.Int32
	last  models.RechargeRequest
}

func (f *fakeRecharge) Recharge(_ context.Context, req models.RechargeRequest) (models.Transaction, error) {
	f.calls.Add(1)
	f.last = req
	return models.Transaction{ID: "t1"}, nil
}

type memoryAuditor struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (m *memoryAuditor) Record(_ context.Context, entry models.AuditLog) error {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

func settledUsers(t *testing.T, src *userSource) *listsync.Controller[models.Client] {
	t.Helper()
	c := listsync.New[models.Client](query.Users(), src, models.Client.Key, listsync.Config{PageSize: 10, Debounce: 10 * time.Millisecond})
	t.Cleanup(c.Close)
	c.Start()
	waitSettled(t, c)
	return c
}

func waitSettled(t *testing.T, c *listsync.Controller[models.Client]) models.ListState[models.Client] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	state, err := c.Wait(ctx)
	require.NoError(t, err)
	return state
}

func TestBlockPatchesWithoutRefetch(t *testing.T) {
	src := &userSource{items: []models.Client{{ID: "7", Active: true}, {ID: "8", Active: true}}}
	list := settledUsers(t, src)
	users := &fakeUsers{echo: &models.Client{ID: "7", Active: false}}
	auditor := &memoryAuditor{}
	runner := NewRunner[models.Client](list, NewUserExecutor(users, &fakeRecharge{}, nil), WithAuditor(auditor))

	outcome, err := runner.Run(context.Background(), models.MutationIntent{TargetID: "7", Operation: models.Operation{Kind: models.OpBlock}})
	require.NoError(t, err)
	assert.Equal(t, models.ReconcilePatch, outcome.Reconcile)
	assert.True(t, outcome.Patched)

	state := list.State()
	assert.False(t, state.Items[0].Active)
	assert.True(t, state.Items[1].Active)
	assert.Equal(t, int32(1), src.calls.Load())

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, models.AuditSucceeded, auditor.entries[0].Outcome)
	assert.Equal(t, "patch", auditor.entries[0].Reconcile)
}

func TestUnblockWithoutEchoedFlagUsesRequestedState(t *testing.T) {
	src := &userSource{items: []models.Client{{ID: "7", Active: false}}}
	list := settledUsers(t, src)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/updateClientStatus/7", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"user":{"_id":"7","firstName":"Awa"}}}`)
	}))
	defer srv.Close()
	users := gateway.NewUserGateway(gateway.NewClient(srv.URL, nil))
	runner := NewRunner[models.Client](list, NewUserExecutor(users, &fakeRecharge{}, nil))

	outcome, err := runner.Run(context.Background(), models.MutationIntent{TargetID: "7", Operation: models.Operation{Kind: models.OpUnblock}})
	require.NoError(t, err)
	assert.True(t, outcome.Patched)
	assert.True(t, list.State().Items[0].Active)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestDeleteRefreshesOnce(t *testing.T) {
	src := &userSource{items: []models.Client{{ID: "7", Active: true}}}
	list := settledUsers(t, src)
	before := list.Query()
	users := &fakeUsers{}
	runner := NewRunner[models.Client](list, NewUserExecutor(users, &fakeRecharge{}, nil))

	outcome, err := runner.Run(context.Background(), models.MutationIntent{TargetID: "7", Operation: models.Operation{Kind: models.OpDelete}})
	require.NoError(t, err)
	assert.Equal(t, models.ReconcileRefresh, outcome.Reconcile)
	assert.False(t, outcome.Patched)

	state := waitSettled(t, list)
	assert.Equal(t, int32(2), src.calls.Load())
	assert.Equal(t, before, list.Query())
	assert.Len(t, state.Items, 1, "items come from the refetch, not from local removal")
}

func TestValidationRejectsBeforeNetwork(t *testing.T) {
	src := &userSource{items: []models.Client{{ID: "7"}}}
	list := settledUsers(t, src)
	users := &fakeUsers{}
	recharge := &fakeRecharge{}
	runner := NewRunner[models.Client](list, NewUserExecutor(users, recharge, nil))

	cases := []models.MutationIntent{
		{TargetID: "7", Operation: models.Operation{Kind: models.OpCredit, Amount: 0}},
		{TargetID: "7", Operation: models.Operation{Kind: models.OpCredit, Amount: -5}},
		{TargetID: "  ", Operation: models.Operation{Kind: models.OpBlock}},
		{TargetID: "7", Operation: models.Operation{Kind: models.OpReject, Reason: "x"}},
		{TargetID: "7"},
	}
	for _, intent := range cases {
		_, err := runner.Run(context.Background(), intent)
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err), "intent %+v", intent)
	}
	assert.Zero(t, users.statusCalls.Load())
	assert.Zero(t, recharge.calls.Load())
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestFailureLeavesStateUntouched(t *testing.T) {
	src := &userSource{items: []models.Client{{ID: "7", Active: true}}}
	list := settledUsers(t, src)
	users := &fakeUsers{err: appErrors.Server(http.StatusForbidden, "Action non autorisée")}
	auditor := &memoryAuditor{}
	runner := NewRunner[models.Client](list, NewUserExecutor(users, &fakeRecharge{}, nil), WithAuditor(auditor))

	_, err := runner.Run(context.Background(), models.MutationIntent{TargetID: "7", Operation: models.Operation{Kind: models.OpBlock}})
	require.Error(t, err)
	assert.Equal(t, "Action non autorisée", appErrors.FromError(err).Message)
	assert.True(t, list.State().Items[0].Active)
	assert.Equal(t, int32(1), src.calls.Load())

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, models.AuditFailed, auditor.entries[0].Outcome)
	assert.Equal(t, appErrors.CodeServer, *auditor.entries[0].ErrorCode)
}

func TestCreditUsesOperatorAndRefreshes(t *testing.T) {
	src := &userSource{items: []models.Client{{ID: "7"}}}
	list := settledUsers(t, src)
	recharge := &fakeRecharge{}
	runner := NewRunner[models.Client](list, NewUserExecutor(&fakeUsers{}, recharge, func() string { return "admin-1" }))

	outcome, err := runner.Run(context.Background(), models.MutationIntent{TargetID: "7", Operation: models.Operation{Kind: models.OpCredit, Amount: 5000}})
	require.NoError(t, err)
	assert.Equal(t, models.ReconcileRefresh, outcome.Reconcile)
	assert.Equal(t, "admin-1", recharge.last.SenderID)
	assert.Equal(t, "7", recharge.last.ReceiverID)
	assert.False(t, recharge.last.IsPartner)
	assert.Equal(t, "Recharge de 5000 FCFA", recharge.last.Description)
	waitSettled(t, list)
	assert.Equal(t, int32(2), src.calls.Load())
}

type fakeTransactions struct {
	update models.TransactionStatusUpdate
	echo   models.Transaction
}

func (f *fakeTransactions) UpdateStatus(_ context.Context, _ string, update models.TransactionStatusUpdate) (models.Transaction, bool, error) {
	f.update = update
	return f.echo, f.echo.ID != "", nil
}

func (f *fakeTransactions) AdminWithdrawal(context.Context, models.WithdrawalRequest) error {
	return errors.New("unexpected")
}

type recordingTarget[T any] struct {
	items     map[string]T
	refreshes int
}

func (r *recordingTarget[T]) Patch(id string, fn func(T) T) bool {
	item, ok := r.items[id]
	if !ok {
		return false
	}
	r.items[id] = fn(item)
	return true
}

func (r *recordingTarget[T]) Refresh() { r.refreshes++ }

func TestRejectPatchesReturnedStatus(t *testing.T) {
	target := &recordingTarget[models.Transaction]{items: map[string]models.Transaction{"t1": {ID: "t1", Status: models.TransactionPending}}}
	tx := &fakeTransactions{echo: models.Transaction{ID: "t1", Status: models.TransactionRejected}}
	runner := NewRunner[models.Transaction](target, NewTransactionExecutor(tx))

	_, err := runner.Run(context.Background(), models.MutationIntent{TargetID: "t1", Operation: models.Operation{Kind: models.OpReject, Reason: " code expiré "}})
	require.NoError(t, err)
	assert.Equal(t, "code expiré", tx.update.Reason)
	assert.Equal(t, models.TransactionRejected, target.items["t1"].Status)
	assert.Equal(t, "code expiré", target.items["t1"].Reason)
	assert.Zero(t, target.refreshes)
}

type fakeAlerts struct{}

func (fakeAlerts) MarkRead(context.Context, string) (models.Alert, bool, error) {
	return models.Alert{}, false, nil
}

func TestMarkReadAndUnsupportedKinds(t *testing.T) {
	target := &recordingTarget[models.Alert]{items: map[string]models.Alert{"a1": {ID: "a1", Status: models.AlertUnread}}}
	runner := NewRunner[models.Alert](target, NewAlertExecutor(fakeAlerts{}))

	_, err := runner.Run(context.Background(), models.MutationIntent{TargetID: "a1", Operation: models.Operation{Kind: models.OpMarkRead}})
	require.NoError(t, err)
	assert.Equal(t, models.AlertRead, target.items["a1"].Status)

	_, err = runner.Run(context.Background(), models.MutationIntent{TargetID: "a1", Operation: models.Operation{Kind: models.OpDelete}})
	assert.True(t, appErrors.IsValidation(err))
}

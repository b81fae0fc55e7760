package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoomwifi/admin-console/internal/models"
	"github.com/zoomwifi/admin-console/internal/service"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/export"
	"github.com/zoomwifi/admin-console/pkg/i18n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeList struct {
	state    models.ListState[models.Client]
	query    models.ListQuery
	terms    []string
	filters  []models.Filters
	pages    []int
	refresh  int
	waitErr  error
	pageOK   bool
	waitHits int
}

func newFakeList() *fakeList {
	q := models.NewListQuery(10, models.Filters{
		"status":  models.StringFilter("all"),
		"country": models.StringFilter("all"),
	})
	return &fakeList{
		query: q,
		state: models.ListState[models.Client]{
			Phase:      models.PhaseReady,
			Items:      []models.Client{{ID: "c1", FirstName: "Awa", Active: true}},
			TotalCount: 21,
			Page:       1,
			PageSize:   10,
			Generation: 3,
		},
		pageOK: true,
	}
}

func (f *fakeList) State() models.ListState[models.Client] { return f.state }
func (f *fakeList) Query() models.ListQuery                { return f.query }
func (f *fakeList) SetSearchTerm(term string)              { f.terms = append(f.terms, term) }
func (f *fakeList) SetFilters(filters models.Filters)      { f.filters = append(f.filters, filters) }
func (f *fakeList) SetPage(page int) bool {
	f.pages = append(f.pages, page)
	return f.pageOK
}
func (f *fakeList) Refresh() { f.refresh++ }
func (f *fakeList) Wait(ctx context.Context) (models.ListState[models.Client], error) {
	f.waitHits++
	if f.waitErr != nil {
		return models.ListState[models.Client]{}, f.waitErr
	}
	return f.state, nil
}

type fakeRunner struct {
	intents []models.MutationIntent
	err     error
}

func (r *fakeRunner) Run(_ context.Context, intent models.MutationIntent) (models.MutationOutcome, error) {
	r.intents = append(r.intents, intent)
	if r.err != nil {
		return models.MutationOutcome{}, r.err
	}
	return models.MutationOutcome{
		Resource:  "users",
		TargetID:  intent.TargetID,
		Operation: intent.Operation.Kind,
		Reconcile: models.ReconcilePatch,
		Patched:   true,
	}, nil
}

type fakeExports struct {
	resource string
	format   export.Format
	dataset  export.Dataset
}

func (e *fakeExports) Submit(resource string, format export.Format, dataset export.Dataset) (service.ExportJob, error) {
	e.resource, e.format, e.dataset = resource, format, dataset
	return service.ExportJob{ID: "job-1", Resource: resource, Format: string(format), Status: service.ExportQueued}, nil
}

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func buildListRouter(list *fakeList, runner *fakeRunner, exports *fakeExports) *gin.Engine {
	router := gin.New()
	var r mutationRunner
	if runner != nil {
		r = runner
	}
	var ex exportSubmitter
	if exports != nil {
		ex = exports
	}
	h := NewListHandler[models.Client]("users", list, r, ex, service.UsersDataset, i18n.New("fr"))
	h.Register(router.Group(""))
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListHandlerState(t *testing.T) {
	list := newFakeList()
	router := buildListRouter(list, nil, nil)

	rec := perform(router, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.Equal(t, "users", env.Meta["resource"])
	assert.Equal(t, "ready", env.Meta["phase"])
	assert.Zero(t, list.waitHits)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestListHandlerStateWaitTimeout(t *testing.T) {
	list := newFakeList()
	list.waitErr = context.DeadlineExceeded
	router := buildListRouter(list, nil, nil)

	rec := perform(router, http.MethodGet, "/users?wait=true", "")
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SETTLE_TIMEOUT", env.Error.Code)
	assert.Equal(t, 1, list.waitHits)
}

func TestListHandlerSearchAndPage(t *testing.T) {
	list := newFakeList()
	router := buildListRouter(list, nil, nil)

	rec := perform(router, http.MethodPost, "/users/search", `{"term":"awa"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"awa"}, list.terms)

	list.pageOK = false
	rec = perform(router, http.MethodPost, "/users/page", `{"page":9}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, false, env.Meta["applied"])
	assert.Equal(t, []int{9}, list.pages)

	rec = perform(router, http.MethodPost, "/users/page", `{"page":"two"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(router, http.MethodPost, "/users/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, list.refresh)
}

func TestListHandlerFiltersMergeAndReplace(t *testing.T) {
	list := newFakeList()
	router := buildListRouter(list, nil, nil)

	rec := perform(router, http.MethodPost, "/users/filters", `{"filters":{"status":"active"}}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, list.filters, 1)
	merged := list.filters[0]
	assert.Equal(t, "active", merged["status"].String())
	assert.True(t, merged["country"].IsAll())

	rec = perform(router, http.MethodPost, "/users/filters", `{"filters":{"status":"inactive"},"replace":true}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, list.filters, 2)
	_, hasCountry := list.filters[1]["country"]
	assert.False(t, hasCountry)

	assert.Equal(t, "all", list.query.Filters["status"].String(), "current query must not be mutated")
}

func TestListHandlerMutate(t *testing.T) {
	list := newFakeList()
	runner := &fakeRunner{}
	router := buildListRouter(list, runner, nil)

	rec := perform(router, http.MethodPost, "/users/c1/credit", `{"amount":500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, runner.intents, 1)
	assert.Equal(t, "c1", runner.intents[0].TargetID)
	assert.Equal(t, models.OpCredit, runner.intents[0].Operation.Kind)
	assert.Equal(t, 500.0, runner.intents[0].Operation.Amount)

	rec = perform(router, http.MethodPost, "/users/c1/mark-read", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.OpMarkRead, runner.intents[1].Operation.Kind)

	runner.err = appErrors.Validation(nil, "amount must be positive")
	rec = perform(router, http.MethodPost, "/users/c1/withdraw", `{"amount":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, appErrors.CodeValidation, env.Error.Code)
}

func TestListHandlerWithoutRunnerHasNoCommandRoutes(t *testing.T) {
	router := buildListRouter(newFakeList(), nil, nil)
	rec := perform(router, http.MethodPost, "/users/c1/block", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = perform(router, http.MethodPost, "/users/export", `{"format":"csv"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListHandlerExportUsesLoadedItems(t *testing.T) {
	list := newFakeList()
	exports := &fakeExports{}
	router := buildListRouter(list, nil, exports)

	rec := perform(router, http.MethodPost, "/users/export", `{"format":"excel","locale":"en"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "users", exports.resource)
	assert.Equal(t, export.FormatXLSX, exports.format)
	assert.Len(t, exports.dataset.Rows, len(list.state.Items))

	rec = perform(router, http.MethodPost, "/users/export", `{"format":"docx"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeDashboard struct {
	start, end *time.Time
}

func (f *fakeDashboard) Stats(_ context.Context, start, end *time.Time) (models.DashboardStats, models.DateRange, error) {
	f.start, f.end = start, end
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.DashboardStats{}, models.DateRange{StartDate: day, EndDate: day.AddDate(0, 0, 30)}, nil
}

func TestDashboardHandlerParsesDates(t *testing.T) {
	svc := &fakeDashboard{}
	router := gin.New()
	router.GET("/dashboard", NewDashboardHandler(svc).Stats)

	rec := perform(router, http.MethodGet, "/dashboard?startDate=2024-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.start)
	assert.Nil(t, svc.end)
	env := decode(t, rec)
	assert.Equal(t, "2024-03-01", env.Meta["startDate"])
	assert.Equal(t, "2024-03-31", env.Meta["endDate"])

	rec = perform(router, http.MethodGet, "/dashboard?endDate=03/01/2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeAuth struct {
	loginErr  error
	logoutHit bool
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (models.Session, error) {
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	return models.Session{Authenticated: true}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutHit = true
	return nil
}

func (f *fakeAuth) Session() models.Session { return models.Session{} }

func TestAuthHandler(t *testing.T) {
	svc := &fakeAuth{}
	h := NewAuthHandler(svc)
	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.POST("/auth/logout", h.Logout)

	rec := perform(router, http.MethodPost, "/auth/login", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.loginErr = appErrors.Server(http.StatusUnauthorized, "invalid credentials")
	rec = perform(router, http.MethodPost, "/auth/login", `{"email":"ops@zoomwifi.africa","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(router, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.logoutHit)
}

type fakeExportReader struct {
	file *os.File
}

func (f *fakeExportReader) Status(id string) (service.ExportJob, error) {
	if id != "job-1" {
		return service.ExportJob{}, appErrors.ErrNotFound
	}
	return service.ExportJob{ID: id, Status: service.ExportCompleted}, nil
}

func (f *fakeExportReader) Open(token string) (service.Download, error) {
	if token != "good" {
		return service.Download{}, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	return service.Download{File: f.file, Name: "users.csv", ContentType: "text/csv; charset=utf-8"}, nil
}

func TestExportHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\nc1,Awa\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	h := NewExportHandler(&fakeExportReader{file: file})
	router := gin.New()
	router.GET("/exports/jobs/:id", h.Status)
	router.GET("/exports/:token", h.Download)

	rec := perform(router, http.MethodGet, "/exports/good", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="users.csv"`)
	assert.Equal(t, "id,name\nc1,Awa\n", rec.Body.String())

	rec = perform(router, http.MethodGet, "/exports/bad", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = perform(router, http.MethodGet, "/exports/jobs/job-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = perform(router, http.MethodGet, "/exports/jobs/other", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthHandlerReady(t *testing.T) {
	healthy := NewHealthHandler(map[string]ReadinessCheck{
		"backend": func(context.Context) error { return nil },
	})
	degraded := NewHealthHandler(map[string]ReadinessCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	router := gin.New()
	router.GET("/health", healthy.Health)
	router.GET("/ready", healthy.Ready)
	router.GET("/ready-degraded", degraded.Ready)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ready", "").Code)
	rec := perform(router, http.MethodGet, "/ready-degraded", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestReferenceHandlerTranslations(t *testing.T) {
	h := NewReferenceHandler(nil, i18n.New("fr"), nil)
	router := gin.New()
	router.GET("/i18n/:locale", h.Translations)
	router.GET("/alerts/unread-count", h.UnreadAlerts)

	rec := perform(router, http.MethodGet, "/i18n/de", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "fr", env.Meta["locale"])

	rec = perform(router, http.MethodGet, "/alerts/unread-count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread":0}`, string(decode(t, rec).Data))
}

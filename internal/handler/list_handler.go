package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zoomwifi/admin-console/internal/models"
	"github.com/zoomwifi/admin-console/internal/service"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/export"
	"github.com/zoomwifi/admin-console/pkg/i18n"
	"github.com/zoomwifi/admin-console/pkg/response"
)

const defaultSettleTimeout = 10 * time.Second

type listController[T any] interface {
	State() models.ListState[T]
	Query() models.ListQuery
	SetSearchTerm(term string)
	SetFilters(filters models.Filters)
	SetPage(page int) bool
	Refresh()
	Wait(ctx context.Context) (models.ListState[T], error)
}

type mutationRunner interface {
	Run(ctx context.Context, intent models.MutationIntent) (models.MutationOutcome, error)
}

type exportSubmitter interface {
	Submit(resource string, format export.Format, dataset export.Dataset) (service.ExportJob, error)
}

// SearchRequest sets the search term.
type SearchRequest struct {
	Term string `json:"term"`
}

// FiltersRequest merges filter values into the current filters. A null value
// resets a key to "all".
type FiltersRequest struct {
	Filters models.Filters `json:"filters"`
	Replace bool           `json:"replace"`
}

// PageRequest selects a page.
type PageRequest struct {
	Page int `json:"page"`
}

// OperationRequest carries the arguments of a mutation command.
type OperationRequest struct {
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason"`
	Description string  `json:"description"`
}

// ExportRequest asks for an export of the loaded page.
type ExportRequest struct {
	Format string `json:"format"`
	Locale string `json:"locale"`
}

// ListHandler exposes one list controller and its mutation commands.
type ListHandler[T any] struct {
	resource      string
	list          listController[T]
	runner        mutationRunner
	exports       exportSubmitter
	tabulate      service.Tabulator[T]
	translator    *i18n.Translator
	settleTimeout time.Duration
}

// NewListHandler binds a controller to HTTP. runner and exports may be nil
// when the resource has no commands or exports.
func NewListHandler[T any](resource string, list listController[T], runner mutationRunner, exports exportSubmitter, tabulate service.Tabulator[T], translator *i18n.Translator) *ListHandler[T] {
	return &ListHandler[T]{
		resource:      resource,
		list:          list,
		runner:        runner,
		exports:       exports,
		tabulate:      tabulate,
		translator:    translator,
		settleTimeout: defaultSettleTimeout,
	}
}

// Register mounts the list routes on rg.
func (h *ListHandler[T]) Register(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.resource)
	g.GET("", h.State)
	g.POST("/search", h.Search)
	g.POST("/filters", h.Filters)
	g.POST("/page", h.Page)
	g.POST("/refresh", h.Refresh)
	if h.exports != nil && h.tabulate != nil {
		g.POST("/export", h.Export)
	}
	if h.runner != nil {
		g.POST("/:id/:operation", h.Mutate)
	}
}

// State godoc
// @Summary Current list state
// @Description Returns the list snapshot. With wait=true the call blocks until pending fetches settle.
// @Tags Lists
// @Produce json
// @Param resource path string true "users, partners, transactions, admins or alerts"
// @Param wait query bool false "Wait for pending fetches"
// @Success 200 {object} response.Envelope
// @Router /{resource} [get]
func (h *ListHandler[T]) State(c *gin.Context) {
	state := h.list.State()
	if wait, _ := strconv.ParseBool(c.Query("wait")); wait {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.settleTimeout)
		defer cancel()
		settled, err := h.list.Wait(ctx)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, "SETTLE_TIMEOUT", http.StatusGatewayTimeout, "list did not settle in time"))
			return
		}
		state = settled
	}
	h.respond(c, http.StatusOK, state, nil)
}

// Search godoc
// @Summary Set search term
// @Description Debounced; only the last term typed within the quiet period is fetched.
// @Tags Lists
// @Accept json
// @Produce json
// @Param payload body SearchRequest true "Search term"
// @Success 202 {object} response.Envelope
// @Router /{resource}/search [post]
func (h *ListHandler[T]) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid search payload"))
		return
	}
	h.list.SetSearchTerm(req.Term)
	h.respond(c, http.StatusAccepted, h.list.State(), nil)
}

// Filters godoc
// @Summary Change filters
// @Tags Lists
// @Accept json
// @Produce json
// @Param payload body FiltersRequest true "Filters"
// @Success 202 {object} response.Envelope
// @Router /{resource}/filters [post]
func (h *ListHandler[T]) Filters(c *gin.Context) {
	var req FiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid filters payload"))
		return
	}
	filters := req.Filters
	if !req.Replace {
		filters = h.list.Query().Filters.Clone()
		for k, v := range req.Filters {
			filters[k] = v
		}
	}
	h.list.SetFilters(filters)
	h.respond(c, http.StatusAccepted, h.list.State(), nil)
}

// Page godoc
// @Summary Select page
// @Description Out-of-range pages are ignored; meta.applied reports whether a fetch was issued.
// @Tags Lists
// @Accept json
// @Produce json
// @Param payload body PageRequest true "Page"
// @Success 202 {object} response.Envelope
// @Router /{resource}/page [post]
func (h *ListHandler[T]) Page(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid page payload"))
		return
	}
	applied := h.list.SetPage(req.Page)
	h.respond(c, http.StatusAccepted, h.list.State(), map[string]interface{}{"applied": applied})
}

// Refresh godoc
// @Summary Refetch current page
// @Tags Lists
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /{resource}/refresh [post]
func (h *ListHandler[T]) Refresh(c *gin.Context) {
	h.list.Refresh()
	h.respond(c, http.StatusAccepted, h.list.State(), nil)
}

// Mutate godoc
// @Summary Run a mutation command
// @Description Operations: approve, block, unblock, delete, credit, withdraw, validate, reject, mark-read.
// @Tags Lists
// @Accept json
// @Produce json
// @Param id path string true "Entity id"
// @Param operation path string true "Operation"
// @Param payload body OperationRequest false "Arguments"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /{resource}/{id}/{operation} [post]
func (h *ListHandler[T]) Mutate(c *gin.Context) {
	var req OperationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Validation(err, "invalid operation payload"))
			return
		}
	}
	intent := models.MutationIntent{
		TargetID: c.Param("id"),
		Operation: models.Operation{
			Kind:        models.ParseOperationKind(c.Param("operation")),
			Amount:      req.Amount,
			Reason:      req.Reason,
			Description: req.Description,
		},
	}
	outcome, err := h.runner.Run(c.Request.Context(), intent)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, outcome)
}

// Export godoc
// @Summary Export the loaded page
// @Description Renders the rows currently held by the list; no extra fetch is made.
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body ExportRequest true "Format and locale"
// @Success 202 {object} response.Envelope
// @Router /{resource}/export [post]
func (h *ListHandler[T]) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid export payload"))
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		response.Error(c, appErrors.Validation(err, err.Error()))
		return
	}
	locale := req.Locale
	if strings.TrimSpace(locale) == "" {
		locale = c.GetHeader("Accept-Language")
	}
	dataset := h.tabulate(h.translator, locale, h.list.State().Items)
	job, err := h.exports.Submit(h.resource, format, dataset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

func (h *ListHandler[T]) respond(c *gin.Context, status int, state models.ListState[T], extra map[string]interface{}) {
	meta := map[string]interface{}{
		"resource":   h.resource,
		"phase":      state.Phase,
		"generation": state.Generation,
	}
	for k, v := range extra {
		meta[k] = v
	}
	response.JSON(c, status, state, state.Pagination(), meta)
}

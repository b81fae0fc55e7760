// Package listsync keeps a paginated, filtered, searchable view of one remote
// collection in step with operator intent and with the backend.
package listsync

import (
	"context"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/models"
	"github.com/zoomwifi/admin-console/internal/query"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

// DefaultDebounce is the quiet period before a search term is fetched.
const DefaultDebounce = 500 * time.Millisecond

// Source fetches one page of a resource.
type Source[T any] interface {
	List(ctx context.Context, params url.Values) (models.ListResult[T], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, params url.Values) (models.ListResult[T], error)

// List implements Source.
func (f SourceFunc[T]) List(ctx context.Context, params url.Values) (models.ListResult[T], error) {
	return f(ctx, params)
}

// Metrics receives controller events.
type Metrics interface {
	FetchDispatched(resource string)
	FetchSettled(resource, outcome string, elapsed time.Duration)
	StaleDiscarded(resource string)
}

// Fetch outcomes reported to Metrics.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
)

// Config tunes a controller.
type Config struct {
	PageSize int
	Debounce time.Duration
	// Filters are the initial filters; query.Spec.Defaults when nil.
	Filters models.Filters
	Logger  *zap.Logger
	Metrics Metrics
}

// Controller owns the list state of one resource. All methods are safe for
// concurrent use. Responses are applied in generation order: a response is
// only applied when no newer fetch has been dispatched since.
type Controller[T any] struct {
	spec     query.Spec
	source   Source[T]
	identify func(T) string
	debounce time.Duration
	logger   *zap.Logger
	metrics  Metrics

	mu         sync.Mutex
	intent     models.ListQuery
	state      models.ListState[T]
	generation uint64
	applied    uint64
	started    bool
	closed     bool

	timer     *time.Timer
	searchSeq uint64
	pending   bool

	settled chan struct{}

	publishMu    sync.Mutex
	listeners    map[int]func(models.ListState[T])
	nextListener int
}

// New builds an idle controller. Nothing is fetched until Start.
func New[T any](spec query.Spec, source Source[T], identify func(T) string, cfg Config) *Controller[T] {
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	filters := cfg.Filters
	if filters == nil {
		filters = spec.Defaults
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	intent := models.NewListQuery(cfg.PageSize, filters)
	settled := make(chan struct{})
	close(settled)

	c := &Controller[T]{
		spec:      spec,
		source:    source,
		identify:  identify,
		debounce:  cfg.Debounce,
		logger:    logger.With(zap.String("resource", spec.Resource)),
		metrics:   cfg.Metrics,
		intent:    intent,
		settled:   settled,
		listeners: map[int]func(models.ListState[T]){},
	}
	c.state = models.ListState[T]{Phase: models.PhaseIdle, Items: []T{}}
	c.syncIntentLocked()
	return c
}

// Resource names the controlled collection.
func (c *Controller[T]) Resource() string {
	return c.spec.Resource
}

// Start issues the initial fetch. Later calls are no-ops.
func (c *Controller[T]) Start() {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.dispatchLocked()
	c.mu.Unlock()
	c.publish()
}

// SetSearchTerm resets the page to 1 and schedules a fetch after the
// debounce window. A call inside the window restarts it, so only the last
// term of a burst reaches the backend.
func (c *Controller[T]) SetSearchTerm(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.intent = c.intent.WithSearch(term)
	c.syncIntentLocked()

	if c.debounce == 0 {
		c.cancelPendingLocked()
		c.dispatchLocked()
		c.mu.Unlock()
		c.publish()
		return
	}

	c.searchSeq++
	seq := c.searchSeq
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = true
	c.markBusyLocked()
	c.timer = time.AfterFunc(c.debounce, func() { c.fireSearch(seq) })
	c.mu.Unlock()
	c.publish()
}

func (c *Controller[T]) fireSearch(seq uint64) {
	c.mu.Lock()
	if c.closed || !c.pending || seq != c.searchSeq {
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.timer = nil
	c.dispatchLocked()
	c.mu.Unlock()
	c.publish()
}

// SetFilters resets the page to 1 and fetches immediately. A pending
// debounced search is folded into this fetch.
func (c *Controller[T]) SetFilters(filters models.Filters) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.cancelPendingLocked()
	c.intent = c.intent.WithFilters(filters)
	c.syncIntentLocked()
	c.dispatchLocked()
	c.mu.Unlock()
	c.publish()
}

// SetPage fetches page when 1 <= page <= max(1, ceil(total/pageSize)).
// Out-of-range pages are ignored and leave the state untouched.
func (c *Controller[T]) SetPage(page int) bool {
	c.mu.Lock()
	if c.closed || page < 1 || page > models.TotalPages(c.state.TotalCount, c.intent.PageSize) {
		c.mu.Unlock()
		return false
	}
	c.started = true
	c.cancelPendingLocked()
	c.intent = c.intent.WithPage(page)
	c.syncIntentLocked()
	c.dispatchLocked()
	c.mu.Unlock()
	c.publish()
	return true
}

// Refresh re-fetches the current query unchanged.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.cancelPendingLocked()
	c.dispatchLocked()
	c.mu.Unlock()
	c.publish()
}

// Patch applies fn to the item with the given id in the current result. It
// reports false when no such item is loaded.
func (c *Controller[T]) Patch(id string, fn func(T) T) bool {
	if c.identify == nil || fn == nil {
		return false
	}
	c.mu.Lock()
	idx := -1
	for i, item := range c.state.Items {
		if c.identify(item) == id {
			idx = i
			break
		}
	}
	if c.closed || idx < 0 {
		c.mu.Unlock()
		return false
	}
	items := make([]T, len(c.state.Items))
	copy(items, c.state.Items)
	items[idx] = fn(items[idx])
	c.state.Items = items
	c.mu.Unlock()
	c.publish()
	return true
}

// State returns a snapshot of the list.
func (c *Controller[T]) State() models.ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Query returns the current intended query.
func (c *Controller[T]) Query() models.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent.WithPage(c.intent.Page)
}

// Subscribe registers fn for state changes and returns an unsubscribe func.
// Listeners must not block. They may subscribe or unsubscribe from inside the
// callback; the change applies from the next published state.
func (c *Controller[T]) Subscribe(fn func(models.ListState[T])) func() {
	c.publishMu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.publishMu.Unlock()
	return func() {
		c.publishMu.Lock()
		delete(c.listeners, id)
		c.publishMu.Unlock()
	}
}

// Wait blocks until no fetch is scheduled or in flight and returns the
// settled state.
func (c *Controller[T]) Wait(ctx context.Context) (models.ListState[T], error) {
	for {
		c.mu.Lock()
		if !c.busyLocked() {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		ch := c.settled
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return c.State(), ctx.Err()
		case <-ch:
		}
	}
}

// Close stops the debounce timer. Responses arriving later are ignored.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelPendingLocked()
	c.applied = c.generation
	c.settleLocked()
	c.mu.Unlock()

	c.publishMu.Lock()
	c.listeners = map[int]func(models.ListState[T]){}
	c.publishMu.Unlock()
}

func (c *Controller[T]) dispatchLocked() {
	c.generation++
	gen := c.generation
	q := c.intent.WithPage(c.intent.Page)
	params := query.Build(c.spec, q)

	c.state.Phase = models.PhaseLoading
	c.state.Generation = gen
	c.markBusyLocked()

	if c.metrics != nil {
		c.metrics.FetchDispatched(c.spec.Resource)
	}
	c.logger.Debug("list fetch dispatched", zap.Uint64("generation", gen), zap.String("query", params.Encode()))

	go c.fetch(gen, params)
}

func (c *Controller[T]) fetch(gen uint64, params url.Values) {
	start := time.Now()
	res, err := c.source.List(context.Background(), params)
	elapsed := time.Since(start)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.FetchSettled(c.spec.Resource, OutcomeStale, elapsed)
		}
		return
	}
	if gen != c.generation {
		latest := c.generation
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.StaleDiscarded(c.spec.Resource)
			c.metrics.FetchSettled(c.spec.Resource, OutcomeStale, elapsed)
		}
		c.logger.Debug("stale list response discarded", zap.Uint64("generation", gen), zap.Uint64("latest", latest))
		return
	}

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		appErr := appErrors.FromError(err)
		c.state.Items = []T{}
		c.state.TotalCount = 0
		c.state.Phase = models.PhaseFailed
		c.state.Error = appErr.Message
		c.state.ErrorCode = appErr.Code
		c.logger.Warn("list fetch failed", zap.Uint64("generation", gen), zap.String("code", appErr.Code), zap.Error(err))
	} else {
		items := res.Items
		if items == nil {
			items = []T{}
		}
		c.state.Items = items
		c.state.TotalCount = res.TotalCount
		c.state.Phase = models.PhaseReady
		c.state.Error = ""
		c.state.ErrorCode = ""
	}
	c.applied = gen
	if !c.busyLocked() {
		c.settleLocked()
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.FetchSettled(c.spec.Resource, outcome, elapsed)
	}
	c.publish()
}

func (c *Controller[T]) cancelPendingLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.pending {
		c.pending = false
		c.searchSeq++
	}
}

func (c *Controller[T]) syncIntentLocked() {
	c.state.Page = c.intent.Page
	c.state.PageSize = c.intent.PageSize
	c.state.SearchTerm = c.intent.SearchTerm
	c.state.Filters = c.intent.Filters.Clone()
}

func (c *Controller[T]) busyLocked() bool {
	return c.pending || c.applied < c.generation
}

func (c *Controller[T]) markBusyLocked() {
	select {
	case <-c.settled:
		c.settled = make(chan struct{})
	default:
	}
}

func (c *Controller[T]) settleLocked() {
	select {
	case <-c.settled:
	default:
		close(c.settled)
	}
}

func (c *Controller[T]) snapshotLocked() models.ListState[T] {
	snap := c.state
	snap.Items = make([]T, len(c.state.Items))
	copy(snap.Items, c.state.Items)
	snap.Filters = c.state.Filters.Clone()
	return snap
}

func (c *Controller[T]) publish() {
	c.publishMu.Lock()
	if len(c.listeners) == 0 {
		c.publishMu.Unlock()
		return
	}
	fns := make([]func(models.ListState[T]), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.publishMu.Unlock()

	snap := c.State()
	for _, fn := range fns {
		fn(snap)
	}
}

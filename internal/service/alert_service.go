package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/models"
)

// DefaultAlertPollInterval applies when no interval is configured.
const DefaultAlertPollInterval = 30 * time.Second

type alertList interface {
	Refresh()
	State() models.ListState[models.Alert]
	Subscribe(fn func(models.ListState[models.Alert])) func()
}

type unreadGauge interface {
	SetUnreadAlerts(n int)
}

// AlertService keeps the alerts list fresh by polling and derives the unread
// badge count from it.
type AlertService struct {
	list     alertList
	interval time.Duration
	gauge    unreadGauge
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	unsub  func()
}

// NewAlertService constructs the poller. gauge may be nil.
func NewAlertService(list alertList, interval time.Duration, gauge unreadGauge, logger *zap.Logger) *AlertService {
	if interval <= 0 {
		interval = DefaultAlertPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{list: list, interval: interval, gauge: gauge, logger: logger}
}

// Start begins polling until ctx ends or Stop is called.
func (s *AlertService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	if s.gauge != nil {
		s.unsub = s.list.Subscribe(func(state models.ListState[models.Alert]) {
			if state.Phase == models.PhaseReady {
				s.gauge.SetUnreadAlerts(unreadCount(state))
			}
		})
	}
	go s.loop(ctx, s.done)
	s.logger.Info("alert poller started", zap.Duration("interval", s.interval))
}

func (s *AlertService) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.list.Refresh()
		}
	}
}

// Stop halts polling and waits for the loop to exit.
func (s *AlertService) Stop() {
	s.mu.Lock()
	cancel, done, unsub := s.cancel, s.done, s.unsub
	s.cancel, s.done, s.unsub = nil, nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	if unsub != nil {
		unsub()
	}
}

// UnreadCount returns the number of unread alerts.
func (s *AlertService) UnreadCount() int {
	return unreadCount(s.list.State())
}

// unreadCount uses the server total while the list is filtered to unread
// alerts and falls back to counting the loaded page otherwise.
func unreadCount(state models.ListState[models.Alert]) int {
	if v, ok := state.Filters["status"]; ok && v.String() == models.AlertUnread {
		return state.TotalCount
	}
	n := 0
	for _, a := range state.Items {
		if a.Status == models.AlertUnread {
			n++
		}
	}
	return n
}

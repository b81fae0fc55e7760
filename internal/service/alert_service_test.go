package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoomwifi/admin-console/internal/models"
)

type fakeAlertList struct {
	refreshes atomic.Int32
	mu        sync.Mutex
	state     models.ListState[models.Alert]
	listener  func(models.ListState[models.Alert])
}

func (f *fakeAlertList) Refresh() { f.refreshes.Add(1) }

func (f *fakeAlertList) State() models.ListState[models.Alert] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeAlertList) Subscribe(fn func(models.ListState[models.Alert])) func() {
	f.mu.Lock()
	f.listener = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.listener = nil
		f.mu.Unlock()
	}
}

type recordingGauge struct{ last atomic.Int64 }

func (g *recordingGauge) SetUnreadAlerts(n int) { g.last.Store(int64(n)) }

func TestAlertServicePolls(t *testing.T) {
	list := &fakeAlertList{}
	gauge := &recordingGauge{}
	svc := NewAlertService(list, 10*time.Millisecond, gauge, nil)

	svc.Start(context.Background())
	require.Eventually(t, func() bool { return list.refreshes.Load() >= 2 }, time.Second, 5*time.Millisecond)

	list.mu.Lock()
	fn := list.listener
	list.mu.Unlock()
	require.NotNil(t, fn)
	fn(models.ListState[models.Alert]{
		Phase:      models.PhaseReady,
		TotalCount: 7,
		Filters:    models.Filters{"status": models.StringFilter(models.AlertUnread)},
	})
	assert.Equal(t, int64(7), gauge.last.Load())

	svc.Stop()
	after := list.refreshes.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, list.refreshes.Load())

	list.mu.Lock()
	assert.Nil(t, list.listener)
	list.mu.Unlock()
}

func TestUnreadCount(t *testing.T) {
	list := &fakeAlertList{state: models.ListState[models.Alert]{
		TotalCount: 3,
		Filters:    models.Filters{"status": models.StringFilter(models.FilterAll)},
		Items: []models.Alert{
			{ID: "1", Status: models.AlertUnread},
			{ID: "2", Status: models.AlertRead},
			{ID: "3", Status: models.AlertUnread},
		},
	}}
	svc := NewAlertService(list, 0, nil, nil)
	assert.Equal(t, 2, svc.UnreadCount())
}

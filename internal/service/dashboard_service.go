package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

// DefaultDashboardWindow is the range used when no dates are given.
const DefaultDashboardWindow = 30 * 24 * time.Hour

type dashboardGateway interface {
	Dashboard(ctx context.Context, r models.DateRange) (models.DashboardStats, error)
}

// DashboardService loads the headline totals.
type DashboardService struct {
	gw     dashboardGateway
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(gw dashboardGateway, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{gw: gw, logger: logger, now: time.Now}
}

// Stats returns totals for [start, end]. Missing bounds default to the last
// 30 days ending today.
func (s *DashboardService) Stats(ctx context.Context, start, end *time.Time) (models.DashboardStats, models.DateRange, error) {
	r := s.resolve(start, end)
	if r.StartDate.After(r.EndDate) {
		return models.DashboardStats{}, r, appErrors.Validation(nil, "startDate must not be after endDate")
	}
	stats, err := s.gw.Dashboard(ctx, r)
	if err != nil {
		s.logger.Warn("dashboard load failed", zap.Time("start", r.StartDate), zap.Time("end", r.EndDate), zap.Error(err))
		return models.DashboardStats{}, r, err
	}
	return stats, r, nil
}

func (s *DashboardService) resolve(start, end *time.Time) models.DateRange {
	today := truncateDay(s.now())
	r := models.DateRange{EndDate: today}
	if end != nil {
		r.EndDate = truncateDay(*end)
	}
	r.StartDate = r.EndDate.Add(-DefaultDashboardWindow)
	if start != nil {
		r.StartDate = truncateDay(*start)
	}
	return r
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/response"
)

const dateLayout = "2006-01-02"

type dashboardService interface {
	Stats(ctx context.Context, start, end *time.Time) (models.DashboardStats, models.DateRange, error)
}

// DashboardHandler serves the headline totals.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard totals
// @Description Defaults to the last 30 days
// @Tags Dashboard
// @Produce json
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		response.Error(c, appErrors.Validation(err, "startDate must be YYYY-MM-DD"))
		return
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		response.Error(c, appErrors.Validation(err, "endDate must be YYYY-MM-DD"))
		return
	}

	stats, r, err := h.service.Stats(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{
		"startDate": r.StartDate.Format(dateLayout),
		"endDate":   r.EndDate.Format(dateLayout),
	})
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

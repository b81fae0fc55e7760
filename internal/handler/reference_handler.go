package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zoomwifi/admin-console/internal/models"
	"github.com/zoomwifi/admin-console/pkg/i18n"
	"github.com/zoomwifi/admin-console/pkg/response"
)

type countriesService interface {
	Countries(ctx context.Context) ([]models.Country, error)
}

type unreadCounter interface {
	UnreadCount() int
}

// ReferenceHandler serves countries, translations and the alert badge.
type ReferenceHandler struct {
	countries  countriesService
	translator *i18n.Translator
	alerts     unreadCounter
}

// NewReferenceHandler constructs the handler. alerts may be nil.
func NewReferenceHandler(countries countriesService, translator *i18n.Translator, alerts unreadCounter) *ReferenceHandler {
	return &ReferenceHandler{countries: countries, translator: translator, alerts: alerts}
}

// Countries godoc
// @Summary Countries and cities
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /countries [get]
func (h *ReferenceHandler) Countries(c *gin.Context) {
	countries, err := h.countries.Countries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, countries)
}

// Translations godoc
// @Summary Translation table
// @Description Unknown locales fall back to the default locale
// @Tags Reference
// @Produce json
// @Param locale path string true "fr or en"
// @Success 200 {object} response.Envelope
// @Router /i18n/{locale} [get]
func (h *ReferenceHandler) Translations(c *gin.Context) {
	locale := h.translator.Normalize(c.Param("locale"))
	response.JSON(c, http.StatusOK, h.translator.Table(locale), nil, map[string]interface{}{
		"locale":  locale,
		"locales": h.translator.Locales(),
	})
}

// UnreadAlerts godoc
// @Summary Unread alert count
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /alerts/unread-count [get]
func (h *ReferenceHandler) UnreadAlerts(c *gin.Context) {
	count := 0
	if h.alerts != nil {
		count = h.alerts.UnreadCount()
	}
	response.OK(c, gin.H{"unread": count})
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/response"
)

type registrationService interface {
	CreateUser(ctx context.Context, req models.CreateClientRequest) (models.Client, error)
	RegisterPartner(ctx context.Context, req models.RegisterPartnerRequest) (models.Partner, error)
	RegisterAdmin(ctx context.Context, req models.RegisterAdminRequest) (models.Admin, error)
}

// RegistrationHandler creates users, partners and admins.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(svc registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

// CreateUser godoc
// @Summary Create an end user
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.CreateClientRequest true "User"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *RegistrationHandler) CreateUser(c *gin.Context) {
	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid user payload"))
		return
	}
	created, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// RegisterPartner godoc
// @Summary Register a partner venue
// @Tags Partners
// @Accept json
// @Produce json
// @Param payload body models.RegisterPartnerRequest true "Partner"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /partners [post]
func (h *RegistrationHandler) RegisterPartner(c *gin.Context) {
	var req models.RegisterPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid partner payload"))
		return
	}
	created, err := h.service.RegisterPartner(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// RegisterAdmin godoc
// @Summary Register an operator
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body models.RegisterAdminRequest true "Admin"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admins [post]
func (h *RegistrationHandler) RegisterAdmin(c *gin.Context) {
	var req models.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid admin payload"))
		return
	}
	created, err := h.service.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

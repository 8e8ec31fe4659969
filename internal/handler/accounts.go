package handler

import (
	"net/http"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/middleware"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountsHandler struct{ svc service.AccountService }

func NewAccountsHandler(svc service.AccountService) *AccountsHandler {
	return &AccountsHandler{svc: svc}
}

// Bootstrap godoc
// @Summary Create a tenant's first admin account
// @Tags accounts
// @Accept json
// @Produce json
// @Param body body dto.BootstrapRequest true "Bootstrap data"
// @Success 201 {object} dto.BootstrapResponse
// @Failure 409 {object} apierror.Error
// @Router /accounts/bootstrap [post]
func (h *AccountsHandler) Bootstrap(c *gin.Context) {
	var req dto.BootstrapRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Bootstrap(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AccountsHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Create(c.Request.Context(), auth.Account.TenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AccountsHandler) List(c *gin.Context) {
	auth := middleware.GetAuth(c)
	resp, err := h.svc.List(c.Request.Context(), auth.Account.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Get(c.Request.Context(), auth.Account.TenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Update(c.Request.Context(), auth.Account.TenantID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	auth := middleware.GetAuth(c)
	if err := h.svc.Delete(c.Request.Context(), auth.Account.TenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id path parameter; unparseable ids read as not found.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.ErrNotFound.Envelope())
		return uuid.Nil, false
	}
	return id, true
}

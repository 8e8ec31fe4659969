package handler

import (
	"net/http"

	"restopos/internal/dto"
	"restopos/internal/middleware"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

type RolesHandler struct{ svc service.RoleService }

func NewRolesHandler(svc service.RoleService) *RolesHandler { return &RolesHandler{svc: svc} }

func (h *RolesHandler) Create(c *gin.Context) {
	var req dto.CreateRoleRequest
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

func (h *RolesHandler) List(c *gin.Context) {
	auth := middleware.GetAuth(c)
	resp, err := h.svc.List(c.Request.Context(), auth.Account.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RolesHandler) Get(c *gin.Context) {
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

func (h *RolesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
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

func (h *RolesHandler) Delete(c *gin.Context) {
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

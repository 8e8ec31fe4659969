package handler

import (
	"net/http"

	"restopos/internal/config"
	"restopos/internal/dto"
	"restopos/internal/middleware"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// Login godoc
// @Summary Authenticate and set the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.Error
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(h.svc.SessionTTL().Seconds()),
		"/", h.cfg.CookieDomain, h.cfg.Env == "production", true)
	c.JSON(http.StatusOK, resp)
}

// Logout clears the session cookie. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1,
		"/", h.cfg.CookieDomain, h.cfg.Env == "production", true)
	c.Status(http.StatusNoContent)
}

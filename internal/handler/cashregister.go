package handler

import (
	"net/http"
	"strconv"
	"time"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/infra"
	"restopos/internal/middleware"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

type CashRegisterHandler struct {
	svc     service.CashRegisterService
	pdfPath string
}

func NewCashRegisterHandler(svc service.CashRegisterService, pdfPath string) *CashRegisterHandler {
	return &CashRegisterHandler{svc: svc, pdfPath: pdfPath}
}

// Open godoc
// @Summary Open a cash register session
// @Tags cash-register
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body dto.OpenRegisterRequest true "Opening data"
// @Success 201 {object} dto.RegisterStatusResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /cash-register/open [post]
func (h *CashRegisterHandler) Open(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Open(c.Request.Context(), auth.Account.TenantID, auth.Account.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Close the open cash register session
// @Tags cash-register
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body dto.CloseRegisterRequest true "Closing data"
// @Success 200 {object} dto.RegisterStatusResponse
// @Failure 400 {object} apierror.Error
// @Failure 409 {object} apierror.Error
// @Router /cash-register/close [post]
func (h *CashRegisterHandler) Close(c *gin.Context) {
	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Close(c.Request.Context(), auth.Account.TenantID, auth.Account.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status returns whether a session is open plus live advisory totals.
func (h *CashRegisterHandler) Status(c *gin.Context) {
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Status(c.Request.Context(), auth.Account.TenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History lists closed sessions, paginated via page/limit query parameters.
func (h *CashRegisterHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	auth := middleware.GetAuth(c)
	resp, err := h.svc.History(c.Request.Context(), auth.Account.TenantID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Closeout returns aggregated totals and a per-ticket breakdown for a
// date range. Requires the cash.close permission (enforced in the router).
func (h *CashRegisterHandler) Closeout(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Closeout(c.Request.Context(), auth.Account.TenantID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CloseoutPDF renders the same report as a downloadable PDF.
func (h *CashRegisterHandler) CloseoutPDF(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	auth := middleware.GetAuth(c)
	report, err := h.svc.Closeout(c.Request.Context(), auth.Account.TenantID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := infra.GenerateCloseoutPDF(report, h.pdfPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "cash-close_"+report.From+"_"+report.To+".pdf")
}

// dateRange parses the from/to query parameters (YYYY-MM-DD, inclusive).
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Invalid("invalid_range", "from must be a YYYY-MM-DD date").Envelope())
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Invalid("invalid_range", "to must be a YYYY-MM-DD date").Envelope())
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, apierror.Invalid("invalid_range", "to must not precede from").Envelope())
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

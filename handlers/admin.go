package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionRepo "slotline/database/repository/session"
	"slotline/services/booking"
	"slotline/services/session"
	"slotline/utils"
)

// AdminHandler exposes the review queue and the cross-provider session
// listing. Routes mount it behind the admin role gate.
type AdminHandler struct {
	Booking  booking.Service
	Sessions session.Service
}

func (h *AdminHandler) PendingQueue(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	page, pageSize := pagination(c)
	items, total, err := h.Booking.PendingQueue(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(items, total, page, pageSize))
}

func (h *AdminHandler) GetRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	req, err := h.Booking.GetRequest(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	confirmed, err := h.Booking.ApproveRequest(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmed)
}

func (h *AdminHandler) RejectRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req, err := h.Booking.RejectRequest(c.Request.Context(), p, c.Param("id"), in.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *AdminHandler) SetProviderRate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in struct {
		AmountPerSession float64 `json:"amount_per_session"`
		Currency         string  `json:"currency"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rate, err := h.Booking.SetProviderRate(c.Request.Context(), p, c.Param("providerID"), in.AmountPerSession, in.Currency)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *AdminHandler) ListSessions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, pageSize := pagination(c)
	filter := sessionRepo.AdminFilter{
		ProviderID:  c.Query("provider_id"),
		RequesterID: c.Query("requester_id"),
		FromDate:    c.Query("from"),
		ToDate:      c.Query("to"),
	}
	items, total, err := h.Sessions.AdminListSessions(c.Request.Context(), p, filter, page, pageSize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(items, total, page, pageSize))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotline/services/booking"
	"slotline/utils"
)

// RequestHandler exposes the session-request lifecycle to requesters and
// providers. Admin review lives in AdminHandler.
type RequestHandler struct {
	Service booking.Service
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in booking.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req, err := h.Service.CreateRequest(c.Request.Context(), p, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, pageSize := pagination(c)
	items, total, err := h.Service.ListRequests(c.Request.Context(), p, page, pageSize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(items, total, page, pageSize))
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	req, err := h.Service.GetRequest(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) UploadPaymentProof(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in struct {
		PaymentProofRef string `json:"payment_proof_ref"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req, err := h.Service.UploadPaymentProof(c.Request.Context(), p, c.Param("id"), in.PaymentProofRef)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) CancelRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	req, err := h.Service.CancelRequest(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotline/services/slots"
	"slotline/utils"
)

// SlotHandler serves the generated bookable slots for a provider and date.
type SlotHandler struct {
	Service slots.Service
}

func (h *SlotHandler) GetProviderSlots(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	providerID := c.Param("providerID")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'date' is required (YYYY-MM-DD)"})
		return
	}

	list, err := h.Service.GetSlots(c.Request.Context(), providerID, date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

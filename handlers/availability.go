package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotline/services/availability"
	"slotline/utils"
)

// AvailabilityHandler exposes the provider-facing availability configuration:
// settings, weekly rules, and date overrides.
type AvailabilityHandler struct {
	Service availability.Service
}

func (h *AvailabilityHandler) InitSettings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in availability.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	settings, err := h.Service.InitSettings(c.Request.Context(), p.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settings)
}

func (h *AvailabilityHandler) GetSettings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	settings, err := h.Service.GetSettings(c.Request.Context(), p.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AvailabilityHandler) UpdateSettings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in availability.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	settings, err := h.Service.UpdateSettings(c.Request.Context(), p.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AvailabilityHandler) CreateRule(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in availability.RuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rule, err := h.Service.CreateRule(c.Request.Context(), p.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *AvailabilityHandler) ListRules(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rules, err := h.Service.ListRules(c.Request.Context(), p.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *AvailabilityHandler) GetRule(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rule, err := h.Service.GetRule(c.Request.Context(), p.ID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *AvailabilityHandler) UpdateRule(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in availability.RuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rule, err := h.Service.UpdateRule(c.Request.Context(), p.ID, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *AvailabilityHandler) DeleteRule(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteRule(c.Request.Context(), p.ID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted"})
}

func (h *AvailabilityHandler) CreateOverride(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in availability.OverrideInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	override, err := h.Service.CreateOverride(c.Request.Context(), p.ID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, override)
}

func (h *AvailabilityHandler) ListOverrides(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	overrides, err := h.Service.ListOverrides(c.Request.Context(), p.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

func (h *AvailabilityHandler) GetOverride(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	override, err := h.Service.GetOverride(c.Request.Context(), p.ID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, override)
}

func (h *AvailabilityHandler) UpdateOverride(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in availability.OverrideInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	override, err := h.Service.UpdateOverride(c.Request.Context(), p.ID, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, override)
}

func (h *AvailabilityHandler) DeleteOverride(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteOverride(c.Request.Context(), p.ID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Override deleted"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotline/services/session"
	"slotline/utils"
)

// SessionHandler serves the caller's confirmed sessions.
type SessionHandler struct {
	Service session.Service
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, pageSize := pagination(c)
	items, total, err := h.Service.ListSessions(c.Request.Context(), p, page, pageSize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(items, total, page, pageSize))
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	session, err := h.Service.GetSession(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

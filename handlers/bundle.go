package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slotline/middleware"
	"slotline/models"
)

// HandlerBundle groups the endpoint handlers for route registration.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Slots        *SlotHandler
	Requests     *RequestHandler
	Admin        *AdminHandler
	Sessions     *SessionHandler
}

// principal returns the authenticated caller or aborts with 401. Route groups
// run AuthMiddleware first, so a miss here means a wiring mistake.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return models.Principal{}, false
	}
	return p, true
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination reads ?page= and ?page_size= with sane bounds.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// pagedResponse is the wire shape of every paginated listing.
func pagedResponse(items any, total int64, page, pageSize int) gin.H {
	return gin.H{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
}

package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slotline/handlers"
	"slotline/middleware"
	"slotline/models"
	"slotline/utils"
)

// RegisterAvailabilityRoutes registers the provider-facing availability
// configuration: settings, weekly rules, date overrides.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleProvider))

		api.POST("/settings", hb.Availability.InitSettings)
		api.GET("/settings", hb.Availability.GetSettings)
		api.PUT("/settings", hb.Availability.UpdateSettings)

		api.POST("/rules", hb.Availability.CreateRule)
		api.GET("/rules", hb.Availability.ListRules)
		api.GET("/rules/:id", hb.Availability.GetRule)
		api.PUT("/rules/:id", hb.Availability.UpdateRule)
		api.DELETE("/rules/:id", hb.Availability.DeleteRule)

		api.POST("/overrides", hb.Availability.CreateOverride)
		api.GET("/overrides", hb.Availability.ListOverrides)
		api.GET("/overrides/:id", hb.Availability.GetOverride)
		api.PUT("/overrides/:id", hb.Availability.UpdateOverride)
		api.DELETE("/overrides/:id", hb.Availability.DeleteOverride)
	}
}

// RegisterSlotRoutes registers the generated-slot listing, open to any
// authenticated caller.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.Use(middleware.AuthMiddleware())
		api.GET("/:providerID/slots", hb.Slots.GetProviderSlots)
	}
}

// RegisterRequestRoutes registers the session-request lifecycle. Reads of a
// single request are open to any authenticated role; the service enforces the
// visibility rule.
func RegisterRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/requests")
	{
		api.Use(middleware.AuthMiddleware())
		api.POST("", middleware.RequireRole(models.RoleRequester), hb.Requests.CreateRequest)
		api.GET("", middleware.RequireRole(models.RoleRequester, models.RoleProvider), hb.Requests.ListRequests)
		api.GET("/:id", hb.Requests.GetRequest)
		api.PUT("/:id/payment-proof", middleware.RequireRole(models.RoleRequester), hb.Requests.UploadPaymentProof)
		api.DELETE("/:id", middleware.RequireRole(models.RoleRequester), hb.Requests.CancelRequest)
	}
}

// RegisterSessionRoutes registers the confirmed-session views.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.AuthMiddleware())
		api.GET("", middleware.RequireRole(models.RoleRequester, models.RoleProvider), hb.Sessions.ListSessions)
		api.GET("/:id", hb.Sessions.GetSession)
	}
}

// RegisterAdminRoutes sets up endpoints for the review queue and the
// cross-provider session listing.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		adminGroup.GET("/requests", hb.Admin.PendingQueue)
		adminGroup.GET("/requests/:id", hb.Admin.GetRequest)
		adminGroup.POST("/requests/:id/approve", hb.Admin.ApproveRequest)
		adminGroup.POST("/requests/:id/reject", hb.Admin.RejectRequest)
		adminGroup.PUT("/providers/:providerID/rate", hb.Admin.SetProviderRate)
		adminGroup.GET("/sessions", hb.Admin.ListSessions)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "components": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterSlotRoutes(r, hb)
	RegisterRequestRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}

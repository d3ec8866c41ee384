package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/EAniwa/legacylancers-sub003/handlers"
	"github.com/EAniwa/legacylancers-sub003/middleware"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

// RegisterAvailabilityRoutes registers availability management and slot
// search endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, h *handlers.AvailabilityHandler) {
	api := r.Group("/api/availability")
	{
		// Discovery endpoints are public so clients can browse before
		// authenticating.
		api.GET("", h.ListHandler)
		api.GET("/:id", h.GetHandler)
		api.GET("/owner/:ownerId/slots", h.FindSlotsHandler)
		api.GET("/owner/:ownerId/next", h.NextSlotHandler)
		api.GET("/owner/:ownerId/stats", h.OwnerStatsHandler)
		api.POST("/convert-timezone", h.ConvertTimezoneHandler)
		api.POST("/check-conflicts", h.CheckConflictsHandler)

		// Endpoints that mutate availability require authentication.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", h.CreateHandler)
		protected.PUT("/:id", h.UpdateHandler)
		protected.DELETE("/:id", h.DeleteHandler)
		protected.POST("/:id/book", h.BookSlotHandler)
		protected.POST("/:id/release", h.ReleaseSlotHandler)
	}
}

// RegisterBookingRoutes registers engagement lifecycle endpoints. Every
// booking endpoint is actor-scoped, so the whole group is protected.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", h.CreateHandler)
		api.GET("", h.ListHandler)
		api.GET("/stats", h.StatsHandler)
		api.GET("/:id", h.GetHandler)
		api.PATCH("/:id", h.UpdateHandler)
		api.PUT("/:id/accept", h.AcceptHandler)
		api.PUT("/:id/reject", h.RejectHandler)
		api.PUT("/:id/cancel", h.CancelHandler)
		api.GET("/:id/transitions", h.TransitionsHandler)
		api.GET("/:id/history", h.HistoryHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, availability *handlers.AvailabilityHandler, booking *handlers.BookingHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, availability)
	RegisterBookingRoutes(r, booking)
}

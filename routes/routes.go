package routes

import (
	"net/http"
	"time"

	"verdea/handlers"
	"verdea/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterClientRoutes registers the client-facing search and booking flow.
func RegisterClientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("/search", hb.SearchAvailability)
		api.POST("/next-days", hb.NextAvailableDays)
		api.POST("/broadcast", hb.BroadcastBooking)
	}
}

// RegisterGardenerRoutes registers gardener-facing endpoints: responding to
// broadcast requests and managing availability.
func RegisterGardenerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/gardeners")
	{
		api.POST("/bookings/:id/accept", hb.AcceptBooking)
		api.POST("/bookings/:id/decline", hb.DeclineBooking)
		api.GET("/:id/bookings/pending", hb.PendingBookings)
		api.POST("/:id/bookings/suggest", hb.SuggestAlternative)

		api.GET("/:id/availability", hb.GetAvailability)
		api.PUT("/:id/availability", hb.SetAvailability)
	}
}

// RegisterScheduleRoutes registers recurring-template management endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/gardeners/:id/schedule")
	{
		api.GET("", hb.GetScheduleTemplates)
		api.PUT("/template", hb.SaveScheduleTemplate)
		api.PUT("/settings", hb.SaveScheduleSettings)
		api.POST("/regenerate", hb.RegenerateSchedule)
	}
}

// RegisterHealthRoute registers a health-check endpoint serving the latest
// monitor snapshot.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Hi, I'm Verdea",
			"services": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterClientRoutes(r, hb)
	RegisterGardenerRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
}

package transport

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/tennis-courts/internal/transport/middleware"
)

// Options tunes the router middleware. Zero values disable CORS and rate limiting.
type Options struct {
	RequestTimeout time.Duration
	AllowOrigins   []string
	RateLimit      float64
	RateBurst      int
}

func InitRoutes(reservationHandler *ReservationHandler, healthChecks map[string]HealthCheck, opts Options) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	if len(opts.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length", "Location"},
			MaxAge:        12 * time.Hour,
		}))
	}
	if opts.RateLimit > 0 {
		router.Use(middleware.RateLimit(opts.RateLimit, opts.RateBurst))
	}
	if opts.RequestTimeout > 0 {
		router.Use(middleware.Timeout(opts.RequestTimeout))
	}

	// API routes
	api := router.Group("/api/v1")
	{
		reservations := api.Group("/reservations")
		{
			reservations.POST("", reservationHandler.BookReservation)
			reservations.GET("/past", reservationHandler.GetPastReservations)
			reservations.POST("/no-shows", reservationHandler.SweepNoShows)
			reservations.GET("/:id", reservationHandler.GetReservation)
			reservations.DELETE("/:id", reservationHandler.CancelReservation)
			reservations.PATCH("/:id/schedules/:schedule_id", reservationHandler.RescheduleReservation)
		}
	}

	// Health check
	router.GET("/health", healthHandler(healthChecks))

	return router
}

package ticketing

import "github.com/gin-gonic/gin"

func SetupTicketingRoutes(router *gin.RouterGroup, controller Controller) {
	events := router.Group("/events")
	{
		events.POST("", controller.CreateEvent)      // POST /api/v1/events - Create event with seat levels
		events.GET("/:eventId", controller.GetEvent) // GET /api/v1/events/:eventId - Snapshot summary
	}

	router.GET("/seats/available", controller.GetAvailability) // GET /api/v1/seats/available?level=N
	router.POST("/holds", controller.HoldSeats)                // POST /api/v1/holds - Find and hold best seats
	router.POST("/reservations", controller.ReserveSeats)      // POST /api/v1/reservations - Convert hold to reservation
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Musallamjaw/CTRL/internal/ticketing"
)

func TicketingMiddleware(service *ticketing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("ticketing", service)
		c.Next()
	}
}

func GetTicketingService(c *gin.Context) *ticketing.Service {
	service, exists := c.Get("ticketing")
	if !exists {
		return nil
	}
	return service.(*ticketing.Service)
}

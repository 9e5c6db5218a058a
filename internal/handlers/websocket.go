package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/urbix/urbix-backend/internal/services"
)

// WebSocketHandler upgrades an authenticated connection and attaches it to
// the hub so the user receives booking and ride events in real time.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		services.HandleWebSocket(hub, c.Writer, c.Request, c.GetUint("userId"))
	}
}

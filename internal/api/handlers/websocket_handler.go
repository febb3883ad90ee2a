package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/gocomet/carpool/pkg/logger"
	"github.com/gocomet/carpool/pkg/ws"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS layer in front
	},
}

// HandleWebSocket handles GET /v1/ws. The feed is observational only,
// so clients connect without authenticating.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("failed to upgrade to websocket", logger.Err(err))
		return
	}

	clientID := c.Query("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	client := ws.NewClient(clientID, h.Hub, conn)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

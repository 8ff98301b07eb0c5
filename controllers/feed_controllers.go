package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"brewmenu/realtime"
	"brewmenu/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// customers connect from the menu frontend on another origin
		return true
	},
}

// OrderFeed -> GET /ws/orders?order_id=N upgrades to the realtime change
// feed. Without order_id the client receives every order event.
func OrderFeed(c *gin.Context) {
	var orderID uint
	if raw := c.Query("order_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		orderID = uint(parsed)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}

	realtime.RegisterClient(conn, orderID)

	// reads only serve to detect the client going away
	go func() {
		defer realtime.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

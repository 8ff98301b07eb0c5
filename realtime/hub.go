package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"brewmenu/models"
	"brewmenu/utils"
)

// Event types
const (
	EventOrderUpdate = "order_update"
	EventTableUpdate = "table_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderChange is the advisory payload for order events. Delivery is
// at-least-once and unordered; subscribers re-fetch the full order instead
// of applying this as a delta.
type OrderChange struct {
	OrderID   uint   `json:"order_id"`
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
}

// Hub holds every connected feed client. A client may watch a single order
// (customers on the status page) or all of them (staff dashboards).
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> order id filter, 0 = all
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]uint),
}

// RegisterClient adds a connection to the feed. orderID 0 subscribes to
// every order.
func RegisterClient(conn *websocket.Conn, orderID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = orderID
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderChange notifies feed clients that an order row changed.
func BroadcastOrderChange(order *models.Order) {
	broadcast(order.ID, Message{
		Event: EventOrderUpdate,
		Data: OrderChange{
			OrderID:   order.ID,
			OrderCode: order.OrderCode,
			Status:    order.Status,
		},
	})
}

// BroadcastTableChange notifies feed clients of a table status change.
func BroadcastTableChange(table *models.Table) {
	broadcast(0, Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

func broadcast(orderID uint, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("marshal %s event: %v", msg.Event, err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn, filter := range hub.clients {
		if orderID != 0 && filter != 0 && filter != orderID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("websocket write failed, dropping client: %v", err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}

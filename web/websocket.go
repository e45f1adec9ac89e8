package web

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"cricket-service/database"
	"cricket-service/logger"
)

// WSMessage WebSocket消息结构
type WSMessage struct {
	Event   string      `json:"event"`
	MatchID string      `json:"matchId,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Client WebSocket客户端
// 过滤器由 readPump 协程写入、Hub 广播协程读取，需持有 mu
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.RWMutex
	events   map[string]bool // 事件名过滤器
	matchIDs map[string]bool // 比赛编号过滤器
}

// Hub WebSocket Hub，按提交顺序将通知推送给所有在线客户端
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *WSMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub 创建新的Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *WSMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Printf("[Hub] Client registered. Total clients: %d", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Printf("[Hub] Client unregistered. Total clients: %d", total)

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if !client.shouldReceive(message) {
					continue
				}

				select {
				case client.send <- h.marshalMessage(message):
				default:
					// 发送缓冲区满，视为慢客户端并剔除
					h.mu.RUnlock()
					h.mu.Lock()
					close(client.send)
					delete(h.clients, client)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast 广播事件（实现services.MessageBroadcaster接口）
func (h *Hub) Broadcast(event string, payload interface{}) {
	msg := &WSMessage{
		Event: event,
		Data:  payload,
	}

	// 提取比赛编号供客户端过滤
	switch p := payload.(type) {
	case *database.Match:
		msg.MatchID = p.MatchID
	case map[string]interface{}:
		if v, ok := p["matchId"].(string); ok {
			msg.MatchID = v
		}
	}

	h.broadcast <- msg
}

// marshalMessage 序列化消息
func (h *Hub) marshalMessage(message *WSMessage) []byte {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("[Hub] Failed to marshal message: %v", err)
		return []byte("{}")
	}
	return data
}

// shouldReceive 检查客户端是否应该接收消息
func (c *Client) shouldReceive(message *WSMessage) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// 没有设置过滤器时接收所有消息
	if len(c.events) == 0 && len(c.matchIDs) == 0 {
		return true
	}

	if len(c.events) > 0 {
		if _, ok := c.events[message.Event]; !ok {
			return false
		}
	}

	if len(c.matchIDs) > 0 {
		if message.MatchID == "" {
			return false
		}
		if _, ok := c.matchIDs[message.MatchID]; !ok {
			return false
		}
	}

	return true
}

// readPump 读取客户端消息
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("[Hub] WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump 向客户端写入消息
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// handleMessage 处理客户端发送的消息 (设置过滤器等)
func (c *Client) handleMessage(message []byte) {
	var msg map[string]interface{}
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Errorf("[Hub] Failed to unmarshal client message: %v", err)
		return
	}

	msgType, ok := msg["type"].(string)
	if !ok {
		return
	}

	switch msgType {
	case "subscribe":
		// 订阅特定事件
		if names, ok := msg["events"].([]interface{}); ok {
			events := make(map[string]bool)
			for _, e := range names {
				if event, ok := e.(string); ok {
					events[event] = true
				}
			}
			c.mu.Lock()
			c.events = events
			c.mu.Unlock()
		}

		// 订阅特定比赛
		if ids, ok := msg["match_ids"].([]interface{}); ok {
			matchIDs := make(map[string]bool)
			for _, m := range ids {
				if matchID, ok := m.(string); ok {
					matchIDs[matchID] = true
				}
			}
			c.mu.Lock()
			c.matchIDs = matchIDs
			c.mu.Unlock()
		}

		c.mu.RLock()
		logger.Printf("[Hub] Client subscribed with events: %v, matches: %v", c.events, c.matchIDs)
		c.mu.RUnlock()

	case "unsubscribe":
		c.mu.Lock()
		c.events = make(map[string]bool)
		c.matchIDs = make(map[string]bool)
		c.mu.Unlock()
		logger.Println("[Hub] Client unsubscribed")
	}
}

package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/maze-engine/game/maze"
	"github.com/wricardo/maze-engine/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Event names carried in Message.Event
const (
	EventStep     = "step"
	EventSolution = "solution"
	// EventReplay carries a whole instant replay: every step plus the solution
	EventReplay = "replay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	MazeID   string               `json:"maze_id"`
	Event    string               `json:"event"`
	Step     *maze.Step           `json:"step,omitempty"`
	Steps    []maze.Step          `json:"steps,omitempty"`
	Solution *service.SolveResult `json:"solution,omitempty"`
	Data     interface{}          `json:"data,omitempty"`
}

// Client represents a WebSocket client watching one maze
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	mazeID string
}

type countRequest struct {
	mazeID string
	reply  chan int
}

// Hub maintains the set of active clients per maze and broadcasts messages.
// Hub satisfies service.StepSink.
type Hub struct {
	// Registered clients by maze ID
	mazes map[string]map[*Client]bool

	// Outbound messages for a maze
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	counts chan countRequest
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		mazes:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.counts:
			req.reply <- len(h.mazes[req.mazeID])
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to mazeID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, mazeID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		mazeID: mazeID,
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of clients watching mazeID; Run must be active
func (h *Hub) ClientCount(mazeID string) int {
	reply := make(chan int, 1)
	h.counts <- countRequest{mazeID: mazeID, reply: reply}
	return <-reply
}

// BroadcastStep sends one solver step to all clients watching a maze
func (h *Hub) BroadcastStep(ctx context.Context, mazeID string, step maze.Step) error {
	return h.publish(ctx, &Message{
		MazeID: mazeID,
		Event:  EventStep,
		Step:   &step,
	})
}

// BroadcastSolution sends the final solve result to all clients watching a maze
func (h *Hub) BroadcastSolution(ctx context.Context, mazeID string, result *service.SolveResult) error {
	return h.publish(ctx, &Message{
		MazeID:   mazeID,
		Event:    EventSolution,
		Solution: result,
	})
}

// BroadcastReplay sends every step and the solution to all clients watching a maze in one frame
func (h *Hub) BroadcastReplay(ctx context.Context, mazeID string, steps []maze.Step, result *service.SolveResult) error {
	return h.publish(ctx, &Message{
		MazeID:   mazeID,
		Event:    EventReplay,
		Steps:    steps,
		Solution: result,
	})
}

// BroadcastEvent sends a custom event to all clients watching a maze
func (h *Hub) BroadcastEvent(ctx context.Context, mazeID string, event string, data interface{}) error {
	return h.publish(ctx, &Message{
		MazeID: mazeID,
		Event:  event,
		Data:   data,
	})
}

// publish queues message for Run, giving up when ctx is done
func (h *Hub) publish(ctx context.Context, message *Message) error {
	select {
	case h.broadcast <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// registerClient adds a client to a maze
func (h *Hub) registerClient(client *Client) {
	if h.mazes[client.mazeID] == nil {
		h.mazes[client.mazeID] = make(map[*Client]bool)
	}
	h.mazes[client.mazeID][client] = true

	log.Printf("Client registered for maze %s (total clients: %d)",
		client.mazeID, len(h.mazes[client.mazeID]))
}

// unregisterClient removes a client from a maze
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.mazes[client.mazeID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty mazes
			if len(clients) == 0 {
				delete(h.mazes, client.mazeID)
			}

			log.Printf("Client unregistered from maze %s (remaining clients: %d)",
				client.mazeID, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients watching its maze
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.mazes[message.MazeID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection so pongs and close frames are processed
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients only listen; anything they send is discarded
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection, one frame per message
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

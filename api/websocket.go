package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seenimoa/clientdesk/internal/fetchstate"
	"github.com/seenimoa/clientdesk/internal/portfolio"
	"github.com/seenimoa/clientdesk/internal/report"
	"github.com/seenimoa/clientdesk/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // pages are served from the same binary
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 64
)

// ============================================================
// Messages
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// wsRequest is a message received from a peer.
type wsRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type subscribeRequest struct {
	ClientID models.ID `json:"client_id"`
}

// PortfolioEvent is the payload of a "portfolio" message.
type PortfolioEvent struct {
	ClientID string            `json:"client_id"`
	Status   fetchstate.Status `json:"status"`
	View     *portfolio.View   `json:"view,omitempty"`
	HTML     string            `json:"html,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// livePortfolio is what a subscription fetches: the view and its rendering.
type livePortfolio struct {
	View portfolio.View
	HTML string
}

// ============================================================
// Hub
// ============================================================

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
	done       chan struct{}
	stopOnce   sync.Once
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		done:       make(chan struct{}),
	}
}

// Run starts the hub event loop. It returns after Stop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.remove(client)
		case msg := <-h.broadcast:
			var slow []*WSClient
			h.mu.RLock()
			for client := range h.clients {
				if !client.trySend(msg) {
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.remove(client)
			}
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every client.
func (h *WSHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *WSHub) remove(client *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.close()
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage

	mu     sync.Mutex
	closed bool
}

func newWSClient(hub *WSHub) *WSClient {
	return &WSClient{hub: hub, send: make(chan WSMessage, sendBuffer)}
}

// trySend queues msg without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *WSClient) trySend(msg WSMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *WSClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ============================================================
// Connection handling
// ============================================================

// handleWebSocket upgrades the connection. Peers subscribe to a client's
// portfolio and receive a loading, success or failure event for every
// subscription; script output is broadcast to everyone.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := newWSClient(s.wsHub)
	s.wsHub.Register(client)

	go wsWritePump(conn, client)
	go s.wsReadPump(conn, client)
}

// wsReadPump reads peer requests until the connection closes.
func (s *Server) wsReadPump(conn *websocket.Conn, client *WSClient) {
	ctx, cancel := context.WithCancel(context.Background())

	// Each connection is one view instance; switching client ids supersedes
	// the previous subscription.
	tracker := fetchstate.NewTracker(func(st fetchstate.State[livePortfolio]) {
		client.trySend(WSMessage{Type: "portfolio", Data: s.portfolioEvent(st)})
	})

	defer func() {
		tracker.Stop()
		cancel()
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(message, &req); err != nil {
			continue
		}

		switch req.Type {
		case "subscribe":
			var sub subscribeRequest
			if err := json.Unmarshal(req.Data, &sub); err != nil || sub.ClientID == "" {
				client.trySend(WSMessage{Type: "error", Data: "subscribe requires data.client_id"})
				continue
			}
			s.subscribe(ctx, tracker, sub.ClientID.String())
		case "unsubscribe":
			tracker.Stop()
			client.trySend(WSMessage{Type: "portfolio", Data: PortfolioEvent{Status: fetchstate.StatusIdle}})
		case "ping":
			client.trySend(WSMessage{Type: "pong"})
		}
	}
}

// subscribe starts loading clientID. The tracker drops the result if a newer
// subscription has started by the time it arrives.
func (s *Server) subscribe(ctx context.Context, tracker *fetchstate.Tracker[livePortfolio], clientID string) {
	fctx, tk := tracker.Begin(ctx, clientID)
	go func() {
		lp, err := s.loadLive(fctx, clientID)
		if err != nil {
			s.logger.Error().Err(err).Str("client_id", clientID).Msg("live portfolio load failed")
		}
		if !tracker.Resolve(tk, lp, err) {
			s.logger.Debug().Str("client_id", clientID).Msg("discarding superseded portfolio load")
		}
	}()
}

func (s *Server) loadLive(ctx context.Context, clientID string) (livePortfolio, error) {
	v, err := s.loader.View(ctx, clientID)
	if err != nil {
		return livePortfolio{}, err
	}
	html, err := report.Fragment(&v, s.report)
	if err != nil {
		return livePortfolio{}, err
	}
	return livePortfolio{View: v, HTML: string(html)}, nil
}

func (s *Server) portfolioEvent(st fetchstate.State[livePortfolio]) PortfolioEvent {
	switch st := st.(type) {
	case fetchstate.Loading[livePortfolio]:
		return PortfolioEvent{ClientID: st.Key, Status: st.Status()}
	case fetchstate.Success[livePortfolio]:
		v := st.Data.View
		return PortfolioEvent{ClientID: st.Key, Status: st.Status(), View: &v, HTML: st.Data.HTML}
	case fetchstate.Failure[livePortfolio]:
		return PortfolioEvent{ClientID: st.Key, Status: st.Status(), Error: portfolio.FailureMessage}
	}
	return PortfolioEvent{Status: fetchstate.StatusIdle}
}

// wsWritePump pumps messages from the client's queue to the connection.
func wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

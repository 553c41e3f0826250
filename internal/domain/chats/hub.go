package chats

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pet-adoption-match/internal/platform/logger"
	"pet-adoption-match/internal/platform/observability"
	"pet-adoption-match/internal/ports/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// El token ya se validó en AuthContext; CORS no aplica a upgrades.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event es lo que recibe cada cliente suscrito a un match.
type Event struct {
	Type    string          `json:"type"`
	MatchID string          `json:"match_id"`
	Message messageResponse `json:"message"`
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	matchID string
	actor   auth.Principal
}

// Hub mantiene los clientes WebSocket por match y reenvía cada mensaje
// nuevo. Best effort: sin replay y un cliente lento se desconecta.
// Con parties != nil, cada publish vuelve a autorizar a los suscriptos y
// desconecta a quien dejó de ser parte (p.ej. la mascota se borró).
type Hub struct {
	mu      sync.RWMutex
	byMatch map[string]map[*client]struct{}
	parties PartyAuthorizer
	log     logger.Logger
}

func NewHub(log logger.Logger, parties PartyAuthorizer) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		byMatch: make(map[string]map[*client]struct{}),
		parties: parties,
		log:     log.With(map[string]any{"component": "chat_hub"}),
	}
}

// Publish implementa Publisher.
func (h *Hub) Publish(ctx context.Context, matchID string, m Message) {
	data, err := json.Marshal(Event{Type: "message", MatchID: matchID, Message: toMessageResponse(m)})
	if err != nil {
		h.log.Error("marshal ws event", map[string]any{"error": err.Error()})
		return
	}

	h.mu.RLock()
	subs := make([]*client, 0, len(h.byMatch[matchID]))
	for c := range h.byMatch[matchID] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	for _, c := range subs {
		if h.parties != nil {
			if _, _, err := h.parties.AuthorizeParty(ctx, c.actor, matchID); err != nil {
				h.log.Info("ws client no longer a party, dropping", map[string]any{"match_id": matchID, "user_id": c.actor.ID, "error": err.Error()})
				h.unregister(c)
				continue
			}
		}
		if !h.deliver(c, data) {
			h.log.Warn("ws client too slow, dropping", map[string]any{"match_id": matchID, "user_id": c.actor.ID})
			h.unregister(c)
		}
	}
}

// deliver no bloquea. Con el RLock tomado, send no puede estar cerrado.
func (h *Hub) deliver(c *client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.byMatch[c.matchID][c]; !ok {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Connected cuenta los clientes de un match.
func (h *Hub) Connected(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byMatch[matchID])
}

// Serve hace el upgrade y suscribe la conexión. El caller ya autorizó.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, matchID string, actor auth.Principal) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió al cliente
		h.log.Warn("ws upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		matchID: matchID,
		actor:   actor,
	}
	h.register(c)

	go c.writePump()
	go c.readPump(h)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	set, ok := h.byMatch[c.matchID]
	if !ok {
		set = make(map[*client]struct{})
		h.byMatch[c.matchID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	observability.WSConnections.Inc()
	h.log.Debug("ws client connected", map[string]any{"match_id": c.matchID, "user_id": c.actor.ID})
}

// unregister es idempotente: solo el primer llamado cierra send.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	set, ok := h.byMatch[c.matchID]
	if ok {
		_, ok = set[c]
	}
	if ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byMatch, c.matchID)
		}
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		observability.WSConnections.Dec()
		h.log.Debug("ws client disconnected", map[string]any{"match_id": c.matchID, "user_id": c.actor.ID})
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump solo detecta desconexiones; los envíos van por POST /messages.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

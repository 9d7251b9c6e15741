package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/models"
)

// ticketTTL bounds how long a websocket ticket stays redeemable
const ticketTTL = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// BroadcastMessage is one event pushed to live feed subscribers
type BroadcastMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans report events out to connected websocket clients. Subscribers get
// a best-effort eventually consistent feed; a slow client is dropped rather
// than blocking the broadcast.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan BroadcastMessage
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

// NewHub creates an empty hub; call Run on its own goroutine
func NewHub() *Hub {
	return &Hub{
		clients:    map[*websocket.Conn]bool{},
		broadcast:  make(chan BroadcastMessage, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run processes hub events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case msg := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteJSON(msg); err != nil {
					zap.S().Debugw("dropping slow live client", "error", err)
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// BroadcastReport queues a report event for all subscribers without blocking
// the caller
func (h *Hub) BroadcastReport(eventType string, report models.Report) {
	msg := BroadcastMessage{Type: eventType, Data: report, Timestamp: time.Now()}
	select {
	case h.broadcast <- msg:
	default:
		// feed is best-effort; drop when the buffer is full
	}
}

// Live handles websocket live feed requests
type Live struct {
	Hub       *Hub
	JWTSecret string
}

// TicketHandler issues a short-lived ticket for the websocket handshake,
// since browser websocket clients cannot set an Authorization header
func (l Live) TicketHandler(w http.ResponseWriter, r *http.Request) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(ticketTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(l.JWTSecret))
	if err != nil {
		config.ErrorStatus("failed to sign ticket", http.StatusInternalServerError, w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"ticket": signed})
}

// LiveHandler validates the ticket and upgrades to a websocket subscription
func (l Live) LiveHandler(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	if ticket == "" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "ticket is required"}`))
		return
	}

	_, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		return []byte(l.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid ticket"}`))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	l.Hub.register <- conn

	// drain client frames so pings are handled; unregister on disconnect
	go func() {
		defer func() { l.Hub.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

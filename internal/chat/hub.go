package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
	"github.com/MarcoBenedictus/GameSuite/internal/repository"
)

var (
	writeWait      = 10 * time.Second
	maxMessageSize = int64(4096)
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

// Hub routes live support-chat traffic.  Regular users talk to the
// admin inbox; connected admins see every user message and can answer a
// specific user.  Every message is persisted before delivery, so the
// HTTP history endpoint and the live stream agree.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	deliver    chan outbound

	messages *repository.ChatRepo
}

// Client is one websocket connection attached to the hub.
type Client struct {
	Username string
	IsAdmin  bool
	Conn     *websocket.Conn
	Send     chan []byte
	hub      *Hub
}

type inbound struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

type outbound struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

func NewHub(messages *repository.ChatRepo) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan outbound, 64),
		messages:   messages,
	}
}

// Run owns the client set; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("chat: %s connected (%d online)", client.Username, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Printf("chat: %s disconnected", client.Username)
			}

		case msg := <-h.deliver:
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			for client := range h.clients {
				if !h.shouldReceive(client, msg) {
					continue
				}
				select {
				case client.Send <- payload:
				default:
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// shouldReceive: admins see everything addressed to the admin inbox,
// users see replies addressed to them.  Senders get their own echo.
func (h *Hub) shouldReceive(c *Client, msg outbound) bool {
	if c.Username == msg.From {
		return true
	}
	if c.IsAdmin && msg.To == model.RecipientAdmin {
		return true
	}
	return c.Username == msg.To
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil || in.Content == "" {
			continue
		}

		// Users can only write to the admin inbox; admins must name a user.
		to := in.To
		if !c.IsAdmin {
			to = model.RecipientAdmin
		} else if to == "" || to == model.RecipientAdmin {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		sender := c.Username
		if c.IsAdmin {
			sender = model.RecipientAdmin
		}
		_, err = c.hub.messages.Insert(ctx, sender, to, in.Content)
		cancel()
		if err != nil {
			log.Printf("chat: persist message failed: %v", err)
			continue
		}

		c.hub.deliver <- outbound{From: sender, To: to, Content: in.Content, SentAt: time.Now().UTC()}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches the caller to the hub.  The
// identity comes from the JWT middleware, never from the query string.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, username string, isAdmin bool) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		Username: username,
		IsAdmin:  isAdmin,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		hub:      h,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const adminChannel = "realtime:admin"

// Publisher broadcasts realtime events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type routed struct {
	topic   string
	payload []byte
}

// Hub manages realtime clients and fans events out to the clients of the
// event's topic. With Redis, events published on any instance reach clients
// connected to every instance.
type Hub struct {
	rdb        *redis.Client
	signer     *Signer
	register   chan *Client
	unregister chan *Client
	broadcast  chan routed
	clients    map[string]map[*Client]struct{}
	subReady   chan struct{}
	subOnce    sync.Once
}

// NewHub initializes a realtime hub. rdb may be nil for a single instance.
func NewHub(rdb *redis.Client) *Hub {
	h := &Hub{
		rdb:        rdb,
		signer:     SignerFromEnv(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan routed, 128),
		clients:    make(map[string]map[*Client]struct{}),
		subReady:   make(chan struct{}),
	}
	if rdb == nil {
		h.markSubReady()
	}
	return h
}

// Run starts the hub event loop.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeRedis(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			for topic, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, topic)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.topic]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.topic] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			h.drop(client)
		case msg := <-h.broadcast:
			for client := range h.clients[msg.topic] {
				select {
				case client.send <- msg.payload:
				default:
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	set, ok := h.clients[client.topic]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.topic)
	}
}

// Publish sends an event to the subscribers of its topic.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := event.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	wirePayload := payload
	if h.signer != nil {
		wirePayload, err = json.Marshal(signedMessage{
			Topic:   event.Topic,
			Payload: payload,
			Sig:     h.signer.Sign(event.Topic, payload),
		})
		if err != nil {
			return err
		}
	}
	if h.rdb != nil {
		if err := h.rdb.Publish(ctx, adminChannel, wirePayload).Err(); err != nil {
			h.enqueue(event.Topic, payload)
			return err
		}
		return nil
	}
	h.enqueue(event.Topic, payload)
	return nil
}

// PublishSession publishes an event to the tabs of one session.
func (h *Hub) PublishSession(ctx context.Context, sessionID, eventType string, data any) error {
	event := Event{Type: EventType(eventType), Topic: Topic(sessionID)}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("realtime: encode %s: %w", eventType, err)
		}
		event.Data = raw
	}
	return h.Publish(ctx, event)
}

func (h *Hub) enqueue(topic string, payload []byte) {
	select {
	case h.broadcast <- routed{topic: topic, payload: payload}:
	default:
	}
}

func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, adminChannel)
	defer func() {
		_ = pubsub.Close()
	}()
	_, err := pubsub.Receive(ctx)
	h.markSubReady()
	if err != nil {
		slog.Warn("realtime redis subscribe failed", "error", err)
		return
	}
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleRedisPayload([]byte(msg.Payload))
		}
	}
}

func (h *Hub) markSubReady() {
	h.subOnce.Do(func() {
		close(h.subReady)
	})
}

// WaitReady blocks until redis subscription is ready.
func (h *Hub) WaitReady(ctx context.Context) bool {
	select {
	case <-h.subReady:
		return true
	case <-ctx.Done():
		return false
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

type signedMessage struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
	Sig     string          `json:"sig"`
}

func (h *Hub) handleRedisPayload(payload []byte) {
	if len(payload) == 0 {
		return
	}
	if h.signer == nil {
		h.handlePayload(payload, "")
		return
	}
	var signed signedMessage
	if err := json.Unmarshal(payload, &signed); err != nil {
		return
	}
	if len(signed.Payload) == 0 || strings.TrimSpace(signed.Sig) == "" {
		return
	}
	if !h.signer.Verify(signed.Topic, signed.Payload, signed.Sig) {
		slog.Warn("realtime payload signature rejected")
		return
	}
	h.handlePayload(signed.Payload, signed.Topic)
}

// handlePayload routes a decoded event. A non-empty signedTopic must match
// the event's own topic.
func (h *Hub) handlePayload(payload []byte, signedTopic string) {
	if len(payload) > maxPayloadBytes {
		return
	}
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return
	}
	if err := event.Validate(); err != nil {
		return
	}
	if signedTopic != "" && signedTopic != event.Topic {
		slog.Warn("realtime payload topic mismatch")
		return
	}
	h.enqueue(event.Topic, payload)
}

// Client represents a websocket connection of one session.
type Client struct {
	ID    string
	hub   *Hub
	conn  *websocket.Conn
	topic string
	send  chan []byte
	close func()
}

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 512
	maxPayloadBytes = 64 << 10
)

// NewClient builds a client receiving the events of sessionID.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, onClose func()) *Client {
	return &Client{
		ID:    uuid.NewString(),
		hub:   hub,
		conn:  conn,
		topic: Topic(sessionID),
		send:  make(chan []byte, 16),
		close: onClose,
	}
}

// Run registers the client and pumps messages.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()
	c.readPump()
}

// SendChan exposes the outbound messages channel.
func (c *Client) SendChan() <-chan []byte {
	return c.send
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
		if c.close != nil {
			c.close()
		}
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
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

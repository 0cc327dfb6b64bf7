package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"trifoody/internal/domain/entity"
	"trifoody/pkg/errors"
)

const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeSubscribed  = "subscribed"
	MessageTypeFeed        = "feed"
	MessageTypeFeedError   = "feed_error"
	MessageTypeError       = "error"
)

type WSMessage struct {
	Type      string          `json:"type"`
	Feed      entity.FeedKind `json:"feed,omitempty"`
	Data      interface{}     `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleClientMessage processes one message read from client.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var msg WSMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		client.sendError(errors.CodeBadRequest, "Invalid message format")
		return
	}

	switch msg.Type {
	case MessageTypePing:
		client.sendMessage(WSMessage{Type: MessageTypePong, Data: map[string]string{"status": "alive"}})

	case MessageTypeSubscribe:
		m.subscribe(client, msg.Feed)

	case MessageTypeUnsubscribe:
		client.unsubscribe(msg.Feed)

	default:
		log.Printf("WebSocket: unknown message type '%s' from client %s", msg.Type, client.ID)
		client.sendError(errors.CodeBadRequest, "Unknown message type")
	}
}

func (m *Manager) subscribe(client *Client, kind entity.FeedKind) {
	if kind != entity.FeedTrading && kind != entity.FeedBrowse {
		client.sendError(errors.CodeBadRequest, "Feed must be trading or browse")
		return
	}

	client.mu.Lock()
	if client.closed {
		client.mu.Unlock()
		return
	}
	if cancel, ok := client.subs[kind]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(client.ctx)
	client.subs[kind] = cancel
	client.mu.Unlock()

	// Feed updates wait until the subscribed ack is queued.
	ready := make(chan struct{})
	err := m.feeds.Subscribe(ctx, client.UserID, kind, func(view entity.FeedView) {
		select {
		case <-ready:
		case <-ctx.Done():
			return
		}
		msgType := MessageTypeFeed
		if view.Stale {
			msgType = MessageTypeFeedError
		}
		client.sendMessage(WSMessage{Type: msgType, Feed: kind, Data: view})
	})
	if err != nil {
		cancel()
		client.mu.Lock()
		delete(client.subs, kind)
		client.mu.Unlock()
		client.sendError(errors.CodeOf(err), err.Error())
		return
	}

	client.sendMessage(WSMessage{Type: MessageTypeSubscribed, Feed: kind})
	close(ready)
}

func (c *Client) unsubscribe(kind entity.FeedKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cancel, ok := c.subs[kind]; ok {
		cancel()
		delete(c.subs, kind)
	}
}

// Subscriptions lists the feeds the client currently follows.
func (c *Client) Subscriptions() []entity.FeedKind {
	c.mu.Lock()
	defer c.mu.Unlock()

	kinds := make([]entity.FeedKind, 0, len(c.subs))
	for k := range c.subs {
		kinds = append(kinds, k)
	}
	return kinds
}

func (c *Client) sendMessage(msg WSMessage) {
	msg.Timestamp = time.Now().Format(time.RFC3339)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("WebSocket: failed to marshal %s message: %v", msg.Type, err)
		return
	}
	c.enqueue(data)
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(WSMessage{Type: MessageTypeError, Data: ErrorData{Code: code, Message: message}})
}

package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"metrotram/backend/services/tram-bot/internal/http/handlers"
	"metrotram/backend/services/tram-bot/internal/locale"
	"metrotram/backend/services/tram-bot/internal/models"
)

// PanelSource fetches a fresh panel board.
type PanelSource interface {
	Panels(ctx context.Context, line, stop models.ID, loc locale.Locale) (models.PanelBoard, error)
}

// Subscription is the stop a client is watching.
type Subscription struct {
	Line   models.ID
	Stop   models.ID
	Locale locale.Locale
}

type errorFrame struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Connection is one live board subscriber. Only writePump writes to the socket.
type Connection struct {
	id           string
	sub          Subscription
	ws           *websocket.Conn
	source       PanelSource
	send         chan []byte
	refresh      chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
	logger       *zap.Logger
	writeTimeout time.Duration
	pingInterval time.Duration
	onClose      func(id string)
}

// NewConnection builds connection wrapper.
func NewConnection(id string, sub Subscription, ws *websocket.Conn, source PanelSource, writeTimeout, pingInterval time.Duration, logger *zap.Logger, onClose func(string)) *Connection {
	return &Connection{
		id:           id,
		sub:          sub,
		ws:           ws,
		source:       source,
		send:         make(chan []byte, 16),
		refresh:      make(chan struct{}, 1),
		done:         make(chan struct{}),
		logger:       logger.With(zap.String("subscriber_id", id)),
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		onClose:      onClose,
	}
}

// ID returns subscriber identifier.
func (c *Connection) ID() string {
	return c.id
}

// Start pushes the first board and runs the pumps until the client goes away.
func (c *Connection) Start(ctx context.Context) {
	go c.writePump(ctx)
	go c.feedPump(ctx)
	c.Refresh()
	c.readPump(ctx)
}

// Refresh schedules a re-fetch; a pending one absorbs the request.
func (c *Connection) Refresh() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Send enqueues a message for writing.
func (c *Connection) Send(msg []byte) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		c.logger.Warn("dropping outgoing message, buffer full")
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
		if c.onClose != nil {
			c.onClose(c.id)
		}
	})
}

// readPump discards client frames; any message forces a refresh.
func (c *Connection) readPump(ctx context.Context) {
	defer c.Close()
	pongWait := 2 * c.pingInterval
	c.ws.SetReadLimit(4096)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.logger.Info("subscriber read closed", zap.Error(err))
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		c.Refresh()
	}
}

func (c *Connection) feedPump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-c.refresh:
			c.Send(c.render(ctx))
		}
	}
}

func (c *Connection) render(ctx context.Context) []byte {
	board, err := c.source.Panels(ctx, c.sub.Line, c.sub.Stop, c.sub.Locale)
	var payload interface{} = board
	if err != nil {
		_, code := handlers.ErrorCode(err)
		c.logger.Warn("live board refresh failed", zap.String("code", code), zap.Error(err))
		payload = errorFrame{Error: err.Error(), Code: code}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("encode live board", zap.Error(err))
		data, _ = json.Marshal(errorFrame{Error: err.Error(), Code: "internal_error"})
	}
	return data
}

func (c *Connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, []byte("ping")); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

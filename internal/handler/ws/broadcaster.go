package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	"SignalPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Broadcaster pushes every accepted decision to connected websocket
// consumers. It implements the Publisher interface so the evaluator
// treats it like any other egress.
type Broadcaster struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewBroadcaster(log *logger.Logger) *Broadcaster {
	return &Broadcaster{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handle upgrades the request and keeps the connection until the peer
// goes away.
func (b *Broadcaster) Handle(c echo.Context) error {
	conn, err := b.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return conn.Close()
	}
	b.clients[cl] = struct{}{}
	b.mu.Unlock()

	go b.writeLoop(cl)
	b.readLoop(cl)
	return nil
}

// Publish broadcasts the decision to every connected client. A client
// whose buffer is full is dropped rather than blocking the pipeline.
func (b *Broadcaster) Publish(_ context.Context, d *models.SignalDecision) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}

	b.mu.Lock()
	for cl := range b.clients {
		select {
		case cl.send <- payload:
		default:
			delete(b.clients, cl)
			close(cl.send)
		}
	}
	b.mu.Unlock()
	return nil
}

func (b *Broadcaster) Close() error {
	b.mu.Lock()
	b.closed = true
	for cl := range b.clients {
		close(cl.send)
		delete(b.clients, cl)
	}
	b.mu.Unlock()
	return nil
}

func (b *Broadcaster) writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			if !ok {
				_ = cl.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains inbound frames; the stream is one-way, but reading is
// required for close/ping handling.
func (b *Broadcaster) readLoop(cl *client) {
	defer func() {
		b.mu.Lock()
		if _, ok := b.clients[cl]; ok {
			delete(b.clients, cl)
			close(cl.send)
		}
		b.mu.Unlock()
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if b.log != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.log.Debug("websocket client closed", logger.Error(err))
			}
			return
		}
	}
}

var _ domrepo.Publisher = (*Broadcaster)(nil)

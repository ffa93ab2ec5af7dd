package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seedroom-project/backend/internal/cctx"
	"github.com/seedroom-project/backend/internal/relay"
	"github.com/seedroom-project/backend/internal/router"
)

var _ router.Controller = (*RelayController)(nil)

var (
	wsPool = new(sync.Pool)
)

// RelayController owns the real-time event surface: it upgrades connections,
// assigns session identifiers and feeds inbound events into the dispatcher.
type RelayController struct {
	Dispatcher *relay.Dispatcher

	upgrader *websocket.Upgrader
}

func (c *RelayController) handleRelay(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Error("failed to upgrade connection", zap.Error(err))
		return
	}

	sid := uuid.New().String()
	ctx := cctx.WithValues(r.Context(), cctx.SessionID, sid)

	client := newWSClient(conn, sid)
	c.Dispatcher.Connect(client)

	c.readLoop(ctx, client)

	c.Dispatcher.Disconnect(client)
	_ = conn.Close()
}

func (c *RelayController) readLoop(ctx context.Context, client *wsClient) {
	for {
		var ev relay.Event
		if err := client.conn.ReadJSON(&ev); err != nil {
			zap.L().Debug("relay read ended",
				zap.String("session_id", cctx.StringValue(ctx, cctx.SessionID)),
				zap.Error(err))
			return
		}
		c.dispatch(ctx, client, ev)
	}
}

// dispatch routes one inbound event. Panics are contained here so a single
// malformed event can never take the relay process down.
func (c *RelayController) dispatch(ctx context.Context, client *wsClient, ev relay.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("panic while handling event",
				zap.String("session_id", cctx.StringValue(ctx, cctx.SessionID)),
				zap.String("event", ev.Type),
				zap.Any("panic", rec))
			_ = client.Send(relay.Event{
				Type:    relay.EventError,
				Payload: relay.ErrorPayload{Message: "internal error"},
			})
		}
	}()

	switch ev.Type {
	case relay.EventJoinRoom:
		var p relay.JoinPayload
		if decodePayload(ev.Payload, &p) == nil {
			c.Dispatcher.Join(client, p)
		}
	case relay.EventSendMessage:
		var p relay.SendPayload
		if decodePayload(ev.Payload, &p) == nil {
			c.Dispatcher.Send(client, p)
		}
	case relay.EventLeaveRoom:
		var p relay.JoinPayload
		if decodePayload(ev.Payload, &p) == nil {
			c.Dispatcher.Leave(client, p)
		}
	default:
		// ignore
	}
}

func (c *RelayController) Register(router *mux.Router) {
	c.upgrader = &websocket.Upgrader{
		HandshakeTimeout:  10 * time.Second,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		WriteBufferPool:   wsPool,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			// Room identifiers are the only admission barrier; origins are open.
			return true
		},
	}

	router.HandleFunc("/relay/ws", c.handleRelay).Methods(http.MethodGet)
}

func decodePayload(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// wsClient adapts a websocket connection to the dispatcher's Client
// interface, serializing concurrent writes.
type wsClient struct {
	conn *websocket.Conn
	sid  string

	writeMu sync.Mutex
}

func newWSClient(conn *websocket.Conn, sid string) *wsClient {
	return &wsClient{conn: conn, sid: sid}
}

func (c *wsClient) SessionID() string { return c.sid }

func (c *wsClient) Send(ev relay.Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(ev)
}

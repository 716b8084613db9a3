package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/events"
	"github.com/ckgxrg/dwsh/logger"
)

const wsWriteWait = 5 * time.Second

// Origin checks are left to the CORS configuration and the loopback bind.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsSink writes one JSON object per text frame and pings on heartbeat.
type wsSink struct {
	conn *websocket.Conn
}

func (s wsSink) send(e events.Event) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(e)
}

func (s wsSink) heartbeat() error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// wsHandler streams the same events as /events over a WebSocket. It accepts
// the same query parameters; keepalive sets the ping period.
func wsHandler(b *backend.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseStreamOptions(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied to the client.
			logger.Warn("[ws] upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		gone := make(chan struct{})
		go wsReadLoop(conn, gone, 2*opts.keepAlive)

		stream(r.Context(), b, opts, wsSink{conn: conn}, gone)

		if r.Context().Err() != nil {
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait),
			)
		}
	}
}

// wsReadLoop drains client frames so control frames are processed, and
// closes gone when the peer goes away. A peer that misses two pings in a row
// is considered gone.
func wsReadLoop(conn *websocket.Conn, gone chan<- struct{}, pongWait time.Duration) {
	defer close(gone)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("[ws] client read error: %v", err)
			}
			return
		}
	}
}

// Package ws serves the gorilla/websocket connection that carries the
// protocol.Envelope traffic described in §5. Grounded on
// other_examples/403417d5_block52-pokerchain__cmd-ws-server-main.go.go's
// Client readPump/writePump pair: one goroutine owns the connection for
// reads, another for writes, and the outbound side is a buffered channel
// drained with ping keepalive so a slow client never blocks the server.
// Identity binding (player ID) comes from pkg/session.Registry instead of
// a per-message signature, since auth/signing is out of scope (§9).
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gbridge/server/pkg/protocol"
	"github.com/gbridge/server/pkg/router"
	"github.com/gbridge/server/pkg/session"
)

const (
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server upgrades incoming HTTP requests to websocket connections, binds
// each to a player identity via sessions, and hands decoded messages to
// router for dispatch.
type Server struct {
	sessions *session.Registry
	router   *router.Router
	log      slog.Logger
}

// NewServer builds a websocket connection handler.
func NewServer(sessions *session.Registry, rt *router.Router, log slog.Logger) *Server {
	return &Server{sessions: sessions, router: rt, log: log}
}

// ServeHTTP upgrades the connection and binds it to the player ID given in
// the player_id query parameter, or to a fresh UUID when none is given. No
// token is checked: the handshake accepts any caller and any claimed ID.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("ws: upgrade failed: %v", err)
		return
	}

	playerID := playerIDFromRequest(r)
	out := s.sessions.Register(playerID)

	go s.writePump(conn, out)
	s.readPump(conn, playerID)
}

func playerIDFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get("player_id"); id != "" {
		return id
	}
	return uuid.NewString()
}

func (s *Server) readPump(conn *websocket.Conn, playerID string) {
	defer func() {
		s.sessions.MarkInactive(playerID)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		s.sessions.Touch(playerID)
		return nil
	})

	s.router.SendTo(playerID, string(protocol.TypeConnected), protocol.ConnectedPayload{PlayerID: playerID})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Debugf("ws: read error for %s: %v", playerID, err)
			}
			return
		}
		s.sessions.Touch(playerID)

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.log.Debugf("ws: malformed envelope from %s: %v", playerID, err)
			continue
		}
		s.router.Route(playerID, env)
	}
}

func (s *Server) writePump(conn *websocket.Conn, out <-chan []byte) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-out:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

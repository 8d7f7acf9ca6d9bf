package web

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/autsoft/hwsw-jobs/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWs upgrades the request and registers the connection with the hub.
// With sessions set the connection also gets its own screen session; without
// it only receives broadcasts.
func ServeWs(hub *Hub, sessions *Sessions, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := newClient(hub, conn)
	hub.register <- client

	go client.writePump()

	if sessions == nil {
		go client.readPump(nil)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := sessions.Open(ctx, client.trySend)
	go func() {
		defer cancel()
		client.readPump(session.Handle)
	}()
}
